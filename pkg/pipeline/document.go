package pipeline

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var documentExts = map[string]bool{".json": true, ".yml": true, ".yaml": true}

// IsDocument returns true for JSON and YAML file names
func IsDocument(name string) bool {
	return documentExts[filepath.Ext(name)]
}

// DocumentName strips the extension of a document file name
func DocumentName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FindDocument returns the first existing document named base in dir,
// whatever its extension
func FindDocument(dir, base string) (string, bool) {
	for _, ext := range []string{".json", ".yml", ".yaml"} {
		path := filepath.Join(dir, base+ext)
		if fileExists(path) {
			return path, true
		}
	}

	return "", false
}

// Convert decodes a generic document into a typed one
func Convert(doc interface{}, v interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func Elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
