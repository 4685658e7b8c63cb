package packager

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
	"github.com/pkg/errors"
)

const IgnoreFile = ".myrmexignore"

// epoch is the modification time of every archived file so that the same
// content always yields the same archive
var epoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Zip archives the content of dir. Paths matching patterns or the
// .myrmexignore files found in the tree are left out.
func Zip(dir string, patterns []string) ([]byte, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ignore, err := readIgnoreRecursive(abs)
	if err != nil {
		return nil, err
	}

	pm, err := patternmatcher.New(append(append([]string{}, patterns...), ignore...))
	if err != nil {
		return nil, errors.Wrap(err, "invalid ignore pattern")
	}

	files := []string{}

	err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}

		match, err := pm.MatchesOrParentMatches(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		if match {
			if info.IsDir() && !pm.Exclusions() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode().IsRegular() {
			files = append(files, rel)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", dir)
	}

	sort.Strings(files)

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for _, rel := range files {
		if err := addFile(zw, abs, rel); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	return buf.Bytes(), nil
}

func addFile(zw *zip.Writer, root, rel string) error {
	path := filepath.Join(root, rel)

	info, err := os.Stat(path)
	if err != nil {
		return errors.WithStack(err)
	}

	h, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.WithStack(err)
	}

	h.Name = filepath.ToSlash(rel)
	h.Method = zip.Deflate
	h.Modified = epoch

	w, err := zw.CreateHeader(h)
	if err != nil {
		return errors.WithStack(err)
	}

	fd, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer fd.Close()

	if _, err := io.Copy(w, fd); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func readIgnoreRecursive(root string) ([]string, error) {
	ignore := []string{"**/" + IgnoreFile}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || info.Name() != IgnoreFile {
			return nil
		}

		lines, err := readIgnore(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}

		for _, line := range lines {
			if len(line) > 0 && line[0] == '!' {
				ignore = append(ignore, "!"+filepath.ToSlash(filepath.Join(rel, line[1:])))
				continue
			}
			ignore = append(ignore, filepath.ToSlash(filepath.Join(rel, line)))
		}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return ignore, nil
}

func readIgnore(file string) ([]string, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	lines, err := ignorefile.ReadAll(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ignore file %s", file)
	}

	return lines, nil
}

// Sha256 returns the base64 encoded sha256 of an archive, the format in
// which the function service reports code hashes
func Sha256(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}
