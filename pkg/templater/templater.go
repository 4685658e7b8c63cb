package templater

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
)

// Templater renders the files created by the scaffolding commands from a
// box of templates
type Templater struct {
	box     packr.Box
	helpers template.FuncMap
}

func New(box packr.Box, helpers template.FuncMap) *Templater {
	fm := Helpers()

	for k, v := range helpers {
		fm[k] = v
	}

	return &Templater{
		box:     box,
		helpers: fm,
	}
}

// Helpers are available in every template
func Helpers() template.FuncMap {
	return template.FuncMap{
		"append": func(first string, rest []string) []string {
			return append([]string{first}, rest...)
		},
		"json": func(v interface{}) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
		"prefix": strings.HasPrefix,
	}
}

func (t *Templater) Has(name string) bool {
	return t.box.Has(name)
}

// Render executes the template name. Partials are parsed in the same set so
// that name can reference the templates they define.
func (t *Templater) Render(name string, params interface{}, partials ...string) ([]byte, error) {
	ts := template.New(name).Funcs(t.helpers)

	for _, n := range append([]string{name}, partials...) {
		tdata, err := t.box.FindString(n)
		if err != nil {
			return nil, errors.Wrapf(err, "template %s", n)
		}

		if _, err := ts.New(n).Parse(tdata); err != nil {
			return nil, errors.Wrapf(err, "template %s", n)
		}
	}

	var buf bytes.Buffer

	if err := ts.ExecuteTemplate(&buf, name, params); err != nil {
		return nil, errors.Wrapf(err, "template %s", name)
	}

	return buf.Bytes(), nil
}

// Write renders a template to path, creating its directory. Documents
// ending in .json are reindented. An existing file is never replaced.
func (t *Templater) Write(path, name string, params interface{}, partials ...string) error {
	data, err := t.Render(name, params, partials...)
	if err != nil {
		return err
	}

	if filepath.Ext(path) == ".json" {
		var buf bytes.Buffer

		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return errors.Wrapf(err, "template %s does not render a json document", name)
		}

		buf.WriteString("\n")
		data = buf.Bytes()
	}

	return Create(path, data)
}

// Create writes a new file, failing when it already exists
func Create(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithStack(err)
	}

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return errors.Errorf("%s already exists", path)
	}
	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := fd.Write(data); err != nil {
		fd.Close()
		return errors.WithStack(err)
	}

	return errors.WithStack(fd.Close())
}
