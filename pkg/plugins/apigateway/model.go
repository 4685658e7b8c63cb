package apigateway

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Model is a JSON schema of api-gateway/models/<name>.json
type Model struct {
	Name string
	Spec map[string]interface{}
}

func NewModel(name string, spec map[string]interface{}) *Model {
	if spec == nil {
		spec = map[string]interface{}{}
	}
	return &Model{Name: name, Spec: spec}
}

func (m *Model) String() string {
	return "Model " + m.Name
}

// SpecName is the name of the model in the definitions of an api:
// user-profile becomes UserProfile
func (m *Model) SpecName() string {
	words := strings.FieldsFunc(m.Name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}

	return strings.Join(words, "")
}

// Children lists the names of the models referenced by the properties
func (m *Model) Children() []string {
	refs := []string{}

	for _, p := range asMap(m.Spec["properties"]) {
		pm := asMap(p)

		if ref, ok := pm["$ref"].(string); ok {
			refs = append(refs, strings.TrimPrefix(ref, definitionRef))
		}

		if ref, ok := asMap(pm["items"])["$ref"].(string); ok {
			refs = append(refs, strings.TrimPrefix(ref, definitionRef))
		}
	}

	return unique(refs)
}

// Models indexes the models of a project by file and specification names
type Models []*Model

// Find looks a model up by name
func (ms Models) Find(name string) (*Model, error) {
	for _, m := range ms {
		if m.Name == name || m.SpecName() == name {
			return m, nil
		}
	}

	return nil, errors.Errorf("could not find the model %q in the current project", name)
}

// Resolve returns the named models followed by every model they nest,
// each one once
func (ms Models) Resolve(names []string) ([]*Model, error) {
	seen := map[string]bool{}
	res := []*Model{}

	var walk func(names []string) error

	walk = func(names []string) error {
		for _, name := range names {
			m, err := ms.Find(name)
			if err != nil {
				return err
			}

			if seen[m.Name] {
				continue
			}

			seen[m.Name] = true
			res = append(res, m)

			if err := walk(m.Children()); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(names); err != nil {
		return nil, err
	}

	return res, nil
}
