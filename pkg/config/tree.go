package config

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/pkg/errors"
)

// Tree is a nested configuration document
type Tree map[string]interface{}

// Get resolves a dotted key path. An empty key returns the whole tree. A
// missing segment anywhere in the path yields nil.
func (t Tree) Get(key string) interface{} {
	if key == "" {
		return t
	}

	parts := strings.Split(key, ".")

	var cur interface{} = map[string]interface{}(t)

	for _, part := range parts {
		m, ok := asMap(cur)
		if !ok {
			return nil
		}

		v, ok := m[part]
		if !ok {
			return nil
		}

		cur = v
	}

	return cur
}

// Lookup is Get with a presence flag
func (t Tree) Lookup(key string) (interface{}, bool) {
	v := t.Get(key)
	return v, v != nil
}

func (t Tree) String(key string) string {
	switch v := t.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (t Tree) Bool(key string) bool {
	switch v := t.Get(key).(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// Map returns the sub tree at key, or nil
func (t Tree) Map(key string) map[string]interface{} {
	m, _ := asMap(t.Get(key))
	return m
}

// Set assigns a value at a dotted key path, creating intermediate maps and
// replacing scalars that stand in the way
func (t Tree) Set(key string, value interface{}) {
	parts := strings.Split(key, ".")

	cur := map[string]interface{}(t)

	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}

	cur[parts[len(parts)-1]] = value
}

// Merge deep merges src into the tree, src wins on conflicts
func (t Tree) Merge(src map[string]interface{}) error {
	dst := map[string]interface{}(t)

	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case Tree:
		return map[string]interface{}(t), true
	case map[string]interface{}:
		return t, true
	default:
		return nil, false
	}
}

// Normalize converts yaml.v2 documents (map[interface{}]interface{}) into
// string keyed maps recursively
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := map[string]interface{}{}
		for k, v := range t {
			m[fmt.Sprintf("%v", k)] = Normalize(v)
		}
		return m
	case map[string]interface{}:
		m := map[string]interface{}{}
		for k, v := range t {
			m[k] = Normalize(v)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, v := range t {
			s[i] = Normalize(v)
		}
		return s
	default:
		return v
	}
}
