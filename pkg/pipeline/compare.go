package pipeline

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

// Canonical returns the compact JSON of a document with sorted keys
func Canonical(doc interface{}) ([]byte, error) {
	v, err := generic(doc)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// Equivalent compares two documents after a JSON round trip so that
// structs, maps and raw JSON compare by content
func Equivalent(a, b interface{}) (bool, error) {
	va, err := generic(a)
	if err != nil {
		return false, err
	}

	vb, err := generic(b)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(va, vb), nil
}

func generic(doc interface{}) (interface{}, error) {
	var data []byte

	switch t := doc.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	case json.RawMessage:
		data = t
	default:
		d, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		data = d
	}

	var v interface{}

	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "invalid json document")
	}

	return v, nil
}
