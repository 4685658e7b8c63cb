package apigateway

import (
	"strings"

	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
)

// HTTPMethods are the names of the directories holding endpoint
// specifications
var HTTPMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS", "ANY"}

const (
	integrationKey = "x-amazon-apigateway-integration"
	authKey        = "x-amazon-apigateway-auth"
	definitionRef  = "#/definitions/"
)

// Endpoint is an operation of a resource path
type Endpoint struct {
	ResourcePath string
	Method       string
	Spec         map[string]interface{}
}

func NewEndpoint(resourcePath, method string, spec map[string]interface{}) *Endpoint {
	if resourcePath == "" {
		resourcePath = "/"
	}

	if spec == nil {
		spec = map[string]interface{}{}
	}

	return &Endpoint{ResourcePath: resourcePath, Method: strings.ToUpper(method), Spec: spec}
}

func (e *Endpoint) String() string {
	return "Endpoint " + e.Method + " " + e.ResourcePath
}

// Operation is the key of the endpoint under its path item: "x-amazon-apigateway-any-method"
// for ANY, the lower cased method otherwise
func (e *Endpoint) Operation() string {
	if e.Method == "ANY" {
		return "x-amazon-apigateway-any-method"
	}
	return strings.ToLower(e.Method)
}

// Metadata returns the x-myrmex value at key
func (e *Endpoint) Metadata(key string) interface{} {
	return config.Tree(e.Spec).Get(Extension + "." + key)
}

// Integration returns the integration block of the specification, creating
// it when missing
func (e *Endpoint) Integration() map[string]interface{} {
	i, ok := e.Spec[integrationKey].(map[string]interface{})
	if !ok {
		i = map[string]interface{}{}
		e.Spec[integrationKey] = i
	}
	return i
}

// ReferencedModels lists the names of the models used by responses and
// parameters
func (e *Endpoint) ReferencedModels() []string {
	refs := []string{}

	add := func(v interface{}) {
		ref := config.Tree(asMap(v)).String("schema.$ref")
		if ref != "" {
			refs = append(refs, strings.TrimPrefix(ref, definitionRef))
		}
	}

	for _, r := range asMap(e.Spec["responses"]) {
		add(r)
	}

	if ps, ok := e.Spec["parameters"].([]interface{}); ok {
		for _, p := range ps {
			add(p)
		}
	}

	return unique(refs)
}

// GenerateSpec returns a copy of the specification cleaned for its target
func (e *Endpoint) GenerateSpec(kind string) (map[string]interface{}, error) {
	spec := map[string]interface{}{}

	if err := pipeline.Convert(e.Spec, &spec); err != nil {
		return nil, err
	}

	switch kind {
	case SpecAPIGateway:
		delete(spec, Extension)
	case SpecDoc:
		delete(spec, Extension)
		delete(spec, authKey)
		delete(spec, integrationKey)
	}

	return spec, nil
}

func isHTTPMethod(name string) bool {
	for _, m := range HTTPMethods {
		if m == name {
			return true
		}
	}
	return false
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func unique(ss []string) []string {
	seen := map[string]bool{}
	us := []string{}

	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			us = append(us, s)
		}
	}

	return us
}
