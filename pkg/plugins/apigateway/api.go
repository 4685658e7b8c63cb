package apigateway

import (
	"sort"

	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
)

const (
	SpecAPIGateway = "api-gateway"
	SpecDoc        = "doc"
	SpecComplete   = "complete"
)

// Extension is the key of the myrmex metadata in specifications
const Extension = "x-myrmex"

// Api is an OpenAPI document living in api-gateway/apis/<identifier>/spec.json
type Api struct {
	Identifier string
	Spec       map[string]interface{}
	Endpoints  []*Endpoint
	Models     []*Model
}

func NewApi(identifier string, spec map[string]interface{}) *Api {
	if spec == nil {
		spec = map[string]interface{}{}
	}

	if _, ok := spec[Extension].(map[string]interface{}); !ok {
		spec[Extension] = map[string]interface{}{}
	}

	return &Api{Identifier: identifier, Spec: spec}
}

func (a *Api) String() string {
	return "API " + a.Identifier
}

// Title is the info.title of the specification
func (a *Api) Title() string {
	return config.Tree(a.Spec).String("info.title")
}

// Exposes returns true when the endpoint declares the api in x-myrmex.apis
func (a *Api) Exposes(e *Endpoint) bool {
	apis, ok := config.Tree(e.Spec).Get(Extension + ".apis").([]interface{})
	if !ok {
		return false
	}

	for _, id := range apis {
		if id == a.Identifier {
			return true
		}
	}

	return false
}

// Attach adds an endpoint without firing any event
func (a *Api) Attach(e *Endpoint) {
	a.Endpoints = append(a.Endpoints, e)
}

func (a *Api) addModels(ms ...*Model) {
	for _, m := range ms {
		if a.model(m.Name) == nil {
			a.Models = append(a.Models, m)
		}
	}
}

func (a *Api) model(name string) *Model {
	for _, m := range a.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Endpoint returns the attached endpoint for a resource path and method
func (a *Api) Endpoint(resourcePath, method string) *Endpoint {
	for _, e := range a.Endpoints {
		if e.ResourcePath == resourcePath && e.Method == method {
			return e
		}
	}
	return nil
}

// ResourcePaths lists the distinct resource paths of the attached endpoints
func (a *Api) ResourcePaths() []string {
	seen := map[string]bool{}
	rps := []string{}

	for _, e := range a.Endpoints {
		if !seen[e.ResourcePath] {
			seen[e.ResourcePath] = true
			rps = append(rps, e.ResourcePath)
		}
	}

	sort.Strings(rps)

	return rps
}

// GenerateSpec builds the full OpenAPI document of the api. The api-gateway
// variant is the one imported in API Gateway, its title carries the
// environment and identifier used to find it again; the doc variant drops
// everything specific to myrmex and API Gateway.
func (a *Api) GenerateSpec(kind string, pc *pipeline.Context) (map[string]interface{}, error) {
	spec := map[string]interface{}{}

	if err := pipeline.Convert(a.Spec, &spec); err != nil {
		return nil, err
	}

	paths := config.Tree{}

	if p, ok := spec["paths"].(map[string]interface{}); ok {
		paths = config.Tree(p)
	}

	for _, e := range a.Endpoints {
		es, err := e.GenerateSpec(kind)
		if err != nil {
			return nil, err
		}

		err = paths.Merge(map[string]interface{}{
			e.ResourcePath: map[string]interface{}{e.Operation(): es},
		})
		if err != nil {
			return nil, err
		}
	}

	spec["paths"] = map[string]interface{}(paths)

	definitions, ok := spec["definitions"].(map[string]interface{})
	if !ok {
		definitions = map[string]interface{}{}
	}

	for _, m := range a.Models {
		var ms map[string]interface{}

		if err := pipeline.Convert(m.Spec, &ms); err != nil {
			return nil, err
		}

		definitions[m.SpecName()] = ms
	}

	if len(definitions) > 0 {
		spec["definitions"] = definitions
	}

	switch kind {
	case SpecAPIGateway:
		if pc != nil {
			config.Tree(spec).Set("info.title", a.identification(pc.Environment)+a.Title())
		}
		cleanForAPIGateway(spec)
	case SpecDoc:
		cleanForDoc(spec)
	}

	return spec, nil
}

// identification is the prefix of the api name in API Gateway
func (a *Api) identification(environment string) string {
	return environment + " " + a.Identifier + " - "
}

func cleanForAPIGateway(spec map[string]interface{}) {
	delete(spec, Extension)

	definitions, _ := spec["definitions"].(map[string]interface{})

	for _, d := range definitions {
		dm, ok := d.(map[string]interface{})
		if !ok {
			continue
		}

		delete(dm, "example")

		props, _ := dm["properties"].(map[string]interface{})

		for _, p := range props {
			if pm, ok := p.(map[string]interface{}); ok {
				delete(pm, "example")
			}
		}
	}
}

func cleanForDoc(spec map[string]interface{}) {
	delete(spec, Extension)

	paths, _ := spec["paths"].(map[string]interface{})

	for _, p := range paths {
		if pm, ok := p.(map[string]interface{}); ok {
			delete(pm, "options")
		}
	}
}
