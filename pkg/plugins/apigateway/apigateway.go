package apigateway

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/convox/logger"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

const (
	Name    = "api-gateway"
	Version = "1.0.0"
)

const (
	EventBeforeApiLoad                       events.Event = "beforeApiLoad"
	EventAfterApiLoad                        events.Event = "afterApiLoad"
	EventBeforeEndpointLoad                  events.Event = "beforeEndpointLoad"
	EventAfterEndpointLoad                   events.Event = "afterEndpointLoad"
	EventBeforeModelLoad                     events.Event = "beforeModelLoad"
	EventAfterModelLoad                      events.Event = "afterModelLoad"
	EventBeforeAddEndpointsToApis            events.Event = "beforeAddEndpointsToApis"
	EventAfterAddEndpointsToApis             events.Event = "afterAddEndpointsToApis"
	EventBeforeAddEndpointToApi              events.Event = "beforeAddEndpointToApi"
	EventAfterAddEndpointToApi               events.Event = "afterAddEndpointToApi"
	EventAfterAddEndpointsToApi              events.Event = "afterAddEndpointsToApi"
	EventLoadIntegrations                    events.Event = "loadIntegrations"
	EventBeforeAddIntegrationDataToEndpoints events.Event = "beforeAddIntegrationDataToEndpoints"
	EventAfterAddIntegrationDataToEndpoints  events.Event = "afterAddIntegrationDataToEndpoints"
	EventBeforePublishApi                    events.Event = "beforePublishApi"
	EventAfterPublishApi                     events.Event = "afterPublishApi"
)

// IntegrationTemplate is the request template file of an endpoint
const IntegrationTemplate = "integration.vm"

func init() {
	myrmex.Register("@myrmex/api-gateway", func() (*myrmex.Plugin, error) {
		return New(provider.Default.Get).Plugin(), nil
	})
}

type Providers func(region string) (*provider.Provider, error)

type APIGateway struct {
	providers Providers
	plugin    *myrmex.Plugin
}

// Assembly is the payload of the before/afterAddEndpointsToApis events
type Assembly struct {
	Apis      []*Api
	Endpoints []*Endpoint
	Models    Models
}

// Attachment is the payload of the before/afterAddEndpointToApi events
type Attachment struct {
	Api      *Api
	Endpoint *Endpoint
}

func New(providers Providers) *APIGateway {
	p := &APIGateway{providers: providers}

	p.plugin = &myrmex.Plugin{
		Name:    Name,
		Version: Version,
		Config: map[string]interface{}{
			"apisPath":      filepath.Join("api-gateway", "apis"),
			"endpointsPath": filepath.Join("api-gateway", "endpoints"),
			"modelsPath":    filepath.Join("api-gateway", "models"),
		},
		Listeners: map[events.Event]events.Listener{
			myrmex.EventRegisterCommands: events.Notify(myrmex.EventRegisterCommands, p.registerCommands),
		},
		Extensions: map[string]myrmex.Extension{
			"getApis":      p.getApis,
			"getEndpoints": p.getEndpoints,
		},
	}

	return p
}

func (p *APIGateway) Plugin() *myrmex.Plugin {
	return p.plugin
}

func (p *APIGateway) instance() *myrmex.Instance {
	return p.plugin.Instance
}

func (p *APIGateway) log() *logger.Logger {
	return p.instance().Log.Namespace("plugin=%s", Name)
}

func (p *APIGateway) path(key string) string {
	return p.instance().Path(config.Tree(p.plugin.Config).String(key))
}

// Apis loads the api specifications, one directory per api
func (p *APIGateway) Apis(ctx context.Context) (*pipeline.Collection[*Api], error) {
	c := pipeline.NewCollection[*Api]("Apis")

	if _, err := c.Load(ctx, p.instance().Bus(), p.path("apisPath"), p.loadApi); err != nil {
		return nil, err
	}

	return c, nil
}

// Endpoints loads every endpoint found under the endpoints directory
func (p *APIGateway) Endpoints(ctx context.Context) (*pipeline.Collection[*Endpoint], error) {
	c := pipeline.NewCollection[*Endpoint]("Endpoints")

	if _, err := c.LoadWith(ctx, p.instance().Bus(), p.path("endpointsPath"), endpointEntries, p.loadEndpoint); err != nil {
		return nil, err
	}

	return c, nil
}

func (p *APIGateway) Models(ctx context.Context) (Models, error) {
	c := pipeline.NewCollection[*Model]("Models")

	items, err := c.Load(ctx, p.instance().Bus(), p.path("modelsPath"), p.loadModel)
	if err != nil {
		return nil, err
	}

	return Models(items), nil
}

func (p *APIGateway) loadApi(ctx context.Context, e pipeline.Entry) (*Api, error) {
	if !e.Dir {
		return nil, pipeline.ErrArtifactNotFound
	}

	bus := p.instance().Bus()

	dir, err := events.Fire(ctx, bus, EventBeforeApiLoad, e.Path)
	if err != nil {
		return nil, err
	}

	path, ok := pipeline.FindDocument(dir, "spec")
	if !ok {
		return nil, pipeline.ErrArtifactNotFound
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterApiLoad, NewApi(e.Name, doc))
}

func (p *APIGateway) loadEndpoint(ctx context.Context, e pipeline.Entry) (*Endpoint, error) {
	bus := p.instance().Bus()

	dir, err := events.Fire(ctx, bus, EventBeforeEndpointLoad, e.Path)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(e.Name, "/")
	method := parts[len(parts)-1]
	root := strings.TrimSuffix(filepath.Clean(e.Path), filepath.FromSlash(e.Name))

	spec, err := mergeSpecs(root, parts)
	if err != nil {
		return nil, err
	}

	ep := NewEndpoint("/"+strings.Join(parts[:len(parts)-1], "/"), method, spec)

	if err := loadIntegrationTemplate(ep, dir); err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterEndpointLoad, ep)
}

func (p *APIGateway) loadModel(ctx context.Context, e pipeline.Entry) (*Model, error) {
	if e.Dir || !pipeline.IsDocument(e.Name) {
		return nil, pipeline.ErrArtifactNotFound
	}

	bus := p.instance().Bus()

	path, err := events.Fire(ctx, bus, EventBeforeModelLoad, e.Path)
	if err != nil {
		return nil, err
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterModelLoad, NewModel(pipeline.DocumentName(e.Name), doc))
}

// endpointEntries walks the endpoints directory for directories named after
// an HTTP method. Entry names are slash separated paths relative to dir.
func endpointEntries(dir string) ([]pipeline.Entry, error) {
	es := []pipeline.Entry{}

	err := filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if os.IsNotExist(err) && path == dir {
			return filepath.SkipDir
		}
		if err != nil {
			return err
		}

		if !fi.IsDir() || path == dir || !isHTTPMethod(fi.Name()) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		es = append(es, pipeline.Entry{Name: filepath.ToSlash(rel), Path: path, Dir: true})

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return es, nil
}

// mergeSpecs deep merges the spec documents found along the path of an
// endpoint, deeper documents win
func mergeSpecs(root string, parts []string) (map[string]interface{}, error) {
	spec := config.Tree{}
	dir := root

	for _, part := range parts {
		dir = filepath.Join(dir, part)

		path, ok := pipeline.FindDocument(dir, "spec")
		if !ok {
			continue
		}

		doc, err := config.ReadDocument(path)
		if err != nil {
			return nil, err
		}

		if err := spec.Merge(doc); err != nil {
			return nil, err
		}
	}

	return spec, nil
}

// loadIntegrationTemplate uses integration.vm as the request template of
// every content type the endpoint consumes
func loadIntegrationTemplate(ep *Endpoint, dir string) error {
	consumes, ok := ep.Spec["consumes"].([]interface{})
	if !ok || len(consumes) == 0 {
		return nil
	}

	data, err := ioutil.ReadFile(filepath.Join(dir, IntegrationTemplate))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.WithStack(err)
	}

	i := ep.Integration()

	templates, ok := i["requestTemplates"].(map[string]interface{})
	if !ok {
		templates = map[string]interface{}{}
		i["requestTemplates"] = templates
	}

	for _, ct := range consumes {
		if s, ok := ct.(string); ok {
			templates[s] = string(data)
		}
	}

	return nil
}

// Assemble loads endpoints and models and attaches them to the apis of the
// collection
func (p *APIGateway) Assemble(ctx context.Context, apis *pipeline.Collection[*Api]) error {
	endpoints, err := p.Endpoints(ctx)
	if err != nil {
		return err
	}

	models, err := p.Models(ctx)
	if err != nil {
		return err
	}

	return apis.Assemble(func(items []*Api) error {
		res, err := p.AddEndpointsToApis(ctx, &Assembly{Apis: items, Endpoints: endpoints.Items, Models: models})
		if err != nil {
			return err
		}

		apis.Items = res

		return nil
	})
}

// AddEndpointsToApis attaches every endpoint to the apis it declares
func (p *APIGateway) AddEndpointsToApis(ctx context.Context, a *Assembly) ([]*Api, error) {
	bus := p.instance().Bus()

	a, err := events.Fire(ctx, bus, EventBeforeAddEndpointsToApis, a)
	if err != nil {
		return nil, err
	}

	for _, api := range a.Apis {
		for _, ep := range a.Endpoints {
			if !api.Exposes(ep) {
				continue
			}

			if err := p.AddEndpoint(ctx, api, ep, a.Models); err != nil {
				return nil, err
			}
		}

		if _, err := events.Fire(ctx, bus, EventAfterAddEndpointsToApi, api); err != nil {
			return nil, err
		}
	}

	a, err = events.Fire(ctx, bus, EventAfterAddEndpointsToApis, a)
	if err != nil {
		return nil, err
	}

	return a.Apis, nil
}

// AddEndpoint attaches an endpoint to an api along with the models it
// references
func (p *APIGateway) AddEndpoint(ctx context.Context, api *Api, ep *Endpoint, models Models) error {
	bus := p.instance().Bus()

	at, err := events.Fire(ctx, bus, EventBeforeAddEndpointToApi, &Attachment{Api: api, Endpoint: ep})
	if err != nil {
		return err
	}

	at.Api.Attach(at.Endpoint)

	ms, err := models.Resolve(at.Endpoint.ReferencedModels())
	if err != nil {
		return errors.Wrapf(err, "%s", at.Endpoint)
	}

	at.Api.addModels(ms...)

	_, err = events.Fire(ctx, bus, EventAfterAddEndpointToApi, at)

	return err
}

// FindApi loads an api with its endpoints
func (p *APIGateway) FindApi(ctx context.Context, identifier string) (*Api, error) {
	apis, err := p.Apis(ctx)
	if err != nil {
		return nil, err
	}

	var found *Api

	for _, a := range apis.Items {
		if a.Identifier == identifier {
			found = a
		}
	}

	if found == nil {
		return nil, errors.Errorf("could not find the API %q in the current project", identifier)
	}

	apis.Items = []*Api{found}

	if err := p.Assemble(ctx, apis); err != nil {
		return nil, err
	}

	return found, nil
}

func (p *APIGateway) FindEndpoint(ctx context.Context, resourcePath, method string) (*Endpoint, error) {
	endpoints, err := p.Endpoints(ctx)
	if err != nil {
		return nil, err
	}

	method = strings.ToUpper(method)

	for _, e := range endpoints.Items {
		if e.ResourcePath == resourcePath && e.Method == method {
			return e, nil
		}
	}

	return nil, errors.Errorf("could not find the endpoint %s %s in the current project", method, resourcePath)
}

func (p *APIGateway) getApis(ctx context.Context, args ...interface{}) (interface{}, error) {
	c, err := p.Apis(ctx)
	if err != nil {
		return nil, err
	}

	return c.Items, nil
}

func (p *APIGateway) getEndpoints(ctx context.Context, args ...interface{}) (interface{}, error) {
	c, err := p.Endpoints(ctx)
	if err != nil {
		return nil, err
	}

	return c.Items, nil
}

func (p *APIGateway) registerCommands(ctx context.Context, e *cli.Engine) error {
	p.commands(e)
	return nil
}
