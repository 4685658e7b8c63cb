package cors

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
)

const (
	Name    = "cors"
	Version = "1.0.0"
)

const (
	AllowMethods = "Access-Control-Allow-Methods"
	AllowHeaders = "Access-Control-Allow-Headers"
	AllowOrigin  = "Access-Control-Allow-Origin"
)

// File is the name of the per resource path configuration document
const File = "cors"

func init() {
	myrmex.Register("@myrmex/cors", func() (*myrmex.Plugin, error) {
		return New().Plugin(), nil
	})
}

type CORS struct {
	plugin *myrmex.Plugin
}

func New() *CORS {
	p := &CORS{}

	p.plugin = &myrmex.Plugin{
		Name:    Name,
		Version: Version,
		Config: map[string]interface{}{
			AllowMethods: "DELETE,GET,HEAD,OPTIONS,PATCH,POST,PUT,ANY",
			AllowHeaders: "*",
			AllowOrigin:  "*",
		},
		Hooks: map[events.Event]events.Handler{
			apigateway.EventAfterAddEndpointsToApi: events.Typed(apigateway.EventAfterAddEndpointsToApi, p.afterAddEndpointsToApi),
		},
	}

	return p
}

func (p *CORS) Plugin() *myrmex.Plugin {
	return p.plugin
}

func (p *CORS) instance() *myrmex.Instance {
	return p.plugin.Instance
}

// afterAddEndpointsToApi adds an OPTIONS mock endpoint answering the CORS
// headers to every resource path of the api that does not define one
func (p *CORS) afterAddEndpointsToApi(ctx context.Context, api *apigateway.Api) (*apigateway.Api, error) {
	base := toStrings(p.plugin.Config)

	for k, v := range toStrings(config.Tree(api.Spec).Map(apigateway.Extension + ".cors")) {
		base[k] = v
	}

	for _, rp := range api.ResourcePaths() {
		if api.Endpoint(rp, "OPTIONS") != nil {
			continue
		}

		headers, err := p.resourceHeaders(api, rp, base)
		if err != nil {
			return nil, err
		}

		api.Attach(apigateway.NewEndpoint(rp, "OPTIONS", optionsSpec(headers)))

		for _, method := range splitMethods(headers[AllowMethods]) {
			if method == "OPTIONS" {
				continue
			}

			if e := api.Endpoint(rp, method); e != nil {
				allowOrigin(e, headers[AllowOrigin])
			}
		}
	}

	return api, nil
}

// resourceHeaders layers the cors document of a resource path over the api
// headers: its "default" block then the block named after the api
func (p *CORS) resourceHeaders(api *apigateway.Api, resourcePath string, base map[string]string) (map[string]string, error) {
	headers := map[string]string{}

	for k, v := range base {
		headers[k] = v
	}

	endpoints := p.instance().Config().String("apiGateway.endpointsPath")
	if endpoints == "" {
		endpoints = filepath.Join("api-gateway", "endpoints")
	}

	root := p.instance().Path(endpoints)
	dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(resourcePath, "/")))

	path, ok := pipeline.FindDocument(dir, File)
	if !ok {
		return headers, nil
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{"default", api.Identifier} {
		for k, v := range toStrings(config.Tree(doc).Map(key)) {
			headers[k] = v
		}
	}

	return headers, nil
}
