package apigateway

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/convox/stdcli"
	"github.com/gobuffalo/packr"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/templater"
	"github.com/pkg/errors"
)

// Integrations supported by create-endpoint
var IntegrationTypes = []string{"lambda", "lambda-proxy", "http", "mock", "aws-service"}

var (
	reIdentifier = regexp.MustCompile(`(?i)^[a-z0-9_-]+$`)

	scaffolds = templater.New(packr.NewBox("./templates"), nil)
)

// EndpointOptions describe the endpoint written by CreateEndpoint
type EndpointOptions struct {
	Apis        []string
	Summary     string
	Auth        string
	Integration string
	Role        string
	Lambda      string
}

// CreateApi writes the specification of a new api
func (p *APIGateway) CreateApi(identifier, title, description string) (string, error) {
	if !reIdentifier.MatchString(identifier) {
		return "", errors.Errorf("invalid api identifier %q, only alphanumeric characters, _ and - are accepted", identifier)
	}

	if title == "" {
		title = identifier
	}

	path := filepath.Join(p.path("apisPath"), identifier, "spec.json")

	params := map[string]string{"Title": title, "Description": description}

	if err := scaffolds.Write(path, "api.json.tmpl", params); err != nil {
		return "", err
	}

	return path, nil
}

// CreateEndpoint writes the specification of a new endpoint in
// <endpointsPath>/<resource path>/<METHOD>/spec.json
func (p *APIGateway) CreateEndpoint(resourcePath, method string, opts EndpointOptions) (string, error) {
	method = strings.ToUpper(method)

	if !isHTTPMethod(method) {
		return "", errors.Errorf("invalid http method %q, expected one of %s", method, strings.Join(HTTPMethods, ", "))
	}

	if opts.Auth == "" {
		opts.Auth = "none"
	}

	if opts.Auth != "none" && opts.Auth != "aws_iam" {
		return "", errors.Errorf("invalid authentication %q, expected none or aws_iam", opts.Auth)
	}

	if opts.Integration == "" {
		opts.Integration = "lambda-proxy"
	}

	partial := filepath.ToSlash(filepath.Join("integrations", opts.Integration+".json.tmpl"))

	if !scaffolds.Has(partial) {
		return "", errors.Errorf("invalid integration %q, expected one of %s", opts.Integration, strings.Join(IntegrationTypes, ", "))
	}

	if opts.Apis == nil {
		opts.Apis = []string{}
	}

	if !strings.HasPrefix(resourcePath, "/") {
		resourcePath = "/" + resourcePath
	}

	parts := []string{p.path("endpointsPath")}

	for _, part := range strings.Split(resourcePath, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}

	path := filepath.Join(append(parts, method, "spec.json")...)

	params := map[string]interface{}{
		"Apis":    opts.Apis,
		"Summary": opts.Summary,
		"Auth":    opts.Auth,
		"Role":    opts.Role,
		"Lambda":  opts.Lambda,
		"Method":  method,
	}

	if err := scaffolds.Write(path, "endpoint.json.tmpl", params, partial); err != nil {
		return "", err
	}

	return path, nil
}

// CreateModel writes a new object model. Its definition name is the
// camel cased name.
func (p *APIGateway) CreateModel(name string) (string, error) {
	if !reIdentifier.MatchString(name) {
		return "", errors.Errorf("invalid model name %q, only alphanumeric characters, _ and - are accepted", name)
	}

	path := filepath.Join(p.path("modelsPath"), name+".json")

	if err := scaffolds.Write(path, "model.json.tmpl", nil); err != nil {
		return "", err
	}

	return path, nil
}

func (p *APIGateway) CreateApiCommand(m *myrmex.Instance, c *stdcli.Context) error {
	path, err := p.CreateApi(c.Arg(0), c.String("title"), c.String("description"))
	if err != nil {
		return err
	}

	c.Writef("The API <id>%s</id> has been created in <value>%s</value>\n", c.Arg(0), path)

	return nil
}

func (p *APIGateway) CreateEndpointCommand(m *myrmex.Instance, c *stdcli.Context) error {
	path, err := p.CreateEndpoint(c.Arg(0), c.Arg(1), EndpointOptions{
		Apis:        split(c.String("apis")),
		Summary:     c.String("summary"),
		Auth:        c.String("auth"),
		Integration: c.String("integration"),
		Role:        c.String("role"),
		Lambda:      c.String("lambda"),
	})
	if err != nil {
		return err
	}

	c.Writef("The endpoint <id>%s %s</id> has been created in <value>%s</value>\n", strings.ToUpper(c.Arg(1)), c.Arg(0), path)

	return nil
}

func (p *APIGateway) CreateModelCommand(m *myrmex.Instance, c *stdcli.Context) error {
	path, err := p.CreateModel(c.Arg(0))
	if err != nil {
		return err
	}

	c.Writef("The model <id>%s</id> has been created in <value>%s</value>\n", c.Arg(0), path)

	return nil
}

func split(s string) []string {
	ss := []string{}

	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ss = append(ss, v)
		}
	}

	return ss
}
