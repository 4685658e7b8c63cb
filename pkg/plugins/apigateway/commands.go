package apigateway

import (
	"context"

	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

var (
	flagColors        = stdcli.BoolFlag("colors", "c", "highlight the output")
	flagDeployLambdas = stdcli.StringFlag("deploy-lambdas", "", "deploy lambdas: all|partial|none")
	flagSpec          = stdcli.StringFlag("spec", "", "specification version: api-gateway|doc|complete")
)

func (p *APIGateway) commands(e *cli.Engine) {
	e.Command("create-api", "create a new api", p.CreateApiCommand, stdcli.CommandOptions{
		Flags: []stdcli.Flag{
			stdcli.StringFlag("title", "t", "title of the api"),
			stdcli.StringFlag("description", "d", "description of the api"),
		},
		Usage:    "<api-identifier>",
		Validate: stdcli.Args(1),
	})

	e.Command("create-endpoint", "create a new endpoint", p.CreateEndpointCommand, stdcli.CommandOptions{
		Flags: []stdcli.Flag{
			stdcli.StringFlag("apis", "a", "comma separated identifiers of the apis exposing the endpoint"),
			stdcli.StringFlag("summary", "s", "summary of the endpoint"),
			stdcli.StringFlag("auth", "", "authentication: none|aws_iam"),
			stdcli.StringFlag("integration", "i", "integration: lambda|lambda-proxy|http|mock|aws-service"),
			stdcli.StringFlag("role", "r", "credentials used by api gateway to call the integration"),
			stdcli.StringFlag("lambda", "l", "identifier of the lambda invoked by the endpoint"),
		},
		Usage:    "<resource-path> <http-method>",
		Validate: stdcli.Args(2),
	})

	e.Command("create-model", "create a new model", p.CreateModelCommand, stdcli.CommandOptions{
		Usage:    "<name>",
		Validate: stdcli.Args(1),
	})

	e.Command("deploy-apis", "deploy apis", p.DeployApis, stdcli.CommandOptions{
		Flags: append([]stdcli.Flag{cli.FlagAlias, flagDeployLambdas}, cli.DeployFlags...),
		Usage: "[api-identifier]...",
	})

	e.Command("inspect-api", "inspect an api specification", p.InspectApi, stdcli.CommandOptions{
		Flags:    []stdcli.Flag{flagColors, flagSpec},
		Usage:    "<api-identifier>",
		Validate: stdcli.Args(1),
	})

	e.Command("inspect-endpoint", "inspect an endpoint specification", p.InspectEndpoint, stdcli.CommandOptions{
		Flags:    []stdcli.Flag{flagColors, flagSpec},
		Usage:    "<http-method> <resource-path>",
		Validate: stdcli.Args(2),
	})
}

func (p *APIGateway) DeployApis(m *myrmex.Instance, c *stdcli.Context) error {
	ctx := context.Background()

	mode := c.String("deploy-lambdas")
	if mode == "" {
		mode = DeployNone
	}

	switch mode {
	case DeployAll, DeployPartial, DeployNone:
	default:
		return errors.Errorf("invalid value for --deploy-lambdas: %s", mode)
	}

	f, err := cli.Filter(c)
	if err != nil {
		return err
	}

	apis, err := p.Apis(ctx)
	if err != nil {
		return err
	}

	apis.Items = pipeline.Select(f, apis.Items, apiName)

	if err := p.Assemble(ctx, apis); err != nil {
		return err
	}

	pc := cli.DeployContext(m, c)
	workers := cli.Workers(c)

	in, err := p.LoadIntegrations(ctx, &Integrations{
		Context:   pc,
		Endpoints: endpointsOf(apis.Items),
		Deploy:    mode,
		Workers:   workers,
	})
	if err != nil {
		return err
	}

	if len(in.Reports) > 0 {
		if err := cli.PrintReports(c, "Lambdas deployed", provider.ServiceLambda, in.Reports, "arn", "version", "packageSize", "deployTime"); err != nil {
			return err
		}
	}

	rs := apis.Deploy(ctx, apis.Items, workers, apiName, func(ctx context.Context, a *Api) pipeline.Report {
		return p.DeployApi(ctx, pc, a)
	})

	return cli.PrintReports(c, "APIs deployed", provider.ServiceAPIGateway, rs, "awsId", "name", "stage", "deployTime")
}

func (p *APIGateway) InspectApi(m *myrmex.Instance, c *stdcli.Context) error {
	kind, err := specKind(c)
	if err != nil {
		return err
	}

	api, err := p.FindApi(context.Background(), c.Arg(0))
	if err != nil {
		return err
	}

	spec, err := api.GenerateSpec(kind, nil)
	if err != nil {
		return err
	}

	return cli.PrintJSON(c, spec, c.Bool("colors"))
}

func (p *APIGateway) InspectEndpoint(m *myrmex.Instance, c *stdcli.Context) error {
	kind, err := specKind(c)
	if err != nil {
		return err
	}

	e, err := p.FindEndpoint(context.Background(), c.Arg(1), c.Arg(0))
	if err != nil {
		return err
	}

	spec, err := e.GenerateSpec(kind)
	if err != nil {
		return err
	}

	return cli.PrintJSON(c, spec, c.Bool("colors"))
}

func specKind(c *stdcli.Context) (string, error) {
	switch k := c.String("spec"); k {
	case "":
		return SpecAPIGateway, nil
	case SpecAPIGateway, SpecDoc, SpecComplete:
		return k, nil
	default:
		return "", errors.Errorf("invalid specification version: %s", k)
	}
}

// endpointsOf lists the endpoints attached to the apis, each one once
func endpointsOf(apis []*Api) []*Endpoint {
	seen := map[*Endpoint]bool{}
	es := []*Endpoint{}

	for _, a := range apis {
		for _, e := range a.Endpoints {
			if !seen[e] {
				seen[e] = true
				es = append(es, e)
			}
		}
	}

	return es
}

func apiName(a *Api) string { return a.Identifier }
