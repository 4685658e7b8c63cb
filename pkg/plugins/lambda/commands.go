package lambda

import (
	"context"

	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
)

func (p *Lambdas) commands(e *cli.Engine) {
	e.Command("create-lambda", "create a new lambda", p.CreateLambdaCommand, stdcli.CommandOptions{
		Flags: []stdcli.Flag{
			stdcli.StringFlag("runtime", "", "runtime of the lambda, nodejs* or python*"),
			stdcli.StringFlag("role", "r", "execution role, a project role identifier or an arn"),
			stdcli.IntFlag("timeout", "t", "timeout in seconds"),
			stdcli.IntFlag("memory", "m", "memory size in MB"),
		},
		Usage:    "<lambda-identifier>",
		Validate: stdcli.Args(1),
	})

	e.Command("deploy-lambdas", "deploy lambdas", p.DeployLambdas, stdcli.CommandOptions{
		Flags: append([]stdcli.Flag{cli.FlagAlias}, cli.DeployFlags...),
		Usage: "[lambda-identifier]...",
	})

	e.Command("test-lambda", "invoke a deployed lambda", p.TestLambda, stdcli.CommandOptions{
		Flags: []stdcli.Flag{
			stdcli.StringFlag("event", "", "name of an event of the events directory of the lambda"),
			stdcli.StringFlag("alias", "a", "lambda alias"),
			cli.FlagEnvironment,
			cli.FlagRegion,
		},
		Usage:    "<lambda-identifier>",
		Validate: stdcli.Args(1),
	})
}

func (p *Lambdas) DeployLambdas(m *myrmex.Instance, c *stdcli.Context) error {
	ctx := context.Background()

	f, err := cli.Filter(c)
	if err != nil {
		return err
	}

	lambdas, err := p.Lambdas(ctx)
	if err != nil {
		return err
	}

	pc := cli.DeployContext(m, c)

	rs := lambdas.Deploy(ctx, pipeline.Select(f, lambdas.Items, lambdaName), cli.Workers(c), lambdaName, func(ctx context.Context, l *Lambda) pipeline.Report {
		return p.DeployLambda(ctx, pc, l)
	})

	return cli.PrintReports(c, "Lambdas deployed", provider.ServiceLambda, rs, "version", "alias", "arn", "packageSize", "packageTime", "deployTime")
}

func lambdaName(l *Lambda) string { return l.Identifier }
