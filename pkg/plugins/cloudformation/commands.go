package cloudformation

import (
	"context"

	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
)

func (p *CloudFormation) commands(e *cli.Engine) {
	e.Command("deploy-templates", "deploy cloud formation templates", p.DeployTemplates, stdcli.CommandOptions{
		Flags: cli.DeployFlags,
		Usage: "[template-identifier]...",
	})
}

func (p *CloudFormation) DeployTemplates(m *myrmex.Instance, c *stdcli.Context) error {
	ctx := context.Background()

	f, err := cli.Filter(c)
	if err != nil {
		return err
	}

	templates, err := p.Templates(ctx)
	if err != nil {
		return err
	}

	pc := cli.DeployContext(m, c)

	rs := templates.Deploy(ctx, pipeline.Select(f, templates.Items, templateName), cli.Workers(c), templateName, func(ctx context.Context, t *Template) pipeline.Report {
		return p.DeployTemplate(ctx, pc, t)
	})

	return cli.PrintReports(c, "Templates deployed", provider.ServiceCloudFormation, rs, "stackId", "deployTime")
}

func templateName(t *Template) string { return t.Identifier }
