package iam

import (
	"context"

	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
)

func (p *IAM) commands(e *cli.Engine) {
	e.Command("deploy-roles", "deploy roles", p.DeployRoles, stdcli.CommandOptions{
		Flags: cli.DeployFlags,
		Usage: "[role-identifier]...",
	})

	e.Command("deploy-policies", "deploy policies", p.DeployPolicies, stdcli.CommandOptions{
		Flags: cli.DeployFlags,
		Usage: "[policy-identifier]...",
	})

	e.Command("create-role", "create a new role", p.CreateRoleCommand, stdcli.CommandOptions{
		Flags: []stdcli.Flag{
			stdcli.StringFlag("model", "m", "preset configuration (APIGatewayLambdaInvocation, LambdaBasicExecutionRole, none)"),
			stdcli.StringFlag("policies", "p", "policies to attach, separated by commas"),
		},
		Usage:    "<identifier>",
		Validate: stdcli.Args(1),
	})

	e.Command("create-policy", "create a new policy", p.CreatePolicyCommand, stdcli.CommandOptions{
		Usage:    "<identifier>",
		Validate: stdcli.Args(1),
	})
}

func (p *IAM) DeployRoles(m *myrmex.Instance, c *stdcli.Context) error {
	ctx := context.Background()

	f, err := cli.Filter(c)
	if err != nil {
		return err
	}

	roles, err := p.Roles(ctx)
	if err != nil {
		return err
	}

	pc := cli.DeployContext(m, c)

	rs := roles.Deploy(ctx, pipeline.Select(f, roles.Items, roleName), cli.Workers(c), roleName, func(ctx context.Context, r *Role) pipeline.Report {
		return p.DeployRole(ctx, pc, r)
	})

	return cli.PrintReports(c, "Roles deployed", provider.ServiceIAM, rs, "arn", "deployTime")
}

func (p *IAM) DeployPolicies(m *myrmex.Instance, c *stdcli.Context) error {
	ctx := context.Background()

	f, err := cli.Filter(c)
	if err != nil {
		return err
	}

	policies, err := p.Policies(ctx)
	if err != nil {
		return err
	}

	pc := cli.DeployContext(m, c)

	rs := policies.Deploy(ctx, pipeline.Select(f, policies.Items, policyName), cli.Workers(c), policyName, func(ctx context.Context, pol *Policy) pipeline.Report {
		return p.DeployPolicy(ctx, pc, pol)
	})

	return cli.PrintReports(c, "Policies deployed", provider.ServiceIAM, rs, "arn", "version", "deletedVersion", "deployTime")
}

func roleName(r *Role) string     { return r.Name }
func policyName(p *Policy) string { return p.Name }
