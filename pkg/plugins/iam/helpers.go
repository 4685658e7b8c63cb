package iam

import (
	"context"
	"regexp"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

type iamAPI = iamiface.IAMAPI

var (
	rePolicyArn = regexp.MustCompile(`^arn:aws:iam::(\d{12}|aws):policy/[a-zA-Z_0-9+=,.@\-/]+$`)
	reRoleArn   = regexp.MustCompile(`^arn:aws:iam::\d{12}:role/[a-zA-Z_0-9+=,.@\-/]+$`)
)

// candidates are the names a resource may have been deployed with, most
// specific first
func candidates(pc pipeline.Context, id string) []string {
	names := []string{}
	seen := map[string]bool{}

	for _, n := range []string{
		pipeline.BuildName(id, pc.Environment, pc.Stage),
		pipeline.BuildName(id, pc.Environment, ""),
		id,
	} {
		if !seen[n] {
			names = append(names, n)
			seen[n] = true
		}
	}

	return names
}

// policyByName pages through the policies of a scope looking for a name
// since policies can only be fetched by arn
func policyByName(ctx context.Context, api iamAPI, name, scope string) (*iam.Policy, error) {
	req := &iam.ListPoliciesInput{
		MaxItems:     aws.Int64(100),
		OnlyAttached: aws.Bool(false),
		PathPrefix:   aws.String("/"),
		Scope:        aws.String(scope),
	}

	for {
		res, err := api.ListPoliciesWithContext(ctx, req)
		if err != nil {
			return nil, errors.Wrap(err, "could not list policies")
		}

		for _, p := range res.Policies {
			if aws.StringValue(p.PolicyName) == name {
				return p, nil
			}
		}

		if !aws.BoolValue(res.IsTruncated) {
			return nil, nil
		}

		req.Marker = res.Marker
	}
}

// RetrievePolicyArn resolves a policy identifier, an arn or a name, to the
// arn of a deployed policy
func (p *IAM) RetrievePolicyArn(ctx context.Context, pc pipeline.Context, id string) (string, error) {
	if rePolicyArn.MatchString(id) {
		return id, nil
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return "", err
	}

	for _, name := range candidates(pc, id) {
		pol, err := policyByName(ctx, prov.IAM, name, iam.PolicyScopeTypeAll)
		if err != nil {
			return "", err
		}

		if pol != nil {
			return aws.StringValue(pol.Arn), nil
		}
	}

	return "", errors.Errorf("the policy %s does not exist", id)
}

// RetrieveRoleArn resolves a role identifier, an arn or a name, to the arn
// of a deployed role
func (p *IAM) RetrieveRoleArn(ctx context.Context, pc pipeline.Context, id string) (string, error) {
	if reRoleArn.MatchString(id) {
		return id, nil
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return "", err
	}

	for _, name := range candidates(pc, id) {
		res, err := prov.IAM.GetRoleWithContext(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
		if provider.IsNotFound(provider.ServiceIAM, err) {
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "could not get role %s", name)
		}

		return aws.StringValue(res.Role.Arn), nil
	}

	return "", errors.Errorf("could not find role %s", id)
}
