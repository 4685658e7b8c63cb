package iam

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

// Role is an IAM role described by iam/roles/<name>.json
type Role struct {
	Name              string                 `json:"-"`
	Description       string                 `json:"description,omitempty"`
	ManagedPolicies   []string               `json:"managed-policies,omitempty"`
	TrustRelationship map[string]interface{} `json:"trust-relationship"`
	Path              string                 `json:"path,omitempty"`
	Myrmex            map[string]interface{} `json:"x-myrmex,omitempty"`
}

func NewRole(name string, doc map[string]interface{}) (*Role, error) {
	r := &Role{Name: name}

	if err := pipeline.Convert(doc, r); err != nil {
		return nil, errors.Wrapf(err, "invalid role %s", name)
	}

	if r.Path == "" {
		r.Path = "/"
	}

	return r, nil
}

// DeployRole creates or updates a role then attaches its managed policies
func (p *IAM) DeployRole(ctx context.Context, pc pipeline.Context, r *Role) pipeline.Report {
	start := time.Now()
	name := pc.Name(r.Name)
	log := p.log().At("deploy-role").Namespace("role=%s", name).Start()

	report := pipeline.Report{Name: name, Metadata: map[string]string{}}

	fail := func(err error) pipeline.Report {
		report.Failed = true
		report.Error = log.Error(err)
		return report
	}

	bus := p.instance().Bus()

	r, err := events.Fire(ctx, bus, EventBeforeDeployRole, r)
	if err != nil {
		return fail(err)
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return fail(err)
	}

	trust, err := json.Marshal(r.TrustRelationship)
	if err != nil {
		return fail(errors.WithStack(err))
	}

	res, err := prov.IAM.GetRoleWithContext(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
	switch {
	case provider.IsNotFound(provider.ServiceIAM, err):
		req := &iam.CreateRoleInput{
			AssumeRolePolicyDocument: aws.String(string(trust)),
			Path:                     aws.String(r.Path),
			RoleName:                 aws.String(name),
		}

		if r.Description != "" {
			req.Description = aws.String(r.Description)
		}

		out, err := prov.IAM.CreateRoleWithContext(ctx, req)
		if err != nil {
			return fail(errors.Wrapf(err, "could not create role %s", name))
		}

		report.Operation = pipeline.OperationCreation
		report.Metadata["arn"] = aws.StringValue(out.Role.Arn)
	case err != nil:
		return fail(errors.Wrapf(err, "could not get role %s", name))
	default:
		report.Metadata["arn"] = aws.StringValue(res.Role.Arn)

		current, err := url.QueryUnescape(aws.StringValue(res.Role.AssumeRolePolicyDocument))
		if err != nil {
			return fail(errors.WithStack(err))
		}

		same, err := pipeline.Equivalent(r.TrustRelationship, current)
		if err != nil {
			return fail(err)
		}

		if same {
			report.Operation = pipeline.OperationUpToDate
			break
		}

		_, err = prov.IAM.UpdateAssumeRolePolicyWithContext(ctx, &iam.UpdateAssumeRolePolicyInput{
			PolicyDocument: aws.String(string(trust)),
			RoleName:       aws.String(name),
		})
		if err != nil {
			return fail(errors.Wrapf(err, "could not update role %s", name))
		}

		report.Operation = pipeline.OperationUpdate
	}

	for _, id := range r.ManagedPolicies {
		arn, err := p.RetrievePolicyArn(ctx, pc, id)
		if err != nil {
			return fail(err)
		}

		_, err = prov.IAM.AttachRolePolicyWithContext(ctx, &iam.AttachRolePolicyInput{
			PolicyArn: aws.String(arn),
			RoleName:  aws.String(name),
		})
		if err != nil {
			return fail(errors.Wrapf(err, "could not attach policy %s to role %s", id, name))
		}
	}

	if _, err := events.Fire(ctx, bus, EventAfterDeployRole, r); err != nil {
		return fail(err)
	}

	report.Metadata["deployTime"] = pipeline.Elapsed(start)

	log.Successf("operation=%q", report.Operation)

	return report
}
