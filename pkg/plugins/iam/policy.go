package iam

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/pkg/errors"
)

// MaxPolicyVersions is the number of versions IAM keeps per managed policy
const MaxPolicyVersions = 5

// Policy is a managed policy described by iam/policies/<name>.json
type Policy struct {
	Name     string
	Document map[string]interface{}
}

func NewPolicy(name string, doc map[string]interface{}) *Policy {
	return &Policy{Name: name, Document: doc}
}

// DeployPolicy creates a policy or adds a default version when its document
// changed
func (p *IAM) DeployPolicy(ctx context.Context, pc pipeline.Context, pol *Policy) pipeline.Report {
	start := time.Now()
	name := pc.Name(pol.Name)
	log := p.log().At("deploy-policy").Namespace("policy=%s", name).Start()

	report := pipeline.Report{Name: name, Metadata: map[string]string{}}

	fail := func(err error) pipeline.Report {
		report.Failed = true
		report.Error = log.Error(err)
		return report
	}

	bus := p.instance().Bus()

	pol, err := events.Fire(ctx, bus, EventBeforeDeployPolicy, pol)
	if err != nil {
		return fail(err)
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return fail(err)
	}

	doc, err := pipeline.Canonical(pol.Document)
	if err != nil {
		return fail(err)
	}

	existing, err := policyByName(ctx, prov.IAM, name, iam.PolicyScopeTypeLocal)
	if err != nil {
		return fail(err)
	}

	if existing == nil {
		out, err := prov.IAM.CreatePolicyWithContext(ctx, &iam.CreatePolicyInput{
			Path:           aws.String("/"),
			PolicyDocument: aws.String(string(doc)),
			PolicyName:     aws.String(name),
		})
		if err != nil {
			return fail(errors.Wrapf(err, "could not create policy %s", name))
		}

		report.Operation = pipeline.OperationCreation
		report.Metadata["arn"] = aws.StringValue(out.Policy.Arn)
		report.Metadata["version"] = aws.StringValue(out.Policy.DefaultVersionId)
	} else {
		arn := existing.Arn
		report.Metadata["arn"] = aws.StringValue(arn)

		res, err := prov.IAM.GetPolicyVersionWithContext(ctx, &iam.GetPolicyVersionInput{
			PolicyArn: arn,
			VersionId: existing.DefaultVersionId,
		})
		if err != nil {
			return fail(errors.Wrapf(err, "could not get policy %s", name))
		}

		current, err := url.QueryUnescape(aws.StringValue(res.PolicyVersion.Document))
		if err != nil {
			return fail(errors.WithStack(err))
		}

		same, err := pipeline.Equivalent(pol.Document, current)
		if err != nil {
			return fail(err)
		}

		if same {
			report.Operation = pipeline.OperationUpToDate
			report.Metadata["version"] = aws.StringValue(existing.DefaultVersionId)
		} else {
			deleted, err := prunePolicyVersions(ctx, prov.IAM, arn)
			if err != nil {
				return fail(err)
			}

			if deleted != "" {
				report.Metadata["deletedVersion"] = deleted
			}

			out, err := prov.IAM.CreatePolicyVersionWithContext(ctx, &iam.CreatePolicyVersionInput{
				PolicyArn:      arn,
				PolicyDocument: aws.String(string(doc)),
				SetAsDefault:   aws.Bool(true),
			})
			if err != nil {
				return fail(errors.Wrapf(err, "could not update policy %s", name))
			}

			report.Operation = pipeline.OperationUpdate
			report.Metadata["version"] = aws.StringValue(out.PolicyVersion.VersionId)
		}
	}

	if _, err := events.Fire(ctx, bus, EventAfterDeployPolicy, pol); err != nil {
		return fail(err)
	}

	report.Metadata["deployTime"] = pipeline.Elapsed(start)

	log.Successf("operation=%q", report.Operation)

	return report
}

// prunePolicyVersions deletes the oldest non default version when the
// policy reached the version limit and returns its id
func prunePolicyVersions(ctx context.Context, api iamAPI, arn *string) (string, error) {
	res, err := api.ListPolicyVersionsWithContext(ctx, &iam.ListPolicyVersionsInput{PolicyArn: arn})
	if err != nil {
		return "", errors.Wrapf(err, "could not list versions of %s", aws.StringValue(arn))
	}

	if len(res.Versions) < MaxPolicyVersions {
		return "", nil
	}

	vs := []*iam.PolicyVersion{}

	for _, v := range res.Versions {
		if !aws.BoolValue(v.IsDefaultVersion) {
			vs = append(vs, v)
		}
	}

	if len(vs) == 0 {
		return "", nil
	}

	sort.Slice(vs, func(i, j int) bool {
		return aws.TimeValue(vs[i].CreateDate).Before(aws.TimeValue(vs[j].CreateDate))
	})

	id := vs[0].VersionId

	_, err = api.DeletePolicyVersionWithContext(ctx, &iam.DeletePolicyVersionInput{
		PolicyArn: arn,
		VersionId: id,
	})
	if err != nil {
		return "", errors.Wrapf(err, "could not delete version %s of %s", aws.StringValue(id), aws.StringValue(arn))
	}

	return aws.StringValue(id), nil
}
