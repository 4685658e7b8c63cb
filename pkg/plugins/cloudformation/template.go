package cloudformation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

// Template is a stack described by cf-templates/<identifier>.json
type Template struct {
	Identifier string
	Document   map[string]interface{}
}

func NewTemplate(identifier string, doc map[string]interface{}) *Template {
	return &Template{Identifier: identifier, Document: doc}
}

func (t *Template) String() string {
	return "Template " + t.Identifier
}

// DeployTemplate creates the stack of a template, updating it when it
// already exists
func (p *CloudFormation) DeployTemplate(ctx context.Context, pc pipeline.Context, t *Template) pipeline.Report {
	start := time.Now()
	name := pc.Name(t.Identifier)
	log := p.log().At("deploy-template").Namespace("stack=%s", name).Start()

	report := pipeline.Report{Name: name, Metadata: map[string]string{}}

	fail := func(err error) pipeline.Report {
		report.Failed = true
		report.Error = log.Error(err)
		return report
	}

	bus := p.instance().Bus()

	t, err := events.Fire(ctx, bus, EventBeforeDeployTemplate, t)
	if err != nil {
		return fail(err)
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return fail(err)
	}

	body, err := json.Marshal(t.Document)
	if err != nil {
		return fail(errors.WithStack(err))
	}

	caps, err := p.capabilities()
	if err != nil {
		return fail(err)
	}

	res, err := prov.CloudFormation.CreateStackWithContext(ctx, &cloudformation.CreateStackInput{
		Capabilities: aws.StringSlice(caps),
		StackName:    aws.String(name),
		TemplateBody: aws.String(string(body)),
	})
	switch {
	case provider.IsAlreadyExists(provider.ServiceCloudFormation, err):
		out, err := prov.CloudFormation.UpdateStackWithContext(ctx, &cloudformation.UpdateStackInput{
			Capabilities: aws.StringSlice(caps),
			StackName:    aws.String(name),
			TemplateBody: aws.String(string(body)),
		})
		switch {
		case provider.IsNoChange(provider.ServiceCloudFormation, err):
			report.Operation = pipeline.OperationUpToDate
		case err != nil:
			return fail(errors.Wrapf(err, "could not update stack %s", name))
		default:
			report.Operation = pipeline.OperationUpdate
			report.Metadata["stackId"] = aws.StringValue(out.StackId)
		}
	case err != nil:
		return fail(errors.Wrapf(err, "could not create stack %s", name))
	default:
		report.Operation = pipeline.OperationCreation
		report.Metadata["stackId"] = aws.StringValue(res.StackId)
	}

	if _, err := events.Fire(ctx, bus, EventAfterDeployTemplate, t); err != nil {
		return fail(err)
	}

	report.Metadata["deployTime"] = pipeline.Elapsed(start)

	log.Successf("operation=%q", report.Operation)

	return report
}
