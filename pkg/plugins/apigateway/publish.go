package apigateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/pkg/errors"
)

// restApisPageSize is the page size used to look apis up by name
const restApisPageSize = 100

const (
	DeployAll     = "all"
	DeployPartial = "partial"
	DeployNone    = "none"
)

// Injector completes the integration of the endpoints it applies to, for
// instance with the ARN of a deployed lambda
type Injector interface {
	ApplyToEndpoint(ctx context.Context, e *Endpoint) error
}

// Integrations is the payload of the loadIntegrations and
// before/afterAddIntegrationDataToEndpoints events. Integration plugins
// append their injectors and the reports of what they deployed.
type Integrations struct {
	Context   pipeline.Context
	Endpoints []*Endpoint
	Deploy    string
	Workers   int

	Injectors []Injector
	Reports   pipeline.Reports
}

// LoadIntegrations collects the integration injectors of the plugins and
// applies each of them to every endpoint
func (p *APIGateway) LoadIntegrations(ctx context.Context, in *Integrations) (*Integrations, error) {
	bus := p.instance().Bus()

	in, err := events.Fire(ctx, bus, EventLoadIntegrations, in)
	if err != nil {
		return nil, err
	}

	in, err = events.Fire(ctx, bus, EventBeforeAddIntegrationDataToEndpoints, in)
	if err != nil {
		return nil, err
	}

	for _, i := range in.Injectors {
		for _, e := range in.Endpoints {
			if err := i.ApplyToEndpoint(ctx, e); err != nil {
				return nil, errors.Wrapf(err, "%s", e)
			}
		}
	}

	return events.Fire(ctx, bus, EventAfterAddIntegrationDataToEndpoints, in)
}

// DeployApi imports the api-gateway specification of an api, either as a
// new rest api or over the one carrying its identification, then deploys
// the stage of the context
func (p *APIGateway) DeployApi(ctx context.Context, pc pipeline.Context, api *Api) pipeline.Report {
	start := time.Now()
	log := p.log().At("deploy-api").Namespace("api=%s", api.Identifier).Start()

	report := pipeline.Report{Name: api.Identifier, Metadata: map[string]string{}}

	fail := func(err error) pipeline.Report {
		report.Failed = true
		report.Error = log.Error(err)
		return report
	}

	bus := p.instance().Bus()

	api, err := events.Fire(ctx, bus, EventBeforePublishApi, api)
	if err != nil {
		return fail(err)
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return fail(err)
	}

	spec, err := api.GenerateSpec(SpecAPIGateway, &pc)
	if err != nil {
		return fail(err)
	}

	if err := p.applyCredentials(ctx, pc, spec); err != nil {
		return fail(err)
	}

	body, err := json.Marshal(spec)
	if err != nil {
		return fail(errors.WithStack(err))
	}

	existing, err := findRestApi(ctx, prov.APIGateway, api.identification(pc.Environment))
	if err != nil {
		return fail(err)
	}

	var ra *apigateway.RestApi

	if existing == nil {
		ra, err = prov.APIGateway.ImportRestApiWithContext(ctx, &apigateway.ImportRestApiInput{
			Body:           body,
			FailOnWarnings: aws.Bool(false),
		})
		if err != nil {
			return fail(errors.Wrapf(err, "could not import %s", api.Identifier))
		}

		report.Operation = pipeline.OperationCreation
	} else {
		ra, err = prov.APIGateway.PutRestApiWithContext(ctx, &apigateway.PutRestApiInput{
			Body:           body,
			FailOnWarnings: aws.Bool(false),
			Mode:           aws.String(apigateway.PutModeOverwrite),
			RestApiId:      existing.Id,
		})
		if err != nil {
			return fail(errors.Wrapf(err, "could not update %s", api.Identifier))
		}

		report.Operation = pipeline.OperationUpdate
	}

	_, err = prov.APIGateway.CreateDeploymentWithContext(ctx, &apigateway.CreateDeploymentInput{
		RestApiId: ra.Id,
		StageName: aws.String(pc.Stage),
	})
	if err != nil {
		return fail(errors.Wrapf(err, "could not deploy stage %s of %s", pc.Stage, api.Identifier))
	}

	report.Metadata["awsId"] = aws.StringValue(ra.Id)
	report.Metadata["name"] = aws.StringValue(ra.Name)
	report.Metadata["stage"] = pc.Stage

	if _, err := events.Fire(ctx, bus, EventAfterPublishApi, api); err != nil {
		return fail(err)
	}

	report.Metadata["deployTime"] = pipeline.Elapsed(start)

	log.Successf("operation=%q id=%s", report.Operation, aws.StringValue(ra.Id))

	return report
}

// findRestApi pages through the rest apis for the first one whose name
// starts with the identification prefix
func findRestApi(ctx context.Context, api apigatewayiface.APIGatewayAPI, prefix string) (*apigateway.RestApi, error) {
	req := &apigateway.GetRestApisInput{Limit: aws.Int64(restApisPageSize)}

	for {
		res, err := api.GetRestApisWithContext(ctx, req)
		if err != nil {
			return nil, errors.Wrap(err, "could not list rest apis")
		}

		for _, ra := range res.Items {
			if strings.HasPrefix(aws.StringValue(ra.Name), prefix) {
				return ra, nil
			}
		}

		if aws.StringValue(res.Position) == "" {
			return nil, nil
		}

		req.Position = res.Position
	}
}

// applyCredentials replaces the role identifiers used as integration
// credentials by their ARN
func (p *APIGateway) applyCredentials(ctx context.Context, pc pipeline.Context, spec map[string]interface{}) error {
	arns := map[string]string{}

	for _, path := range asMap(spec["paths"]) {
		for _, op := range asMap(path) {
			i := asMap(asMap(op)[integrationKey])

			cred, ok := i["credentials"].(string)
			if !ok || cred == "" {
				continue
			}

			if _, ok := arns[cred]; !ok {
				arn, err := p.instance().Call(ctx, "iam:retrieveRoleArn", cred, pc, cred)
				if err != nil {
					return err
				}

				arns[cred] = fmt.Sprint(arn)
			}

			i["credentials"] = arns[cred]
		}
	}

	return nil
}
