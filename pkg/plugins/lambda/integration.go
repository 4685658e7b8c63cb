package lambda

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

const (
	// MetadataKey is the x-myrmex key of an endpoint naming the lambda it
	// integrates with
	MetadataKey = "lambda"

	permissionStatement = "myrmex-api-gateway-invoke"
)

// Integration injects the ARN of a deployed lambda in the endpoints
// referencing it
type Integration struct {
	Lambda *Lambda
	Arn    string
}

func (i *Integration) ApplyToEndpoint(ctx context.Context, e *apigateway.Endpoint) error {
	if id, _ := e.Metadata(MetadataKey).(string); id != i.Lambda.Identifier {
		return nil
	}

	parts := strings.Split(i.Arn, ":")
	if len(parts) < 4 {
		return errors.Errorf("invalid lambda arn: %s", i.Arn)
	}

	in := e.Integration()

	if _, ok := in["type"]; !ok {
		in["type"] = "aws"
	}

	in["uri"] = fmt.Sprintf("arn:aws:apigateway:%s:lambda:path/2015-03-31/functions/%s/invocations", parts[3], i.Arn)
	in["httpMethod"] = "POST"

	if _, ok := in["responses"]; !ok {
		in["responses"] = map[string]interface{}{
			"default": map[string]interface{}{"statusCode": "200"},
		}
	}

	return nil
}

// loadIntegrations deploys the lambdas required by the mode then provides
// an injector for every lambda referenced by the endpoints
func (p *Lambdas) loadIntegrations(ctx context.Context, in *apigateway.Integrations) (*apigateway.Integrations, error) {
	c, err := p.Lambdas(ctx)
	if err != nil {
		return nil, err
	}

	byName := map[string]*Lambda{}

	for _, l := range c.Items {
		byName[l.Identifier] = l
	}

	referenced := map[string]bool{}

	for _, e := range in.Endpoints {
		id, _ := e.Metadata(MetadataKey).(string)
		if id == "" {
			continue
		}

		if byName[id] == nil {
			return nil, errors.Errorf("the lambda %q referenced by %s does not exist in this project", id, e)
		}

		referenced[id] = true
	}

	deploy := []*Lambda{}

	for _, l := range c.Items {
		if in.Deploy == apigateway.DeployAll || (in.Deploy == apigateway.DeployPartial && referenced[l.Identifier]) {
			deploy = append(deploy, l)
		}
	}

	arns := map[string]string{}

	if len(deploy) > 0 {
		rs := c.Deploy(ctx, deploy, in.Workers, lambdaName, func(ctx context.Context, l *Lambda) pipeline.Report {
			return p.DeployLambda(ctx, in.Context, l)
		})

		in.Reports = append(in.Reports, rs...)

		if rs.Failed() {
			return in, nil
		}

		for i, r := range rs {
			arns[deploy[i].Identifier] = r.Metadata["arn"]
		}
	}

	for _, l := range c.Items {
		if !referenced[l.Identifier] {
			continue
		}

		arn, err := p.integrate(ctx, in.Context, l, arns[l.Identifier])
		if err != nil {
			return nil, err
		}

		in.Injectors = append(in.Injectors, &Integration{Lambda: l, Arn: arn})
	}

	return in, nil
}

// integrate allows api gateway to invoke a lambda, looking its ARN up
// when it was not deployed in this run
func (p *Lambdas) integrate(ctx context.Context, pc pipeline.Context, l *Lambda, arn string) (string, error) {
	prov, err := p.providers(pc.Region)
	if err != nil {
		return "", err
	}

	name := l.FunctionName(pc)

	var qualifier *string
	if pc.Alias != "" {
		qualifier = aws.String(pc.Alias)
	}

	if arn == "" {
		res, err := prov.Lambda.GetFunctionWithContext(ctx, &lambda.GetFunctionInput{
			FunctionName: aws.String(name),
			Qualifier:    qualifier,
		})
		if provider.IsNotFound(provider.ServiceLambda, err) {
			return "", errors.Errorf("the lambda %s is not deployed, use --deploy-lambdas", name)
		}
		if err != nil {
			return "", errors.Wrapf(err, "could not get function %s", name)
		}

		arn = aws.StringValue(res.Configuration.FunctionArn)
	}

	_, err = prov.Lambda.AddPermissionWithContext(ctx, &lambda.AddPermissionInput{
		Action:       aws.String("lambda:InvokeFunction"),
		FunctionName: aws.String(name),
		Principal:    aws.String("apigateway.amazonaws.com"),
		Qualifier:    qualifier,
		StatementId:  aws.String(permissionStatement),
	})
	if err != nil && !provider.IsAlreadyExists(provider.ServiceLambda, err) {
		return "", errors.Wrapf(err, "could not allow api gateway to invoke %s", name)
	}

	return arn, nil
}
