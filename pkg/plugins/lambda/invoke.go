package lambda

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

// Invocation is the result of a synchronous invocation. Payload is the
// decoded response of the function, or its raw text when it is not json.
type Invocation struct {
	StatusCode      int64       `json:"StatusCode"`
	ExecutedVersion string      `json:"ExecutedVersion,omitempty"`
	FunctionError   string      `json:"FunctionError,omitempty"`
	Payload         interface{} `json:"Payload"`
}

// Event reads lambda/lambdas/<identifier>/events/<name>.json. An empty name
// is the empty event.
func (l *Lambda) Event(name string) ([]byte, error) {
	if name == "" {
		return []byte("{}"), nil
	}

	path, ok := pipeline.FindDocument(filepath.Join(l.Path, "events"), name)
	if !ok {
		return nil, errors.Errorf("the event %q does not exist for the lambda %s", name, l.Identifier)
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// Invoke executes the deployed function of the environment. The alias of the
// context is used as the qualifier when set.
func (p *Lambdas) Invoke(ctx context.Context, pc pipeline.Context, l *Lambda, event []byte) (*Invocation, error) {
	prov, err := p.providers(pc.Region)
	if err != nil {
		return nil, err
	}

	name := l.FunctionName(pc)

	req := &lambda.InvokeInput{
		FunctionName: aws.String(name),
		Payload:      event,
	}

	if pc.Alias != "" {
		req.Qualifier = aws.String(pc.Alias)
	}

	res, err := prov.Lambda.InvokeWithContext(ctx, req)
	if provider.IsNotFound(provider.ServiceLambda, err) {
		return nil, errors.Errorf("the function %s is not deployed in %s", name, pc.Region)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "invoke %s", name)
	}

	i := &Invocation{
		StatusCode:      aws.Int64Value(res.StatusCode),
		ExecutedVersion: aws.StringValue(res.ExecutedVersion),
		FunctionError:   aws.StringValue(res.FunctionError),
	}

	if err := json.Unmarshal(res.Payload, &i.Payload); err != nil {
		i.Payload = string(res.Payload)
	}

	return i, nil
}

func (p *Lambdas) TestLambda(m *myrmex.Instance, c *stdcli.Context) error {
	ctx := context.Background()

	l, err := p.FindLambda(ctx, c.Arg(0))
	if err != nil {
		return err
	}

	event, err := l.Event(c.String("event"))
	if err != nil {
		return err
	}

	pc := cli.DeployContext(m, c)

	p.log().At("invoke").Logf("function=%s alias=%q", l.FunctionName(pc), pc.Alias)

	i, err := p.Invoke(ctx, pc, l, event)
	if err != nil {
		return err
	}

	if i.FunctionError != "" {
		c.Writef("Error result:\n")

		if err := cli.PrintJSON(c, i, false); err != nil {
			return err
		}

		return errors.Errorf("the lambda %s failed: %s", l.Identifier, i.FunctionError)
	}

	c.Writef("Success result:\n")

	return cli.PrintJSON(c, i, false)
}
