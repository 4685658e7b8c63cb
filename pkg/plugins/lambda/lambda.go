package lambda

import (
	"context"
	"path/filepath"

	"github.com/convox/logger"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

const (
	Name    = "lambda"
	Version = "1.0.0"
)

const (
	EventBeforeLambdaLoad   events.Event = "beforeLambdaLoad"
	EventAfterLambdaLoad    events.Event = "afterLambdaLoad"
	EventBeforeDeployLambda events.Event = "beforeDeployLambda"
	EventAfterDeployLambda  events.Event = "afterDeployLambda"
	EventBuildLambdaPackage events.Event = "buildLambdaPackage"
)

func init() {
	myrmex.Register("@myrmex/lambda", func() (*myrmex.Plugin, error) {
		return New(provider.Default.Get).Plugin(), nil
	})
}

type Providers func(region string) (*provider.Provider, error)

type Lambdas struct {
	providers Providers
	plugin    *myrmex.Plugin
}

func New(providers Providers) *Lambdas {
	p := &Lambdas{providers: providers}

	p.plugin = &myrmex.Plugin{
		Name:    Name,
		Version: Version,
		Config: map[string]interface{}{
			"lambdasPath": filepath.Join("lambda", "lambdas"),
		},
		Hooks: map[events.Event]events.Handler{
			apigateway.EventLoadIntegrations: events.Typed(apigateway.EventLoadIntegrations, p.loadIntegrations),
		},
		Listeners: map[events.Event]events.Listener{
			myrmex.EventRegisterCommands: events.Notify(myrmex.EventRegisterCommands, p.registerCommands),
		},
		Extensions: map[string]myrmex.Extension{
			"getLambdas": p.getLambdas,
		},
	}

	return p
}

func (p *Lambdas) Plugin() *myrmex.Plugin {
	return p.plugin
}

func (p *Lambdas) instance() *myrmex.Instance {
	return p.plugin.Instance
}

func (p *Lambdas) log() *logger.Logger {
	return p.instance().Log.Namespace("plugin=%s", Name)
}

// Lambdas loads the lambdas of the project, one directory per lambda
func (p *Lambdas) Lambdas(ctx context.Context) (*pipeline.Collection[*Lambda], error) {
	c := pipeline.NewCollection[*Lambda]("Lambdas")

	dir := p.instance().Path(config.Tree(p.plugin.Config).String("lambdasPath"))

	if _, err := c.Load(ctx, p.instance().Bus(), dir, p.loadLambda); err != nil {
		return nil, err
	}

	return c, nil
}

func (p *Lambdas) loadLambda(ctx context.Context, e pipeline.Entry) (*Lambda, error) {
	if !e.Dir {
		return nil, pipeline.ErrArtifactNotFound
	}

	bus := p.instance().Bus()

	dir, err := events.Fire(ctx, bus, EventBeforeLambdaLoad, e.Path)
	if err != nil {
		return nil, err
	}

	path, ok := pipeline.FindDocument(dir, "config")
	if !ok {
		return nil, pipeline.ErrArtifactNotFound
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	l, err := NewLambda(e.Name, dir, doc)
	if err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterLambdaLoad, l)
}

// FindLambda loads the lambda with the given identifier
func (p *Lambdas) FindLambda(ctx context.Context, identifier string) (*Lambda, error) {
	c, err := p.Lambdas(ctx)
	if err != nil {
		return nil, err
	}

	for _, l := range c.Items {
		if l.Identifier == identifier {
			return l, nil
		}
	}

	return nil, errors.Errorf("the lambda %q does not exist in this project", identifier)
}

func (p *Lambdas) getLambdas(ctx context.Context, args ...interface{}) (interface{}, error) {
	c, err := p.Lambdas(ctx)
	if err != nil {
		return nil, err
	}

	return c.Items, nil
}

func (p *Lambdas) registerCommands(ctx context.Context, e *cli.Engine) error {
	p.commands(e)
	return nil
}
