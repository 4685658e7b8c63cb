package cloudformation

import (
	"context"

	"github.com/convox/logger"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
)

const (
	Name    = "cloud-formation"
	Version = "1.0.0"
)

const (
	EventBeforeTemplateLoad   events.Event = "beforeTemplateLoad"
	EventAfterTemplateLoad    events.Event = "afterTemplateLoad"
	EventBeforeDeployTemplate events.Event = "beforeDeployTemplate"
	EventAfterDeployTemplate  events.Event = "afterDeployTemplate"
)

func init() {
	myrmex.Register("@myrmex/cloud-formation", func() (*myrmex.Plugin, error) {
		return New(provider.Default.Get).Plugin(), nil
	})
}

type Providers func(region string) (*provider.Provider, error)

type CloudFormation struct {
	providers Providers
	plugin    *myrmex.Plugin
}

func New(providers Providers) *CloudFormation {
	p := &CloudFormation{providers: providers}

	p.plugin = &myrmex.Plugin{
		Name:    Name,
		Version: Version,
		Config: map[string]interface{}{
			"templatesPath": "cf-templates",
			"capabilities":  []interface{}{"CAPABILITY_IAM", "CAPABILITY_NAMED_IAM"},
		},
		Listeners: map[events.Event]events.Listener{
			myrmex.EventRegisterCommands: events.Notify(myrmex.EventRegisterCommands, p.registerCommands),
		},
	}

	return p
}

func (p *CloudFormation) Plugin() *myrmex.Plugin {
	return p.plugin
}

func (p *CloudFormation) instance() *myrmex.Instance {
	return p.plugin.Instance
}

func (p *CloudFormation) log() *logger.Logger {
	return p.instance().Log.Namespace("plugin=%s", Name)
}

// Templates loads the templates of the project, one document per template
func (p *CloudFormation) Templates(ctx context.Context) (*pipeline.Collection[*Template], error) {
	c := pipeline.NewCollection[*Template]("Templates")

	dir := p.instance().Path(config.Tree(p.plugin.Config).String("templatesPath"))

	if _, err := c.Load(ctx, p.instance().Bus(), dir, p.loadTemplate); err != nil {
		return nil, err
	}

	return c, nil
}

func (p *CloudFormation) loadTemplate(ctx context.Context, e pipeline.Entry) (*Template, error) {
	if e.Dir || !pipeline.IsDocument(e.Name) {
		return nil, pipeline.ErrArtifactNotFound
	}

	bus := p.instance().Bus()

	path, err := events.Fire(ctx, bus, EventBeforeTemplateLoad, e.Path)
	if err != nil {
		return nil, err
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterTemplateLoad, NewTemplate(pipeline.DocumentName(e.Name), doc))
}

func (p *CloudFormation) capabilities() ([]string, error) {
	caps := []string{}

	if err := pipeline.Convert(p.plugin.Config["capabilities"], &caps); err != nil {
		return nil, err
	}

	return caps, nil
}

func (p *CloudFormation) registerCommands(ctx context.Context, e *cli.Engine) error {
	p.commands(e)
	return nil
}
