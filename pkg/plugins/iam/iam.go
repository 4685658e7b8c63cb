package iam

import (
	"context"
	"path/filepath"

	"github.com/convox/logger"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

const (
	Name    = "iam"
	Version = "1.0.0"
)

const (
	EventBeforeRoleLoad     events.Event = "beforeRoleLoad"
	EventAfterRoleLoad      events.Event = "afterRoleLoad"
	EventBeforePolicyLoad   events.Event = "beforePolicyLoad"
	EventAfterPolicyLoad    events.Event = "afterPolicyLoad"
	EventBeforeDeployRole   events.Event = "beforeDeployRole"
	EventAfterDeployRole    events.Event = "afterDeployRole"
	EventBeforeDeployPolicy events.Event = "beforeDeployPolicy"
	EventAfterDeployPolicy  events.Event = "afterDeployPolicy"
)

func init() {
	myrmex.Register("@myrmex/iam", func() (*myrmex.Plugin, error) {
		return New(provider.Default.Get).Plugin(), nil
	})
}

type Providers func(region string) (*provider.Provider, error)

type IAM struct {
	providers Providers
	plugin    *myrmex.Plugin
}

func New(providers Providers) *IAM {
	p := &IAM{providers: providers}

	p.plugin = &myrmex.Plugin{
		Name:    Name,
		Version: Version,
		Config: map[string]interface{}{
			"policiesPath": filepath.Join("iam", "policies"),
			"rolesPath":    filepath.Join("iam", "roles"),
		},
		Listeners: map[events.Event]events.Listener{
			myrmex.EventRegisterCommands: events.Notify(myrmex.EventRegisterCommands, p.registerCommands),
		},
		Extensions: map[string]myrmex.Extension{
			"getRoles":        p.getRoles,
			"retrieveRoleArn": p.retrieveRoleArnExtension,
		},
	}

	return p
}

func (p *IAM) Plugin() *myrmex.Plugin {
	return p.plugin
}

func (p *IAM) instance() *myrmex.Instance {
	return p.plugin.Instance
}

func (p *IAM) log() *logger.Logger {
	return p.instance().Log.Namespace("plugin=%s", Name)
}

func (p *IAM) path(key string) string {
	return p.instance().Path(config.Tree(p.plugin.Config).String(key))
}

// Roles loads the roles of the project
func (p *IAM) Roles(ctx context.Context) (*pipeline.Collection[*Role], error) {
	c := pipeline.NewCollection[*Role]("Roles")

	if _, err := c.Load(ctx, p.instance().Bus(), p.path("rolesPath"), p.loadRole); err != nil {
		return nil, err
	}

	return c, nil
}

// Policies loads the policies of the project
func (p *IAM) Policies(ctx context.Context) (*pipeline.Collection[*Policy], error) {
	c := pipeline.NewCollection[*Policy]("Policies")

	if _, err := c.Load(ctx, p.instance().Bus(), p.path("policiesPath"), p.loadPolicy); err != nil {
		return nil, err
	}

	return c, nil
}

func (p *IAM) loadRole(ctx context.Context, e pipeline.Entry) (*Role, error) {
	if e.Dir || !pipeline.IsDocument(e.Name) {
		return nil, pipeline.ErrArtifactNotFound
	}

	bus := p.instance().Bus()

	path, err := events.Fire(ctx, bus, EventBeforeRoleLoad, e.Path)
	if err != nil {
		return nil, err
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	r, err := NewRole(pipeline.DocumentName(e.Name), doc)
	if err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterRoleLoad, r)
}

func (p *IAM) loadPolicy(ctx context.Context, e pipeline.Entry) (*Policy, error) {
	if e.Dir || !pipeline.IsDocument(e.Name) {
		return nil, pipeline.ErrArtifactNotFound
	}

	bus := p.instance().Bus()

	path, err := events.Fire(ctx, bus, EventBeforePolicyLoad, e.Path)
	if err != nil {
		return nil, err
	}

	doc, err := config.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	return events.Fire(ctx, bus, EventAfterPolicyLoad, NewPolicy(pipeline.DocumentName(e.Name), doc))
}

func (p *IAM) getRoles(ctx context.Context, args ...interface{}) (interface{}, error) {
	c, err := p.Roles(ctx)
	if err != nil {
		return nil, err
	}

	return c.Items, nil
}

// retrieveRoleArn(identifier string, context pipeline.Context[, fallback])
// The trailing fallback only matters when the iam plugin is absent.
func (p *IAM) retrieveRoleArnExtension(ctx context.Context, args ...interface{}) (interface{}, error) {
	if len(args) < 2 {
		return nil, errors.Errorf("retrieveRoleArn expects an identifier and a context, got %d arguments", len(args))
	}

	id, ok := args[0].(string)
	if !ok {
		return nil, errors.Errorf("invalid role identifier %v", args[0])
	}

	pc, ok := args[1].(pipeline.Context)
	if !ok {
		return nil, errors.Errorf("invalid deployment context %T", args[1])
	}

	return p.RetrieveRoleArn(ctx, pc, id)
}

func (p *IAM) registerCommands(ctx context.Context, e *cli.Engine) error {
	p.commands(e)
	return nil
}
