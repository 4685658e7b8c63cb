package cli

import (
	"context"
	"sync"

	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
)

type Engine struct {
	*stdcli.Engine
	Instance *myrmex.Instance

	lock sync.Mutex
}

// Command adds a command to the engine. Plugins call it from concurrent
// registerCommands listeners.
func (e *Engine) Command(command, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	e.lock.Lock()
	defer e.lock.Unlock()

	wfn := func(c *stdcli.Context) error {
		return fn(e.Instance, c)
	}

	e.Engine.Command(command, description, wfn, opts)
}

// RegisterCommands adds the core commands then lets every plugin add its
// own
func (e *Engine) RegisterCommands(ctx context.Context) error {
	for _, c := range commands {
		e.Command(c.Command, c.Description, c.Handler, c.Opts)
	}

	return e.Instance.FireConcurrently(ctx, myrmex.EventRegisterCommands, e)
}

var commands = []command{}

type command struct {
	Command     string
	Description string
	Handler     HandlerFunc
	Opts        stdcli.CommandOptions
}

func register(cmd, description string, fn HandlerFunc, opts stdcli.CommandOptions) {
	commands = append(commands, command{
		Command:     cmd,
		Description: description,
		Handler:     fn,
		Opts:        opts,
	})
}
