package cli

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/convox/stdcli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/pkg/errors"
)

type HandlerFunc func(*myrmex.Instance, *stdcli.Context) error

const LogFile = "myrmex.log"

func New(name, version string, m *myrmex.Instance) *Engine {
	e := &Engine{
		Engine:   stdcli.New(name, version),
		Instance: m,
	}

	return e
}

// Boot loads the project found above dir, registers its plugins and the
// commands they provide. Outside of a project only the core commands are
// available and nothing is logged.
func Boot(ctx context.Context, name, version, dir string, environ []string) (*Engine, io.Closer, error) {
	var w io.WriteCloser = nopCloser{ioutil.Discard}

	root, ok := config.ResolveProjectRoot(dir)
	if ok {
		fd, err := os.OpenFile(filepath.Join(root, LogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		w = fd
	} else {
		root = dir
	}

	m := myrmex.New(w)

	p, err := config.LoadProject(root, environ)
	if err != nil {
		w.Close()
		return nil, nil, err
	}

	e := New(name, version, m)

	r, err := m.Init(ctx, p)
	if err != nil {
		w.Close()
		return nil, nil, err
	}

	for _, id := range r.Unresolved {
		fmt.Fprintf(e.Writer.Stderr, "WARNING: could not find the plugin %q\n", id)
	}

	if err := m.RegisterPlugin(e.plugin()); err != nil {
		w.Close()
		return nil, nil, err
	}

	if err := e.RegisterCommands(ctx); err != nil {
		w.Close()
		return nil, nil, err
	}

	return e, w, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
