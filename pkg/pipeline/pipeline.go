package pipeline

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/pkg/errors"
)

type State int

const (
	NotLoaded State = iota
	Loading
	Loaded
	Assembling
	Assembled
	Deploying
	Deployed
	Failed
)

var stateNames = map[State]string{
	NotLoaded:  "not-loaded",
	Loading:    "loading",
	Loaded:     "loaded",
	Assembling: "assembling",
	Assembled:  "assembled",
	Deploying:  "deploying",
	Deployed:   "deployed",
	Failed:     "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Entry is a candidate artifact found in a collection directory
type Entry struct {
	Name string
	Path string
	Dir  bool
}

// Loader turns an entry into an artifact. Returning ErrArtifactNotFound
// skips the entry.
type Loader[T any] func(ctx context.Context, e Entry) (T, error)

// Lister enumerates the entries of a collection directory
type Lister func(dir string) ([]Entry, error)

// Collection holds the artifacts of one kind and tracks their lifecycle
type Collection[T any] struct {
	Name  string
	Items []T

	state State
	lock  sync.Mutex
}

func NewCollection[T any](name string) *Collection[T] {
	return &Collection[T]{Name: name}
}

func (c *Collection[T]) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.state
}

func (c *Collection[T]) setState(s State) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.state = s
}

func (c *Collection[T]) BeforeLoadEvent() events.Event {
	return events.Event(fmt.Sprintf("before%sLoad", c.Name))
}

func (c *Collection[T]) AfterLoadEvent() events.Event {
	return events.Event(fmt.Sprintf("after%sLoad", c.Name))
}

// Load reads the artifacts of dir. The before hook may redirect the
// directory and the after hook returns the authoritative list.
func (c *Collection[T]) Load(ctx context.Context, bus *events.Bus, dir string, load Loader[T]) ([]T, error) {
	return c.LoadWith(ctx, bus, dir, Entries, load)
}

func (c *Collection[T]) LoadWith(ctx context.Context, bus *events.Bus, dir string, list Lister, load Loader[T]) ([]T, error) {
	c.setState(Loading)

	items, err := c.load(ctx, bus, dir, list, load)
	if err != nil {
		c.setState(Failed)
		return nil, err
	}

	c.lock.Lock()
	c.Items = items
	c.state = Loaded
	c.lock.Unlock()

	return items, nil
}

func (c *Collection[T]) load(ctx context.Context, bus *events.Bus, dir string, list Lister, load Loader[T]) ([]T, error) {
	dir, err := events.Fire(ctx, bus, c.BeforeLoadEvent(), dir)
	if err != nil {
		return nil, err
	}

	entries, err := list(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list %s", dir)
	}

	items := []T{}

	for _, e := range entries {
		item, err := load(ctx, e)
		if errors.Cause(err) == ErrArtifactNotFound {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "could not load %s", e.Path)
		}

		items = append(items, item)
	}

	return events.Fire(ctx, bus, c.AfterLoadEvent(), items)
}

// Assemble runs fn over the loaded collection
func (c *Collection[T]) Assemble(fn func(items []T) error) error {
	c.setState(Assembling)

	if err := fn(c.Items); err != nil {
		c.setState(Failed)
		return err
	}

	c.setState(Assembled)

	return nil
}

// Deploy deploys the items through a worker pool. The collection ends in
// the Failed state when any report failed.
func (c *Collection[T]) Deploy(ctx context.Context, items []T, workers int, name func(T) string, fn DeployFunc[T]) Reports {
	c.setState(Deploying)

	rs := Deploy(ctx, items, workers, name, fn)

	if rs.Failed() {
		c.setState(Failed)
	} else {
		c.setState(Deployed)
	}

	return rs
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// Entries lists the entries of dir sorted by name. A missing directory has
// no entries.
func Entries(dir string) ([]Entry, error) {
	fis, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	es := []Entry{}

	for _, fi := range fis {
		es = append(es, Entry{
			Name: fi.Name(),
			Path: filepath.Join(dir, fi.Name()),
			Dir:  fi.IsDir(),
		})
	}

	return es, nil
}
