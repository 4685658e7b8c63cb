package myrmex

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/convox/logger"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

const (
	EventAfterInit        events.Event = "afterInit"
	EventRegisterCommands events.Event = "registerCommands"
)

var Version = "dev"

// Instance is the orchestrator shared by every plugin of a process. It is
// built once at startup and handed to plugins on registration.
type Instance struct {
	Log *logger.Logger

	bus        *events.Bus
	config     config.Tree
	extensions map[string]Extension
	plugins    []*Plugin
	root       string
	lock       sync.RWMutex
}

type InitReport struct {
	Registered []string
	Unresolved []string
}

type PluginVersion struct {
	Name    string
	Version string
}

func New(w io.Writer) *Instance {
	if w == nil {
		w = ioutil.Discard
	}

	return &Instance{
		Log:        logger.NewWriter(fmt.Sprintf("ns=myrmex run=%s", uuid.NewV4().String()), w),
		bus:        events.NewBus(),
		config:     config.Tree{},
		extensions: map[string]Extension{},
	}
}

func (m *Instance) Bus() *events.Bus {
	return m.bus
}

// When registers a sequential hook
func (m *Instance) When(e events.Event, h events.Handler) {
	m.bus.On(e, h)
}

func (m *Instance) Fire(ctx context.Context, e events.Event, p events.Payload) (events.Payload, error) {
	m.Log.At("fire").Logf("event=%s listeners=%d", e, m.bus.Count(e))
	return m.bus.Fire(ctx, e, p)
}

func (m *Instance) FireConcurrently(ctx context.Context, e events.Event, p events.Payload) error {
	m.Log.At("fire").Logf("event=%s listeners=%d concurrent=true", e, m.bus.Count(e))
	return m.bus.FireConcurrently(ctx, e, p)
}

// RegisterPlugin validates a plugin, applies the project configuration to
// it and wires its hooks and extensions
func (m *Instance) RegisterPlugin(p *Plugin) error {
	if err := validatePlugin(p); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	for _, rp := range m.plugins {
		if rp.Name == p.Name {
			return errors.Wrapf(ErrDuplicatePlugin, "plugin %q is already registered", p.Name)
		}
	}

	key := ConfigKey(p.Name)

	if p.Config == nil {
		p.Config = map[string]interface{}{}
	}

	for k, v := range m.config.Map(key) {
		p.Config[k] = v
	}

	m.config[key] = p.Config

	m.plugins = append(m.plugins, p)

	for e, h := range p.Hooks {
		m.bus.On(e, h)
	}

	for e, l := range p.Listeners {
		m.bus.Listen(e, l)
	}

	for name, fn := range p.Extensions {
		m.extensions[fmt.Sprintf("%s:%s", p.Name, name)] = fn
	}

	p.Instance = m

	m.Log.At("register").Logf("plugin=%s hooks=%d extensions=%d", p.Name, len(p.Hooks)+len(p.Listeners), len(p.Extensions))

	return nil
}

func (m *Instance) IsPluginRegistered(name string) bool {
	_, err := m.GetPlugin(name)
	return err == nil
}

func (m *Instance) GetPlugin(name string) (*Plugin, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	for _, p := range m.plugins {
		if p.Name == name {
			return p, nil
		}
	}

	return nil, errors.Wrapf(ErrPluginNotFound, "the plugin %q is not registered", name)
}

func (m *Instance) Plugins() []*Plugin {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return append([]*Plugin{}, m.plugins...)
}

// Versions lists the core version followed by every registered plugin
func (m *Instance) Versions() []PluginVersion {
	vs := []PluginVersion{{Name: "core", Version: Version}}

	for _, p := range m.Plugins() {
		v := p.Version
		if v == "" {
			v = "unknown"
		}
		vs = append(vs, PluginVersion{Name: p.Name, Version: v})
	}

	return vs
}

// Call invokes an extension. When no plugin provides it the last argument
// is returned unchanged.
func (m *Instance) Call(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	m.lock.RLock()
	fn, ok := m.extensions[name]
	m.lock.RUnlock()

	if ok {
		return fn(ctx, args...)
	}

	if len(args) == 0 {
		return nil, nil
	}

	return args[len(args)-1], nil
}

// Init loads the project configuration and registers the plugins it
// declares. Unknown identifiers are skipped with a warning, a failing
// factory aborts the initialization.
func (m *Instance) Init(ctx context.Context, p *config.Project) (*InitReport, error) {
	log := m.Log.At("init").Start()

	m.lock.Lock()
	if p.Config != nil {
		m.config = p.Config
	}
	m.root = p.Root
	m.lock.Unlock()

	r := &InitReport{}

	for _, id := range p.Plugins {
		fn, ok := Resolve(id)
		if !ok {
			log.Logf("level=warn plugin=%q msg=%q", id, "could not find the plugin")
			r.Unresolved = append(r.Unresolved, id)
			continue
		}

		plugin, err := fn()
		if err != nil {
			return r, log.Error(errors.Wrapf(err, "could not load plugin %q", id))
		}

		if err := m.RegisterPlugin(plugin); err != nil {
			return r, log.Error(err)
		}

		r.Registered = append(r.Registered, plugin.Name)
	}

	if _, err := m.Fire(ctx, EventAfterInit, m); err != nil {
		return r, log.Error(err)
	}

	log.Successf("plugins=%d unresolved=%d", len(r.Registered), len(r.Unresolved))

	return r, nil
}

// GetConfig resolves a dotted key in the configuration, nil when absent
func (m *Instance) GetConfig(key string) interface{} {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.config.Get(key)
}

// Path resolves a project relative path
func (m *Instance) Path(rel string) string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(m.root, rel)
}

func (m *Instance) Config() config.Tree {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.config
}
