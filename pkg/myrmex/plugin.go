package myrmex

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/pkg/errors"
)

// Extension is a function exposed by a plugin under "plugin:name"
type Extension func(ctx context.Context, args ...interface{}) (interface{}, error)

// Plugin is a named unit of extension
type Plugin struct {
	Name       string
	Version    string
	Config     map[string]interface{}
	Hooks      map[events.Event]events.Handler
	Listeners  map[events.Event]events.Listener
	Extensions map[string]Extension

	// Instance is set when the plugin is registered
	Instance *Instance
}

// Factory builds a plugin. Factories are resolved by identifier during Init.
type Factory func() (*Plugin, error)

var (
	catalog     = map[string]Factory{}
	catalogLock sync.RWMutex
)

// Register adds a plugin factory to the catalog. It is meant to be called
// from package init functions.
func Register(identifier string, fn Factory) {
	catalogLock.Lock()
	defer catalogLock.Unlock()

	catalog[identifier] = fn
}

// Catalog returns the identifiers of every registered factory
func Catalog() []string {
	catalogLock.RLock()
	defer catalogLock.RUnlock()

	ids := []string{}

	for id := range catalog {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Resolve looks a factory up by identifier, then by the last path element
// of the identifier so that project relative plugins ("./plugins/hello")
// resolve like installed ones
func Resolve(identifier string) (Factory, bool) {
	catalogLock.RLock()
	defer catalogLock.RUnlock()

	if fn, ok := catalog[identifier]; ok {
		return fn, true
	}

	base := identifier
	if i := strings.LastIndex(strings.TrimRight(base, "/"), "/"); i >= 0 {
		base = strings.TrimRight(base, "/")[i+1:]
	}

	if fn, ok := catalog[base]; ok {
		return fn, true
	}

	return nil, false
}

// ConfigKey is the key under which a plugin configuration lives in the
// project configuration: the camel cased plugin name
func ConfigKey(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		if i > 0 && len(rs) > 0 {
			rs[0] = unicode.ToUpper(rs[0])
		}
		words[i] = string(rs)
	}

	return strings.Join(words, "")
}

func validatePlugin(p *Plugin) error {
	if p == nil {
		return errors.Wrap(ErrInvalidPlugin, "nil plugin")
	}

	if strings.TrimSpace(p.Name) == "" {
		return errors.Wrap(ErrInvalidPlugin, "plugin name is required")
	}

	return nil
}
