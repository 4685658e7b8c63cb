package pipeline

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Context is carried through deployment calls
type Context struct {
	Region      string
	Environment string
	Stage       string
	Alias       string
}

func (c Context) Name(base string) string {
	return BuildName(base, c.Environment, c.Stage)
}

// BuildName returns [environment_]base[_stage]
func BuildName(base, environment, stage string) string {
	parts := []string{}

	if environment != "" {
		parts = append(parts, environment)
	}

	parts = append(parts, base)

	if stage != "" {
		parts = append(parts, stage)
	}

	return strings.Join(parts, "_")
}

// Filter matches identifiers against glob patterns. No pattern matches
// everything.
type Filter struct {
	globs []glob.Glob
}

func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}

	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
		f.globs = append(f.globs, g)
	}

	return f, nil
}

func (f *Filter) Match(name string) bool {
	if f == nil || len(f.globs) == 0 {
		return true
	}

	for _, g := range f.globs {
		if g.Match(name) {
			return true
		}
	}

	return false
}

// Select keeps the items whose name matches the filter
func Select[T any](f *Filter, items []T, name func(T) string) []T {
	sel := []T{}

	for _, i := range items {
		if f.Match(name(i)) {
			sel = append(sel, i)
		}
	}

	return sel
}
