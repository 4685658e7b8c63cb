package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/pkg/errors"
)

var styles = map[string][]color.Attribute{
	"cmd":     {color.Bold},
	"error":   {color.FgRed, color.Bold},
	"info":    {color.FgCyan},
	"success": {color.FgGreen},
	"warning": {color.FgYellow},
}

// plugin exposes the output of the engine to other plugins
func (e *Engine) plugin() *myrmex.Plugin {
	return &myrmex.Plugin{
		Name:    "cli",
		Version: e.Version,
		Config:  map[string]interface{}{"colors": true},
		Extensions: map[string]myrmex.Extension{
			"print":  e.print,
			"format": e.format,
		},
	}
}

func (e *Engine) print(ctx context.Context, args ...interface{}) (interface{}, error) {
	if _, err := fmt.Fprint(e.Writer.Stdout, args...); err != nil {
		return nil, errors.WithStack(err)
	}

	return nil, nil
}

// format styles a text: cli:format(style, text)
func (e *Engine) format(ctx context.Context, args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, errors.Errorf("format expects a style and a text, got %d arguments", len(args))
	}

	style, ok := args[0].(string)
	if !ok {
		return nil, errors.Errorf("invalid style %v", args[0])
	}

	attrs, ok := styles[style]
	if !ok {
		return nil, errors.Errorf("unknown style %q", style)
	}

	return Colorize(e.colors(), fmt.Sprint(args[1]), attrs...), nil
}

func (e *Engine) colors() bool {
	if !e.Writer.Color {
		return false
	}

	if v, ok := e.Instance.Config().Lookup("cli.colors"); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}

	return true
}

func Colorize(enabled bool, text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)

	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c.Sprint(text)
}
