package cli

import (
	"encoding/json"
	"regexp"

	"github.com/convox/stdcli"
	"github.com/fatih/color"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/pkg/errors"
)

func init() {
	register("show-config", "show the project configuration", ShowConfig, stdcli.CommandOptions{
		Flags: []stdcli.Flag{
			stdcli.BoolFlag("colors", "", "highlight the output"),
		},
		Validate: stdcli.Args(0),
	})

	register("plugins", "list the registered plugins", Plugins, stdcli.CommandOptions{
		Validate: stdcli.Args(0),
	})
}

var reConfigKey = regexp.MustCompile(`(?m)^(\s*)("[^"]+"):`)

func ShowConfig(m *myrmex.Instance, c *stdcli.Context) error {
	return PrintJSON(c, m.Config(), c.Bool("colors"))
}

// PrintJSON writes an indented document, highlighting its keys when colors
// is set
func PrintJSON(c *stdcli.Context, v interface{}, colors bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	out := string(data)

	if colors {
		out = reConfigKey.ReplaceAllStringFunc(out, func(s string) string {
			sm := reConfigKey.FindStringSubmatch(s)
			return sm[1] + Colorize(true, sm[2], color.FgCyan) + ":"
		})
	}

	c.Writef("%s\n", out)

	return nil
}

func Plugins(m *myrmex.Instance, c *stdcli.Context) error {
	t := c.Table("NAME", "VERSION")

	for _, v := range m.Versions() {
		t.AddRow(v.Name, v.Version)
	}

	return t.Print()
}
