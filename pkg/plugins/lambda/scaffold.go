package lambda

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/convox/stdcli"
	"github.com/gobuffalo/packr"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/templater"
	"github.com/pkg/errors"
)

const (
	DefaultRuntime    = "nodejs18.x"
	DefaultMemorySize = 128
)

var (
	reIdentifier = regexp.MustCompile(`(?i)^[a-z0-9_-]+$`)

	scaffolds = templater.New(packr.NewBox("./templates"), nil)

	// files written next to config.json, per runtime family
	runtimeFiles = map[string][]string{
		"nodejs": {"package.json", "index.js"},
		"python": {"lambda_function.py", "setup.cfg", "requirements.txt"},
	}
)

// LambdaOptions describe the lambda written by CreateLambda
type LambdaOptions struct {
	Runtime string
	Role    string
	Timeout int
	Memory  int
}

// CreateLambda writes the configuration and a handler for a new lambda
func (p *Lambdas) CreateLambda(identifier string, opts LambdaOptions) (string, error) {
	if !reIdentifier.MatchString(identifier) {
		return "", errors.Errorf("invalid lambda identifier %q, only alphanumeric characters, _ and - are accepted", identifier)
	}

	if opts.Runtime == "" {
		opts.Runtime = DefaultRuntime
	}

	family := runtimeFamily(opts.Runtime)

	if _, ok := runtimeFiles[family]; !ok {
		return "", errors.Errorf("unsupported runtime %q, expected a nodejs or python runtime", opts.Runtime)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Memory <= 0 {
		opts.Memory = DefaultMemorySize
	}

	dir := filepath.Join(p.instance().Path(config.Tree(p.plugin.Config).String("lambdasPath")), identifier)

	params := map[string]interface{}{
		"Identifier": identifier,
		"Runtime":    opts.Runtime,
		"Role":       opts.Role,
		"Timeout":    opts.Timeout,
		"Memory":     opts.Memory,
	}

	if _, err := os.Stat(dir); err == nil {
		return "", errors.Errorf("%s already exists", dir)
	}

	if err := scaffolds.Write(filepath.Join(dir, "config.json"), "config.json.tmpl", params); err != nil {
		return "", err
	}

	for _, f := range runtimeFiles[family] {
		if err := scaffolds.Write(filepath.Join(dir, f), family+"/"+f+".tmpl", params); err != nil {
			return "", err
		}
	}

	if err := scaffolds.Write(filepath.Join(dir, "events", "example.json"), "events/example.json.tmpl", params); err != nil {
		return "", err
	}

	return dir, nil
}

func runtimeFamily(runtime string) string {
	for family := range runtimeFiles {
		if strings.HasPrefix(runtime, family) {
			return family
		}
	}
	return ""
}

func (p *Lambdas) CreateLambdaCommand(m *myrmex.Instance, c *stdcli.Context) error {
	dir, err := p.CreateLambda(c.Arg(0), LambdaOptions{
		Runtime: c.String("runtime"),
		Role:    c.String("role"),
		Timeout: c.Int("timeout"),
		Memory:  c.Int("memory"),
	})
	if err != nil {
		return err
	}

	c.Writef("The lambda <id>%s</id> has been created in <value>%s</value>\n", c.Arg(0), dir)

	return nil
}
