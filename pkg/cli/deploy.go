package cli

import (
	"os"
	"strings"
	"unicode"

	"github.com/convox/stdcli"
	"github.com/dustin/go-humanize"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/provider/aws"
)

const (
	DefaultEnvironment = "DEV"
	DefaultStage       = "v0"
	DefaultRegion      = "us-east-1"
)

var (
	FlagEnvironment = stdcli.StringFlag("environment", "e", "environment used as a prefix of deployed resources")
	FlagRegion      = stdcli.StringFlag("region", "r", "aws region")
	FlagStage       = stdcli.StringFlag("stage", "s", "stage used as a suffix of deployed resources")
	FlagWorkers     = stdcli.IntFlag("workers", "", "number of concurrent deployments")
	FlagAlias       = stdcli.StringFlag("alias", "", "lambda alias")
)

// DeployFlags are shared by every deploy command
var DeployFlags = []stdcli.Flag{FlagEnvironment, FlagRegion, FlagStage, FlagWorkers}

// DeployContext reads the deploy flags, falling back to the project
// configuration then to defaults
func DeployContext(m *myrmex.Instance, c *stdcli.Context) pipeline.Context {
	cfg := m.Config()

	return pipeline.Context{
		Environment: coalesce(c.String("environment"), cfg.String("environment"), DefaultEnvironment),
		Stage:       coalesce(c.String("stage"), cfg.String("stage"), DefaultStage),
		Region:      coalesce(c.String("region"), cfg.String("region"), os.Getenv("AWS_REGION"), os.Getenv("AWS_DEFAULT_REGION"), DefaultRegion),
		Alias:       coalesce(c.String("alias"), cfg.String("lambda.alias")),
	}
}

func Workers(c *stdcli.Context) int {
	if w := c.Int("workers"); w > 0 {
		return w
	}
	return 1
}

// Filter compiles the identifier arguments of a command
func Filter(c *stdcli.Context) (*pipeline.Filter, error) {
	return pipeline.NewFilter(c.Args)
}

// PrintReports prints a report table with the given metadata columns. It
// returns an exit error when any deployment failed.
func PrintReports(c *stdcli.Context, title string, service aws.Service, rs pipeline.Reports, columns ...string) error {
	c.Writef("<h1>%s</h1>\n", title)

	t := c.Table(append([]string{"NAME", "OPERATION"}, headers(columns)...)...)

	for _, r := range rs {
		op := string(r.Operation)
		if r.Failed {
			op = "Failed"
		}

		row := []string{r.Name, op}

		for _, col := range columns {
			row = append(row, r.Metadata[col])
		}

		t.AddRow(row...)
	}

	if err := t.Print(); err != nil {
		return err
	}

	if !rs.Failed() {
		return nil
	}

	for _, r := range rs {
		if !r.Failed {
			continue
		}

		c.Writef("<error>%s: %s</error>\n", r.Name, r.Error)

		if hint := aws.Hint(service, r.Error); hint != "" {
			c.Writef("%s\n", hint)
		}
	}

	return stdcli.Exit(1)
}

func Bytes(n int) string {
	return humanize.Bytes(uint64(n))
}

func coalesce(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// headers turns metadata keys into column headers: deployTime is DEPLOY TIME
func headers(keys []string) []string {
	hs := make([]string, len(keys))

	for i, key := range keys {
		var b strings.Builder

		for j, r := range key {
			if j > 0 && unicode.IsUpper(r) {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToUpper(r))
		}

		hs[i] = b.String()
	}

	return hs
}
