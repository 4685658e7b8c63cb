package iam

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/convox/stdcli"
	"github.com/gobuffalo/packr"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/templater"
	"github.com/pkg/errors"
)

const DefaultRoleModel = "none"

var (
	reIdentifier = regexp.MustCompile(`(?i)^[a-z0-9_-]+$`)

	templates = templater.New(packr.NewBox("./templates"), nil)
)

// CreateRole writes the configuration of a new role based on a model.
// Policies are identifiers of project policies or ARNs.
func (p *IAM) CreateRole(identifier, model string, policies []string) (string, error) {
	if !reIdentifier.MatchString(identifier) {
		return "", errors.Errorf("invalid role identifier %q, only alphanumeric characters, _ and - are accepted", identifier)
	}

	if model == "" {
		model = DefaultRoleModel
	}

	name := filepath.Join("roles", model+".json.tmpl")

	if !templates.Has(name) {
		return "", errors.Errorf("unknown role model %q", model)
	}

	if policies == nil {
		policies = []string{}
	}

	path := filepath.Join(p.path("rolesPath"), identifier+".json")

	if err := templates.Write(path, name, map[string]interface{}{"Policies": policies}); err != nil {
		return "", err
	}

	return path, nil
}

// CreatePolicy writes a new policy denying everything
func (p *IAM) CreatePolicy(identifier string) (string, error) {
	if !reIdentifier.MatchString(identifier) {
		return "", errors.Errorf("invalid policy identifier %q, only alphanumeric characters, _ and - are accepted", identifier)
	}

	path := filepath.Join(p.path("policiesPath"), identifier+".json")

	if err := templates.Write(path, "policy.json.tmpl", nil); err != nil {
		return "", err
	}

	return path, nil
}

func (p *IAM) CreateRoleCommand(m *myrmex.Instance, c *stdcli.Context) error {
	path, err := p.CreateRole(c.Arg(0), c.String("model"), split(c.String("policies")))
	if err != nil {
		return err
	}

	c.Writef("The IAM role <id>%s</id> has been created in <value>%s</value>\n", c.Arg(0), path)

	return nil
}

func (p *IAM) CreatePolicyCommand(m *myrmex.Instance, c *stdcli.Context) error {
	path, err := p.CreatePolicy(c.Arg(0))
	if err != nil {
		return err
	}

	c.Writef("The IAM policy <id>%s</id> has been created in <value>%s</value>\n", c.Arg(0), path)

	return nil
}

func split(s string) []string {
	ss := []string{}

	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ss = append(ss, v)
		}
	}

	return ss
}
