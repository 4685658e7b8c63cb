package iam_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	mockaws "github.com/myrmex-org/myrmex/pkg/mock/aws"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/plugins/iam"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/stretchr/testify/require"
)

func testScaffold(t *testing.T, fn func(*iam.IAM, *myrmex.Instance, string)) {
	root := t.TempDir()

	m := myrmex.New(nil)

	_, err := m.Init(context.Background(), &config.Project{Root: root})
	require.NoError(t, err)

	p := iam.New(func(region string) (*provider.Provider, error) {
		return &provider.Provider{Region: region, IAM: &mockaws.IAMAPI{}}, nil
	})

	require.NoError(t, m.RegisterPlugin(p.Plugin()))

	fn(p, m, root)
}

func TestCreateRole(t *testing.T) {
	testScaffold(t, func(p *iam.IAM, m *myrmex.Instance, root string) {
		path, err := p.CreateRole("resize-images", "LambdaBasicExecutionRole", []string{"s3-read"})
		require.NoError(t, err)
		require.Equal(t, filepath.Join(root, "iam", "roles", "resize-images.json"), path)

		_, err = p.CreateRole("auditor", "", nil)
		require.NoError(t, err)

		c, err := p.Roles(context.Background())
		require.NoError(t, err)
		require.Len(t, c.Items, 2)

		auditor := c.Items[0]
		require.Equal(t, "auditor", auditor.Name)
		require.Empty(t, auditor.ManagedPolicies)
		require.Equal(t, map[string]interface{}{"AWS": "*"}, auditor.TrustRelationship["Statement"].([]interface{})[0].(map[string]interface{})["Principal"])

		resize := c.Items[1]
		require.Equal(t, "Allows a lambda to write its logs in CloudWatch", resize.Description)
		require.Equal(t, []string{"arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole", "s3-read"}, resize.ManagedPolicies)
	})
}

func TestCreateRoleErrors(t *testing.T) {
	testScaffold(t, func(p *iam.IAM, m *myrmex.Instance, root string) {
		_, err := p.CreateRole("bad name", "", nil)
		require.EqualError(t, err, `invalid role identifier "bad name", only alphanumeric characters, _ and - are accepted`)

		_, err = p.CreateRole("auditor", "S3FullAccess", nil)
		require.EqualError(t, err, `unknown role model "S3FullAccess"`)

		_, err = p.CreateRole("auditor", "", nil)
		require.NoError(t, err)

		_, err = p.CreateRole("auditor", "", nil)
		require.EqualError(t, err, filepath.Join(root, "iam", "roles", "auditor.json")+" already exists")
	})
}

func TestCreatePolicy(t *testing.T) {
	testScaffold(t, func(p *iam.IAM, m *myrmex.Instance, root string) {
		_, err := p.CreatePolicy("s3-write")
		require.NoError(t, err)

		c, err := p.Policies(context.Background())
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		require.Equal(t, "s3-write", c.Items[0].Name)
		require.Equal(t, "Deny", c.Items[0].Document["Statement"].([]interface{})[0].(map[string]interface{})["Effect"])
	})
}

func TestCreateCommands(t *testing.T) {
	testScaffold(t, func(p *iam.IAM, m *myrmex.Instance, root string) {
		e := cli.New("myrmex", "test", m)
		require.NoError(t, e.RegisterCommands(context.Background()))

		res, err := testExecute(e, "create-role invoker -m APIGatewayLambdaInvocation -p 's3-read, s3-write'")
		require.NoError(t, err)
		require.Equal(t, 0, res.Code, res.Stderr)
		require.Equal(t, "The IAM role invoker has been created in "+filepath.Join(root, "iam", "roles", "invoker.json")+"\n", res.Stdout)

		res, err = testExecute(e, "create-policy s3-write")
		require.NoError(t, err)
		require.Equal(t, 0, res.Code, res.Stderr)

		res, err = testExecute(e, "create-policy")
		require.NoError(t, err)
		require.Equal(t, 1, res.Code)

		c, err := p.Roles(context.Background())
		require.NoError(t, err)
		require.Equal(t, []string{"arn:aws:iam::aws:policy/service-role/AWSLambdaRole", "s3-read", "s3-write"}, c.Items[0].ManagedPolicies)
	})
}
