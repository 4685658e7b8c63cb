package cloudformation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	awscf "github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/convox/logger"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	mockaws "github.com/myrmex-org/myrmex/pkg/mock/aws"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/pkg/plugins/cloudformation"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pc = pipeline.Context{Environment: "DEV", Stage: "v0", Region: "us-east-1"}

var capabilities = aws.StringSlice([]string{"CAPABILITY_IAM", "CAPABILITY_NAMED_IAM"})

func init() {
	logger.Output = &bytes.Buffer{}
}

type result struct {
	Code   int
	Stdout string
	Stderr string
}

func testExecute(e *cli.Engine, cmd string) (*result, error) {
	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}

	e.Reader.Reader = &bytes.Buffer{}

	e.Writer.Color = false
	e.Writer.Stdout = &stdout
	e.Writer.Stderr = &stderr

	cp, err := shellquote.Split(cmd)
	if err != nil {
		return nil, err
	}

	return &result{
		Code:   e.Execute(cp),
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}

func testCloudFormation(t *testing.T, project config.Tree, fn func(*cloudformation.CloudFormation, *myrmex.Instance, *mockaws.CloudFormationAPI)) {
	api := &mockaws.CloudFormationAPI{}

	m := myrmex.New(nil)

	_, err := m.Init(context.Background(), &config.Project{Root: "testdata/project", Config: project})
	require.NoError(t, err)

	p := cloudformation.New(func(region string) (*provider.Provider, error) {
		return &provider.Provider{Region: region, CloudFormation: api}, nil
	})

	require.NoError(t, m.RegisterPlugin(p.Plugin()))

	fn(p, m, api)

	api.AssertExpectations(t)
}

func storage(t *testing.T, p *cloudformation.CloudFormation) *cloudformation.Template {
	c, err := p.Templates(context.Background())
	require.NoError(t, err)

	for _, tpl := range c.Items {
		if tpl.Identifier == "storage" {
			return tpl
		}
	}

	require.FailNow(t, "storage template not loaded")
	return nil
}

func body(t *testing.T, tpl *cloudformation.Template) *string {
	data, err := json.Marshal(tpl.Document)
	require.NoError(t, err)
	return aws.String(string(data))
}

func TestTemplates(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		c, err := p.Templates(context.Background())
		require.NoError(t, err)
		require.Equal(t, pipeline.Loaded, c.State())
		require.Len(t, c.Items, 2)

		require.Equal(t, "queues", c.Items[0].Identifier)
		require.Equal(t, "AWS::SQS::Queue", config.Tree(c.Items[0].Document).Get("Resources.InvoiceQueue.Type"))

		require.Equal(t, "storage", c.Items[1].Identifier)
		require.Equal(t, "Tables of the sales project", c.Items[1].Document["Description"])
	})
}

func TestTemplatesLoadHook(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		events.On(m.Bus(), "afterTemplatesLoad", func(ctx context.Context, ts []*cloudformation.Template) ([]*cloudformation.Template, error) {
			return ts[:1], nil
		})

		c, err := p.Templates(context.Background())
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		require.Equal(t, "queues", c.Items[0].Identifier)
	})
}

func TestDeployTemplateCreation(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		tpl := storage(t, p)

		api.On("CreateStackWithContext", &awscf.CreateStackInput{
			Capabilities: capabilities,
			StackName:    aws.String("DEV_storage_v0"),
			TemplateBody: body(t, tpl),
		}).Return(&awscf.CreateStackOutput{StackId: aws.String("stack/DEV_storage_v0/1")}, nil)

		r := p.DeployTemplate(context.Background(), pc, tpl)
		require.NoError(t, r.Error)
		require.Equal(t, "DEV_storage_v0", r.Name)
		require.Equal(t, pipeline.OperationCreation, r.Operation)
		require.Equal(t, "stack/DEV_storage_v0/1", r.Metadata["stackId"])
	})
}

func TestDeployTemplateUpdate(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		tpl := storage(t, p)

		api.On("CreateStackWithContext", mock.Anything).Return(nil, awserr.New("AlreadyExistsException", "Stack [DEV_storage_v0] already exists", nil))
		api.On("UpdateStackWithContext", &awscf.UpdateStackInput{
			Capabilities: capabilities,
			StackName:    aws.String("DEV_storage_v0"),
			TemplateBody: body(t, tpl),
		}).Return(&awscf.UpdateStackOutput{StackId: aws.String("stack/DEV_storage_v0/1")}, nil)

		r := p.DeployTemplate(context.Background(), pc, tpl)
		require.NoError(t, r.Error)
		require.Equal(t, pipeline.OperationUpdate, r.Operation)
	})
}

func TestDeployTemplateUpToDate(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		tpl := storage(t, p)

		api.On("CreateStackWithContext", mock.Anything).Return(nil, awserr.New("AlreadyExistsException", "Stack [DEV_storage_v0] already exists", nil))
		api.On("UpdateStackWithContext", mock.Anything).Return(nil, awserr.New("ValidationError", "No updates are to be performed.", nil))

		r := p.DeployTemplate(context.Background(), pc, tpl)
		require.NoError(t, r.Error)
		require.Equal(t, pipeline.OperationUpToDate, r.Operation)
		require.Empty(t, r.Metadata["stackId"])
	})
}

func TestDeployTemplateCapabilities(t *testing.T) {
	project := config.Tree{"cloudFormation": map[string]interface{}{"capabilities": []interface{}{"CAPABILITY_AUTO_EXPAND"}}}

	testCloudFormation(t, project, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		tpl := storage(t, p)

		api.On("CreateStackWithContext", mock.MatchedBy(func(in *awscf.CreateStackInput) bool {
			return len(in.Capabilities) == 1 && aws.StringValue(in.Capabilities[0]) == "CAPABILITY_AUTO_EXPAND"
		})).Return(&awscf.CreateStackOutput{StackId: aws.String("s")}, nil)

		r := p.DeployTemplate(context.Background(), pc, tpl)
		require.NoError(t, r.Error)
	})
}

func TestDeployTemplateFailure(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		tpl := storage(t, p)

		api.On("CreateStackWithContext", mock.Anything).Return(nil, awserr.New("ValidationError", "Template format error", nil))

		r := p.DeployTemplate(context.Background(), pc, tpl)
		require.True(t, r.Failed)
		require.Contains(t, r.Error.Error(), "could not create stack DEV_storage_v0")
	})
}

func TestDeployTemplatesCommand(t *testing.T) {
	testCloudFormation(t, nil, func(p *cloudformation.CloudFormation, m *myrmex.Instance, api *mockaws.CloudFormationAPI) {
		e := cli.New("myrmex", "test", m)
		require.NoError(t, e.RegisterCommands(context.Background()))

		api.On("CreateStackWithContext", mock.MatchedBy(func(in *awscf.CreateStackInput) bool {
			return aws.StringValue(in.StackName) == "PROD_queues_v0"
		})).Return(&awscf.CreateStackOutput{StackId: aws.String("stack/PROD_queues_v0/9")}, nil)

		res, err := testExecute(e, "deploy-templates queues -e PROD")
		require.NoError(t, err)
		require.Equal(t, 0, res.Code, res.Stderr)
		require.Contains(t, res.Stdout, "Templates deployed")
		require.Regexp(t, `PROD_queues_v0\s+Creation\s+stack/PROD_queues_v0/9`, res.Stdout)
	})
}
