package lambda_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	awsiam "github.com/aws/aws-sdk-go/service/iam"
	awslambda "github.com/aws/aws-sdk-go/service/lambda"
	"github.com/convox/logger"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	mockaws "github.com/myrmex-org/myrmex/pkg/mock/aws"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/packager"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
	"github.com/myrmex-org/myrmex/pkg/plugins/iam"
	"github.com/myrmex-org/myrmex/pkg/plugins/lambda"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	listSalesArn = "arn:aws:lambda:us-east-1:123456789012:function:DEV-list-sales"
	roleArn      = "arn:aws:iam::123456789012:role/DEV_lambda-basic_v0"
)

var pc = pipeline.Context{Environment: "DEV", Stage: "v0", Region: "us-east-1"}

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

func testLambdas(t *testing.T, fn func(*lambda.Lambdas, *myrmex.Instance, *mockaws.LambdaAPI)) {
	api := &mockaws.LambdaAPI{}

	m := myrmex.New(nil)

	_, err := m.Init(context.Background(), &config.Project{Root: "testdata/project"})
	require.NoError(t, err)

	p := lambda.New(func(region string) (*provider.Provider, error) {
		return &provider.Provider{Region: region, Lambda: api}, nil
	})

	require.NoError(t, m.RegisterPlugin(p.Plugin()))

	require.NoError(t, m.RegisterPlugin(&myrmex.Plugin{
		Name: "iam",
		Extensions: map[string]myrmex.Extension{
			"retrieveRoleArn": func(ctx context.Context, args ...interface{}) (interface{}, error) {
				return "arn:aws:iam::123456789012:role/" + args[1].(pipeline.Context).Name(args[0].(string)), nil
			},
		},
	}))

	fn(p, m, api)

	api.AssertExpectations(t)
}

func listSalesZip(t *testing.T) []byte {
	data, err := packager.Zip("testdata/project/lambda/lambdas/list-sales", nil)
	require.NoError(t, err)
	return data
}

func notFound() error {
	return awserr.New("ResourceNotFoundException", "Function not found", nil)
}

func listSalesConfiguration(sha string) *awslambda.FunctionConfiguration {
	return &awslambda.FunctionConfiguration{
		CodeSha256:   aws.String(sha),
		Description:  aws.String("List the sales of the shop"),
		Environment:  &awslambda.EnvironmentResponse{Variables: map[string]*string{"TABLE": aws.String("sales")}},
		FunctionArn:  aws.String(listSalesArn),
		FunctionName: aws.String("DEV-list-sales"),
		Handler:      aws.String("index.handler"),
		MemorySize:   aws.Int64(256),
		Role:         aws.String(roleArn),
		Runtime:      aws.String("nodejs18.x"),
		Timeout:      aws.Int64(15),
		Version:      aws.String("$LATEST"),
	}
}

func TestLambdas(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		c, err := p.Lambdas(context.Background())
		require.NoError(t, err)
		require.Equal(t, pipeline.Loaded, c.State())
		require.Len(t, c.Items, 2)

		ds := c.Items[0]
		require.Equal(t, "delete-sale", ds.Identifier)
		require.Equal(t, "python3.12", ds.Params["Runtime"])
		require.EqualValues(t, 30, ds.Params["Timeout"])
		require.Equal(t, "back-office", ds.Myrmex["owner"])

		ls := c.Items[1]
		require.Equal(t, "list-sales", ls.Identifier)
		require.Equal(t, "list-sales", ls.Params["FunctionName"])
		require.EqualValues(t, lambda.DefaultTimeout, ls.Params["Timeout"])
		require.Equal(t, "DEV-list-sales", ls.FunctionName(pc))
		require.Equal(t, "list-sales", ls.FunctionName(pipeline.Context{}))
	})
}

func TestLambdaWithoutRuntime(t *testing.T) {
	_, err := lambda.NewLambda("broken", "", map[string]interface{}{"params": map[string]interface{}{"Handler": "index.handler"}})
	require.EqualError(t, err, "the lambda broken has no runtime")
}

func TestLambdaLoadHooks(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		events.On(m.Bus(), lambda.EventAfterLambdaLoad, func(ctx context.Context, l *lambda.Lambda) (*lambda.Lambda, error) {
			l.Params["MemorySize"] = 512
			return l, nil
		})

		l, err := p.FindLambda(context.Background(), "delete-sale")
		require.NoError(t, err)
		require.Equal(t, 512, l.Params["MemorySize"])

		_, err = p.FindLambda(context.Background(), "unknown")
		require.EqualError(t, err, `the lambda "unknown" does not exist in this project`)
	})
}

func TestDeployLambdaCreation(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		l, err := p.FindLambda(context.Background(), "list-sales")
		require.NoError(t, err)

		data := listSalesZip(t)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(nil, notFound())

		api.On("CreateFunctionWithContext", mock.MatchedBy(func(in *awslambda.CreateFunctionInput) bool {
			return aws.StringValue(in.FunctionName) == "DEV-list-sales" &&
				aws.StringValue(in.Role) == roleArn &&
				aws.StringValue(in.Runtime) == "nodejs18.x" &&
				aws.Int64Value(in.MemorySize) == 256 &&
				aws.Int64Value(in.Timeout) == 15 &&
				aws.StringValue(in.Environment.Variables["TABLE"]) == "sales" &&
				!aws.BoolValue(in.Publish) &&
				bytes.Equal(in.Code.ZipFile, data)
		})).Return(listSalesConfiguration(packager.Sha256(data)), nil)

		deployed := 0

		events.On(m.Bus(), lambda.EventAfterDeployLambda, func(ctx context.Context, l *lambda.Lambda) (*lambda.Lambda, error) {
			deployed++
			return l, nil
		})

		r := p.DeployLambda(context.Background(), pc, l)
		require.NoError(t, r.Error)
		require.Equal(t, "list-sales", r.Name)
		require.Equal(t, pipeline.OperationCreation, r.Operation)
		require.Equal(t, listSalesArn, r.Metadata["arn"])
		require.Equal(t, lambda.Latest, r.Metadata["version"])
		require.Equal(t, cli.Bytes(len(data)), r.Metadata["packageSize"])
		require.Equal(t, 1, deployed)
	})
}

func TestDeployLambdaUpToDate(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		l, err := p.FindLambda(context.Background(), "list-sales")
		require.NoError(t, err)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(&awslambda.GetFunctionOutput{
			Configuration: listSalesConfiguration(packager.Sha256(listSalesZip(t))),
		}, nil)

		r := p.DeployLambda(context.Background(), pc, l)
		require.NoError(t, r.Error)
		require.Equal(t, pipeline.OperationUpToDate, r.Operation)
	})
}

func TestDeployLambdaRuntimeChange(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		l, err := p.FindLambda(context.Background(), "list-sales")
		require.NoError(t, err)

		current := listSalesConfiguration(packager.Sha256(listSalesZip(t)))
		current.Runtime = aws.String("nodejs16.x")

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(&awslambda.GetFunctionOutput{Configuration: current}, nil)

		api.On("UpdateFunctionConfigurationWithContext", mock.MatchedBy(func(in *awslambda.UpdateFunctionConfigurationInput) bool {
			return aws.StringValue(in.Runtime) == "nodejs18.x" && aws.StringValue(in.Handler) == "index.handler"
		})).Return(listSalesConfiguration(aws.StringValue(current.CodeSha256)), nil).Once()

		r := p.DeployLambda(context.Background(), pc, l)
		require.NoError(t, r.Error)
		require.Equal(t, pipeline.OperationUpdate, r.Operation)
	})
}

func TestDeployLambdaWithIAMPlugin(t *testing.T) {
	api := &mockaws.LambdaAPI{}
	roles := &mockaws.IAMAPI{}

	providers := func(region string) (*provider.Provider, error) {
		return &provider.Provider{Region: region, IAM: roles, Lambda: api}, nil
	}

	m := myrmex.New(nil)

	_, err := m.Init(context.Background(), &config.Project{Root: "testdata/project"})
	require.NoError(t, err)

	p := lambda.New(providers)

	require.NoError(t, m.RegisterPlugin(p.Plugin()))
	require.NoError(t, m.RegisterPlugin(iam.New(providers).Plugin()))

	l, err := p.FindLambda(context.Background(), "list-sales")
	require.NoError(t, err)

	roles.On("GetRoleWithContext", &awsiam.GetRoleInput{RoleName: aws.String("DEV_lambda-basic_v0")}).Return(&awsiam.GetRoleOutput{
		Role: &awsiam.Role{Arn: aws.String(roleArn)},
	}, nil)

	api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(&awslambda.GetFunctionOutput{
		Configuration: listSalesConfiguration(packager.Sha256(listSalesZip(t))),
	}, nil)

	r := p.DeployLambda(context.Background(), pc, l)
	require.NoError(t, r.Error)
	require.Equal(t, pipeline.OperationUpToDate, r.Operation)

	api.AssertExpectations(t)
	roles.AssertExpectations(t)
}

func TestDeployLambdaConfigurationChange(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		l, err := p.FindLambda(context.Background(), "list-sales")
		require.NoError(t, err)

		current := listSalesConfiguration(packager.Sha256(listSalesZip(t)))
		current.MemorySize = aws.Int64(128)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(&awslambda.GetFunctionOutput{Configuration: current}, nil)

		api.On("UpdateFunctionConfigurationWithContext", mock.MatchedBy(func(in *awslambda.UpdateFunctionConfigurationInput) bool {
			return aws.StringValue(in.FunctionName) == "DEV-list-sales" && aws.Int64Value(in.MemorySize) == 256
		})).Return(listSalesConfiguration(aws.StringValue(current.CodeSha256)), nil)

		r := p.DeployLambda(context.Background(), pc, l)
		require.NoError(t, r.Error)
		require.Equal(t, pipeline.OperationUpdate, r.Operation)
	})
}

func TestDeployLambdaAlias(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		l, err := p.FindLambda(context.Background(), "list-sales")
		require.NoError(t, err)

		data := listSalesZip(t)
		sha := packager.Sha256(data)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(&awslambda.GetFunctionOutput{
			Configuration: listSalesConfiguration("0ld"),
		}, nil)

		api.On("UpdateFunctionCodeWithContext", &awslambda.UpdateFunctionCodeInput{
			FunctionName: aws.String("DEV-list-sales"),
			Publish:      aws.Bool(false),
			ZipFile:      data,
		}).Return(listSalesConfiguration(sha), nil)

		api.On("PublishVersionWithContext", &awslambda.PublishVersionInput{
			CodeSha256:   aws.String(sha),
			FunctionName: aws.String("DEV-list-sales"),
		}).Return(&awslambda.FunctionConfiguration{Version: aws.String("7")}, nil)

		api.On("GetAliasWithContext", &awslambda.GetAliasInput{
			FunctionName: aws.String("DEV-list-sales"),
			Name:         aws.String("live"),
		}).Return(&awslambda.AliasConfiguration{FunctionVersion: aws.String("6")}, nil)

		api.On("UpdateAliasWithContext", &awslambda.UpdateAliasInput{
			FunctionName:    aws.String("DEV-list-sales"),
			FunctionVersion: aws.String("7"),
			Name:            aws.String("live"),
		}).Return(&awslambda.AliasConfiguration{
			AliasArn:        aws.String(listSalesArn + ":live"),
			FunctionVersion: aws.String("7"),
		}, nil)

		live := pc
		live.Alias = "live"

		r := p.DeployLambda(context.Background(), live, l)
		require.NoError(t, r.Error)
		require.Equal(t, pipeline.OperationUpdate, r.Operation)
		require.Equal(t, listSalesArn+":live", r.Metadata["arn"])
		require.Equal(t, "7", r.Metadata["version"])
		require.Equal(t, "live", r.Metadata["alias"])
	})
}

func TestBuildLambdaPackageHook(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		events.On(m.Bus(), lambda.EventBuildLambdaPackage, func(ctx context.Context, pkg *lambda.Package) (*lambda.Package, error) {
			pkg.Code = &awslambda.FunctionCode{S3Bucket: aws.String("artifacts"), S3Key: aws.String(pkg.Lambda.Identifier + ".zip")}
			pkg.Size = 2048
			return pkg, nil
		})

		l, err := p.FindLambda(context.Background(), "delete-sale")
		require.NoError(t, err)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-delete-sale")}).Return(nil, notFound())

		api.On("CreateFunctionWithContext", mock.MatchedBy(func(in *awslambda.CreateFunctionInput) bool {
			return aws.StringValue(in.Role) == "arn:aws:iam::123456789012:role/sales-writer" &&
				aws.StringValue(in.Code.S3Bucket) == "artifacts" &&
				aws.StringValue(in.Code.S3Key) == "delete-sale.zip" &&
				in.Code.ZipFile == nil
		})).Return(&awslambda.FunctionConfiguration{FunctionArn: aws.String("arn:aws:lambda:us-east-1:123456789012:function:DEV-delete-sale")}, nil)

		r := p.DeployLambda(context.Background(), pc, l)
		require.NoError(t, r.Error)
		require.Equal(t, "2.0 kB", r.Metadata["packageSize"])
	})
}

func TestDeployLambdaFailure(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		l, err := p.FindLambda(context.Background(), "delete-sale")
		require.NoError(t, err)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-delete-sale")}).Return(nil, awserr.New("AccessDeniedException", "denied", nil))

		r := p.DeployLambda(context.Background(), pc, l)
		require.True(t, r.Failed)
		require.True(t, provider.IsAccessDenied(provider.ServiceLambda, r.Error))
	})
}

func integrationEndpoints() []*apigateway.Endpoint {
	return []*apigateway.Endpoint{
		apigateway.NewEndpoint("/sales", "GET", map[string]interface{}{
			"x-myrmex": map[string]interface{}{"lambda": "list-sales"},
		}),
		apigateway.NewEndpoint("/health", "GET", map[string]interface{}{
			"x-amazon-apigateway-integration": map[string]interface{}{"type": "mock"},
		}),
	}
}

func testIntegrations(t *testing.T, fn func(*apigateway.APIGateway, *mockaws.LambdaAPI)) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		ag := apigateway.New(nil)
		require.NoError(t, m.RegisterPlugin(ag.Plugin()))
		fn(ag, api)
	})
}

func addPermission() *awslambda.AddPermissionInput {
	return &awslambda.AddPermissionInput{
		Action:       aws.String("lambda:InvokeFunction"),
		FunctionName: aws.String("DEV-list-sales"),
		Principal:    aws.String("apigateway.amazonaws.com"),
		StatementId:  aws.String("myrmex-api-gateway-invoke"),
	}
}

func TestLoadIntegrationsPartial(t *testing.T) {
	testIntegrations(t, func(ag *apigateway.APIGateway, api *mockaws.LambdaAPI) {
		data := listSalesZip(t)

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(nil, notFound())
		api.On("CreateFunctionWithContext", mock.Anything).Return(listSalesConfiguration(packager.Sha256(data)), nil)
		api.On("AddPermissionWithContext", addPermission()).Return(nil, awserr.New("ResourceConflictException", "The statement id provided already exists", nil))

		es := integrationEndpoints()

		in, err := ag.LoadIntegrations(context.Background(), &apigateway.Integrations{Context: pc, Endpoints: es, Deploy: apigateway.DeployPartial})
		require.NoError(t, err)
		require.Len(t, in.Reports, 1)
		require.Equal(t, "list-sales", in.Reports[0].Name)
		require.Len(t, in.Injectors, 1)

		sales := config.Tree(es[0].Spec)
		require.Equal(t, "aws", sales.Get("x-amazon-apigateway-integration.type"))
		require.Equal(t, "POST", sales.Get("x-amazon-apigateway-integration.httpMethod"))
		require.Equal(t, "arn:aws:apigateway:us-east-1:lambda:path/2015-03-31/functions/"+listSalesArn+"/invocations", sales.Get("x-amazon-apigateway-integration.uri"))
		require.Equal(t, "200", sales.Get("x-amazon-apigateway-integration.responses.default.statusCode"))

		health := config.Tree(es[1].Spec)
		require.Equal(t, "mock", health.Get("x-amazon-apigateway-integration.type"))
		require.Nil(t, health.Get("x-amazon-apigateway-integration.uri"))
	})
}

func TestLoadIntegrationsNone(t *testing.T) {
	testIntegrations(t, func(ag *apigateway.APIGateway, api *mockaws.LambdaAPI) {
		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(&awslambda.GetFunctionOutput{
			Configuration: listSalesConfiguration("sha"),
		}, nil)
		api.On("AddPermissionWithContext", addPermission()).Return(&awslambda.AddPermissionOutput{}, nil)

		in, err := ag.LoadIntegrations(context.Background(), &apigateway.Integrations{Context: pc, Endpoints: integrationEndpoints(), Deploy: apigateway.DeployNone})
		require.NoError(t, err)
		require.Empty(t, in.Reports)
		require.Len(t, in.Injectors, 1)
	})
}

func TestLoadIntegrationsNotDeployed(t *testing.T) {
	testIntegrations(t, func(ag *apigateway.APIGateway, api *mockaws.LambdaAPI) {
		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("DEV-list-sales")}).Return(nil, notFound())

		_, err := ag.LoadIntegrations(context.Background(), &apigateway.Integrations{Context: pc, Endpoints: integrationEndpoints(), Deploy: apigateway.DeployNone})
		require.EqualError(t, err, "the lambda DEV-list-sales is not deployed, use --deploy-lambdas")
	})
}

func TestLoadIntegrationsUnknownLambda(t *testing.T) {
	testIntegrations(t, func(ag *apigateway.APIGateway, api *mockaws.LambdaAPI) {
		es := []*apigateway.Endpoint{
			apigateway.NewEndpoint("/orders", "post", map[string]interface{}{
				"x-myrmex": map[string]interface{}{"lambda": "create-order"},
			}),
		}

		_, err := ag.LoadIntegrations(context.Background(), &apigateway.Integrations{Context: pc, Endpoints: es, Deploy: apigateway.DeployAll})
		require.EqualError(t, err, `the lambda "create-order" referenced by Endpoint POST /orders does not exist in this project`)
	})
}

func TestDeployLambdasCommand(t *testing.T) {
	testLambdas(t, func(p *lambda.Lambdas, m *myrmex.Instance, api *mockaws.LambdaAPI) {
		e := cli.New("myrmex", "test", m)
		require.NoError(t, e.RegisterCommands(context.Background()))

		arn := "arn:aws:lambda:eu-west-1:123456789012:function:QA-delete-sale"

		api.On("GetFunctionWithContext", &awslambda.GetFunctionInput{FunctionName: aws.String("QA-delete-sale")}).Return(nil, notFound())
		api.On("CreateFunctionWithContext", mock.Anything).Return(&awslambda.FunctionConfiguration{
			CodeSha256:  aws.String("sha"),
			FunctionArn: aws.String(arn),
		}, nil)
		api.On("PublishVersionWithContext", &awslambda.PublishVersionInput{
			CodeSha256:   aws.String("sha"),
			FunctionName: aws.String("QA-delete-sale"),
		}).Return(&awslambda.FunctionConfiguration{Version: aws.String("1")}, nil)
		api.On("GetAliasWithContext", mock.Anything).Return(nil, notFound())
		api.On("CreateAliasWithContext", &awslambda.CreateAliasInput{
			FunctionName:    aws.String("QA-delete-sale"),
			FunctionVersion: aws.String("1"),
			Name:            aws.String("live"),
		}).Return(&awslambda.AliasConfiguration{AliasArn: aws.String(arn + ":live"), FunctionVersion: aws.String("1")}, nil)

		res, err := testExecute(e, "deploy-lambdas delete-* -e QA -r eu-west-1 --alias live")
		require.NoError(t, err)
		require.Equal(t, 0, res.Code, res.Stderr)
		require.Contains(t, res.Stdout, "Lambdas deployed")
		require.Regexp(t, `delete-sale\s+Creation\s+1\s+live\s+`+arn+`:live`, res.Stdout)
		require.NotContains(t, res.Stdout, "list-sales")
	})
}
