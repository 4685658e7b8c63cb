package lambda

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/myrmex-org/myrmex/pkg/cli"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/packager"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

const (
	DefaultTimeout = 15
	Latest         = "$LATEST"
)

// Lambda is a function described by lambda/lambdas/<identifier>/config.json.
// Its directory is the content of the deployment package.
type Lambda struct {
	Identifier string                 `json:"-"`
	Path       string                 `json:"-"`
	Params     map[string]interface{} `json:"params"`
	Myrmex     map[string]interface{} `json:"x-myrmex,omitempty"`
}

func NewLambda(identifier, path string, doc map[string]interface{}) (*Lambda, error) {
	l := &Lambda{Identifier: identifier, Path: path}

	if err := pipeline.Convert(doc, l); err != nil {
		return nil, errors.Wrapf(err, "invalid lambda %s", identifier)
	}

	if l.Params == nil {
		l.Params = map[string]interface{}{}
	}

	defaults := map[string]interface{}{
		"FunctionName": identifier,
		"Role":         "PLEASE-CONFIGURE-AN-EXECUTION-ROLE-FOR-" + identifier,
		"Timeout":      DefaultTimeout,
	}

	for k, v := range defaults {
		if _, ok := l.Params[k]; !ok {
			l.Params[k] = v
		}
	}

	if s, _ := l.Params["Runtime"].(string); s == "" {
		return nil, errors.Errorf("the lambda %s has no runtime", identifier)
	}

	return l, nil
}

func (l *Lambda) String() string {
	return "Lambda " + l.Identifier
}

// FunctionName is the name of the deployed function: <environment>-<identifier>
func (l *Lambda) FunctionName(pc pipeline.Context) string {
	if pc.Environment == "" {
		return l.Identifier
	}

	return pc.Environment + "-" + l.Identifier
}

// Package is the payload of the buildLambdaPackage event. A hook providing
// Code replaces the default zip archive.
type Package struct {
	Lambda  *Lambda
	Context pipeline.Context

	Code   *lambda.FunctionCode
	Sha256 string
	Size   int
}

// BuildPackage asks the plugins for the deployment package of a lambda,
// archiving its directory when none answers
func (p *Lambdas) BuildPackage(ctx context.Context, pc pipeline.Context, l *Lambda) (*Package, error) {
	pkg, err := events.Fire(ctx, p.instance().Bus(), EventBuildLambdaPackage, &Package{Lambda: l, Context: pc})
	if err != nil {
		return nil, err
	}

	if pkg.Code != nil {
		return pkg, nil
	}

	data, err := packager.Zip(l.Path, nil)
	if err != nil {
		return nil, err
	}

	pkg.Code = &lambda.FunctionCode{ZipFile: data}
	pkg.Sha256 = packager.Sha256(data)
	pkg.Size = len(data)

	return pkg, nil
}

// DeployLambda creates or updates a function and, with an alias in the
// context, publishes a version and points the alias to it
func (p *Lambdas) DeployLambda(ctx context.Context, pc pipeline.Context, l *Lambda) pipeline.Report {
	start := time.Now()
	name := l.FunctionName(pc)
	log := p.log().At("deploy-lambda").Namespace("lambda=%s", name).Start()

	report := pipeline.Report{Name: l.Identifier, Metadata: map[string]string{}}

	fail := func(err error) pipeline.Report {
		report.Failed = true
		report.Error = log.Error(err)
		return report
	}

	bus := p.instance().Bus()

	l, err := events.Fire(ctx, bus, EventBeforeDeployLambda, l)
	if err != nil {
		return fail(err)
	}

	prov, err := p.providers(pc.Region)
	if err != nil {
		return fail(err)
	}

	role, err := p.role(ctx, pc, l)
	if err != nil {
		return fail(err)
	}

	pkg, err := p.BuildPackage(ctx, pc, l)
	if err != nil {
		return fail(err)
	}

	report.Metadata["packageSize"] = cli.Bytes(pkg.Size)
	report.Metadata["packageTime"] = pipeline.Elapsed(start)

	fc, op, err := deployFunction(ctx, prov.Lambda, name, role, l, pkg)
	if err != nil {
		return fail(err)
	}

	report.Operation = op
	report.Metadata["arn"] = aws.StringValue(fc.FunctionArn)
	report.Metadata["version"] = Latest

	if pc.Alias != "" {
		a, err := publishAlias(ctx, prov.Lambda, name, pc.Alias, aws.StringValue(fc.CodeSha256))
		if err != nil {
			return fail(err)
		}

		report.Metadata["arn"] = aws.StringValue(a.AliasArn)
		report.Metadata["version"] = aws.StringValue(a.FunctionVersion)
		report.Metadata["alias"] = pc.Alias
	}

	if _, err := events.Fire(ctx, bus, EventAfterDeployLambda, l); err != nil {
		return fail(err)
	}

	report.Metadata["deployTime"] = pipeline.Elapsed(start)

	log.Successf("operation=%q version=%s", report.Operation, report.Metadata["version"])

	return report
}

// role resolves the execution role of a lambda, identifiers of roles
// managed by the project are replaced by their ARN
func (p *Lambdas) role(ctx context.Context, pc pipeline.Context, l *Lambda) (string, error) {
	role, _ := l.Params["Role"].(string)

	if strings.HasPrefix(role, "arn:") {
		return role, nil
	}

	arn, err := p.instance().Call(ctx, "iam:retrieveRoleArn", role, pc, role)
	if err != nil {
		return "", err
	}

	return fmt.Sprint(arn), nil
}

func deployFunction(ctx context.Context, api lambdaiface.LambdaAPI, name, role string, l *Lambda, pkg *Package) (*lambda.FunctionConfiguration, pipeline.Operation, error) {
	res, err := api.GetFunctionWithContext(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(name)})
	switch {
	case provider.IsNotFound(provider.ServiceLambda, err):
		req := &lambda.CreateFunctionInput{}

		if err := pipeline.Convert(l.Params, req); err != nil {
			return nil, "", errors.Wrapf(err, "invalid parameters for %s", l.Identifier)
		}

		req.FunctionName = aws.String(name)
		req.Role = aws.String(role)
		req.Code = pkg.Code
		req.Publish = aws.Bool(false)

		fc, err := api.CreateFunctionWithContext(ctx, req)
		if err != nil {
			return nil, "", errors.Wrapf(err, "could not create function %s", name)
		}

		return fc, pipeline.OperationCreation, nil
	case err != nil:
		return nil, "", errors.Wrapf(err, "could not get function %s", name)
	}

	current := res.Configuration
	op := pipeline.OperationUpToDate

	if pkg.Sha256 == "" || pkg.Sha256 != aws.StringValue(current.CodeSha256) {
		fc, err := api.UpdateFunctionCodeWithContext(ctx, &lambda.UpdateFunctionCodeInput{
			FunctionName:    aws.String(name),
			Publish:         aws.Bool(false),
			S3Bucket:        pkg.Code.S3Bucket,
			S3Key:           pkg.Code.S3Key,
			S3ObjectVersion: pkg.Code.S3ObjectVersion,
			ZipFile:         pkg.Code.ZipFile,
		})
		if err != nil {
			return nil, "", errors.Wrapf(err, "could not update the code of %s", name)
		}

		current = fc
		op = pipeline.OperationUpdate
	}

	req := &lambda.UpdateFunctionConfigurationInput{}

	if err := pipeline.Convert(l.Params, req); err != nil {
		return nil, "", errors.Wrapf(err, "invalid parameters for %s", l.Identifier)
	}

	req.FunctionName = aws.String(name)
	req.Role = aws.String(role)

	same, err := covers(current, req)
	if err != nil {
		return nil, "", err
	}

	if !same {
		fc, err := api.UpdateFunctionConfigurationWithContext(ctx, req)
		if err != nil {
			return nil, "", errors.Wrapf(err, "could not update the configuration of %s", name)
		}

		current = fc
		op = pipeline.OperationUpdate
	}

	return current, op, nil
}

func publishAlias(ctx context.Context, api lambdaiface.LambdaAPI, name, alias, sha string) (*lambda.AliasConfiguration, error) {
	v, err := api.PublishVersionWithContext(ctx, &lambda.PublishVersionInput{
		CodeSha256:   aws.String(sha),
		FunctionName: aws.String(name),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not publish a version of %s", name)
	}

	_, err = api.GetAliasWithContext(ctx, &lambda.GetAliasInput{FunctionName: aws.String(name), Name: aws.String(alias)})
	switch {
	case provider.IsNotFound(provider.ServiceLambda, err):
		a, err := api.CreateAliasWithContext(ctx, &lambda.CreateAliasInput{
			FunctionName:    aws.String(name),
			FunctionVersion: v.Version,
			Name:            aws.String(alias),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not create alias %s of %s", alias, name)
		}
		return a, nil
	case err != nil:
		return nil, errors.Wrapf(err, "could not get alias %s of %s", alias, name)
	}

	a, err := api.UpdateAliasWithContext(ctx, &lambda.UpdateAliasInput{
		FunctionName:    aws.String(name),
		FunctionVersion: v.Version,
		Name:            aws.String(alias),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not update alias %s of %s", alias, name)
	}

	return a, nil
}

// covers returns true when every value set in desired is already in
// current. Unset values of the sdk structures are ignored.
func covers(current, desired interface{}) (bool, error) {
	var c, d interface{}

	if err := pipeline.Convert(current, &c); err != nil {
		return false, err
	}

	if err := pipeline.Convert(desired, &d); err != nil {
		return false, err
	}

	return subset(c, d), nil
}

func subset(current, desired interface{}) bool {
	dm, ok := desired.(map[string]interface{})
	if !ok {
		return reflect.DeepEqual(current, desired)
	}

	cm, _ := current.(map[string]interface{})

	for k, v := range dm {
		if v == nil {
			continue
		}
		if !subset(cm[k], v) {
			return false
		}
	}

	return true
}
