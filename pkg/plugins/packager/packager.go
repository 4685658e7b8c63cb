package packager

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	awslambda "github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/convox/logger"
	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	archive "github.com/myrmex-org/myrmex/pkg/packager"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/myrmex-org/myrmex/pkg/plugins/lambda"
	provider "github.com/myrmex-org/myrmex/provider/aws"
	"github.com/pkg/errors"
)

const (
	Name    = "packager"
	Version = "1.0.0"
)

func init() {
	myrmex.Register("@myrmex/packager", func() (*myrmex.Plugin, error) {
		return New(provider.Default.Get).Plugin(), nil
	})
}

type Providers func(region string) (*provider.Provider, error)

type Packager struct {
	providers Providers
	plugin    *myrmex.Plugin
}

func New(providers Providers) *Packager {
	p := &Packager{providers: providers}

	p.plugin = &myrmex.Plugin{
		Name:    Name,
		Version: Version,
		Config: map[string]interface{}{
			"bucket":           "",
			"exclude":          []interface{}{},
			"lambdaIdentifier": "",
		},
		Hooks: map[events.Event]events.Handler{
			lambda.EventBuildLambdaPackage: events.Typed(lambda.EventBuildLambdaPackage, p.buildLambdaPackage),
		},
	}

	return p
}

func (p *Packager) Plugin() *myrmex.Plugin {
	return p.plugin
}

func (p *Packager) log() *logger.Logger {
	return p.plugin.Instance.Log.Namespace("plugin=%s", Name)
}

// PackageName is the base name of the archive of a lambda:
// [environment_]identifier[_alias]
func PackageName(pc pipeline.Context, l *lambda.Lambda) string {
	name := l.Identifier

	if pc.Environment != "" {
		name = pc.Environment + "_" + name
	}

	if pc.Alias != "" {
		name += "_" + pc.Alias
	}

	return name
}

// buildLambdaPackage archives the lambda without the excluded paths and
// uploads the archive when a bucket is configured
func (p *Packager) buildLambdaPackage(ctx context.Context, pkg *lambda.Package) (*lambda.Package, error) {
	cfg := config.Tree(p.plugin.Config)

	if pkg.Code != nil || pkg.Lambda.Identifier == cfg.String("lambdaIdentifier") {
		return pkg, nil
	}

	exclude := []string{}

	if err := pipeline.Convert(cfg.Get("exclude"), &exclude); err != nil {
		return nil, errors.Wrap(err, "invalid packager exclusions")
	}

	data, err := archive.Zip(pkg.Lambda.Path, exclude)
	if err != nil {
		return nil, err
	}

	pkg.Sha256 = archive.Sha256(data)
	pkg.Size = len(data)

	bucket := cfg.String("bucket")

	if bucket == "" {
		pkg.Code = &awslambda.FunctionCode{ZipFile: data}
		return pkg, nil
	}

	prov, err := p.providers(pkg.Context.Region)
	if err != nil {
		return nil, err
	}

	key := PackageName(pkg.Context, pkg.Lambda) + ".zip"

	if err := putObject(ctx, prov.S3, prov.Region, bucket, key, data); err != nil {
		return nil, err
	}

	p.log().At("upload").Logf("bucket=%s key=%s size=%d", bucket, key, len(data))

	pkg.Code = &awslambda.FunctionCode{S3Bucket: aws.String(bucket), S3Key: aws.String(key)}

	return pkg, nil
}

// putObject uploads an archive, creating the bucket when it does not exist
func putObject(ctx context.Context, api s3iface.S3API, region, bucket, key string, data []byte) error {
	req := &s3.PutObjectInput{
		Body:   bytes.NewReader(data),
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	_, err := api.PutObjectWithContext(ctx, req)
	if !provider.IsNotFound(provider.ServiceS3, err) {
		return errors.Wrapf(err, "could not upload %s to %s", key, bucket)
	}

	cb := &s3.CreateBucketInput{Bucket: aws.String(bucket)}

	if region != "" && region != "us-east-1" {
		cb.CreateBucketConfiguration = &s3.CreateBucketConfiguration{LocationConstraint: aws.String(region)}
	}

	if _, err := api.CreateBucketWithContext(ctx, cb); err != nil && !provider.IsAlreadyExists(provider.ServiceS3, err) {
		return errors.Wrapf(err, "could not create bucket %s", bucket)
	}

	req.Body = bytes.NewReader(data)

	if _, err := api.PutObjectWithContext(ctx, req); err != nil {
		return errors.Wrapf(err, "could not upload %s to %s", key, bucket)
	}

	return nil
}
