package aws

import (
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/cloudformation/cloudformationiface"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// Provider bundles the service clients of one region
type Provider struct {
	Region string

	APIGateway     apigatewayiface.APIGatewayAPI
	CloudFormation cloudformationiface.CloudFormationAPI
	IAM            iamiface.IAMAPI
	Lambda         lambdaiface.LambdaAPI
	S3             s3iface.S3API
}

// maxRetry bounds the retries of throttled calls, api gateway imports are
// limited to a few calls per minute
var maxRetry = 10

// Credentials are optional static credentials, the default chain is used
// when Access is empty
type Credentials struct {
	Access   string
	Secret   string
	Token    string
	Endpoint string
}

func (c Credentials) config(region string) *aws.Config {
	config := &aws.Config{
		MaxRetries: aws.Int(maxRetry),
		Retryer: client.DefaultRetryer{
			NumMaxRetries:    maxRetry,
			MinRetryDelay:    1 * time.Second,
			MaxRetryDelay:    5 * time.Second,
			MinThrottleDelay: 10 * time.Second,
			MaxThrottleDelay: 60 * time.Second,
		},
	}

	if c.Access != "" {
		config.Credentials = credentials.NewStaticCredentials(c.Access, c.Secret, c.Token)
	}

	if region != "" {
		config.Region = aws.String(region)
	}

	if c.Endpoint != "" {
		config.Endpoint = aws.String(c.Endpoint)
	}

	if os.Getenv("DEBUG") != "" {
		config.WithLogLevel(aws.LogDebugWithHTTPBody)
	}

	return config
}

// NewProvider builds the clients of a region
func NewProvider(region string, creds Credentials) (*Provider, error) {
	s, err := session.NewSessionWithOptions(session.Options{
		Config:            *creds.config(region),
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create aws session")
	}

	return &Provider{
		Region:         aws.StringValue(s.Config.Region),
		APIGateway:     apigateway.New(s),
		CloudFormation: cloudformation.New(s),
		IAM:            iam.New(s),
		Lambda:         lambda.New(s),
		S3:             s3.New(s),
	}, nil
}

// FromEnvironment builds the clients of a region using the credentials of
// the AWS_* environment variables or the shared configuration
func FromEnvironment(region string) (*Provider, error) {
	return NewProvider(region, Credentials{
		Access:   os.Getenv("AWS_ACCESS_KEY_ID"),
		Secret:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Token:    os.Getenv("AWS_SESSION_TOKEN"),
		Endpoint: os.Getenv("AWS_ENDPOINT"),
	})
}

// Pool caches one provider per region
type Pool struct {
	New func(region string) (*Provider, error)

	providers map[string]*Provider
	lock      sync.Mutex
}

func NewPool(fn func(region string) (*Provider, error)) *Pool {
	return &Pool{New: fn, providers: map[string]*Provider{}}
}

func (p *Pool) Get(region string) (*Provider, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if pr, ok := p.providers[region]; ok {
		return pr, nil
	}

	pr, err := p.New(region)
	if err != nil {
		return nil, err
	}

	if p.providers == nil {
		p.providers = map[string]*Provider{}
	}

	p.providers[region] = pr

	return pr, nil
}

// Default is the pool used by the plugins
var Default = NewPool(FromEnvironment)
