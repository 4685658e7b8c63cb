package aws

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/pkg/errors"
)

// Kind is the control flow meaning of a provider error
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindAlreadyExists
	KindNoChange
	KindAccessDenied
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindAlreadyExists:
		return "already-exists"
	case KindNoChange:
		return "no-change"
	case KindAccessDenied:
		return "access-denied"
	default:
		return "other"
	}
}

type Service string

const (
	ServiceAPIGateway     Service = "apigateway"
	ServiceCloudFormation Service = "cloudformation"
	ServiceIAM            Service = "iam"
	ServiceLambda         Service = "lambda"
	ServiceS3             Service = "s3"
)

type rule struct {
	Code    string
	Message string
	Kind    Kind
}

// decisions maps the error codes of each service to a kind. Rules are
// evaluated in order, a rule with a message only matches when the error
// message contains it.
var decisions = map[Service][]rule{
	ServiceAPIGateway: {
		{Code: "NotFoundException", Kind: KindNotFound},
		{Code: "ConflictException", Kind: KindAlreadyExists},
		{Code: "AccessDeniedException", Kind: KindAccessDenied},
		{Code: "UnauthorizedException", Kind: KindAccessDenied},
	},
	ServiceCloudFormation: {
		{Code: "AlreadyExistsException", Kind: KindAlreadyExists},
		{Code: "ValidationError", Message: "No updates are to be performed", Kind: KindNoChange},
		{Code: "ValidationError", Message: "does not exist", Kind: KindNotFound},
		{Code: "AccessDenied", Kind: KindAccessDenied},
	},
	ServiceIAM: {
		{Code: "NoSuchEntity", Kind: KindNotFound},
		{Code: "EntityAlreadyExists", Kind: KindAlreadyExists},
		{Code: "AccessDenied", Kind: KindAccessDenied},
	},
	ServiceLambda: {
		{Code: "ResourceNotFoundException", Kind: KindNotFound},
		{Code: "ResourceConflictException", Kind: KindAlreadyExists},
		{Code: "AccessDeniedException", Kind: KindAccessDenied},
	},
	ServiceS3: {
		{Code: "NoSuchBucket", Kind: KindNotFound},
		{Code: "NoSuchKey", Kind: KindNotFound},
		{Code: "NotFound", Kind: KindNotFound},
		{Code: "BucketAlreadyOwnedByYou", Kind: KindAlreadyExists},
		{Code: "AccessDenied", Kind: KindAccessDenied},
	},
}

// Classify returns the kind of an error returned by a service client
func Classify(service Service, err error) Kind {
	if err == nil {
		return KindOther
	}

	ae, ok := errors.Cause(err).(awserr.Error)
	if !ok {
		return KindOther
	}

	for _, r := range decisions[service] {
		if r.Code != ae.Code() {
			continue
		}
		if r.Message != "" && !strings.Contains(ae.Message(), r.Message) {
			continue
		}
		return r.Kind
	}

	return KindOther
}

// ErrorCode returns the code of an aws error, or an empty string
func ErrorCode(err error) string {
	if ae, ok := errors.Cause(err).(awserr.Error); ok {
		return ae.Code()
	}

	return ""
}

func IsNotFound(service Service, err error) bool {
	return Classify(service, err) == KindNotFound
}

func IsAlreadyExists(service Service, err error) bool {
	return Classify(service, err) == KindAlreadyExists
}

func IsNoChange(service Service, err error) bool {
	return Classify(service, err) == KindNoChange
}

func IsAccessDenied(service Service, err error) bool {
	return Classify(service, err) == KindAccessDenied
}

// Hint returns a help message for errors that need operator action
func Hint(service Service, err error) string {
	if IsAccessDenied(service, err) {
		return "the configured AWS credentials are not allowed to perform this operation, check the IAM permissions of the deploying user"
	}

	return ""
}
