package pipeline

import "github.com/pkg/errors"

var ErrArtifactNotFound = errors.New("artifact not found")

func IsArtifactNotFound(err error) bool {
	return errors.Cause(err) == ErrArtifactNotFound
}
