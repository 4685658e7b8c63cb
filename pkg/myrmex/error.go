package myrmex

import "github.com/pkg/errors"

var (
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	ErrInvalidPlugin   = errors.New("invalid plugin")
	ErrPluginNotFound  = errors.New("plugin not found")
)

// IsPluginNotFound returns true if the error is a missing plugin lookup
func IsPluginNotFound(err error) bool {
	return errors.Cause(err) == ErrPluginNotFound
}

// IsDuplicatePlugin returns true if the error is a plugin name collision
func IsDuplicatePlugin(err error) bool {
	return errors.Cause(err) == ErrDuplicatePlugin
}
