package generator

import (
	"errors"
	"fmt"

	"github.com/wizzomafizzo/assetgen/internal/naming"
)

// ErrCollisionPolicyExhausted is wrapped in a ConfigurationError when the
// numeric suffix fallback runs out; the user has to rename files.
var ErrCollisionPolicyExhausted = naming.ErrCollisionPolicyExhausted

// ConfigurationError reports settings the user must fix. It is never retryable.
type ConfigurationError struct {
	Err    error
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IOError wraps a filesystem failure during scan or write.
type IOError struct {
	Err  error
	Op   string
	Path string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsIOError reports whether err is, or wraps, an IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
