package gridsim

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrConfig           = errors.New("gridsim: invalid config")
	ErrInvalidOperation = errors.New("gridsim: invalid operation")
)

// ConfigError reports a malformed configuration passed to New or Reset.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gridsim: config %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrConfig) true.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// OpError reports a manual operation that was rejected without mutating state.
type OpError struct {
	Op      Op
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("gridsim: %s: %s", e.Op, e.Message)
}

// Is makes errors.Is(err, ErrInvalidOperation) true.
func (e *OpError) Is(target error) bool {
	return target == ErrInvalidOperation
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func opErr(op Op, format string, args ...any) error {
	return &OpError{Op: op, Message: fmt.Sprintf(format, args...)}
}
