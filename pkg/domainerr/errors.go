// Package domainerr defines the engine's error category. Stores and clients
// wrap infrastructure failures into these types so callers can catch the
// whole category with errors.As.
package domainerr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports selection and precondition failures: unknown
// input paths, missing mode arguments, a csv_json check with only one input.
// The CLI surfaces these and exits non-zero.
type ConfigurationError struct {
	msg string
}

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string { return e.msg }

// DataLoadError reports baseline snapshot failures: missing or unreadable
// file, bad archive, bad JSON, unexpected structure, transport errors against
// the release index.
type DataLoadError struct {
	msg   string
	cause error
}

// NewDataLoadError wraps cause with context. cause may be nil.
func NewDataLoadError(cause error, format string, args ...any) *DataLoadError {
	return &DataLoadError{msg: fmt.Sprintf(format, args...), cause: cause}
}

func (e *DataLoadError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *DataLoadError) Unwrap() error { return e.cause }

// IsValidationError reports whether err belongs to the engine's error
// category (configuration or data-load).
func IsValidationError(err error) bool {
	var ce *ConfigurationError
	var de *DataLoadError
	return errors.As(err, &ce) || errors.As(err, &de)
}
