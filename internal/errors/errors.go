// Package errors defines the structured error types of the aggregation
// pipeline.
//
// The pipeline distinguishes two failure classes. Metadata failures on
// required files (the project's package descriptor, a page template's
// page-definition.json) are fatal and abort the whole aggregation run.
// Everything else — an entity's unparsable marker file, a missing referenced
// content file — degrades: the entity is dropped or the field becomes "", the
// failure is logged, and aggregation continues. Both classes use the same
// ProjectError shape so call sites and tests can assert on the policy instead
// of on call-site try/catch structure.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeMetadata marks a failure to read or parse a required
	// metadata file. Always fatal.
	ErrorTypeMetadata ErrorType = "metadata"
	// ErrorTypeContent marks a missing or unreadable referenced content
	// file. Degraded: logged, field becomes "".
	ErrorTypeContent ErrorType = "content"
	// ErrorTypeValidation marks an entity whose marker file exists but does
	// not parse. Degraded: logged, entity dropped from its parent.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig marks invalid tool configuration.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInternal marks everything that should not happen.
	ErrorTypeInternal ErrorType = "internal"
)

// ProjectError is a structured error type with entity location context.
type ProjectError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	// Entity names the owning entity (declared name or directory path)
	Entity string
	// Path is the file the failure concerns, relative to the entity
	// directory for content failures, absolute for metadata failures
	Path string
	// Fatal reports whether the error aborts the whole aggregation run
	Fatal bool
}

// Error implements the error interface.
func (e *ProjectError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Entity != "" {
		parts = append(parts, "entity:"+e.Entity)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ProjectError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ProjectError) Is(target error) bool {
	var t *ProjectError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithEntity adds entity context to the error.
func (e *ProjectError) WithEntity(entity string) *ProjectError {
	e.Entity = entity

	return e
}

// WithPath adds file location context to the error.
func (e *ProjectError) WithPath(path string) *ProjectError {
	e.Path = path

	return e
}

// NewMetadataError creates a fatal error for a required metadata file that is
// missing or malformed.
func NewMetadataError(code, message string, cause error) *ProjectError {
	return &ProjectError{
		Type:    ErrorTypeMetadata,
		Code:    code,
		Message: message,
		Cause:   cause,
		Fatal:   true,
	}
}

// NewContentError creates a degraded-content error for a referenced file that
// is missing or unreadable. Never fatal; carried only through the log sink.
func NewContentError(code, message string, cause error) *ProjectError {
	return &ProjectError{
		Type:    ErrorTypeContent,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a degraded error for an entity whose marker file
// does not parse. Never fatal; the entity is dropped and siblings continue.
func NewValidationError(code, message string, cause error) *ProjectError {
	return &ProjectError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *ProjectError {
	return &ProjectError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
		Fatal:   true,
	}
}

// IsFatal reports whether err (or anything it wraps) requires aborting the
// aggregation run. Unknown error types are treated as fatal: only failures
// the pipeline explicitly classified as degraded may be swallowed.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProjectError
	if errors.As(err, &pe) {
		return pe.Fatal
	}

	return true
}
