// Package errors defines domain-specific error types.
// Using typed errors (instead of strings) allows adapters to map them to transport codes.
//
// Четыре вида ошибок приложения:
// - NotFound:     ресурс не найден у внешнего провайдера (404)
// - BadRequest:   провайдер отверг запрос (400)
// - Unexpected:   всё остальное (500)
// - AccessDenied: нет доступа (401)
//
// Pattern: Sentinel Errors + Custom Error Types
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. DomainError wraps exactly one of them.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnexpected   = errors.New("unexpected error")
	ErrAccessDenied = errors.New("access denied")
)

// Machine-readable error codes, also used as the public error message.
const (
	CodeNotFound     = "NotFoundError"
	CodeBadRequest   = "BadRequestError"
	CodeUnexpected   = "UnexpectedError"
	CodeAccessDenied = "AccessDeniedError"
)

// DomainError is a custom error type that wraps errors with additional context.
//
// Pattern: Error Wrapping with Context
type DomainError struct {
	Code    string // Machine-readable error code (e.g., "NotFoundError")
	Message string // Human-readable message
	Err     error  // Underlying error (sentinel or cause chain)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound - ресурс не найден.
func NotFound() *DomainError {
	return NewDomainError(CodeNotFound, "Not found!", ErrNotFound)
}

// BadRequest - провайдер отверг запрос.
func BadRequest() *DomainError {
	return NewDomainError(CodeBadRequest, "Bad request!", ErrBadRequest)
}

// Unexpected - непредвиденная ошибка.
func Unexpected() *DomainError {
	return NewDomainError(CodeUnexpected, "Unexpected error!", ErrUnexpected)
}

// AccessDenied - нет доступа.
func AccessDenied() *DomainError {
	return NewDomainError(CodeAccessDenied, "Access denied!", ErrAccessDenied)
}

// WithCause returns a copy of a typed error that also carries cause in its chain.
// errors.Is still matches the base sentinel.
func WithCause(base *DomainError, cause error) *DomainError {
	if cause == nil {
		return base
	}
	return &DomainError{
		Code:    base.Code,
		Message: base.Message,
		Err:     fmt.Errorf("%w: %w", base.Err, cause),
	}
}

// ValidationError represents validation failures with field-level details.
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // What went wrong
	Code    string // Validation tag (e.g., "required")
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(e))
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message, code string) {
	*e = append(*e, ValidationError{Field: field, Message: message, Code: code})
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Helper functions for common error checking

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest checks if an error is a "bad request" error.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsUnexpected checks if an error is an "unexpected" error.
func IsUnexpected(err error) bool {
	return errors.Is(err, ErrUnexpected)
}

// IsAccessDenied checks if an error is an "access denied" error.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var valErr ValidationError
	var valErrs ValidationErrors
	return errors.As(err, &valErr) || errors.As(err, &valErrs)
}

// AsDomainError extracts a DomainError from the error chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
