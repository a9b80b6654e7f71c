package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestSentinelErrors tests that all sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrBadRequest", ErrBadRequest},
		{"ErrUnexpected", ErrUnexpected},
		{"ErrAccessDenied", ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("%s should not be nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s should have an error message", tt.name)
			}
		})
	}
}

// TestDomainError_Error tests DomainError error message formatting
func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		contains []string
	}{
		{
			name: "Error with underlying error",
			err: &DomainError{
				Code:    "TEST_ERROR",
				Message: "Test message",
				Err:     errors.New("underlying error"),
			},
			contains: []string{"TEST_ERROR", "Test message", "underlying error"},
		},
		{
			name: "Error without underlying error",
			err: &DomainError{
				Code:    "TEST_ERROR",
				Message: "Test message",
			},
			contains: []string{"TEST_ERROR", "Test message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errMsg, substr) {
					t.Errorf("Error message %q should contain %q", errMsg, substr)
				}
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		code     string
		message  string
		sentinel error
	}{
		{"NotFound", NotFound(), CodeNotFound, "Not found!", ErrNotFound},
		{"BadRequest", BadRequest(), CodeBadRequest, "Bad request!", ErrBadRequest},
		{"Unexpected", Unexpected(), CodeUnexpected, "Unexpected error!", ErrUnexpected},
		{"AccessDenied", AccessDenied(), CodeAccessDenied, "Access denied!", ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
		})
	}
}

func TestWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WithCause(Unexpected(), cause)

	if !IsUnexpected(err) {
		t.Error("wrapped error should still match ErrUnexpected")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match the cause")
	}
	if err.Code != CodeUnexpected {
		t.Errorf("Code = %q, want %q", err.Code, CodeUnexpected)
	}

	if got := WithCause(NotFound(), nil); !IsNotFound(got) {
		t.Error("nil cause should return the base error")
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := fmt.Errorf("use case: %w", NotFound())

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should see through fmt.Errorf wrapping")
	}
	if IsBadRequest(wrapped) || IsUnexpected(wrapped) || IsAccessDenied(wrapped) {
		t.Error("only IsNotFound should match")
	}
	if !IsBadRequest(BadRequest()) {
		t.Error("IsBadRequest should match BadRequest()")
	}
	if !IsAccessDenied(AccessDenied()) {
		t.Error("IsAccessDenied should match AccessDenied()")
	}

	de, ok := AsDomainError(wrapped)
	if !ok || de.Code != CodeNotFound {
		t.Errorf("AsDomainError = %v, %v", de, ok)
	}
	if _, ok := AsDomainError(errors.New("plain")); ok {
		t.Error("plain error is not a DomainError")
	}
}

// TestValidationErrors tests the composite validation error
func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.HasErrors() {
		t.Error("empty collection should not have errors")
	}
	if errs.Error() != "validation failed" {
		t.Errorf("unexpected message %q", errs.Error())
	}

	errs.Add("titles", "This field is required", "required")
	errs.Add("title", "This field is required", "required")

	if !errs.HasErrors() {
		t.Error("collection should have errors")
	}
	if !strings.Contains(errs.Error(), "2 error(s)") {
		t.Errorf("unexpected message %q", errs.Error())
	}
	if !IsValidationError(fmt.Errorf("bind: %w", errs)) {
		t.Error("IsValidationError should match wrapped ValidationErrors")
	}
	if !IsValidationError(ValidationError{Field: "imdbId", Message: "empty"}) {
		t.Error("IsValidationError should match a single ValidationError")
	}
	if IsValidationError(Unexpected()) {
		t.Error("domain error is not a validation error")
	}
}
