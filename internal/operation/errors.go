package operation

import (
	"fmt"
)

// ErrorType classifies operation errors for appropriate handling.
type ErrorType string

const (
	// ErrorTypeNotFound indicates an unknown integration or operation
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeValidation indicates invalid operation inputs
	ErrorTypeValidation ErrorType = "validation_error"

	// ErrorTypeConfig indicates a misconfigured integration
	ErrorTypeConfig ErrorType = "config_error"
)

// Error represents an operation framework error with classification.
type Error struct {
	// Type classifies the error
	Type ErrorType

	// Message is the human-readable error description
	Message string

	// SuggestText provides guidance on how to resolve the error.
	SuggestText string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("OperationError: %s", e.Message)

	if e.Type != "" {
		msg = fmt.Sprintf("%s (type: %s)", msg, e.Type)
	}

	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorType implements pkg/errors.ErrorClassifier.
func (e *Error) ErrorType() string {
	return string(e.Type)
}

// IsRetryable implements pkg/errors.ErrorClassifier.
// Framework errors describe caller mistakes and never succeed on retry.
func (e *Error) IsRetryable() bool {
	return false
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *Error) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *Error) UserMessage() string {
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *Error) Suggestion() string {
	return e.SuggestText
}

// NewUnknownOperationError creates an error for an operation name the
// connector does not implement.
func NewUnknownOperationError(connector, operation string, known []string) *Error {
	return &Error{
		Type:        ErrorTypeNotFound,
		Message:     fmt.Sprintf("unknown operation %q for %s", operation, connector),
		SuggestText: fmt.Sprintf("Use one of: %v", known),
	}
}

// NewConfigError creates an error for an integration that cannot be built
// from its configuration.
func NewConfigError(connector, message string) *Error {
	return &Error{
		Type:    ErrorTypeConfig,
		Message: fmt.Sprintf("%s: %s", connector, message),
	}
}
