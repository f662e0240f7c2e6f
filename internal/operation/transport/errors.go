package transport

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies transport errors for reporting and metrics labels.
type ErrorType string

const (
	// ErrorTypeConnection indicates network, DNS or TLS errors
	ErrorTypeConnection ErrorType = "connection"

	// ErrorTypeTimeout indicates request timeout or deadline exceeded
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeCancelled indicates context was cancelled
	ErrorTypeCancelled ErrorType = "cancelled"

	// ErrorTypeInvalidReq indicates request validation error (invalid method, URL, etc.)
	ErrorTypeInvalidReq ErrorType = "invalid_request"

	// ErrorTypeAuth indicates the service refused the credentials (401, 403)
	ErrorTypeAuth ErrorType = "auth"

	// ErrorTypeRateLimit indicates rate limiting (429 Too Many Requests)
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeServer indicates server errors (5xx)
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeClient indicates any other non-2xx status
	ErrorTypeClient ErrorType = "client"
)

// TransportError reports a request that never completed: DNS, TLS,
// connection resets, timeouts and cancellation.
type TransportError struct {
	// Type classifies the error
	Type ErrorType

	// Message is a user-facing error message with credentials redacted
	// Should be safe to log and display to users
	Message string

	// Cause is the underlying error
	// May contain sensitive data - use Message for user-facing errors
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsType returns true if the error is of the given type.
func (e *TransportError) IsType(t ErrorType) bool {
	return e.Type == t
}

// ErrorType implements pkg/errors.ErrorClassifier.
func (e *TransportError) ErrorType() string {
	return string(e.Type)
}

// IsRetryable implements pkg/errors.ErrorClassifier. The transport itself
// never retries.
func (e *TransportError) IsRetryable() bool {
	return e.Type == ErrorTypeConnection || e.Type == ErrorTypeTimeout
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *TransportError) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *TransportError) UserMessage() string {
	return e.Message
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *TransportError) Suggestion() string {
	switch e.Type {
	case ErrorTypeConnection:
		return "Check network connectivity and the data plane host"
	case ErrorTypeTimeout:
		return "Increase the request timeout or check service responsiveness"
	case ErrorTypeInvalidReq:
		return "Check the configured host; it must be a bare hostname"
	default:
		return ""
	}
}

// RejectionError reports a request that completed with a non-2xx status.
// Body holds the raw response text exactly as received.
type RejectionError struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Body is the raw response body text
	Body string

	// RequestID is the request ID from the service, if it sent one
	RequestID string
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("request rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request rejected with status %d: %s", e.StatusCode, body)
}

// Type classifies the status code. It is used for labels and messages only.
func (e *RejectionError) Type() ErrorType {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case e.StatusCode >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeClient
	}
}

// IsStatusCode returns true if the error has the given HTTP status code.
func (e *RejectionError) IsStatusCode(code int) bool {
	return e.StatusCode == code
}

// ErrorType implements pkg/errors.ErrorClassifier.
func (e *RejectionError) ErrorType() string {
	return string(e.Type())
}

// IsRetryable implements pkg/errors.ErrorClassifier.
func (e *RejectionError) IsRetryable() bool {
	t := e.Type()
	return t == ErrorTypeRateLimit || t == ErrorTypeServer
}

// IsUserVisible implements pkg/errors.UserVisibleError.
func (e *RejectionError) IsUserVisible() bool {
	return true
}

// UserMessage implements pkg/errors.UserVisibleError.
func (e *RejectionError) UserMessage() string {
	return e.Error()
}

// Suggestion implements pkg/errors.UserVisibleError.
func (e *RejectionError) Suggestion() string {
	switch e.Type() {
	case ErrorTypeAuth:
		return "Check the write key"
	case ErrorTypeRateLimit:
		return "Slow down; the service is rate limiting this source"
	case ErrorTypeServer:
		return "The service is having problems; try again later"
	default:
		return "Check the event payload"
	}
}

// CheckStatus returns nil for a 2xx response and a *RejectionError otherwise.
func CheckStatus(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &RejectionError{
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		RequestID:  resp.RequestID(),
	}
}
