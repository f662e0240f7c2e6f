// Package transport provides protocol-level abstractions for integration execution.
//
// The transport layer separates protocol concerns (HTTP request building,
// network failure classification, status checking) from integration-level
// concerns (operation definition, input validation, payload shaping).
// Transports perform exactly one round trip per Execute call.
package transport

import (
	"context"
)

// Transport executes requests with protocol-specific handling.
type Transport interface {
	// Execute sends a request and returns a response.
	// The context controls cancellation and deadlines.
	// Returns *TransportError when the request did not complete. A completed
	// request is returned regardless of its status code; callers decide what
	// a non-2xx status means (see CheckStatus).
	Execute(ctx context.Context, req *Request) (*Response, error)

	// Name returns the transport identifier (e.g., "http").
	Name() string
}

// Request represents a transport-agnostic request.
// Transports validate requests before execution and return InvalidRequest errors
// for invalid method, URL, or other protocol violations.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS)
	// Required, must be non-empty
	Method string

	// URL is the full request URL
	// Required, must be valid per RFC 3986
	URL string

	// Headers are request headers (case-insensitive)
	// Optional, may be nil or empty map
	Headers map[string]string

	// Body is the request body
	// Optional, may be nil or empty slice
	Body []byte
}

// Response represents a transport-agnostic response.
type Response struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Headers contains response headers
	Headers map[string][]string

	// Body is the response body
	Body []byte

	// Metadata contains transport-specific data (e.g., request ID)
	Metadata map[string]interface{}
}

// Standard metadata keys used across transports
const (
	// MetadataRequestID is the service request ID
	MetadataRequestID = "request_id"
)

// RequestID returns the service request ID recorded in the response metadata.
func (r *Response) RequestID() string {
	if r == nil || r.Metadata == nil {
		return ""
	}
	id, _ := r.Metadata[MetadataRequestID].(string)
	return id
}
