// Package api provides common types and utilities for API integrations.
package api

import (
	"log/slog"

	"github.com/tombee/segment-relay/internal/operation/transport"
)

// ConnectorConfig holds configuration for API integrations.
type ConnectorConfig struct {
	// Transport is the HTTP transport for making requests
	Transport transport.Transport

	// BaseURL is the API host or base URL. Integrations define how it is
	// interpreted; an empty value selects the integration default.
	BaseURL string

	// Token is the authentication secret (write key, API key, etc.)
	Token string

	// AdditionalAuth holds integration-specific auth data
	AdditionalAuth map[string]string

	// Logger receives integration logs. Nil selects slog.Default().
	Logger *slog.Logger
}

// OperationInfo provides metadata about an integration operation.
type OperationInfo struct {
	// Name is the operation identifier (e.g., "track")
	Name string `json:"name" yaml:"name"`

	// DisplayName is a short title for listings (e.g., "Track Event")
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	// Description is a human-readable description
	Description string `json:"description" yaml:"description"`

	// Category groups related operations (e.g., "events")
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Tags classify operations (e.g., "write")
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// OperationSchema describes an operation's inputs and outputs.
type OperationSchema struct {
	// Description is a human-readable description
	Description string `json:"description" yaml:"description"`

	// Parameters describes the operation inputs
	Parameters []ParameterInfo `json:"parameters" yaml:"parameters"`

	// ResponseFields describes the response structure
	ResponseFields []ResponseFieldInfo `json:"responseFields,omitempty" yaml:"responseFields,omitempty"`
}

// ParameterInfo describes an operation parameter.
type ParameterInfo struct {
	// Name is the parameter identifier
	Name string `json:"name" yaml:"name"`

	// DisplayName is the label shown to users
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	// Type is the parameter type (string, integer, boolean, array, object)
	Type string `json:"type" yaml:"type"`

	// Description is a human-readable description
	Description string `json:"description" yaml:"description"`

	// Required indicates if the parameter is required
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Default is the default value (nil if no default)
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`
}

// ResponseFieldInfo describes a response field.
type ResponseFieldInfo struct {
	// Name is the field identifier
	Name string `json:"name" yaml:"name"`

	// Type is the field type (string, integer, boolean, array, object)
	Type string `json:"type" yaml:"type"`

	// Description is a human-readable description
	Description string `json:"description" yaml:"description"`

	// Nullable indicates the field may be null
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// TypedProvider describes the operations an integration offers.
type TypedProvider interface {
	// Operations returns the list of available operations with metadata.
	Operations() []OperationInfo

	// OperationSchema returns the operation description and parameter information.
	// Returns nil if the operation doesn't exist.
	OperationSchema(operation string) *OperationSchema
}
