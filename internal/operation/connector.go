package operation

import (
	"context"
	"sort"
	"sync"

	"github.com/tombee/segment-relay/internal/operation/api"
)

// BuiltinAPIFactory creates a configured integration.
type BuiltinAPIFactory func(config *api.ConnectorConfig) (Connector, error)

// builtinAPIFactories holds registered builtin integration factories.
var builtinAPIFactories = make(map[string]BuiltinAPIFactory)

var builtinMu sync.RWMutex

// RegisterBuiltinAPI registers a builtin integration factory.
// This is called by the integration package during init().
func RegisterBuiltinAPI(name string, factory BuiltinAPIFactory) {
	builtinMu.Lock()
	defer builtinMu.Unlock()
	builtinAPIFactories[name] = factory
}

// IsBuiltinAPI returns true if a builtin integration is registered under name.
func IsBuiltinAPI(name string) bool {
	builtinMu.RLock()
	defer builtinMu.RUnlock()
	_, ok := builtinAPIFactories[name]
	return ok
}

// BuiltinAPINames returns the registered integration names in sorted order.
func BuiltinAPINames() []string {
	builtinMu.RLock()
	defer builtinMu.RUnlock()

	names := make([]string, 0, len(builtinAPIFactories))
	for name := range builtinAPIFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltinAPI creates a builtin integration by name.
func NewBuiltinAPI(name string, config *api.ConnectorConfig) (Connector, error) {
	builtinMu.RLock()
	factory, ok := builtinAPIFactories[name]
	builtinMu.RUnlock()

	if !ok {
		return nil, &Error{
			Type:    ErrorTypeNotFound,
			Message: "builtin integration not found: " + name,
		}
	}
	return factory(config)
}

// Connector represents a configured external integration.
// Each connector can execute multiple named operations.
type Connector interface {
	// Name returns the connector identifier
	Name() string

	// Execute runs a named operation with the given inputs
	Execute(ctx context.Context, operation string, inputs map[string]interface{}) (*Result, error)
}

// ReadinessChecker is implemented by connectors that can verify their
// credentials and connectivity without side effects on the caller.
type ReadinessChecker interface {
	// Check reports whether the connector is ready to dispatch.
	Check(ctx context.Context) (*Readiness, error)
}

// Readiness is the outcome of a connectivity check.
type Readiness struct {
	// Ready is true when the remote service accepted a probe request
	Ready bool

	// Description is a short human-readable status
	Description string

	// Endpoint is the remote host that was checked
	Endpoint string
}

// Result represents the output of a connector operation.
type Result struct {
	// Response is the result record for the operation
	Response map[string]interface{}

	// Metadata contains execution metadata (correlation ID, host)
	Metadata map[string]interface{}
}
