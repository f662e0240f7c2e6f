// Package integration registers the built-in event integrations with the
// operation package.
package integration

import (
	"github.com/tombee/segment-relay/internal/integration/segment"
	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/api"
)

// BuiltinRegistry holds all built-in integration factories.
var BuiltinRegistry = map[string]func(config *api.ConnectorConfig) (operation.Connector, error){
	"segment": segment.NewSegmentIntegration,
}

func init() {
	for name, factory := range BuiltinRegistry {
		operation.RegisterBuiltinAPI(name, factory)
	}
}
