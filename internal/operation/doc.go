// Package operation provides the shared framework for relay operations.
//
// Every integration exposes a set of named operations through the Connector
// interface. The framework handles:
//   - The Connector contract and the Result envelope returned to hosts
//   - A registry of builtin integrations addressable by name
//   - Error classification for unknown operations and bad inputs
//   - Prometheus metrics for dispatches and readiness probes
//
// Architecture:
//
// Integrations live under internal/integration and register a factory with
// RegisterBuiltinAPI during init(). Hosts (the CLI, tests) look them up with
// NewBuiltinAPI and call Execute with loosely typed inputs. Protocol concerns
// (HTTP, status classification) live in the transport subpackage; declared
// operation metadata lives in the api subpackage.
package operation
