// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import "net/http"

var (
	verboseFlag bool
	jsonFlag    bool
	configFlag  string
	traceFlag   bool

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"

	// baseTransport replaces the TLS transport used to reach the ingestion
	// API. Only tests set it.
	baseTransport http.RoundTripper
)

// RegisterFlagPointers returns pointers to the global flag values so the root
// command can bind them.
func RegisterFlagPointers() (verbose, json *bool, config *string, trace *bool) {
	return &verboseFlag, &jsonFlag, &configFlag, &traceFlag
}

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVerbose returns whether verbose output is enabled
func GetVerbose() bool {
	return verboseFlag
}

// GetJSON returns whether JSON output is requested
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the --config value
func GetConfigPath() string {
	return configFlag
}

// GetTrace returns whether spans should be printed
func GetTrace() bool {
	return traceFlag
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// SetConfigPathForTest sets the config path for testing
func SetConfigPathForTest(path string) {
	configFlag = path
}

// SetJSONForTest sets JSON output for testing
func SetJSONForTest(enabled bool) {
	jsonFlag = enabled
}

// SetBaseTransportForTest routes requests through rt, typically a transport
// that trusts a test server certificate. Pass nil to restore the default.
func SetBaseTransportForTest(rt http.RoundTripper) {
	baseTransport = rt
}
