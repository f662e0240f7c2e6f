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

/*
Package cli provides the root command for segment-relay.

This package creates the Cobra command tree and registers the global flags.
Individual commands are implemented in the internal/commands subpackages.

# Command Tree

	segment-relay
	├── identify      Associate traits with a user
	├── track         Record a behavioral event
	├── page          Record a page view
	├── ping          Check that the write key can deliver events
	├── schema        Describe the operations and their inputs
	├── version       Show version
	└── help          Show help

# Exit Codes

	0  success
	1  the request failed or was rejected
	2  invalid input, nothing was sent
	3  configuration error
	4  not ready (ping)

# Usage

From main.go:

	cli.SetVersion(version, commit, buildDate)
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(shared.HandleExitError(os.Stderr, err))
	}
*/
package cli
