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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/segment-relay/internal/commands/diagnostics"
	"github.com/tombee/segment-relay/internal/commands/events"
	"github.com/tombee/segment-relay/internal/commands/schema"
	"github.com/tombee/segment-relay/internal/commands/shared"
	versioncmd "github.com/tombee/segment-relay/internal/commands/version"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment-relay",
		Short: "Send analytics events to Segment",
		Long: `segment-relay sends identify, track and page events to the Segment
HTTP tracking API. Each invocation makes exactly one request and never retries.

The write key is read from SEGMENT_WRITE_KEY or the config file
(default: ~/.config/segment-relay/config.yaml).

Run 'segment-relay ping' to check the write key.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	verbose, json, config, trace := shared.RegisterFlagPointers()

	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ~/.config/segment-relay/config.yaml)")
	cmd.PersistentFlags().BoolVar(trace, "trace", false, "Print OpenTelemetry spans to stderr")

	cmd.AddGroup(
		&cobra.Group{ID: "events", Title: "Event Commands:"},
		&cobra.Group{ID: "diagnostics", Title: "Diagnostics:"},
	)

	for _, c := range []*cobra.Command{events.NewIdentifyCommand(), events.NewTrackCommand(), events.NewPageCommand()} {
		c.GroupID = "events"
		cmd.AddCommand(c)
	}

	ping := diagnostics.NewPingCommand()
	ping.GroupID = "diagnostics"
	cmd.AddCommand(ping)

	cmd.AddCommand(schema.NewSchemaCommand())
	cmd.AddCommand(versioncmd.NewVersionCommand())

	cmd.SetHelpCommand(NewHelpCommand(cmd))

	return cmd
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}
