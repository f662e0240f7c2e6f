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

// Package events implements the identify, track and page commands.
package events

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/segment-relay/internal/commands/shared"
	"github.com/tombee/segment-relay/internal/integration/segment"
	"github.com/tombee/segment-relay/internal/log"
)

// eventFlags holds the flag values shared by all event commands. Object
// flags are JSON text and are decoded by the integration.
type eventFlags struct {
	userID      string
	anonymousID string
	context     string
	timestamp   string

	// kind-specific
	traits     string
	properties string
	event      string
	name       string
	category   string
}

func (f *eventFlags) registerIdentity(fs *pflag.FlagSet) {
	fs.StringVar(&f.userID, "user-id", "", "User ID")
	fs.StringVar(&f.anonymousID, "anonymous-id", "", "Anonymous ID (required when --user-id is not set)")
	fs.StringVar(&f.context, "context", "", "Context as a JSON object")
	fs.StringVar(&f.timestamp, "timestamp", "", "ISO-8601 timestamp of the event")
}

// inputs converts the set flags into Execute inputs. Unset flags are absent.
func (f *eventFlags) inputs(fs *pflag.FlagSet) map[string]interface{} {
	values := map[string]string{
		"user-id":      f.userID,
		"anonymous-id": f.anonymousID,
		"context":      f.context,
		"timestamp":    f.timestamp,
		"traits":       f.traits,
		"properties":   f.properties,
		"event":        f.event,
		"name":         f.name,
		"category":     f.category,
	}
	keys := map[string]string{
		"user-id":      "userId",
		"anonymous-id": "anonymousId",
	}

	inputs := make(map[string]interface{})
	fs.Visit(func(fl *pflag.Flag) {
		v, ok := values[fl.Name]
		if !ok {
			return
		}
		key := fl.Name
		if k, ok := keys[fl.Name]; ok {
			key = k
		}
		inputs[key] = v
	})
	return inputs
}

// NewIdentifyCommand creates the identify command.
func NewIdentifyCommand() *cobra.Command {
	f := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Associate traits with a user",
		Long: `Send an identify call to Segment.

Examples:
  segment-relay identify --user-id u1 --traits '{"email":"a@example.com"}'
  segment-relay identify --anonymous-id 3f9a --traits '{"plan":"free"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, segment.OpIdentify, f.inputs(cmd.Flags()))
		},
	}
	f.registerIdentity(cmd.Flags())
	cmd.Flags().StringVar(&f.traits, "traits", "", "Traits as a JSON object")
	return cmd
}

// NewTrackCommand creates the track command.
func NewTrackCommand() *cobra.Command {
	f := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record a behavioral event",
		Long: `Send a track call to Segment.

Examples:
  segment-relay track --user-id u1 --event "Order Completed" --properties '{"amount":42}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, segment.OpTrack, f.inputs(cmd.Flags()))
		},
	}
	f.registerIdentity(cmd.Flags())
	cmd.Flags().StringVar(&f.event, "event", "", "Event name")
	cmd.Flags().StringVar(&f.properties, "properties", "", "Properties as a JSON object")
	return cmd
}

// NewPageCommand creates the page command.
func NewPageCommand() *cobra.Command {
	f := &eventFlags{}
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Record a page view",
		Long: `Send a page call to Segment.

Examples:
  segment-relay page --user-id u1 --name Pricing --category Marketing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvent(cmd, segment.OpPage, f.inputs(cmd.Flags()))
		},
	}
	f.registerIdentity(cmd.Flags())
	cmd.Flags().StringVar(&f.name, "name", "", "Page name")
	cmd.Flags().StringVar(&f.category, "category", "", "Page category")
	cmd.Flags().StringVar(&f.properties, "properties", "", "Properties as a JSON object")
	return cmd
}

func runEvent(cmd *cobra.Command, op string, inputs map[string]interface{}) error {
	out := cmd.OutOrStdout()
	shared.InitStyles(out)

	err := dispatch(cmd, op, inputs)
	if err != nil && shared.GetJSON() {
		return shared.EmitJSONError(out, op, err)
	}
	return err
}

func dispatch(cmd *cobra.Command, op string, inputs map[string]interface{}) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.NewLogger(cfg, cmd.ErrOrStderr())

	stopTracing, err := shared.StartTracing(cmd.ErrOrStderr())
	if err != nil {
		return shared.NewConfigError("failed to start tracing", err)
	}
	defer stopTracing()

	conn, err := shared.NewConnector(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := conn.Execute(ctx, op, inputs)
	if err != nil {
		return shared.ClassifyDispatchError(op, err)
	}

	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		return shared.EmitJSONResult(out, op, result.Response)
	}

	host, _ := result.Metadata[log.HostKey].(string)
	fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("%s sent to %s", op, host)))
	for _, line := range formatFields(result.Response) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// formatFields renders the result fields in a stable order, skipping nulls.
func formatFields(response map[string]interface{}) []string {
	keys := make([]string, 0, len(response))
	for k := range response {
		if k == "success" || response[k] == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	width := 0
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		label := shared.RenderLabel(k + ":" + strings.Repeat(" ", width-len(k)))
		lines = append(lines, fmt.Sprintf("  %s %v", label, response[k]))
	}
	return lines
}
