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

// Package diagnostics implements the ping command.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/segment-relay/internal/commands/shared"
	"github.com/tombee/segment-relay/internal/operation"
)

// PingResult contains the readiness probe result
type PingResult struct {
	Host        string `json:"host"`
	Ready       bool   `json:"ready"`
	Description string `json:"description,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

// NewPingCommand creates the ping command
func NewPingCommand() *cobra.Command {
	return &cobra.Command{
		Use: "ping",
		Annotations: map[string]string{
			"group": "diagnostics",
		},
		Short: "Check that the write key can deliver events",
		Long: `Send a synthetic track event to check connectivity and credentials.

The probe sends {"userId":"test","event":"App Sync Test","properties":{"test":true}}
to the configured data plane host. Failure details are written to the log.

Exit codes:
  0 - Ready
  3 - Configuration could not be loaded
  4 - Not ready`,
		Args: cobra.NoArgs,
		RunE: runPing,
	}
}

func runPing(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	shared.InitStyles(out)

	cfg, err := shared.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.NewLogger(cfg, cmd.ErrOrStderr())

	conn, err := shared.NewConnector(cfg, logger)
	if err != nil {
		return err
	}
	checker, ok := conn.(operation.ReadinessChecker)
	if !ok {
		return shared.NewConfigError(fmt.Sprintf("integration %q does not support readiness checks", conn.Name()), nil)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Segment.Timeout)
	defer cancel()

	start := time.Now()
	readiness, err := checker.Check(ctx)
	if err != nil {
		return err
	}

	result := PingResult{
		Host:        readiness.Endpoint,
		Ready:       readiness.Ready,
		Description: readiness.Description,
		DurationMS:  time.Since(start).Milliseconds(),
	}

	if shared.GetJSON() {
		if err := shared.EmitJSON(out, result); err != nil {
			return err
		}
	} else {
		outputPingText(out, result)
	}

	if !result.Ready {
		return notReady(shared.GetJSON(), readiness)
	}
	return nil
}

// notReady returns the exit error for a failed probe. In JSON mode the
// result was already printed.
func notReady(jsonMode bool, readiness *operation.Readiness) error {
	err := shared.NewNotReadyError("segment is not ready: " + readiness.Description)
	if jsonMode {
		return shared.MarkReported(err)
	}
	return err
}

func outputPingText(w io.Writer, result PingResult) {
	fmt.Fprintf(w, "Testing host: %s\n\n", result.Host)
	if result.Ready {
		fmt.Fprintln(w, shared.RenderOK(fmt.Sprintf("Ready (%dms)", result.DurationMS)))
		return
	}
	fmt.Fprintln(w, shared.RenderError("Not ready: "+result.Description))
	if result.Description != "" {
		fmt.Fprintln(w, shared.RenderLabel(result.Description))
	}
}
