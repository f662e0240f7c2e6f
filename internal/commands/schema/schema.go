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

// Package schema implements the schema command.
package schema

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tombee/segment-relay/internal/commands/shared"
	"github.com/tombee/segment-relay/internal/config"
	"github.com/tombee/segment-relay/internal/integration/segment"
	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation/api"
)

// OperationDoc is the documented shape of one operation.
type OperationDoc struct {
	api.OperationInfo `yaml:",inline"`

	Schema *api.OperationSchema `json:"schema" yaml:"schema"`
}

// Document is the output of the schema command.
type Document struct {
	Integration  string              `json:"integration" yaml:"integration"`
	Instructions string              `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Config       []api.ParameterInfo `json:"config,omitempty" yaml:"config,omitempty"`
	Operations   []OperationDoc      `json:"operations" yaml:"operations"`
}

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "schema [operation]",
		Short: "Describe the operations and their inputs",
		Long: `Output the declared inputs and outputs of identify, track and page.

Without an argument, all operations are listed together with the
configuration fields and installation instructions.`,
		Example: `  # All operations as YAML
  segment-relay schema

  # One operation as JSON
  segment-relay schema track --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if shared.GetJSON() {
				outputFormat = "json"
			}
			doc, err := buildDocument(args)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), outputFormat, doc)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")
	return cmd
}

func buildDocument(args []string) (*Document, error) {
	conn, err := shared.NewConnector(config.Default(), log.Discard())
	if err != nil {
		return nil, err
	}
	provider, ok := conn.(api.TypedProvider)
	if !ok {
		return nil, shared.NewConfigError(fmt.Sprintf("integration %q does not describe its operations", conn.Name()), nil)
	}

	doc := &Document{Integration: conn.Name()}
	for _, op := range provider.Operations() {
		if len(args) == 1 && op.Name != args[0] {
			continue
		}
		doc.Operations = append(doc.Operations, OperationDoc{
			OperationInfo: op,
			Schema:        provider.OperationSchema(op.Name),
		})
	}

	if len(args) == 1 {
		if len(doc.Operations) == 0 {
			return nil, shared.NewValidationError(
				fmt.Sprintf("unknown operation %q (known: %s, %s, %s)", args[0], segment.OpIdentify, segment.OpTrack, segment.OpPage), nil)
		}
		return doc, nil
	}

	doc.Instructions = segment.InstallationInstructions
	doc.Config = segment.ConfigFields()
	return doc, nil
}

func write(w io.Writer, format string, doc *Document) error {
	switch strings.ToLower(format) {
	case "json":
		return shared.EmitJSON(w, doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		return enc.Close()
	default:
		return shared.NewValidationError(fmt.Sprintf("unsupported output format %q (use yaml or json)", format), nil)
	}
}
