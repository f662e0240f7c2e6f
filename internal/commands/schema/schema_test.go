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

package schema

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tombee/segment-relay/internal/commands/shared"
)

func runSchema(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewSchemaCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchema_AllOperationsYAML(t *testing.T) {
	out, err := runSchema(t)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "segment", doc["integration"])
	assert.Contains(t, doc["instructions"], "Write Key")

	ops, ok := doc["operations"].([]interface{})
	require.True(t, ok)
	assert.Len(t, ops, 3)
	assert.NotEmpty(t, doc["config"])
}

func TestSchema_OneOperationJSON(t *testing.T) {
	out, err := runSchema(t, "track", "--output", "json")
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Operations, 1)
	assert.Equal(t, "track", doc.Operations[0].Name)
	assert.Equal(t, "Track Event", doc.Operations[0].DisplayName)
	require.NotNil(t, doc.Operations[0].Schema)

	var params []string
	for _, p := range doc.Operations[0].Schema.Parameters {
		params = append(params, p.Name)
	}
	assert.Contains(t, params, "event")
	assert.Contains(t, params, "properties")
	assert.Empty(t, doc.Instructions)
}

func TestSchema_UnknownOperation(t *testing.T) {
	_, err := runSchema(t, "screen")
	require.Error(t, err)
	assert.Equal(t, shared.ExitValidation, shared.ExitCode(err))
}

func TestSchema_BadFormat(t *testing.T) {
	_, err := runSchema(t, "--output", "xml")
	require.Error(t, err)
	assert.Equal(t, shared.ExitValidation, shared.ExitCode(err))
}
