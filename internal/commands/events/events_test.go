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

package events

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/segment-relay/internal/commands/shared"
	"github.com/tombee/segment-relay/internal/testing/fakeapi"
)

// setup points the commands at a fake ingestion API.
func setup(t *testing.T, writeKey string) *fakeapi.Server {
	t.Helper()
	fake := fakeapi.New(fakeapi.WithWriteKeys("wk_good"))
	t.Cleanup(fake.Close)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SEGMENT_WRITE_KEY", writeKey)
	t.Setenv("SEGMENT_DATA_PLANE_HOST", fake.Host())
	t.Setenv("LOG_LEVEL", "error")

	shared.SetConfigPathForTest("")
	shared.SetBaseTransportForTest(fake.Transport())
	t.Cleanup(func() {
		shared.SetBaseTransportForTest(nil)
		shared.SetJSONForTest(false)
	})
	return fake
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTrackCommand(t *testing.T) {
	fake := setup(t, "wk_good")

	out, err := run(t, NewTrackCommand(),
		"--user-id", "u1",
		"--event", "Order Completed",
		"--properties", `{"amount":42}`,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "track sent to "+fake.Host())
	assert.Contains(t, out, "Order Completed")

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "track", reqs[0].Endpoint)
	assert.Equal(t,
		`{"properties":{"amount":42},"context":{},"userId":"u1","event":"Order Completed"}`,
		string(reqs[0].Body))
}

func TestIdentifyCommand_JSON(t *testing.T) {
	fake := setup(t, "wk_good")
	shared.SetJSONForTest(true)

	out, err := run(t, NewIdentifyCommand(),
		"--anonymous-id", "anon-1",
		"--traits", `{"plan":"free"}`,
		"--timestamp", "2024-01-01T00:00:00Z",
	)
	require.NoError(t, err)

	var resp struct {
		Command string                 `json:"command"`
		Success bool                   `json:"success"`
		Result  map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "identify", resp.Command)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Result["userId"])
	assert.Equal(t, "anon-1", resp.Result["anonymousId"])
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Result["timestamp"])
	assert.Equal(t, map[string]interface{}{"plan": "free"}, resp.Result["traits"])

	require.Len(t, fake.Requests(), 1)
}

func TestPageCommand(t *testing.T) {
	fake := setup(t, "wk_good")

	_, err := run(t, NewPageCommand(), "--user-id", "u1", "--name", "Pricing")
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "page", reqs[0].Endpoint)
	assert.Equal(t, `{"properties":{},"context":{},"userId":"u1","name":"Pricing"}`, string(reqs[0].Body))
}

func TestEventCommand_MissingIdentity(t *testing.T) {
	fake := setup(t, "wk_good")

	_, err := run(t, NewTrackCommand(), "--event", "Signed Up")

	require.Error(t, err)
	assert.Equal(t, shared.ExitValidation, shared.ExitCode(err))
	assert.Contains(t, err.Error(), "Either userId or anonymousId must be provided")
	assert.Empty(t, fake.Requests())
}

func TestEventCommand_BadJSONObject(t *testing.T) {
	for _, value := range []string{`[1,2]`, `{"plan":"pro"} extra`, `{"plan":"pro",}`} {
		t.Run(value, func(t *testing.T) {
			fake := setup(t, "wk_good")

			_, err := run(t, NewTrackCommand(), "--user-id", "u1", "--properties", value)

			require.Error(t, err)
			assert.Equal(t, shared.ExitValidation, shared.ExitCode(err))
			assert.Empty(t, fake.Requests())
		})
	}
}

func TestEventCommand_Rejected(t *testing.T) {
	setup(t, "wk_bad")

	_, err := run(t, NewTrackCommand(), "--user-id", "u1", "--event", "e")

	require.Error(t, err)
	assert.Equal(t, shared.ExitDispatchFailed, shared.ExitCode(err))
	assert.Contains(t, err.Error(), "401")
}

func TestEventCommand_RejectedJSON(t *testing.T) {
	fake := setup(t, "wk_good")
	fake.Respond("track", http.StatusBadRequest, "bad payload")
	shared.SetJSONForTest(true)

	out, err := run(t, NewTrackCommand(), "--user-id", "u1")

	require.Error(t, err)
	assert.Equal(t, shared.ExitDispatchFailed, shared.ExitCode(err))

	var resp struct {
		Success bool             `json:"success"`
		Error   shared.JSONError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "client", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "bad payload")
}

func TestEventCommand_ConfigError(t *testing.T) {
	setup(t, "wk_good")
	t.Setenv("SEGMENT_DATA_PLANE_HOST", "https://api.segment.io")

	_, err := run(t, NewTrackCommand(), "--user-id", "u1")

	require.Error(t, err)
	assert.Equal(t, shared.ExitConfig, shared.ExitCode(err))
}

func TestFormatFields(t *testing.T) {
	lines := formatFields(map[string]interface{}{
		"success":   true,
		"userId":    "u1",
		"eventName": nil,
		"timestamp": "2024-01-01T00:00:00Z",
	})

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "timestamp:")
	assert.Contains(t, lines[1], "userId:")
}
