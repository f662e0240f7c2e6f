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

import (
	"encoding/json"
	"io"

	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// JSONResponse is the envelope shared by all --json output.
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// JSONError describes a failure in --json output.
type JSONError struct {
	Code       int    `json:"code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// reportedError marks an error whose details were already written as JSON.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// EmitJSON writes response to w as indented JSON.
func EmitJSON(w io.Writer, response interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// EmitJSONResult writes a successful envelope with result under "result".
func EmitJSONResult(w io.Writer, command string, result interface{}) error {
	type resultResponse struct {
		JSONResponse
		Result interface{} `json:"result"`
	}
	return EmitJSON(w, resultResponse{
		JSONResponse: JSONResponse{Version: "1.0", Command: command, Success: true},
		Result:       result,
	})
}

// EmitJSONError writes a failed envelope for err and returns err marked as
// reported, keeping its exit code.
func EmitJSONError(w io.Writer, command string, err error) error {
	type errorResponse struct {
		JSONResponse
		Error JSONError `json:"error"`
	}

	jerr := JSONError{
		Code:    ExitCode(err),
		Type:    relayerrors.Classify(err),
		Message: err.Error(),
	}
	var userErr relayerrors.UserVisibleError
	if relayerrors.As(err, &userErr) && userErr.IsUserVisible() {
		jerr.Suggestion = userErr.Suggestion()
	}

	if emitErr := EmitJSON(w, errorResponse{
		JSONResponse: JSONResponse{Version: "1.0", Command: command, Success: false},
		Error:        jerr,
	}); emitErr != nil {
		return emitErr
	}
	return &reportedError{err: err}
}

// MarkReported marks err as already written to the output, so
// HandleExitError only sets the exit code.
func MarkReported(err error) error {
	return &reportedError{err: err}
}
