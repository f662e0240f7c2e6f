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
	"errors"
	"fmt"
	"io"

	"github.com/tombee/segment-relay/internal/operation"
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// Exit codes for CLI commands
const (
	ExitSuccess        = 0
	ExitDispatchFailed = 1 // transport failure or rejected by the API
	ExitValidation     = 2 // bad input, nothing was sent
	ExitConfig         = 3 // configuration could not be loaded
	ExitNotReady       = 4 // readiness probe failed
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewDispatchError reports an event the API did not accept.
func NewDispatchError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitDispatchFailed, Message: msg, Cause: cause}
}

// NewValidationError reports input rejected before any request.
func NewValidationError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitValidation, Message: msg, Cause: cause}
}

// NewConfigError reports an unusable configuration.
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Cause: cause}
}

// NewNotReadyError reports a failed readiness probe.
func NewNotReadyError(msg string) *ExitError {
	return &ExitError{Code: ExitNotReady, Message: msg}
}

// ClassifyDispatchError wraps an error from an entry point in the ExitError
// matching its kind.
func ClassifyDispatchError(op string, err error) *ExitError {
	var validation *relayerrors.ValidationError
	if errors.As(err, &validation) {
		return NewValidationError(fmt.Sprintf("invalid %s input", op), err)
	}
	var opErr *operation.Error
	if errors.As(err, &opErr) && opErr.Type == operation.ErrorTypeConfig {
		return NewConfigError(fmt.Sprintf("%s is misconfigured", op), err)
	}
	return NewDispatchError(fmt.Sprintf("%s failed", op), err)
}

// ExitCode returns the exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitDispatchFailed
}

// HandleExitError prints err to w with any suggestion and returns the exit
// code. Errors already reported as JSON are not printed again.
func HandleExitError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(w, RenderError("Error: "+err.Error()))
		printUserVisibleSuggestion(w, err)
	}

	return ExitCode(err)
}

func printUserVisibleSuggestion(w io.Writer, err error) {
	// Walk the error chain to find a UserVisibleError
	for err != nil {
		if userErr, ok := err.(relayerrors.UserVisibleError); ok {
			if userErr.IsUserVisible() {
				if suggestion := userErr.Suggestion(); suggestion != "" {
					fmt.Fprintf(w, "\nSuggestion: %s\n", suggestion)
				}
			}
			return
		}
		err = errors.Unwrap(err)
	}
}
