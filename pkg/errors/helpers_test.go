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

package errors_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

func TestWrap(t *testing.T) {
	t.Run("wraps error with context", func(t *testing.T) {
		original := errors.New("original error")
		wrapped := relayerrors.Wrap(original, "additional context")

		if wrapped == nil {
			t.Fatal("Wrap should not return nil for non-nil error")
		}

		msg := wrapped.Error()
		if !strings.Contains(msg, "additional context") {
			t.Errorf("wrapped error should contain context, got: %s", msg)
		}
		if !strings.Contains(msg, "original error") {
			t.Errorf("wrapped error should contain original message, got: %s", msg)
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if wrapped := relayerrors.Wrap(nil, "context"); wrapped != nil {
			t.Errorf("Wrap(nil, _) should return nil, got: %v", wrapped)
		}
	})

	t.Run("preserves error chain", func(t *testing.T) {
		original := errors.New("root cause")
		wrapped := relayerrors.Wrap(original, "context")

		if !errors.Is(wrapped, original) {
			t.Error("wrapped error should match original with errors.Is")
		}
		if unwrapped := errors.Unwrap(wrapped); unwrapped != original {
			t.Errorf("Unwrap should return original error, got: %v", unwrapped)
		}
	})
}

func TestWrapf(t *testing.T) {
	original := errors.New("file not found")
	wrapped := relayerrors.Wrapf(original, "loading config %s", "/etc/relay.yaml")

	msg := wrapped.Error()
	if !strings.Contains(msg, "loading config /etc/relay.yaml") {
		t.Errorf("wrapped error should contain formatted context, got: %s", msg)
	}
	if !errors.Is(wrapped, original) {
		t.Error("wrapped error should match original with errors.Is")
	}
	if relayerrors.Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil, ...) should return nil")
	}
}

func TestIsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", context.Canceled)
	if !relayerrors.Is(wrapped, context.Canceled) {
		t.Error("Is should find context.Canceled in chain")
	}

	cfgErr := &relayerrors.ConfigError{Key: "segment.write_key", Reason: "missing"}
	var target *relayerrors.ConfigError
	if !relayerrors.As(relayerrors.Wrap(cfgErr, "loading"), &target) {
		t.Fatal("As should find ConfigError in chain")
	}
	if target.Key != "segment.write_key" {
		t.Errorf("As returned wrong error, key = %q", target.Key)
	}

	var validation *relayerrors.ValidationError
	if relayerrors.As(cfgErr, &validation) {
		t.Error("As should not match a different error type")
	}
}
