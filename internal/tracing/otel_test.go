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

package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStdoutProvider(t *testing.T) {
	var buf bytes.Buffer

	provider, err := NewStdoutProvider(&buf, "segment-relay", "test")
	if err != nil {
		t.Fatalf("NewStdoutProvider() error = %v", err)
	}

	_, span := provider.tp.Tracer(InstrumentationName).Start(context.Background(), "segment.track")
	span.End()

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if !strings.Contains(buf.String(), "segment.track") {
		t.Errorf("expected exported span in output, got: %s", buf.String())
	}
}
