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
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tombee/segment-relay/internal/config"
	_ "github.com/tombee/segment-relay/internal/integration" // registers builtin integrations
	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/api"
	"github.com/tombee/segment-relay/internal/operation/transport"
	"github.com/tombee/segment-relay/internal/tracing"
)

// LoadConfig loads configuration from --config, the default path and the
// environment. Failures are returned as ExitConfig errors.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// NewLogger builds the logger for a command. --verbose lowers the level to
// debug; logs always go to stderr so stdout stays parseable.
func NewLogger(cfg *config.Config, stderr io.Writer) *slog.Logger {
	lc := cfg.LoggerConfig()
	lc.Output = stderr
	if GetVerbose() && log.ParseLevel(lc.Level) > slog.LevelDebug {
		lc.Level = "debug"
	}
	return log.New(lc)
}

// IntegrationName is the builtin integration the relay commands dispatch to.
const IntegrationName = "segment"

// NewConnector builds the relay's connector from cfg through the builtin
// integration registry.
func NewConnector(cfg *config.Config, logger *slog.Logger) (operation.Connector, error) {
	tr, err := transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		Timeout:       cfg.Segment.Timeout,
		UserAgent:     fmt.Sprintf("segment-relay/%s", version),
		Logger:        logger,
		BaseTransport: baseTransport,
	})
	if err != nil {
		return nil, NewConfigError("failed to create HTTP transport", err)
	}

	conn, err := operation.NewBuiltinAPI(IntegrationName, &api.ConnectorConfig{
		Transport: tr,
		BaseURL:   cfg.Segment.DataPlaneHost,
		Token:     cfg.Segment.WriteKey,
		Logger:    logger,
	})
	if err != nil {
		return nil, NewConfigError("failed to create integration", err)
	}
	return conn, nil
}

// StartTracing installs a stdout span exporter when --trace is set. The
// returned function flushes it and is safe to call when tracing is off.
func StartTracing(w io.Writer) (func(), error) {
	if !GetTrace() {
		return func() {}, nil
	}
	p, err := tracing.NewStdoutProvider(w, "segment-relay", version)
	if err != nil {
		return nil, err
	}
	p.Install()
	return func() { _ = p.Shutdown(context.Background()) }, nil
}
