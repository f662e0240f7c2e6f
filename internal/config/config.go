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

// Package config loads segment-relay configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/segment-relay/internal/log"
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// DefaultTimeout bounds one request to the ingestion API.
const DefaultTimeout = 30 * time.Second

// Config represents the complete segment-relay configuration.
type Config struct {
	Segment SegmentConfig `yaml:"segment"`
	Log     LogConfig     `yaml:"log"`
}

// SegmentConfig holds the source credentials and destination.
type SegmentConfig struct {
	// WriteKey is the source write key. May be a ${VAR} reference.
	WriteKey string `yaml:"write_key"`

	// DataPlaneHost is the ingestion API host without scheme or path.
	// Empty selects api.segment.io.
	DataPlaneHost string `yaml:"data_plane_host,omitempty"`

	// Timeout bounds a single request (default: 30s).
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level"`

	// Format sets the output format (json, text).
	Format string `yaml:"format"`

	// AddSource adds source file and line information to logs.
	AddSource bool `yaml:"add_source"`
}

// String implements fmt.Stringer without the write key.
func (s SegmentConfig) String() string {
	key := "<unset>"
	if s.WriteKey != "" {
		key = "[REDACTED]"
	}
	return fmt.Sprintf("SegmentConfig{WriteKey:%s, DataPlaneHost:%s, Timeout:%s}", key, s.DataPlaneHost, s.Timeout)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Segment: SegmentConfig{
			Timeout: DefaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from an optional YAML file, then the environment.
// Environment variables take precedence over the file. A missing file at the
// default location is not an error; a missing file named explicitly is.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultPath()
	}

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			if explicit || !relayerrors.Is(err, fs.ErrNotExist) {
				return nil, &relayerrors.ConfigError{
					Key:    "config_file",
					Reason: fmt.Sprintf("failed to load from %s", configPath),
					Cause:  err,
				}
			}
		}
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills in zero values left by a minimal file.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Segment.Timeout == 0 {
		c.Segment.Timeout = defaults.Segment.Timeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return relayerrors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return relayerrors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return relayerrors.Wrapf(err, "failed to parse YAML in %s", path)
	}

	c.Segment.WriteKey = expandEnvRef(c.Segment.WriteKey)
	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("SEGMENT_WRITE_KEY"); val != "" {
		c.Segment.WriteKey = val
	}
	if val := os.Getenv("SEGMENT_DATA_PLANE_HOST"); val != "" {
		c.Segment.DataPlaneHost = val
	}
	if val := os.Getenv("SEGMENT_TIMEOUT"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			c.Segment.Timeout = duration
		}
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("SEGMENT_RELAY_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_SOURCE"); val != "" {
		c.Log.AddSource = val == "1" || strings.ToLower(val) == "true"
	}
	if val := os.Getenv("SEGMENT_RELAY_DEBUG"); val == "1" || strings.ToLower(val) == "true" {
		c.Log.Level = "debug"
		c.Log.AddSource = true
	}
}

// expandEnvRef resolves a value of the exact form ${VAR}. Anything else is
// returned as written, so keys containing '$' survive.
func expandEnvRef(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "${") && strings.HasSuffix(trimmed, "}") {
		return os.Getenv(trimmed[2 : len(trimmed)-1])
	}
	return value
}

// LoggerConfig converts the log section into a log.Config.
func (c *Config) LoggerConfig() *log.Config {
	cfg := log.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = log.Format(c.Log.Format)
	cfg.AddSource = c.Log.AddSource
	return cfg
}
