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

package config

import (
	"fmt"
	"strings"

	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// Validate checks the configuration and returns a *errors.ConfigError listing
// every problem found. A missing write key is not a problem here; commands
// that send events check for it.
func (c *Config) Validate() error {
	var errs []string

	if err := ValidateHost(c.Segment.DataPlaneHost); err != nil {
		errs = append(errs, fmt.Sprintf("segment.data_plane_host %v", err))
	}
	if c.Segment.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("segment.timeout must be positive, got %v", c.Segment.Timeout))
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of [trace, debug, info, warn, warning, error], got %q", c.Log.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of [json, text], got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return &relayerrors.ConfigError{
			Key:    "validation",
			Reason: "configuration validation failed:\n  - " + strings.Join(errs, "\n  - "),
		}
	}
	return nil
}

// ValidateHost checks that host is a bare host name, optionally with a port.
// Empty is valid and selects the default host.
func ValidateHost(host string) error {
	switch {
	case host == "":
		return nil
	case strings.Contains(host, "://"):
		return fmt.Errorf("must not include a scheme, got %q", host)
	case strings.ContainsAny(host, "/?#"):
		return fmt.Errorf("must not include a path, got %q", host)
	case strings.ContainsAny(host, " \t\n"):
		return fmt.Errorf("must not contain whitespace, got %q", host)
	}
	return nil
}
