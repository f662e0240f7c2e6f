// Package secrets provides utilities for masking sensitive values before they
// reach logs or user-facing diagnostics.
package secrets

import (
	"sort"
	"strings"
)

// Mask is the replacement text for a masked secret.
const Mask = "***"

// Masker replaces registered secret values in strings.
// A Masker is built once per call site and is not safe for concurrent mutation.
type Masker struct {
	// secrets holds registered values, longest first so that a secret that
	// contains another is replaced whole
	secrets []string
}

// NewMasker creates a masker with no registered secrets.
func NewMasker() *Masker {
	return &Masker{}
}

// AddSecret registers a value to be masked. Empty values are ignored.
func (m *Masker) AddSecret(value string) {
	if value == "" {
		return
	}
	for _, s := range m.secrets {
		if s == value {
			return
		}
	}
	m.secrets = append(m.secrets, value)
	sort.SliceStable(m.secrets, func(i, j int) bool {
		return len(m.secrets[i]) > len(m.secrets[j])
	})
}

// Mask replaces all known secrets in a string with "***".
func (m *Masker) Mask(s string) string {
	result := s
	for _, secret := range m.secrets {
		if strings.Contains(result, secret) {
			result = strings.ReplaceAll(result, secret, Mask)
		}
	}
	return result
}

// MaskError returns the masked message of err, or "" for a nil error.
func (m *Masker) MaskError(err error) string {
	if err == nil {
		return ""
	}
	return m.Mask(err.Error())
}
