package httpclient

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const redacted = "[REDACTED]"

// credentialParams are query parameter name fragments that carry credentials.
// Matching is case-insensitive and by substring, so "writeKey" and
// "segment_write_key" both match "key".
var credentialParams = []string{"key", "token", "secret", "password", "auth", "credential"}

// credentialHeaders are headers whose values are never logged.
var credentialHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
}

// sanitizeURL returns u as a string safe for logs. Userinfo is dropped,
// since a write key may be passed as the URL user, and credential query
// parameters are redacted.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	safe := *u
	if safe.User != nil {
		safe.User = url.User(redacted)
	}
	if safe.RawQuery == "" {
		return safe.String()
	}

	q := safe.Query()
	for param := range q {
		if isCredentialParam(param) {
			q.Set(param, redacted)
		}
	}
	safe.RawQuery = q.Encode()
	return safe.String()
}

func isCredentialParam(param string) bool {
	lower := strings.ToLower(param)
	for _, fragment := range credentialParams {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// sanitizeHeaders flattens h into "Name: value" lines sorted by name, with
// credential headers redacted.
func sanitizeHeaders(h http.Header) []string {
	lines := make([]string, 0, len(h))
	for name, values := range h {
		value := strings.Join(values, ", ")
		if credentialHeaders[http.CanonicalHeaderKey(name)] {
			value = redacted
		}
		lines = append(lines, name+": "+value)
	}
	sort.Strings(lines)
	return lines
}
