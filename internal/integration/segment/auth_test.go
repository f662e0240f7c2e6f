package segment

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationHeader(t *testing.T) {
	tests := []struct {
		writeKey string
		want     string
	}{
		{writeKey: "abc123", want: "Basic YWJjMTIzOg=="},
		{writeKey: "", want: "Basic Og=="},
		{writeKey: "key:with:colons", want: "Basic a2V5OndpdGg6Y29sb25zOg=="},
	}

	for _, tt := range tests {
		t.Run(tt.writeKey, func(t *testing.T) {
			got := AuthorizationHeader(tt.writeKey)
			assert.Equal(t, tt.want, got)

			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, "Basic "))
			require.NoError(t, err)
			assert.Equal(t, tt.writeKey+":", string(decoded))
		})
	}
}
