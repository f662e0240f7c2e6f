package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/api"
	"github.com/tombee/segment-relay/internal/operation/transport"
)

type okTransport struct{}

func (okTransport) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	return &transport.Response{StatusCode: 200}, nil
}

func (okTransport) Name() string { return "ok" }

func TestBuiltinRegistry_Registered(t *testing.T) {
	for name := range BuiltinRegistry {
		assert.True(t, operation.IsBuiltinAPI(name), name)
	}
	assert.Contains(t, operation.BuiltinAPINames(), "segment")
}

func TestNewBuiltinAPI_Segment(t *testing.T) {
	conn, err := operation.NewBuiltinAPI("segment", &api.ConnectorConfig{
		Transport: okTransport{},
		Token:     "wk",
	})
	require.NoError(t, err)
	assert.Equal(t, "segment", conn.Name())

	result, err := conn.Execute(context.Background(), "track", map[string]interface{}{
		"userId": "u1",
		"event":  "Signed Up",
	})
	require.NoError(t, err)
	assert.Equal(t, true, result.Response["success"])
}
