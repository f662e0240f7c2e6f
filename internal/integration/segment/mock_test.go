package segment

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tombee/segment-relay/internal/operation/api"
	"github.com/tombee/segment-relay/internal/operation/transport"
	"github.com/tombee/segment-relay/internal/log"
)

// mockTransport is a mock transport for testing.
type mockTransport struct {
	mu          sync.Mutex
	lastRequest *transport.Request
	calls       int
	response    *transport.Response
	err         error
}

func (m *mockTransport) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRequest = req
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.response == nil {
		return &transport.Response{StatusCode: 200, Body: []byte(`{"success":true}`)}, nil
	}
	return m.response, nil
}

func (m *mockTransport) Name() string {
	return "mock"
}

func (m *mockTransport) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fixedNow is the clock used by tests that check result timestamps.
var fixedNow = time.Date(2024, 3, 9, 14, 30, 5, 123456789, time.UTC)

func newTestIntegration(tr transport.Transport, writeKey string) *Integration {
	s, err := New(&api.ConnectorConfig{
		Transport: tr,
		Token:     writeKey,
		Logger:    log.Discard(),
	}, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		panic(err)
	}
	return s
}

// bodyMap decodes a request body for assertions that don't care about order.
func bodyMap(req *transport.Request) map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(req.Body, &m); err != nil {
		panic(err)
	}
	return m
}
