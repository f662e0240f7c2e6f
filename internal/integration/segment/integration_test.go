package segment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/api"
	"github.com/tombee/segment-relay/internal/operation/transport"
	"github.com/tombee/segment-relay/internal/testing/fakeapi"
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

func TestNew(t *testing.T) {
	t.Run("requires transport", func(t *testing.T) {
		_, err := New(&api.ConnectorConfig{Token: "k"})
		var opErr *operation.Error
		require.True(t, errors.As(err, &opErr))
		assert.Equal(t, operation.ErrorTypeConfig, opErr.Type)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("rejects hosts with a scheme or path", func(t *testing.T) {
		for _, host := range []string{"https://api.segment.io", "api.segment.io/v1", "host?x=1", "host#frag"} {
			_, err := New(&api.ConnectorConfig{Transport: &mockTransport{}, BaseURL: host})
			assert.Error(t, err, host)
		}
	})

	t.Run("empty write key is allowed", func(t *testing.T) {
		s, err := New(&api.ConnectorConfig{Transport: &mockTransport{}})
		require.NoError(t, err)
		assert.Equal(t, "segment", s.Name())
		assert.Equal(t, DefaultDataPlaneHost, s.Credentials().Host())
	})

	t.Run("custom host", func(t *testing.T) {
		s, err := New(&api.ConnectorConfig{Transport: &mockTransport{}, BaseURL: " events.eu1.segmentapis.com "})
		require.NoError(t, err)
		assert.Equal(t, "events.eu1.segmentapis.com", s.Credentials().Host())
	})
}

func TestNewSegmentIntegration(t *testing.T) {
	c, err := NewSegmentIntegration(&api.ConnectorConfig{Transport: &mockTransport{}, Token: "k"})
	require.NoError(t, err)
	assert.Equal(t, "segment", c.Name())

	_, ok := c.(operation.ReadinessChecker)
	assert.True(t, ok)
}

func TestTrack_ScenarioA(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	res, err := s.Track(context.Background(), TrackInput{
		UserID:     "u1",
		Event:      "Order Completed",
		Properties: NewObject().Set("amount", Int(42)),
	})
	require.NoError(t, err)

	require.Equal(t, 1, mt.callCount())
	assert.Equal(t, "https://api.segment.io/v1/track", mt.lastRequest.URL)
	assert.Equal(t,
		`{"properties":{"amount":42},"context":{},"userId":"u1","event":"Order Completed"}`,
		string(mt.lastRequest.Body))

	assert.True(t, res.Success)
	require.NotNil(t, res.EventName)
	assert.Equal(t, "Order Completed", *res.EventName)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "u1", *res.UserID)
	assert.Nil(t, res.AnonymousID)
	assert.Equal(t, "2024-03-09T14:30:05.123Z", res.Timestamp)
}

func TestIdentify_ScenarioB_NoNetworkCall(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	res, err := s.Identify(context.Background(), IdentifyInput{
		Traits: NewObject().Set("email", String("a@b.c")),
	})

	assert.Nil(t, res)
	var verr *relayerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, MissingIdentityMessage, verr.Message)
	assert.Equal(t, 0, mt.callCount())
}

func TestDispatch_ValidationBeforeCall(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")
	ctx := context.Background()

	_, err := s.Track(ctx, TrackInput{Event: "x"})
	assert.Error(t, err)
	_, err = s.Page(ctx, PageInput{Name: "Home"})
	assert.Error(t, err)
	_, err = s.Identify(ctx, IdentifyInput{UserID: "", AnonymousID: ""})
	assert.Error(t, err)

	assert.Equal(t, 0, mt.callCount())
}

func TestIdentify_Result(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	res, err := s.Identify(context.Background(), IdentifyInput{
		AnonymousID: "anon-1",
		Timestamp:   "2024-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	assert.Nil(t, res.UserID)
	require.NotNil(t, res.AnonymousID)
	assert.Equal(t, "anon-1", *res.AnonymousID)
	assert.Equal(t, 0, res.Traits.Len())
	assert.Equal(t, "2024-01-01T00:00:00Z", res.Timestamp)

	assert.Equal(t,
		`{"traits":{},"context":{},"anonymousId":"anon-1","timestamp":"2024-01-01T00:00:00Z"}`,
		string(mt.lastRequest.Body))

	m := res.ToMap()
	assert.Nil(t, m["userId"])
	assert.Equal(t, map[string]interface{}{}, m["traits"])
}

func TestPage_Result(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	res, err := s.Page(context.Background(), PageInput{UserID: "u1", Name: "Pricing"})
	require.NoError(t, err)

	assert.Equal(t, "https://api.segment.io/v1/page", mt.lastRequest.URL)
	require.NotNil(t, res.PageName)
	assert.Equal(t, "Pricing", *res.PageName)
	assert.Nil(t, res.PageCategory)
	assert.Equal(t, "2024-03-09T14:30:05.123Z", res.Timestamp)

	body := bodyMap(mt.lastRequest)
	assert.NotContains(t, body, "category")
	assert.NotContains(t, body, "timestamp")
}

func TestDispatch_ErrorsReturnedUnmodified(t *testing.T) {
	t.Run("rejection", func(t *testing.T) {
		mt := &mockTransport{response: &transport.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       []byte("rate limited"),
		}}
		s := newTestIntegration(mt, "wk")

		res, err := s.Track(context.Background(), TrackInput{UserID: "u1", Event: "e"})

		assert.Nil(t, res)
		rejection, ok := err.(*transport.RejectionError)
		require.True(t, ok, "expected bare *RejectionError, got %T", err)
		assert.Equal(t, 429, rejection.StatusCode)
		assert.Equal(t, "rate limited", rejection.Body)
		assert.Equal(t, 1, mt.callCount())
	})

	t.Run("transport failure", func(t *testing.T) {
		want := &transport.TransportError{Type: transport.ErrorTypeConnection, Message: "connection refused"}
		mt := &mockTransport{err: want}
		s := newTestIntegration(mt, "wk")

		_, err := s.Page(context.Background(), PageInput{AnonymousID: "a"})
		assert.Same(t, want, err)
		assert.Equal(t, 1, mt.callCount())
	})
}

func TestExecute(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	result, err := s.Execute(context.Background(), OpTrack, map[string]interface{}{
		"userId":     "u1",
		"event":      "Signed Up",
		"properties": map[string]interface{}{"plan": "pro", "seats": 3},
		"context":    `{"ip":"127.0.0.1"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"success":     true,
		"eventName":   "Signed Up",
		"userId":      "u1",
		"anonymousId": nil,
		"timestamp":   "2024-03-09T14:30:05.123Z",
	}, result.Response)
	assert.NotEmpty(t, result.Metadata[log.CorrelationIDKey])
	assert.Equal(t, DefaultDataPlaneHost, result.Metadata[log.HostKey])

	assert.Equal(t,
		`{"properties":{"plan":"pro","seats":3},"context":{"ip":"127.0.0.1"},"userId":"u1","event":"Signed Up"}`,
		string(mt.lastRequest.Body))
}

func TestExecute_AllOperations(t *testing.T) {
	tests := []struct {
		op       string
		inputs   map[string]interface{}
		endpoint string
		key      string
	}{
		{op: OpIdentify, inputs: map[string]interface{}{"userId": "u1", "traits": map[string]interface{}{"a": 1}}, endpoint: "identify", key: "traits"},
		{op: OpTrack, inputs: map[string]interface{}{"anonymousId": "a1", "event": "e"}, endpoint: "track", key: "eventName"},
		{op: OpPage, inputs: map[string]interface{}{"userId": "u1", "category": "Docs"}, endpoint: "page", key: "pageCategory"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			mt := &mockTransport{}
			s := newTestIntegration(mt, "wk")

			result, err := s.Execute(context.Background(), tt.op, tt.inputs)
			require.NoError(t, err)
			assert.Equal(t, "https://api.segment.io/v1/"+tt.endpoint, mt.lastRequest.URL)
			assert.Contains(t, result.Response, tt.key)
			assert.Equal(t, true, result.Response["success"])
		})
	}
}

func TestExecute_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		inputs map[string]interface{}
		field  string
	}{
		{name: "non-string userId", inputs: map[string]interface{}{"userId": 42}, field: "userId"},
		{name: "array properties", inputs: map[string]interface{}{"userId": "u", "properties": []interface{}{1}}, field: "properties"},
		{name: "number context", inputs: map[string]interface{}{"userId": "u", "context": 3.5}, field: "context"},
		{name: "json text not an object", inputs: map[string]interface{}{"userId": "u", "properties": "[1,2]"}, field: "properties"},
		{name: "json text with trailing data", inputs: map[string]interface{}{"userId": "u", "properties": `{"a":1} trailing`}, field: "properties"},
		{name: "json text with trailing comma", inputs: map[string]interface{}{"userId": "u", "context": `{"a":1,}`}, field: "context"},
		{name: "missing identity", inputs: map[string]interface{}{"event": "e"}, field: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := &mockTransport{}
			s := newTestIntegration(mt, "wk")

			_, err := s.Execute(context.Background(), OpTrack, tt.inputs)

			var verr *relayerrors.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, mt.callCount())
		})
	}
}

func TestExecute_NilInputsAreAbsent(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	_, err := s.Execute(context.Background(), OpPage, map[string]interface{}{
		"userId":     "u1",
		"name":       nil,
		"properties": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{},"context":{},"userId":"u1"}`, string(mt.lastRequest.Body))
}

func TestExecute_UnknownOperation(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	_, err := s.Execute(context.Background(), "alias", map[string]interface{}{"userId": "u"})

	var opErr *operation.Error
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, operation.ErrorTypeNotFound, opErr.Type)
	assert.Contains(t, opErr.Error(), "alias")
	assert.Equal(t, 0, mt.callCount())
}

func TestOperationsAndSchemas(t *testing.T) {
	s := newTestIntegration(&mockTransport{}, "wk")

	ops := s.Operations()
	require.Len(t, ops, 3)
	for _, op := range ops {
		schema := s.OperationSchema(op.Name)
		require.NotNil(t, schema, op.Name)
		assert.NotEmpty(t, op.DisplayName)

		names := map[string]bool{}
		for _, p := range schema.Parameters {
			names[p.Name] = true
			assert.False(t, p.Required, "%s.%s must be optional", op.Name, p.Name)
		}
		for _, want := range []string{"userId", "anonymousId", "context", "timestamp"} {
			assert.True(t, names[want], "%s missing %s", op.Name, want)
		}
		assert.Equal(t, "success", schema.ResponseFields[0].Name)
	}

	assert.Nil(t, s.OperationSchema("screen"))
	assert.NotEmpty(t, ConfigFields())
}

func TestCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		s := newTestIntegration(&mockTransport{}, "wk")
		r, err := s.Check(context.Background())
		require.NoError(t, err)
		assert.True(t, r.Ready)
	})

	t.Run("no write key", func(t *testing.T) {
		mt := &mockTransport{}
		s := newTestIntegration(mt, "")
		r, err := s.Check(context.Background())
		require.NoError(t, err)
		assert.False(t, r.Ready)
		assert.Equal(t, ProbeDescription, r.Description)
		assert.Equal(t, 0, mt.callCount())
	})
}

func TestDispatch_ConcurrentCallsAreIndependent(t *testing.T) {
	mt := &mockTransport{}
	s := newTestIntegration(mt, "wk")

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := s.Track(context.Background(), TrackInput{UserID: "u", Event: "e"})
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, n, mt.callCount())
}

// newFakeAPIIntegration wires an integration to a fake ingestion API over
// real HTTPS.
func newFakeAPIIntegration(t *testing.T, fake *fakeapi.Server, writeKey string) *Integration {
	t.Helper()
	tr, err := transport.NewHTTPTransport(&transport.HTTPTransportConfig{
		Logger:        log.Discard(),
		BaseTransport: fake.Transport(),
	})
	require.NoError(t, err)

	s, err := New(&api.ConnectorConfig{
		Transport: tr,
		BaseURL:   fake.Host(),
		Token:     writeKey,
		Logger:    log.Discard(),
	})
	require.NoError(t, err)
	return s
}

func TestEndToEnd_FakeAPI(t *testing.T) {
	fake := fakeapi.New(fakeapi.WithWriteKeys("wk_good"))
	defer fake.Close()

	s := newFakeAPIIntegration(t, fake, "wk_good")

	_, err := s.Track(context.Background(), TrackInput{
		UserID:     "u1",
		Event:      "Order Completed",
		Properties: NewObject().Set("amount", Int(42)),
	})
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "track", reqs[0].Endpoint)
	assert.Equal(t, "wk_good", reqs[0].WriteKey)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.NotEmpty(t, reqs[0].CorrelationID)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, "Order Completed", body["event"])

	r, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Ready)
}

func TestEndToEnd_FakeAPI_BadWriteKey(t *testing.T) {
	fake := fakeapi.New(fakeapi.WithWriteKeys("wk_good"))
	defer fake.Close()

	s := newFakeAPIIntegration(t, fake, "wk_bad")

	_, err := s.Identify(context.Background(), IdentifyInput{UserID: "u1"})

	var rejection *transport.RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusUnauthorized, rejection.StatusCode)
	assert.Equal(t, transport.ErrorTypeAuth, rejection.Type())

	r, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, r.Ready)
	assert.Equal(t, ProbeDescription, r.Description)
}

func TestEndToEnd_FakeAPI_ServerError(t *testing.T) {
	fake := fakeapi.New()
	defer fake.Close()
	fake.Respond("page", http.StatusServiceUnavailable, "try later")

	s := newFakeAPIIntegration(t, fake, "any")

	_, err := s.Page(context.Background(), PageInput{UserID: "u1"})

	var rejection *transport.RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusServiceUnavailable, rejection.StatusCode)
	assert.Equal(t, "try later", rejection.Body)
	assert.Len(t, fake.Requests(), 1)
}
