package segment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation/transport"
	"github.com/tombee/segment-relay/internal/tracing"
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// DefaultDataPlaneHost is the public ingestion API host.
const DefaultDataPlaneHost = "api.segment.io"

// Credentials identify an event source and where its events are sent.
// They format and log without the write key.
type Credentials struct {
	// WriteKey is the source write key. It is a secret.
	WriteKey string

	// DataPlaneHost is the ingestion API host, optionally with a port.
	// Empty selects DefaultDataPlaneHost.
	DataPlaneHost string
}

// Host returns the data plane host, falling back to the default.
func (c Credentials) Host() string {
	if c.DataPlaneHost == "" {
		return DefaultDataPlaneHost
	}
	return c.DataPlaneHost
}

// String implements fmt.Stringer.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{WriteKey:%s, DataPlaneHost:%s}", redacted(c.WriteKey), c.Host())
}

// GoString implements fmt.GoStringer.
func (c Credentials) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("write_key", redacted(c.WriteKey)),
		slog.String(log.HostKey, c.Host()),
	)
}

func redacted(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "[REDACTED]"
}

// Client posts JSON payloads to the ingestion API. Each Send is one request;
// nothing is retried.
type Client struct {
	transport transport.Transport
	creds     Credentials
	logger    *slog.Logger
}

// NewClient creates a client that sends through tr.
func NewClient(tr transport.Transport, creds Credentials, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		transport: tr,
		creds:     creds,
		logger:    logger,
	}
}

// Credentials returns the credentials the client sends with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// URL returns the ingestion URL for endpoint.
func (c *Client) URL(endpoint Endpoint) string {
	return fmt.Sprintf("https://%s/v1/%s", c.creds.Host(), endpoint)
}

// Send marshals payload and posts it to endpoint.
//
// A 2xx answer returns nil. Any other status returns *transport.RejectionError
// with the raw body. A request that never completed returns
// *transport.TransportError. Neither is wrapped.
func (c *Client) Send(ctx context.Context, endpoint Endpoint, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return relayerrors.Wrapf(err, "failed to marshal %s payload", endpoint)
	}

	ctx, span := tracing.Tracer().Start(ctx, "segment.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("segment.endpoint", string(endpoint)),
			semconv.ServerAddress(c.creds.Host()),
			semconv.HTTPRequestMethodPost,
		),
	)
	defer span.End()

	log.Trace(ctx, c.logger, "sending payload",
		slog.String(log.EndpointKey, string(endpoint)),
		slog.String("body", string(body)),
	)

	resp, err := c.transport.Execute(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    c.URL(endpoint),
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": AuthorizationHeader(c.creds.WriteKey),
		},
		Body: body,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return err
	}

	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))
	if err := transport.CheckStatus(resp); err != nil {
		var rejection *transport.RejectionError
		if errors.As(err, &rejection) {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", rejection.StatusCode))
		}
		return err
	}

	return nil
}
