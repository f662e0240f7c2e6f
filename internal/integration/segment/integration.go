// Package segment relays identify, track and page events to the Segment HTTP
// tracking API.
package segment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/api"
	"github.com/tombee/segment-relay/internal/tracing"
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

const integrationName = "segment"

// Operation names accepted by Execute.
const (
	OpIdentify = "identify"
	OpTrack    = "track"
	OpPage     = "page"
)

// InstallationInstructions explains how to obtain and configure a write key.
const InstallationInstructions = `To connect your Segment account:
1. **Get Write Key**: Visit your Segment source settings and copy the Write Key
2. **Configure**: Paste your Write Key in the 'Segment Write Key' field below
3. **Confirm**: Click 'Confirm' to complete the installation`

// Integration implements the Connector interface for the Segment HTTP
// tracking API. It is immutable after construction and safe for concurrent use.
type Integration struct {
	name   string
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Integration.
type Option func(*Integration)

// WithClock replaces the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Integration) {
		s.now = now
	}
}

// New creates a Segment integration.
//
// config.Token is the write key and config.BaseURL the data plane host
// (empty selects api.segment.io). A missing write key is not an error here:
// Check reports it as not ready, and the API rejects dispatches made without one.
func New(config *api.ConnectorConfig, opts ...Option) (*Integration, error) {
	if config == nil || config.Transport == nil {
		return nil, operation.NewConfigError(integrationName, "transport is required for Segment integration")
	}

	host := strings.TrimSpace(config.BaseURL)
	if strings.Contains(host, "://") || strings.ContainsAny(host, "/?#") {
		return nil, operation.NewConfigError(integrationName,
			fmt.Sprintf("data plane host must be a bare host name, got %q", host))
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = log.WithComponent(logger, integrationName)

	creds := Credentials{WriteKey: config.Token, DataPlaneHost: host}
	s := &Integration{
		name:   integrationName,
		client: NewClient(config.Transport, creds, logger),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSegmentIntegration creates a Segment integration as an operation.Connector.
func NewSegmentIntegration(config *api.ConnectorConfig) (operation.Connector, error) {
	return New(config)
}

// Name returns the integration identifier.
func (s *Integration) Name() string {
	return s.name
}

// Credentials returns the integration's credentials.
func (s *Integration) Credentials() Credentials {
	return s.client.Credentials()
}

// Execute runs a named operation with loosely typed inputs.
func (s *Integration) Execute(ctx context.Context, op string, inputs map[string]interface{}) (*operation.Result, error) {
	ctx, id := tracing.Ensure(ctx)

	var response map[string]interface{}
	switch op {
	case OpIdentify:
		in, err := decodeIdentifyInput(inputs)
		if err != nil {
			return nil, err
		}
		res, err := s.Identify(ctx, in)
		if err != nil {
			return nil, err
		}
		response = res.ToMap()

	case OpTrack:
		in, err := decodeTrackInput(inputs)
		if err != nil {
			return nil, err
		}
		res, err := s.Track(ctx, in)
		if err != nil {
			return nil, err
		}
		response = res.ToMap()

	case OpPage:
		in, err := decodePageInput(inputs)
		if err != nil {
			return nil, err
		}
		res, err := s.Page(ctx, in)
		if err != nil {
			return nil, err
		}
		response = res.ToMap()

	default:
		return nil, operation.NewUnknownOperationError(s.name, op, []string{OpIdentify, OpTrack, OpPage})
	}

	return &operation.Result{
		Response: response,
		Metadata: map[string]interface{}{
			log.CorrelationIDKey: id.String(),
			log.HostKey:          s.Credentials().Host(),
		},
	}, nil
}

// Probe runs a readiness probe with the integration's credentials.
func (s *Integration) Probe(ctx context.Context) ProbeResult {
	return Probe(ctx, s.client)
}

// Check implements operation.ReadinessChecker.
func (s *Integration) Check(ctx context.Context) (*operation.Readiness, error) {
	res := s.Probe(ctx)
	return &operation.Readiness{
		Ready:       res.Ready,
		Description: res.Description,
		Endpoint:    s.Credentials().Host(),
	}, nil
}

func decodeIdentifyInput(inputs map[string]interface{}) (IdentifyInput, error) {
	d := inputDecoder{inputs: inputs}
	in := IdentifyInput{
		UserID:      d.str("userId"),
		AnonymousID: d.str("anonymousId"),
		Traits:      d.object("traits"),
		Context:     d.object("context"),
		Timestamp:   d.str("timestamp"),
	}
	if d.err != nil {
		return IdentifyInput{}, d.err
	}
	return in, nil
}

func decodeTrackInput(inputs map[string]interface{}) (TrackInput, error) {
	d := inputDecoder{inputs: inputs}
	in := TrackInput{
		UserID:      d.str("userId"),
		AnonymousID: d.str("anonymousId"),
		Event:       d.str("event"),
		Properties:  d.object("properties"),
		Context:     d.object("context"),
		Timestamp:   d.str("timestamp"),
	}
	if d.err != nil {
		return TrackInput{}, d.err
	}
	return in, nil
}

func decodePageInput(inputs map[string]interface{}) (PageInput, error) {
	d := inputDecoder{inputs: inputs}
	in := PageInput{
		UserID:      d.str("userId"),
		AnonymousID: d.str("anonymousId"),
		Name:        d.str("name"),
		Category:    d.str("category"),
		Properties:  d.object("properties"),
		Context:     d.object("context"),
		Timestamp:   d.str("timestamp"),
	}
	if d.err != nil {
		return PageInput{}, d.err
	}
	return in, nil
}

// inputDecoder reads typed fields from loosely typed inputs and keeps the
// first error.
type inputDecoder struct {
	inputs map[string]interface{}
	err    error
}

func (d *inputDecoder) str(key string) string {
	raw, ok := d.inputs[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(key, fmt.Sprintf("must be a string, got %T", raw))
		return ""
	}
	return s
}

func (d *inputDecoder) object(key string) *Object {
	raw, ok := d.inputs[key]
	if !ok || raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case *Object:
		return v
	case map[string]interface{}:
		obj, err := ObjectFromMap(v)
		if err != nil {
			d.fail(key, err.Error())
			return nil
		}
		return obj
	case string:
		// Hosts that pass objects as JSON text.
		obj, err := ParseObject([]byte(v))
		if err != nil {
			d.fail(key, "must be a JSON object")
			return nil
		}
		return obj
	default:
		d.fail(key, fmt.Sprintf("must be an object, got %T", raw))
		return nil
	}
}

func (d *inputDecoder) fail(key, message string) {
	if d.err != nil {
		return
	}
	d.err = &relayerrors.ValidationError{Field: key, Message: message}
}
