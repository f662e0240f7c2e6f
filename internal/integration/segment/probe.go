package segment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/transport"
	"github.com/tombee/segment-relay/pkg/secrets"
)

// ProbeDescription is reported for every failed probe. Details go to the log.
const ProbeDescription = "Check logs for details"

// Probe identity and event name sent by Probe.
const (
	ProbeUserID = "test"
	ProbeEvent  = "App Sync Test"
)

// ProbeResult is the outcome of a readiness probe.
type ProbeResult struct {
	// Ready is true when the ingestion API accepted the probe event
	Ready bool

	// Description is empty when ready and ProbeDescription otherwise
	Description string

	// Cause is the failure, for callers that want more than the log line.
	// Nil when ready.
	Cause error
}

// ErrMissingWriteKey is the probe cause when no write key is configured.
var ErrMissingWriteKey = errors.New("write key is required")

// probeEvent is the synthetic track body sent by Probe. It carries no
// context, unlike a normalized TrackEnvelope.
type probeEvent struct {
	UserID     string  `json:"userId"`
	Event      string  `json:"event"`
	Properties *Object `json:"properties"`
}

func probePayload() *probeEvent {
	return &probeEvent{
		UserID:     ProbeUserID,
		Event:      ProbeEvent,
		Properties: NewObject().Set("test", Bool(true)),
	}
}

// Probe checks that the client's credentials can deliver an event. An empty
// write key fails without any network call. Any transport failure or
// rejection is logged with the write key masked and reported as not ready.
func Probe(ctx context.Context, client *Client) ProbeResult {
	creds := client.Credentials()
	logger := log.WithComponent(client.logger, "probe")

	if creds.WriteKey == "" {
		logger.ErrorContext(ctx, "segment write key is required")
		operation.RecordProbe(integrationName, false)
		return ProbeResult{Description: ProbeDescription, Cause: ErrMissingWriteKey}
	}

	err := client.Send(ctx, EndpointTrack, probePayload())
	if err == nil {
		operation.RecordProbe(integrationName, true)
		return ProbeResult{Ready: true}
	}

	masker := newCredentialMasker(creds.WriteKey)
	attrs := []any{
		slog.String(log.HostKey, creds.Host()),
		slog.String("error", masker.MaskError(err)),
	}
	var rejection *transport.RejectionError
	if errors.As(err, &rejection) {
		attrs = append(attrs, slog.Int("status", rejection.StatusCode))
	}
	logger.ErrorContext(ctx, "failed to validate segment write key", attrs...)

	operation.RecordProbe(integrationName, false)
	return ProbeResult{Description: ProbeDescription, Cause: err}
}

// newCredentialMasker masks the write key in both its raw form and the
// encoded form it takes inside the Authorization header.
func newCredentialMasker(writeKey string) *secrets.Masker {
	m := secrets.NewMasker()
	m.AddSecret(writeKey)
	m.AddSecret(strings.TrimPrefix(AuthorizationHeader(writeKey), "Basic "))
	return m
}
