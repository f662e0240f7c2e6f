package segment

import (
	"context"
	"errors"
	"time"

	"github.com/tombee/segment-relay/internal/log"
	"github.com/tombee/segment-relay/internal/operation"
	"github.com/tombee/segment-relay/internal/operation/transport"
	"github.com/tombee/segment-relay/internal/tracing"
	relayerrors "github.com/tombee/segment-relay/pkg/errors"
)

// TimestampLayout is the result timestamp format: ISO-8601 UTC with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// IdentifyResult is returned by a successful identify call.
type IdentifyResult struct {
	Success     bool    `json:"success"`
	UserID      *string `json:"userId"`
	AnonymousID *string `json:"anonymousId"`
	Traits      *Object `json:"traits"`
	Timestamp   string  `json:"timestamp"`
}

// ToMap returns the result as a plain map for host runtimes.
func (r *IdentifyResult) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"success":     r.Success,
		"userId":      nullable(r.UserID),
		"anonymousId": nullable(r.AnonymousID),
		"traits":      r.Traits.ToMap(),
		"timestamp":   r.Timestamp,
	}
}

// TrackResult is returned by a successful track call.
type TrackResult struct {
	Success     bool    `json:"success"`
	EventName   *string `json:"eventName"`
	UserID      *string `json:"userId"`
	AnonymousID *string `json:"anonymousId"`
	Timestamp   string  `json:"timestamp"`
}

// ToMap returns the result as a plain map for host runtimes.
func (r *TrackResult) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"success":     r.Success,
		"eventName":   nullable(r.EventName),
		"userId":      nullable(r.UserID),
		"anonymousId": nullable(r.AnonymousID),
		"timestamp":   r.Timestamp,
	}
}

// PageResult is returned by a successful page call.
type PageResult struct {
	Success      bool    `json:"success"`
	PageName     *string `json:"pageName"`
	PageCategory *string `json:"pageCategory"`
	UserID       *string `json:"userId"`
	AnonymousID  *string `json:"anonymousId"`
	Timestamp    string  `json:"timestamp"`
}

// ToMap returns the result as a plain map for host runtimes.
func (r *PageResult) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"success":      r.Success,
		"pageName":     nullable(r.PageName),
		"pageCategory": nullable(r.PageCategory),
		"userId":       nullable(r.UserID),
		"anonymousId":  nullable(r.AnonymousID),
		"timestamp":    r.Timestamp,
	}
}

// Identify associates traits with a user.
func (s *Integration) Identify(ctx context.Context, in IdentifyInput) (*IdentifyResult, error) {
	env, err := NormalizeIdentify(in)
	if err != nil {
		s.rejectInput(ctx, EndpointIdentify, err)
		return nil, err
	}
	if err := s.dispatch(ctx, env); err != nil {
		return nil, err
	}
	return &IdentifyResult{
		Success:     true,
		UserID:      optional(in.UserID),
		AnonymousID: optional(in.AnonymousID),
		Traits:      env.Traits,
		Timestamp:   s.resultTimestamp(in.Timestamp),
	}, nil
}

// Track records a behavioral event.
func (s *Integration) Track(ctx context.Context, in TrackInput) (*TrackResult, error) {
	env, err := NormalizeTrack(in)
	if err != nil {
		s.rejectInput(ctx, EndpointTrack, err)
		return nil, err
	}
	if err := s.dispatch(ctx, env); err != nil {
		return nil, err
	}
	return &TrackResult{
		Success:     true,
		EventName:   optional(in.Event),
		UserID:      optional(in.UserID),
		AnonymousID: optional(in.AnonymousID),
		Timestamp:   s.resultTimestamp(in.Timestamp),
	}, nil
}

// Page records a page view.
func (s *Integration) Page(ctx context.Context, in PageInput) (*PageResult, error) {
	env, err := NormalizePage(in)
	if err != nil {
		s.rejectInput(ctx, EndpointPage, err)
		return nil, err
	}
	if err := s.dispatch(ctx, env); err != nil {
		return nil, err
	}
	return &PageResult{
		Success:      true,
		PageName:     optional(in.Name),
		PageCategory: optional(in.Category),
		UserID:       optional(in.UserID),
		AnonymousID:  optional(in.AnonymousID),
		Timestamp:    s.resultTimestamp(in.Timestamp),
	}, nil
}

// rejectInput records an event that failed validation. Nothing is sent.
func (s *Integration) rejectInput(ctx context.Context, endpoint Endpoint, err error) {
	s.logger.DebugContext(ctx, "event rejected before dispatch",
		log.OperationKey, string(endpoint),
		log.Error(err),
	)
	operation.RecordDispatch(integrationName, string(endpoint), operation.OutcomeValidation, 0)
}

// dispatch sends one envelope. Errors are returned exactly as produced.
func (s *Integration) dispatch(ctx context.Context, env Envelope) error {
	endpoint := env.Endpoint()
	ctx, id := tracing.Ensure(ctx)
	logger := log.WithCorrelationID(s.logger, id.String()).With(log.OperationKey, string(endpoint))

	start := time.Now()
	err := s.client.Send(ctx, endpoint, env)
	duration := time.Since(start)

	outcome := dispatchOutcome(err)
	operation.RecordDispatch(integrationName, string(endpoint), outcome, duration)

	if err != nil {
		var rejection *transport.RejectionError
		if errors.As(err, &rejection) {
			operation.RecordRejection(integrationName, rejection.StatusCode)
		}
		logger.WarnContext(ctx, "event dispatch failed",
			log.DurationKey, duration.Milliseconds(),
			"outcome", outcome,
			"error_type", relayerrors.Classify(err),
		)
		return err
	}

	logger.DebugContext(ctx, "event dispatched", log.DurationKey, duration.Milliseconds())
	return nil
}

func dispatchOutcome(err error) string {
	if err == nil {
		return operation.OutcomeSuccess
	}
	var rejection *transport.RejectionError
	if errors.As(err, &rejection) {
		return operation.OutcomeRejected
	}
	return operation.OutcomeTransport
}

// resultTimestamp reports the caller's timestamp, or the clock's current
// time when none was supplied. The wire envelope never gets the fallback.
func (s *Integration) resultTimestamp(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return s.now().UTC().Format(TimestampLayout)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
