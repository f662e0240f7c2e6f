package operation

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes used as the "outcome" label.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeTransport  = "transport"
	OutcomeRejected   = "rejected"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_relay_dispatch_total",
			Help: "Total event dispatches by integration, operation and outcome",
		},
		[]string{"integration", "operation", "outcome"},
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "segment_relay_dispatch_duration_seconds",
			Help:    "Duration of event dispatches including the HTTP round trip",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"integration", "operation"},
	)

	rejectionsByStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_relay_rejections_total",
			Help: "Total remote rejections by integration and HTTP status code",
		},
		[]string{"integration", "status"},
	)

	probesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segment_relay_probes_total",
			Help: "Total readiness probes by integration and result",
		},
		[]string{"integration", "ready"},
	)
)

// RecordDispatch records one completed dispatch.
// outcome should be one of the Outcome* constants.
func RecordDispatch(integration, operation, outcome string, duration time.Duration) {
	dispatchTotal.WithLabelValues(integration, operation, outcome).Inc()
	dispatchDuration.WithLabelValues(integration, operation).Observe(duration.Seconds())
}

// RecordRejection records a non-2xx answer from the remote service.
func RecordRejection(integration string, statusCode int) {
	rejectionsByStatus.WithLabelValues(integration, strconv.Itoa(statusCode)).Inc()
}

// RecordProbe records the result of a readiness probe.
func RecordProbe(integration string, ready bool) {
	probesTotal.WithLabelValues(integration, strconv.FormatBool(ready)).Inc()
}
