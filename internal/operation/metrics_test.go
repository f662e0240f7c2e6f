package operation

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDispatch(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		outcome   string
	}{
		{name: "track success", operation: "track", outcome: OutcomeSuccess},
		{name: "identify validation", operation: "identify", outcome: OutcomeValidation},
		{name: "page rejected", operation: "page", outcome: OutcomeRejected},
		{name: "track transport", operation: "track", outcome: OutcomeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := prometheus.Labels{
				"integration": "metrics-test",
				"operation":   tt.operation,
				"outcome":     tt.outcome,
			}
			initial := testutil.ToFloat64(dispatchTotal.With(labels))

			RecordDispatch("metrics-test", tt.operation, tt.outcome, 25*time.Millisecond)

			got := testutil.ToFloat64(dispatchTotal.With(labels))
			if got != initial+1 {
				t.Errorf("expected count to increment by 1, got initial=%f, new=%f", initial, got)
			}
		})
	}
}

func TestRecordRejection(t *testing.T) {
	labels := prometheus.Labels{"integration": "metrics-test", "status": "401"}
	initial := testutil.ToFloat64(rejectionsByStatus.With(labels))

	RecordRejection("metrics-test", 401)
	RecordRejection("metrics-test", 401)

	got := testutil.ToFloat64(rejectionsByStatus.With(labels))
	if got != initial+2 {
		t.Errorf("expected count to increment by 2, got initial=%f, new=%f", initial, got)
	}
}

func TestRecordProbe(t *testing.T) {
	ready := prometheus.Labels{"integration": "metrics-test", "ready": "true"}
	notReady := prometheus.Labels{"integration": "metrics-test", "ready": "false"}
	initialReady := testutil.ToFloat64(probesTotal.With(ready))
	initialNotReady := testutil.ToFloat64(probesTotal.With(notReady))

	RecordProbe("metrics-test", true)
	RecordProbe("metrics-test", false)
	RecordProbe("metrics-test", false)

	if got := testutil.ToFloat64(probesTotal.With(ready)); got != initialReady+1 {
		t.Errorf("ready probes: expected %f, got %f", initialReady+1, got)
	}
	if got := testutil.ToFloat64(probesTotal.With(notReady)); got != initialNotReady+2 {
		t.Errorf("not-ready probes: expected %f, got %f", initialNotReady+2, got)
	}
}
