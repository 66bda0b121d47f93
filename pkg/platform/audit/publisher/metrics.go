package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "trustestate/pkg/platform/audit"
)

// Metrics holds Prometheus metrics for audit recording.
type Metrics struct {
	Recorded     *prometheus.CounterVec
	Failed       prometheus.Counter
	Dropped      prometheus.Counter
	SinkFailed   prometheus.Counter
	BreakerState prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Recorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_audit_recorded_total",
			Help: "Audit entries persisted, by category",
		}, []string{"category"}),
		Failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustestate_audit_persist_failures_total",
			Help: "Audit entries that failed to persist",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustestate_audit_dropped_total",
			Help: "Audit entries dropped by a full buffer or an open circuit",
		}),
		SinkFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustestate_audit_sink_failures_total",
			Help: "Audit entries that failed to reach a mirror sink",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "trustestate_audit_circuit_breaker_state",
			Help: "Audit store circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incRecorded(action audit.Action) {
	if m != nil {
		m.Recorded.WithLabelValues(string(action.Category())).Inc()
	}
}

func (m *Metrics) incFailed() {
	if m != nil {
		m.Failed.Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) incSinkFailed() {
	if m != nil {
		m.SinkFailed.Inc()
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
