package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for complaint handling.
type Metrics struct {
	ComplaintsFiled    prometheus.Counter
	ComplaintsResolved *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ComplaintsFiled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustestate_dispute_complaints_filed_total",
			Help: "Complaints filed by users",
		}),
		ComplaintsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_dispute_complaints_resolved_total",
			Help: "Complaints resolved by action and target kind",
		}, []string{"action", "target"}),
	}
}

func (m *Metrics) IncrementFiled() {
	if m == nil {
		return
	}
	m.ComplaintsFiled.Inc()
}

func (m *Metrics) IncrementResolved(action, target string) {
	if m == nil {
		return
	}
	m.ComplaintsResolved.WithLabelValues(action, target).Inc()
}
