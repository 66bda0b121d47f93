package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the property registry.
type Metrics struct {
	Enrollments       *prometheus.CounterVec
	Transitions       *prometheus.CounterVec
	DuplicatesBlocked *prometheus.CounterVec
	SignalsRaised     *prometheus.CounterVec
	DealsFinalized    *prometheus.CounterVec
}

// New creates a new Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		Enrollments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_registry_enrollments_total",
			Help: "Property enrollment attempts by outcome",
		}, []string{"outcome"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_registry_transitions_total",
			Help: "Applied lifecycle transitions",
		}, []string{"from", "to"}),
		DuplicatesBlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_registry_duplicates_blocked_total",
			Help: "Enrollments refused by the uniqueness index",
		}, []string{"kind"}),
		SignalsRaised: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_registry_signals_total",
			Help: "Risk signals recorded at enrollment",
		}, []string{"type", "severity"}),
		DealsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_registry_deals_finalized_total",
			Help: "Deals verified by the assigned tenant",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncrementEnrollment(outcome string) {
	if m == nil {
		return
	}
	m.Enrollments.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncrementDuplicateBlocked(kind string) {
	if m == nil {
		return
	}
	m.DuplicatesBlocked.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementSignal(signalType, severity string) {
	if m == nil {
		return
	}
	m.SignalsRaised.WithLabelValues(signalType, severity).Inc()
}

func (m *Metrics) IncrementDealFinalized(status string) {
	if m == nil {
		return
	}
	m.DealsFinalized.WithLabelValues(status).Inc()
}
