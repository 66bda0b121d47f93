package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity module.
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	AdminActions    *prometheus.CounterVec
}

// New creates a new Metrics instance with all identity module metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustestate_users_registered_total",
			Help: "Total number of self-registered users",
		}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		AdminActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustestate_user_admin_actions_total",
			Help: "Admin moderation actions applied to users",
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncrementLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementAdminAction(action string) {
	if m == nil {
		return
	}
	m.AdminActions.WithLabelValues(action).Inc()
}
