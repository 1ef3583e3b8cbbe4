package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_gate_outcomes_total",
		Help: "Temporal access decisions by surface and outcome.",
	}, []string{"surface", "outcome"})

	SubscriptionLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_subscription_lookup_failures_total",
		Help: "Subscription lookups that failed and fell back to the free tier.",
	})

	LegacyPasswordMigrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planner_legacy_password_migrations_total",
		Help: "Logins that replaced a legacy SHA-256 hash with bcrypt.",
	})
)

func ObserveGate(surface, outcome string) {
	GateOutcomes.WithLabelValues(surface, outcome).Inc()
}
