package eventsource

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	watchEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memcached",
			Subsystem: "watch",
			Name:      "events_total",
			Help:      "Total number of dependent watch events by action",
		},
		[]string{"action"},
	)

	watchRestartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memcached",
			Subsystem: "watch",
			Name:      "restarts_total",
			Help:      "Total number of dependent watch re-subscriptions and terminations by reason",
		},
		[]string{"reason"},
	)

	triggersDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memcached",
			Subsystem: "watch",
			Name:      "dropped_total",
			Help:      "Total number of watch events dropped without a trigger by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		watchEventsTotal,
		watchRestartsTotal,
		triggersDroppedTotal,
	)
}

// Restart reasons.
const (
	reasonExpired    = "expired"
	reasonClosed     = "closed"
	reasonTerminated = "terminated"
)

// Drop reasons.
const (
	dropNoOwner    = "no_owner"
	dropError      = "error"
	dropUnexpected = "unexpected_object"
)

func (s *DeploymentSource) recordEvent(action string) {
	if s.enableMetrics {
		watchEventsTotal.WithLabelValues(action).Inc()
	}
}

func (s *DeploymentSource) recordRestart(reason string) {
	if s.enableMetrics {
		watchRestartsTotal.WithLabelValues(reason).Inc()
	}
}

func (s *DeploymentSource) recordDrop(reason string) {
	if s.enableMetrics {
		triggersDroppedTotal.WithLabelValues(reason).Inc()
	}
}
