package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memcached",
			Subsystem: "controller",
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations by action and result",
		},
		[]string{"action", "result"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memcached",
			Subsystem: "controller",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
		},
		[]string{"action"},
	)

	membersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "memcached",
			Subsystem: "instance",
			Name:      "members",
			Help:      "Number of pods observed for a Memcached",
		},
		[]string{"namespace", "name"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		reconcileTotal,
		reconcileDuration,
		membersTotal,
	)
}

// recordReconcileMetric records a reconciliation result.
func recordReconcileMetric(action Action, result string, duration float64) {
	reconcileTotal.WithLabelValues(action.String(), result).Inc()
	reconcileDuration.WithLabelValues(action.String()).Observe(duration)
}

// recordMembersMetric records the observed member count of a Memcached.
func recordMembersMetric(namespace, name string, members int) {
	membersTotal.WithLabelValues(namespace, name).Set(float64(members))
}

// forgetMembersMetric drops the member gauge of a deleted Memcached.
func forgetMembersMetric(namespace, name string) {
	membersTotal.DeleteLabelValues(namespace, name)
}

// Metrics helper methods that check enableMetrics before recording.

func (r *MemcachedReconciler) recordReconcile(action Action, err error, duration float64) {
	if !r.enableMetrics {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	recordReconcileMetric(action, result, duration)
}

func (r *MemcachedReconciler) recordMembers(namespace, name string, members int) {
	if r.enableMetrics {
		recordMembersMetric(namespace, name, members)
	}
}

func (r *MemcachedReconciler) forgetMembers(namespace, name string) {
	if r.enableMetrics {
		forgetMembersMetric(namespace, name)
	}
}
