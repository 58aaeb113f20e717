// Package labels provides consistent labeling for resources owned by the memcached operator.
//
// Every label set is built fresh on each call so callers may mutate the
// returned map without affecting other call sites.
package labels

import (
	k8slabels "k8s.io/apimachinery/pkg/labels"
)

// Standard label keys.
const (
	// KeyApp identifies the application family of a workload
	KeyApp = "app"

	// KeyInstance identifies the Memcached resource a workload belongs to
	KeyInstance = "memcached_cr"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// Label values.
const (
	AppMemcached      = "memcached"
	ManagedByOperator = "memcached-operator"
)

// LabelBuilder provides a fluent interface for building workload labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the app and managed-by labels pre-set.
func NewLabelBuilder() *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyApp:       AppMemcached,
			KeyManagedBy: ManagedByOperator,
		},
	}
}

// WithInstance adds the owning Memcached name.
func (lb *LabelBuilder) WithInstance(name string) *LabelBuilder {
	lb.labels[KeyInstance] = name
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// ForMemcached returns the labels carried by the Deployment, its selector and its pods.
func ForMemcached(name string) map[string]string {
	return NewLabelBuilder().WithInstance(name).Build()
}

// SelectorForMemcached returns a selector matching the pods of one Memcached.
func SelectorForMemcached(name string) k8slabels.Selector {
	return k8slabels.SelectorFromSet(ForMemcached(name))
}

// WatchSelector returns the selector used by the cluster-wide dependent watch.
// It matches every Deployment the operator manages, whatever its owner.
func WatchSelector() k8slabels.Selector {
	return k8slabels.SelectorFromSet(NewLabelBuilder().Build())
}
