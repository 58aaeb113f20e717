// Package v1alpha1 contains API Schema definitions for the cache.imamik.io v1alpha1 API group
// +kubebuilder:object:generate=true
// +groupName=cache.imamik.io
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// MemcachedSpec defines the desired state of a Memcached cluster.
type MemcachedSpec struct {
	// Size is the number of memcached pods the Deployment should run
	// +kubebuilder:validation:Minimum=0
	Size int32 `json:"size"`
}

// MemcachedStatus defines the observed state of Memcached.
type MemcachedStatus struct {
	// Nodes are the names of the pods currently backing the cluster.
	// The list is treated as a set; the operator writes it sorted.
	// A nil value means the operator has not reported membership yet.
	// +optional
	Nodes []string `json:"nodes"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=mc
// +kubebuilder:printcolumn:name="Size",type=integer,JSONPath=`.spec.size`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// Memcached is the Schema for the memcacheds API.
type Memcached struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MemcachedSpec   `json:"spec,omitempty"`
	Status MemcachedStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// MemcachedList contains a list of Memcached.
type MemcachedList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Memcached `json:"items"`
}

// NamespacedName returns the reconcile key of the Memcached.
func (m *Memcached) NamespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: m.Namespace, Name: m.Name}
}

// StatusReported reports whether the operator has written membership at least once.
func (s *MemcachedStatus) StatusReported() bool {
	return s.Nodes != nil
}
