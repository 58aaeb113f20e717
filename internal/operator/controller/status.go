package controller

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
)

// aggregateMembers returns the names of the given pods as a set.
func aggregateMembers(pods []corev1.Pod) sets.Set[string] {
	members := sets.New[string]()
	for i := range pods {
		members.Insert(pods[i].Name)
	}
	return members
}

// statusNeedsUpdate reports whether the reported nodes differ from the
// observed members. Order is irrelevant. A status that was never written
// always needs an update, even when there are no members.
func statusNeedsUpdate(status cachev1alpha1.MemcachedStatus, members sets.Set[string]) bool {
	if !status.StatusReported() {
		return true
	}
	return !sets.New(status.Nodes...).Equal(members)
}

// reportedNodes renders members in the form written to status.nodes.
// The result is sorted and never nil.
func reportedNodes(members sets.Set[string]) []string {
	return sets.List(members)
}
