package eventsource

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/types"
	apiwatch "k8s.io/apimachinery/pkg/watch"
)

// TriggerSource tags where a trigger originated.
type TriggerSource int

const (
	// SourcePrimary marks a change to the Memcached itself.
	SourcePrimary TriggerSource = iota
	// SourceDependent marks a change to a Deployment owned by a Memcached.
	SourceDependent
)

func (s TriggerSource) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceDependent:
		return "dependent"
	default:
		return "unknown"
	}
}

// Trigger asks for the Memcached identified by OwnerUID to be reconciled.
type Trigger struct {
	Source TriggerSource
	Action apiwatch.EventType

	// OwnerUID identifies the Memcached to reconcile.
	OwnerUID types.UID

	// Owner is a name hint. For dependent triggers it carries the owner
	// reference name and the dependent's namespace.
	Owner types.NamespacedName

	// Dependent is the object that changed. Empty for primary triggers.
	Dependent types.NamespacedName
}

// triggerFor derives a trigger from a Deployment event. It reports false
// when the Deployment has no owner reference.
func triggerFor(action apiwatch.EventType, dep *appsv1.Deployment) (Trigger, bool) {
	if len(dep.OwnerReferences) == 0 {
		return Trigger{}, false
	}
	ref := dep.OwnerReferences[0]

	return Trigger{
		Source:    SourceDependent,
		Action:    action,
		OwnerUID:  ref.UID,
		Owner:     types.NamespacedName{Namespace: dep.Namespace, Name: ref.Name},
		Dependent: types.NamespacedName{Namespace: dep.Namespace, Name: dep.Name},
	}, true
}
