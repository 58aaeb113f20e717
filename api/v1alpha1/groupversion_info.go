// Package v1alpha1 contains API Schema definitions for the cache.imamik.io v1alpha1 API group
// +kubebuilder:object:generate=true
// +groupName=cache.imamik.io
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is group version used to register these objects
	GroupVersion = schema.GroupVersion{Group: "cache.imamik.io", Version: "v1alpha1"}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme
	AddToScheme = SchemeBuilder.AddToScheme

	// Scheme is the runtime scheme containing the registered types
	Scheme = runtime.NewScheme()
)

// MemcachedKind is the kind written into owner references of dependents.
const MemcachedKind = "Memcached"

func init() {
	SchemeBuilder.Register(&Memcached{}, &MemcachedList{})

	// Add core Kubernetes types to the Scheme (for Deployment, Pod, etc.)
	_ = clientgoscheme.AddToScheme(Scheme)

	// Add our types to the Scheme
	_ = AddToScheme(Scheme)
}
