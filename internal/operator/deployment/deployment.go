package deployment

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/util/labels"
)

const (
	// DefaultImage is the memcached image run by every pod.
	DefaultImage = "memcached:1.4.36-alpine"

	// ContainerName is the name of the single memcached container and its port.
	ContainerName = "memcached"

	// ContainerPort is the port memcached listens on.
	ContainerPort int32 = 11211
)

// command is the fixed memcached startup command line.
var command = []string{"memcached", "-m=64", "-o", "modern", "-v"}

// Builder builds Deployments for Memcached resources.
type Builder struct {
	// Image overrides DefaultImage when set.
	Image string
}

// Build returns the Deployment the given Memcached should own, using DefaultImage.
func Build(mc *cachev1alpha1.Memcached) *appsv1.Deployment {
	return Builder{}.Build(mc)
}

// Build returns the Deployment the given Memcached should own.
func (b Builder) Build(mc *cachev1alpha1.Memcached) *appsv1.Deployment {
	podLabels := labels.ForMemcached(mc.Name)

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:            mc.Name,
			Namespace:       mc.Namespace,
			Labels:          labels.ForMemcached(mc.Name),
			OwnerReferences: []metav1.OwnerReference{ownerReference(mc)},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(mc.Spec.Size),
			Selector: &metav1.LabelSelector{
				MatchLabels: labels.ForMemcached(mc.Name),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: podLabels,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{b.container()},
				},
			},
		},
	}
}

func (b Builder) container() corev1.Container {
	return corev1.Container{
		Name:    ContainerName,
		Image:   b.image(),
		Command: append([]string(nil), command...),
		Ports: []corev1.ContainerPort{
			{
				Name:          ContainerName,
				ContainerPort: ContainerPort,
				Protocol:      corev1.ProtocolTCP,
			},
		},
	}
}

func (b Builder) image() string {
	if b.Image != "" {
		return b.Image
	}
	return DefaultImage
}

// ownerReference links the Deployment to its Memcached so the garbage
// collector removes it together with the Memcached.
func ownerReference(mc *cachev1alpha1.Memcached) metav1.OwnerReference {
	return metav1.OwnerReference{
		APIVersion:         cachev1alpha1.GroupVersion.String(),
		Kind:               cachev1alpha1.MemcachedKind,
		Name:               mc.Name,
		UID:                mc.UID,
		Controller:         ptr.To(true),
		BlockOwnerDeletion: ptr.To(true),
	}
}

// Replicas returns the desired replica count of a Deployment, defaulting to 1
// like the API server does when the field is unset.
func Replicas(dep *appsv1.Deployment) int32 {
	if dep.Spec.Replicas == nil {
		return 1
	}
	return *dep.Spec.Replicas
}
