package deployment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/yaml"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/util/labels"
)

func newMemcached(size int32) *cachev1alpha1.Memcached {
	return &cachev1alpha1.Memcached{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "memcached-sample",
			Namespace: "cache",
			UID:       types.UID("2d3b6c1e-8f3a-4a5e-9a52-5b1c7d0f1a11"),
		},
		Spec: cachev1alpha1.MemcachedSpec{Size: size},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	mc := newMemcached(3)
	dep := Build(mc)

	t.Run("identity follows the memcached", func(t *testing.T) {
		assert.Equal(t, "memcached-sample", dep.Name)
		assert.Equal(t, "cache", dep.Namespace)
	})

	t.Run("replicas equal size", func(t *testing.T) {
		require.NotNil(t, dep.Spec.Replicas)
		assert.Equal(t, int32(3), *dep.Spec.Replicas)
	})

	t.Run("labels on object, selector and template", func(t *testing.T) {
		want := map[string]string{
			"app":                          "memcached",
			"memcached_cr":                 "memcached-sample",
			"app.kubernetes.io/managed-by": "memcached-operator",
		}
		assert.Equal(t, want, dep.Labels)
		assert.Equal(t, want, dep.Spec.Selector.MatchLabels)
		assert.Equal(t, want, dep.Spec.Template.Labels)
	})

	t.Run("single owner reference to the memcached", func(t *testing.T) {
		require.Len(t, dep.OwnerReferences, 1)
		ref := dep.OwnerReferences[0]
		assert.Equal(t, "cache.imamik.io/v1alpha1", ref.APIVersion)
		assert.Equal(t, "Memcached", ref.Kind)
		assert.Equal(t, mc.Name, ref.Name)
		assert.Equal(t, mc.UID, ref.UID)
		require.NotNil(t, ref.Controller)
		assert.True(t, *ref.Controller)
		require.NotNil(t, ref.BlockOwnerDeletion)
		assert.True(t, *ref.BlockOwnerDeletion)
	})

	t.Run("single memcached container", func(t *testing.T) {
		containers := dep.Spec.Template.Spec.Containers
		require.Len(t, containers, 1)
		c := containers[0]
		assert.Equal(t, "memcached", c.Name)
		assert.Equal(t, DefaultImage, c.Image)
		assert.Equal(t, []string{"memcached", "-m=64", "-o", "modern", "-v"}, c.Command)
		require.Len(t, c.Ports, 1)
		assert.Equal(t, "memcached", c.Ports[0].Name)
		assert.Equal(t, int32(11211), c.Ports[0].ContainerPort)
		assert.Equal(t, corev1.ProtocolTCP, c.Ports[0].Protocol)
	})
}

func TestBuildZeroSize(t *testing.T) {
	t.Parallel()

	dep := Build(newMemcached(0))
	require.NotNil(t, dep.Spec.Replicas)
	assert.Equal(t, int32(0), *dep.Spec.Replicas)
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	mc := newMemcached(2)
	first := Build(mc)
	second := Build(mc)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Build is not deterministic (-first +second):\n%s", diff)
	}

	firstYAML, err := yaml.Marshal(first)
	require.NoError(t, err)
	secondYAML, err := yaml.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstYAML), string(secondYAML))
}

func TestBuildDoesNotShareState(t *testing.T) {
	t.Parallel()

	mc := newMemcached(1)
	first := Build(mc)
	first.Labels[labels.KeyInstance] = "mutated"
	first.Spec.Template.Spec.Containers[0].Command[0] = "sh"
	*first.Spec.Replicas = 9

	second := Build(mc)
	assert.Equal(t, "memcached-sample", second.Labels[labels.KeyInstance])
	assert.Equal(t, "memcached-sample", second.Spec.Selector.MatchLabels[labels.KeyInstance])
	assert.Equal(t, "memcached", second.Spec.Template.Spec.Containers[0].Command[0])
	assert.Equal(t, int32(1), *second.Spec.Replicas)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	mc := newMemcached(4)
	before := mc.DeepCopy()
	_ = Build(mc)

	if diff := cmp.Diff(before, mc); diff != "" {
		t.Fatalf("Build mutated its input (-before +after):\n%s", diff)
	}
}

func TestBuilderImageOverride(t *testing.T) {
	t.Parallel()

	dep := Builder{Image: "registry.local/memcached:1.6"}.Build(newMemcached(1))
	assert.Equal(t, "registry.local/memcached:1.6", dep.Spec.Template.Spec.Containers[0].Image)
}

func TestReplicas(t *testing.T) {
	t.Parallel()

	dep := Build(newMemcached(5))
	assert.Equal(t, int32(5), Replicas(dep))

	dep.Spec.Replicas = nil
	assert.Equal(t, int32(1), Replicas(dep))
}
