package handlers

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/operator/deployment"
)

func TestRender_MatchesBuilder(t *testing.T) {
	var out bytes.Buffer
	err := Render(&out, RenderOptions{
		Name:      "example",
		Namespace: "cache",
		Size:      3,
		UID:       "5b1c3a3e-0000-4000-8000-000000000000",
		Image:     "memcached:1.6",
	})
	require.NoError(t, err)

	mc := &cachev1alpha1.Memcached{
		ObjectMeta: metav1.ObjectMeta{Name: "example", Namespace: "cache", UID: "5b1c3a3e-0000-4000-8000-000000000000"},
		Spec:       cachev1alpha1.MemcachedSpec{Size: 3},
	}
	want, err := yaml.Marshal(deployment.Builder{Image: "memcached:1.6"}.Build(mc))
	require.NoError(t, err)

	if diff := cmp.Diff(string(want), out.String()); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RandomUIDWhenUnset(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Render(&first, RenderOptions{Name: "a", Namespace: "default", Size: 1}))
	require.NoError(t, Render(&second, RenderOptions{Name: "a", Namespace: "default", Size: 1}))

	assert.NotEqual(t, first.String(), second.String(), "each render gets its own owner uid")
}

func TestRender_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    RenderOptions
		wantErr string
	}{
		{"missing name", RenderOptions{Size: 1}, "name is required"},
		{"negative size", RenderOptions{Name: "a", Size: -1}, "size must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Render(&out, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, out.Len())
		})
	}
}
