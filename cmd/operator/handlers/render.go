package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/yaml"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/operator/deployment"
)

// RenderOptions describes the Memcached to render a Deployment for.
type RenderOptions struct {
	Name      string
	Namespace string
	Size      int32
	// UID of the owner. A random UID is used when empty.
	UID   string
	Image string
}

// Render writes the Deployment built for the described Memcached as YAML.
func Render(w io.Writer, opts RenderOptions) error {
	if opts.Name == "" {
		return errors.New("name is required")
	}
	if opts.Size < 0 {
		return fmt.Errorf("size must not be negative, got %d", opts.Size)
	}
	if opts.UID == "" {
		opts.UID = uuid.NewString()
	}

	mc := &cachev1alpha1.Memcached{
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			UID:       types.UID(opts.UID),
		},
		Spec: cachev1alpha1.MemcachedSpec{Size: opts.Size},
	}

	out, err := yaml.Marshal(deployment.Builder{Image: opts.Image}.Build(mc))
	if err != nil {
		return fmt.Errorf("failed to marshal deployment: %w", err)
	}

	_, err = w.Write(out)
	return err
}
