package handlers

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/config"
	"github.com/imamik/memcached-operator/internal/operator/controller"
	"github.com/imamik/memcached-operator/internal/operator/eventsource"
	"github.com/imamik/memcached-operator/internal/util/retry"
)

var setupLog = ctrl.Log.WithName("setup")

// RunOptions configures Run.
type RunOptions struct {
	// ConfigPath is an optional operator configuration file.
	ConfigPath string

	// Overrides is applied after file and environment, before validation.
	Overrides func(*config.Config)
}

// LoadConfig resolves the operator configuration from file, environment
// and overrides.
func LoadConfig(opts RunOptions) (*config.Config, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Overrides != nil {
		opts.Overrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}
	return cfg, nil
}

// Run starts the controller manager and blocks until ctx is cancelled or a
// component fails. A failed dependent watch is returned as an
// *eventsource.TerminatedError.
func Run(ctx context.Context, opts RunOptions) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	setupLog.Info("starting memcached-operator", "version", version)

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme: cachev1alpha1.Scheme,
		Metrics: metricsserver.Options{
			BindAddress: cfg.MetricsBindAddress,
		},
		// Deployments and Pods are read live. Triggers for them come from the
		// dependent watch, which an informer cache would lag behind.
		Client: client.Options{
			Cache: &client.CacheOptions{
				DisableFor: []client.Object{&appsv1.Deployment{}, &corev1.Pod{}},
			},
		},
		HealthProbeBindAddress: cfg.HealthProbeBindAddress,
		LeaderElection:         cfg.LeaderElection,
		LeaderElectionID:       cfg.LeaderElectionID,
		// LeaderElectionReleaseOnCancel defines if the leader should step down voluntarily
		// when the Manager ends. This requires the binary to immediately end when the
		// Manager is stopped, otherwise, this setting is unsafe.
		LeaderElectionReleaseOnCancel: true,
	})
	if err != nil {
		return fmt.Errorf("unable to create manager: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	depWatch := eventsource.NewDeploymentSource(clientset,
		eventsource.WithMetrics(cfg.EnableMetrics),
		eventsource.WithBufferSize(cfg.Watch.EventBuffer),
		eventsource.WithRetryOptions(watchRetryOptions(cfg.Watch)...),
	)
	if err := mgr.Add(depWatch); err != nil {
		return fmt.Errorf("unable to add dependent watch: %w", err)
	}

	if err := controller.NewMemcachedReconciler(
		mgr.GetClient(),
		mgr.GetScheme(),
		mgr.GetEventRecorderFor("memcached-controller"),
		controller.WithAPIReader(mgr.GetAPIReader()),
		controller.WithImage(cfg.Memcached.Image),
		controller.WithMetrics(cfg.EnableMetrics),
		controller.WithMaxConcurrentReconciles(cfg.MaxConcurrentReconciles),
		controller.WithTriggers(depWatch.Events()),
	).SetupWithManager(mgr); err != nil {
		return fmt.Errorf("unable to create controller %s: %w", cachev1alpha1.MemcachedKind, err)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("unable to set up health check: %w", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("unable to set up ready check: %w", err)
	}

	setupLog.Info("starting manager",
		"kind", cachev1alpha1.MemcachedKind,
		"dependents", "Deployment",
		"selector", depWatch.Selector(),
		"maxConcurrentReconciles", cfg.MaxConcurrentReconciles,
	)

	err = mgr.Start(ctx)
	// The manager may wrap runnable errors; the watch keeps its own.
	if watchErr := depWatch.Err(); watchErr != nil {
		return watchErr
	}
	if err != nil {
		return fmt.Errorf("problem running manager: %w", err)
	}
	return nil
}

// watchRetryOptions converts the configured attempt budget into retry
// options. retry counts retries after the first attempt.
func watchRetryOptions(w config.WatchConfig) []retry.Option {
	return []retry.Option{
		retry.WithMaxRetries(w.RetryMaxAttempts - 1),
		retry.WithInitialDelay(w.RetryInitialDelay),
		retry.WithMaxDelay(w.RetryMaxDelay),
	}
}
