package eventsource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	apiwatch "k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/event"

	"github.com/imamik/memcached-operator/internal/util/labels"
	"github.com/imamik/memcached-operator/internal/util/retry"
)

// DefaultBufferSize is the capacity of the trigger channel.
const DefaultBufferSize = 256

// DeploymentSource watches Deployments managed by the operator and
// publishes a Trigger for the owning Memcached of each change.
//
// It implements manager.Runnable. Start must be called at most once.
type DeploymentSource struct {
	clientset kubernetes.Interface
	selector  string
	events    chan event.TypedGenericEvent[Trigger]

	log           logr.Logger
	retryOpts     []retry.Option
	enableMetrics bool
	bufferSize    int

	started atomic.Bool

	mu  sync.Mutex
	err error
}

// Option configures a DeploymentSource.
type Option func(*DeploymentSource)

// WithLogger sets the logger. Defaults to ctrl.Log.WithName("dependent-watch").
func WithLogger(log logr.Logger) Option {
	return func(s *DeploymentSource) {
		s.log = log
	}
}

// WithRetryOptions configures the backoff used to (re-)subscribe.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(s *DeploymentSource) {
		s.retryOpts = append(s.retryOpts, opts...)
	}
}

// WithMetrics enables or disables Prometheus metrics.
func WithMetrics(enable bool) Option {
	return func(s *DeploymentSource) {
		s.enableMetrics = enable
	}
}

// WithBufferSize sets the capacity of the trigger channel.
func WithBufferSize(n int) Option {
	return func(s *DeploymentSource) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// NewDeploymentSource creates a source watching all namespaces for
// Deployments matching labels.WatchSelector.
func NewDeploymentSource(clientset kubernetes.Interface, opts ...Option) *DeploymentSource {
	s := &DeploymentSource{
		clientset:     clientset,
		selector:      labels.WatchSelector().String(),
		log:           ctrl.Log.WithName("dependent-watch"),
		enableMetrics: true,
		bufferSize:    DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = make(chan event.TypedGenericEvent[Trigger], s.bufferSize)
	return s
}

// Events returns the channel triggers are published on. It is closed when
// Start returns.
func (s *DeploymentSource) Events() <-chan event.TypedGenericEvent[Trigger] {
	return s.events
}

// Selector returns the label selector used for every subscription.
func (s *DeploymentSource) Selector() string {
	return s.selector
}

// Err returns the error that terminated the watch, if any.
func (s *DeploymentSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// NeedLeaderElection ties the watch to the elected leader, like the
// controller consuming its triggers.
func (s *DeploymentSource) NeedLeaderElection() bool {
	return true
}

// Start runs the watch until ctx is cancelled or the stream fails with an
// unrecoverable error, in which case a *TerminatedError is returned.
func (s *DeploymentSource) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("dependent watch already started")
	}
	defer close(s.events)

	s.log.Info("starting dependent watch", "kind", "Deployment", "selector", s.selector)

	resourceVersion := ""
	for {
		w, err := s.subscribe(ctx, resourceVersion)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return s.terminate(err)
		}

		rv, cause := s.drain(ctx, w)
		w.Stop()
		if ctx.Err() != nil {
			s.log.Info("dependent watch stopped")
			return nil
		}

		switch {
		case cause == nil:
			// Closed without an error status, e.g. server-side timeout.
			resourceVersion = rv
			s.recordRestart(reasonClosed)
			s.log.V(1).Info("watch stream closed, resubscribing", "resourceVersion", rv)
		case isExpired(cause):
			resourceVersion = ""
			s.recordRestart(reasonExpired)
			s.log.Info("watch expired, resubscribing from a fresh resource version",
				"reason", apierrors.ReasonForError(cause), "selector", s.selector)
		default:
			return s.terminate(cause)
		}
	}
}

// subscribe is the only place a watch is (re-)established.
func (s *DeploymentSource) subscribe(ctx context.Context, resourceVersion string) (apiwatch.Interface, error) {
	var w apiwatch.Interface

	opts := append([]retry.Option{
		retry.WithOnRetry(func(attempt int, err error, next time.Duration) {
			s.log.Info("failed to subscribe, retrying", "attempt", attempt, "retryIn", next, "error", err.Error())
		}),
	}, s.retryOpts...)

	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		w, err = s.clientset.AppsV1().Deployments(metav1.NamespaceAll).Watch(ctx, metav1.ListOptions{
			LabelSelector:       s.selector,
			ResourceVersion:     resourceVersion,
			AllowWatchBookmarks: true,
		})
		switch {
		case err == nil:
			return nil
		case isExpired(err):
			resourceVersion = ""
			return err
		case isPermanent(err):
			return retry.Fatal(err)
		default:
			return err
		}
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to watch deployments: %w", err)
	}
	return w, nil
}

// drain consumes events until the stream closes or ctx is cancelled. It
// returns the last observed resource version and the status of the last
// ERROR event, which is the cause of the closure.
func (s *DeploymentSource) drain(ctx context.Context, w apiwatch.Interface) (string, error) {
	var (
		resourceVersion string
		cause           error
	)

	for {
		select {
		case <-ctx.Done():
			return resourceVersion, nil
		case ev, ok := <-w.ResultChan():
			if !ok {
				return resourceVersion, cause
			}
			s.recordEvent(string(ev.Type))
			if ev.Type != apiwatch.Error {
				// Only an error status directly before closure is its cause.
				cause = nil
			}

			switch ev.Type {
			case apiwatch.Error:
				cause = apierrors.FromObject(ev.Object)
				s.recordDrop(dropError)
				s.logError(ev.Object, cause)

			case apiwatch.Bookmark:
				if obj, err := meta.Accessor(ev.Object); err == nil {
					resourceVersion = obj.GetResourceVersion()
				}

			case apiwatch.Added, apiwatch.Modified, apiwatch.Deleted:
				dep, ok := ev.Object.(*appsv1.Deployment)
				if !ok {
					s.recordDrop(dropUnexpected)
					s.log.Info("dropping event with unexpected object", "action", ev.Type, "type", fmt.Sprintf("%T", ev.Object))
					continue
				}
				resourceVersion = dep.ResourceVersion

				s.log.V(1).Info("dependent event",
					"action", ev.Type,
					"deployment", dep.Namespace+"/"+dep.Name,
					"readyReplicas", dep.Status.ReadyReplicas,
					"resourceVersion", dep.ResourceVersion,
					"markedForDeletion", dep.DeletionTimestamp != nil,
				)

				trigger, ok := triggerFor(ev.Type, dep)
				if !ok {
					s.recordDrop(dropNoOwner)
					s.log.Info("dropping event for deployment without owner reference",
						"action", ev.Type, "deployment", dep.Namespace+"/"+dep.Name)
					continue
				}
				if !s.emit(ctx, trigger) {
					return resourceVersion, nil
				}
			}
		}
	}
}

func (s *DeploymentSource) emit(ctx context.Context, t Trigger) bool {
	select {
	case s.events <- event.TypedGenericEvent[Trigger]{Object: t}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *DeploymentSource) logError(obj any, cause error) {
	kv := []any{"error", cause.Error()}
	if status, ok := obj.(*metav1.Status); ok {
		kv = append(kv, "code", status.Code, "reason", status.Reason)
	} else if m, err := meta.Accessor(obj); err == nil {
		kv = append(kv, "uid", m.GetUID(), "resourceVersion", m.GetResourceVersion())
	}
	s.log.Info("watch reported an error, dropping event", kv...)
}

func (s *DeploymentSource) terminate(cause error) error {
	err := &TerminatedError{Selector: s.selector, Cause: cause}

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.recordRestart(reasonTerminated)
	s.log.Error(cause, "dependent watch terminated", "selector", s.selector)
	return err
}
