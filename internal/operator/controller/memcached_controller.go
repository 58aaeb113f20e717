package controller

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	"sigs.k8s.io/controller-runtime/pkg/source"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/operator/deployment"
	"github.com/imamik/memcached-operator/internal/operator/eventsource"
	"github.com/imamik/memcached-operator/internal/util/labels"
)

// ControllerName is the name the controller is registered under.
const ControllerName = "memcached"

// Event reasons recorded on the Memcached.
const (
	EventReasonCreated       = "DeploymentCreated"
	EventReasonScaled        = "DeploymentScaled"
	EventReasonStatusUpdated = "NodesUpdated"
)

// Action is the corrective step taken by a single reconcile pass.
type Action int

const (
	ActionNone Action = iota
	ActionCreate
	ActionScale
	ActionUpdateStatus
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCreate:
		return "create"
	case ActionScale:
		return "scale"
	case ActionUpdateStatus:
		return "update_status"
	default:
		return "unknown"
	}
}

// MemcachedReconciler reconciles a Memcached object.
type MemcachedReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// reader serves the Deployment and Pod reads. It must not lag behind
	// the dependent watch.
	reader                  client.Reader
	builder                 deployment.Builder
	enableMetrics           bool
	maxConcurrentReconciles int
	triggers                <-chan event.TypedGenericEvent[eventsource.Trigger]
	dispatch                map[eventsource.TriggerSource]resolver
}

// Option configures a MemcachedReconciler.
type Option func(*MemcachedReconciler)

// WithImage overrides the memcached image of built Deployments.
func WithImage(image string) Option {
	return func(r *MemcachedReconciler) {
		r.builder.Image = image
	}
}

// WithAPIReader sets the reader used for Deployment and Pod reads.
// Defaults to the reconciler's client.
func WithAPIReader(reader client.Reader) Option {
	return func(r *MemcachedReconciler) {
		r.reader = reader
	}
}

// WithMetrics enables or disables Prometheus metrics.
func WithMetrics(enable bool) Option {
	return func(r *MemcachedReconciler) {
		r.enableMetrics = enable
	}
}

// WithMaxConcurrentReconciles sets how many distinct Memcached resources
// may be reconciled in parallel.
func WithMaxConcurrentReconciles(n int) Option {
	return func(r *MemcachedReconciler) {
		if n > 0 {
			r.maxConcurrentReconciles = n
		}
	}
}

// WithTriggers connects the dependent watch to the controller.
func WithTriggers(triggers <-chan event.TypedGenericEvent[eventsource.Trigger]) Option {
	return func(r *MemcachedReconciler) {
		r.triggers = triggers
	}
}

// NewMemcachedReconciler creates a new MemcachedReconciler.
func NewMemcachedReconciler(c client.Client, scheme *runtime.Scheme, recorder record.EventRecorder, opts ...Option) *MemcachedReconciler {
	r := &MemcachedReconciler{
		Client:                  c,
		Scheme:                  scheme,
		Recorder:                recorder,
		reader:                  c,
		enableMetrics:           true,
		maxConcurrentReconciles: 1,
	}
	r.dispatch = map[eventsource.TriggerSource]resolver{
		eventsource.SourcePrimary:   r.resolvePrimary,
		eventsource.SourceDependent: r.resolveDependent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// +kubebuilder:rbac:groups=cache.imamik.io,resources=memcacheds,verbs=get;list;watch
// +kubebuilder:rbac:groups=cache.imamik.io,resources=memcacheds/status,verbs=get;update
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update
// +kubebuilder:rbac:groups="",resources=pods,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch
// +kubebuilder:rbac:groups=coordination.k8s.io,resources=leases,verbs=get;create;update

// Reconcile handles the reconciliation loop for Memcached resources.
func (r *MemcachedReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	mc := &cachev1alpha1.Memcached{}
	if err := r.Get(ctx, req.NamespacedName, mc); err != nil {
		if apierrors.IsNotFound(err) {
			logger.Info("memcached deleted, dependents are garbage collected through owner references")
			r.forgetMembers(req.Namespace, req.Name)
			return ctrl.Result{}, nil
		}
		logger.Error(err, "unable to fetch Memcached")
		return ctrl.Result{}, err
	}

	action, err := r.reconcile(ctx, mc)
	r.recordReconcile(action, err, time.Since(start).Seconds())
	if err != nil {
		return ctrl.Result{}, err
	}

	logger.V(1).Info("reconcile complete", "action", action.String())
	return ctrl.Result{}, nil
}

// reconcile performs at most one mutation and reports which.
func (r *MemcachedReconciler) reconcile(ctx context.Context, mc *cachev1alpha1.Memcached) (Action, error) {
	logger := log.FromContext(ctx)
	size := mc.Spec.Size

	dep := &appsv1.Deployment{}
	if err := r.reader.Get(ctx, mc.NamespacedName(), dep); err != nil {
		if !apierrors.IsNotFound(err) {
			return ActionNone, fmt.Errorf("failed to get deployment: %w", err)
		}

		desired := r.builder.Build(mc)
		if err := r.Create(ctx, desired); err != nil {
			return ActionCreate, fmt.Errorf("failed to create deployment: %w", err)
		}
		logger.Info("created deployment", "deployment", desired.Name, "replicas", size)
		r.event(mc, corev1.EventTypeNormal, EventReasonCreated, "Created deployment %s with %d replicas", desired.Name, size)
		return ActionCreate, nil
	}

	if current := deployment.Replicas(dep); current != size {
		dep.Spec.Replicas = ptr.To(size)
		if err := r.Update(ctx, dep); err != nil {
			return ActionScale, fmt.Errorf("failed to scale deployment from %d to %d: %w", current, size, err)
		}
		logger.Info("scaled deployment", "deployment", dep.Name, "from", current, "to", size)
		r.event(mc, corev1.EventTypeNormal, EventReasonScaled, "Scaled deployment %s from %d to %d replicas", dep.Name, current, size)
		return ActionScale, nil
	}

	pods := &corev1.PodList{}
	if err := r.reader.List(ctx, pods,
		client.InNamespace(mc.Namespace),
		client.MatchingLabelsSelector{Selector: labels.SelectorForMemcached(mc.Name)},
	); err != nil {
		return ActionNone, fmt.Errorf("failed to list pods: %w", err)
	}

	members := aggregateMembers(pods.Items)
	r.recordMembers(mc.Namespace, mc.Name, members.Len())
	if !statusNeedsUpdate(mc.Status, members) {
		return ActionNone, nil
	}

	mc.Status.Nodes = reportedNodes(members)
	if err := r.Status().Update(ctx, mc); err != nil {
		return ActionUpdateStatus, fmt.Errorf("failed to update status: %w", err)
	}
	logger.Info("updated status", "nodes", mc.Status.Nodes)
	r.event(mc, corev1.EventTypeNormal, EventReasonStatusUpdated, "Reporting %d nodes", len(mc.Status.Nodes))
	return ActionUpdateStatus, nil
}

func (r *MemcachedReconciler) event(mc *cachev1alpha1.Memcached, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder != nil {
		r.Recorder.Eventf(mc, eventType, reason, messageFmt, args...)
	}
}

// SetupWithManager sets up the controller with the Manager.
func (r *MemcachedReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if err := registerIndexes(mgr.GetFieldIndexer()); err != nil {
		return err
	}

	b := ctrl.NewControllerManagedBy(mgr).
		Named(ControllerName).
		WatchesRawSource(source.Kind(mgr.GetCache(), &cachev1alpha1.Memcached{},
			handler.TypedEnqueueRequestsFromMapFunc[*cachev1alpha1.Memcached, reconcile.Request](r.mapMemcached)))

	if r.triggers != nil {
		b = b.WatchesRawSource(source.Channel(r.triggers,
			handler.TypedEnqueueRequestsFromMapFunc[eventsource.Trigger, reconcile.Request](r.mapTrigger)))
	}

	return b.WithOptions(controller.Options{
		MaxConcurrentReconciles: r.maxConcurrentReconciles,
	}).Complete(r)
}
