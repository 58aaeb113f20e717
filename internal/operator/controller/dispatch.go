package controller

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	cachev1alpha1 "github.com/imamik/memcached-operator/api/v1alpha1"
	"github.com/imamik/memcached-operator/internal/operator/eventsource"
)

// IndexMemcachedUID indexes Memcached objects by metadata.uid so that
// dependent triggers can be resolved to their owner.
const IndexMemcachedUID = "metadata.uid"

// resolver turns a trigger into reconcile requests.
type resolver func(ctx context.Context, t eventsource.Trigger) []reconcile.Request

// registerIndexes adds the field indexes the resolvers rely on.
func registerIndexes(indexer client.FieldIndexer) error {
	if err := indexer.IndexField(context.TODO(), &cachev1alpha1.Memcached{}, IndexMemcachedUID, indexMemcachedUID); err != nil {
		return fmt.Errorf("failed to index memcached uid: %w", err)
	}
	return nil
}

func indexMemcachedUID(obj client.Object) []string {
	return []string{string(obj.GetUID())}
}

// mapMemcached routes informer events for the Memcached itself.
func (r *MemcachedReconciler) mapMemcached(ctx context.Context, mc *cachev1alpha1.Memcached) []reconcile.Request {
	return r.mapTrigger(ctx, eventsource.Trigger{
		Source:   eventsource.SourcePrimary,
		OwnerUID: mc.UID,
		Owner:    mc.NamespacedName(),
	})
}

// mapTrigger dispatches a trigger to the resolver registered for its source.
func (r *MemcachedReconciler) mapTrigger(ctx context.Context, t eventsource.Trigger) []reconcile.Request {
	resolve, ok := r.dispatch[t.Source]
	if !ok {
		log.FromContext(ctx).Info("dropping trigger from unknown source", "source", t.Source.String())
		return nil
	}
	return resolve(ctx, t)
}

func (r *MemcachedReconciler) resolvePrimary(_ context.Context, t eventsource.Trigger) []reconcile.Request {
	return []reconcile.Request{{NamespacedName: t.Owner}}
}

// resolveDependent finds the owner by UID. When the owner is not in the
// cache (not synced yet, or already deleted) the owner reference name is
// used; the reconcile pass then sees the live state either way.
func (r *MemcachedReconciler) resolveDependent(ctx context.Context, t eventsource.Trigger) []reconcile.Request {
	logger := log.FromContext(ctx).WithValues("ownerUID", t.OwnerUID, "dependent", t.Dependent.String())

	if t.OwnerUID != "" {
		list := &cachev1alpha1.MemcachedList{}
		err := r.List(ctx, list, client.MatchingFields{IndexMemcachedUID: string(t.OwnerUID)})
		if err != nil {
			logger.Error(err, "failed to resolve owner by uid, falling back to owner name")
		} else if len(list.Items) > 0 {
			reqs := make([]reconcile.Request, 0, len(list.Items))
			for i := range list.Items {
				reqs = append(reqs, reconcile.Request{NamespacedName: list.Items[i].NamespacedName()})
			}
			return reqs
		}
	}

	if t.Owner.Name == "" {
		logger.Info("dropping trigger without a resolvable owner")
		return nil
	}
	return []reconcile.Request{{NamespacedName: t.Owner}}
}
