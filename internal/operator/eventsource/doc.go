// Package eventsource feeds the memcached controller with triggers derived
// from a cluster-wide, label-filtered watch on Deployments.
//
// A [DeploymentSource] owns the single subscription for its selector. It
// resolves every ADDED, MODIFIED or DELETED event to the owning Memcached
// through the first owner reference and publishes a [Trigger] on a channel
// consumed by controller-runtime's channel source. ERROR events are logged
// and dropped; their status decides what happens when the stream closes:
//
//   - 410 Gone / Expired: re-subscribe with the same selector from a fresh
//     resource version.
//   - any other error: stop and return a [*TerminatedError].
//
// Trigger order carries no meaning. The reconciler re-reads cluster state
// on every pass.
package eventsource
