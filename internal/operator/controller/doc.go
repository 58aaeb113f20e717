// Package controller implements the Kubernetes controller for Memcached
// custom resources.
//
// Every pass re-reads the Memcached, its Deployment and the matching pods
// and performs at most one corrective action, in priority order:
// create the Deployment -> scale it to spec.size -> write status.nodes.
// A pass that changes nothing returns ActionNone. Convergence comes from
// the triggers the next action causes, not from looping within a pass.
//
// Triggers arrive from two sources, the Memcached informer and the
// dependent Deployment watch in package eventsource, and are resolved
// to reconcile requests through a dispatch table keyed by trigger source.
package controller
