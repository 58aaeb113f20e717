// Package deployment derives the Deployment a Memcached should own.
//
// The builder is a pure function of the Memcached: it never reads cluster
// state, so building the same resource twice yields identical objects and
// "create if absent" can be retried safely.
package deployment
