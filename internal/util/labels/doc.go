// Package labels provides the label contract between a Memcached and its
// dependent Deployment.
//
// Three labels couple the two resources besides the owner reference:
// app=memcached, memcached_cr=<name> and the managed-by marker the
// dependent watch filters on.
package labels
