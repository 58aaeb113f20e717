// Package config defines the runtime configuration of the memcached operator.
//
// Values come from three layers, lowest precedence first: built-in
// defaults ([Default]), an optional YAML file ([LoadFile]) and environment
// variables ([ApplyEnv]). Command-line flags bound in cmd/operator are
// applied last by the caller.
package config
