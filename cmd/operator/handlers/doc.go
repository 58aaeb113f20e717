// Package handlers implements the execution logic of the operator commands.
//
// Handlers receive already parsed options from the commands package and
// return errors instead of exiting, so main decides the exit status.
package handlers
