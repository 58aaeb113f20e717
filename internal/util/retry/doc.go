// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts,
// initial delay and maximum delay. The dependent watch uses it to
// (re-)establish its subscription; errors wrapped with [Fatal] end the
// retry loop immediately.
package retry
