package eventsource

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// TerminatedError is returned by DeploymentSource.Start when the watch
// stream failed with an error it cannot recover from. The process is
// expected to exit non-zero.
type TerminatedError struct {
	Selector string
	Cause    error
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("dependent watch terminated (selector %q): %v", e.Selector, e.Cause)
}

func (e *TerminatedError) Unwrap() error {
	return e.Cause
}

// IsTerminated reports whether err is or wraps a TerminatedError.
func IsTerminated(err error) bool {
	var terminated *TerminatedError
	return errors.As(err, &terminated)
}

// isExpired reports whether err signals an outdated resource version.
func isExpired(err error) bool {
	if apierrors.IsGone(err) || apierrors.IsResourceExpired(err) {
		return true
	}
	var status apierrors.APIStatus
	if errors.As(err, &status) {
		return status.Status().Code == http.StatusGone
	}
	return false
}

// isPermanent reports whether retrying a subscription cannot succeed.
func isPermanent(err error) bool {
	return apierrors.IsForbidden(err) ||
		apierrors.IsUnauthorized(err) ||
		apierrors.IsBadRequest(err) ||
		apierrors.IsInvalid(err) ||
		apierrors.IsNotFound(err)
}
