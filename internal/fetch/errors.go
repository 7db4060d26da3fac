package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the download client.
var (
	// ErrDownloadFailed wraps every download failure.
	ErrDownloadFailed = errors.New("dataset download failed")

	// ErrAuthError indicates a missing or rejected token.
	ErrAuthError = errors.New("dataset source rejected credentials")
)

// HTTPError is a non-success response from the dataset source.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap lets errors.Is match ErrDownloadFailed and, for 401/403,
// ErrAuthError.
func (e *HTTPError) Unwrap() []error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return []error{ErrDownloadFailed, ErrAuthError}
	}
	return []error{ErrDownloadFailed}
}

// retryable reports whether a status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthError)
}
