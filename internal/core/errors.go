package core

import (
	"errors"
	"fmt"
)

var (
	// ErrContentNotFound is returned when no extraction strategy yields email content
	ErrContentNotFound = errors.New("no email content found")
	// ErrEmptyInput is returned when a scan is requested with nothing to scan
	ErrEmptyInput = errors.New("please provide email content to scan")
	// ErrScanInProgress is returned while another scan of the same service is in flight
	ErrScanInProgress = errors.New("a scan is already in progress")
	// ErrNotFound is returned by preference stores for missing keys
	ErrNotFound = errors.New("preference not found")
)

// NetworkError is returned when a request to the analysis backend never completed
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: analysis backend timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: analysis backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError is returned when the analysis backend answered with a non-success status
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("analysis backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("analysis backend returned status %d: %s", e.StatusCode, e.Message)
}

// IsNetworkError reports whether err is a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsBackendError reports whether err is a BackendError
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}
