package model

import (
	"errors"
	"fmt"
)

// Error classes shared by every component. Match with errors.Is.
var (
	// ErrConfig marks a missing or invalid configuration value.
	ErrConfig = errors.New("configuration error")
	// ErrNotFound marks an input file or packaged resource that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrProviderData marks a provider reply that is empty or not the expected JSON.
	ErrProviderData = errors.New("provider data error")
)

// HTTPError wraps a non-2xx status returned by an LLM endpoint.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
