// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

package upstream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure. Every error the client returns is a
// *FetchError carrying exactly one kind, so callers can branch on failure
// class without string matching.
type ErrorKind string

const (
	// KindNetwork covers transport failures: connection refused, DNS,
	// timeouts, and an open circuit breaker. No HTTP response arrived.
	KindNetwork ErrorKind = "network"

	// KindDecode covers responses that arrived but could not be decoded
	// into the expected shape, including shape-validation failures.
	KindDecode ErrorKind = "decode"

	// KindApplication covers well-formed non-2xx responses: the platform
	// answered and refused.
	KindApplication ErrorKind = "application"
)

// FetchError is the uniform error type for upstream fetches.
type FetchError struct {
	Kind     ErrorKind
	Endpoint string
	// Status is the HTTP status code for application errors, zero otherwise.
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: %s (%s, status %d)", e.Endpoint, e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream %s: %s (%s)", e.Endpoint, e.Message, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind from err, or "" when err is not a
// fetch error.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func networkError(endpoint string, err error) *FetchError {
	return &FetchError{
		Kind:     KindNetwork,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}

func decodeError(endpoint string, err error) *FetchError {
	return &FetchError{
		Kind:     KindDecode,
		Endpoint: endpoint,
		Message:  err.Error(),
		Err:      err,
	}
}

func applicationError(endpoint string, status int, body string) *FetchError {
	return &FetchError{
		Kind:     KindApplication,
		Endpoint: endpoint,
		Status:   status,
		Message:  body,
	}
}
