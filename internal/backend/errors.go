// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes gateway errors for handling.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota

	// KindTimeout: the per-endpoint budget expired before a response arrived.
	KindTimeout

	// KindRemote: the backend answered but reported a failure, either as a
	// non-2xx status or as a JSON body carrying an error description.
	KindRemote

	// KindUnreachable: a transport-level failure (connection refused, DNS
	// failure, network interruption) before any backend answer.
	KindUnreachable
)

// String returns the human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRemote:
		return "remote"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// GatewayError is the normalized error for every backend call. All network,
// protocol, and decoding failures surface as one of its kinds; callers never
// see raw transport errors.
type GatewayError struct {
	Kind    ErrorKind
	Message string

	// Step names the backend processing step that failed, when the backend
	// reports one (report generation is multi-step). Empty otherwise.
	Step string

	Cause error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if e.Step != "" {
		msg += " (step: " + e.Step + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text shown to the user for this failure,
// distinguishing the three kinds so the user knows whether to wait, retry,
// or check that the backend process is running.
func (e *GatewayError) UserMessage() string {
	switch e.Kind {
	case KindTimeout:
		return "The operation took too long and was cancelled. Please try again."
	case KindUnreachable:
		return "Could not reach the DocuScout backend. Check that it is running: " + e.Message
	default:
		if e.Step != "" {
			return "The backend reported an error at step '" + e.Step + "': " + e.Message
		}
		return "The backend reported an error: " + e.Message
	}
}

// IsTimeout checks if an error is a gateway timeout.
func IsTimeout(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == KindTimeout
}

// IsRemote checks if an error is a backend-reported failure.
func IsRemote(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == KindRemote
}

// IsUnreachable checks if an error indicates the backend cannot be reached.
func IsUnreachable(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == KindUnreachable
}
