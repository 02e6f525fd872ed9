// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling for docuscout CLI commands.
//
// Handlers always return errors; the dispatch in cli.go prints them and
// picks the exit code. Backend failures carry their kind and map onto
// dedicated exit codes so scripts can tell a dead backend from a timeout.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration error
	ExitConfigError = 3
	// ExitBackendError indicates the backend reported a failure
	ExitBackendError = 4
	// ExitUnreachableError indicates the backend could not be reached
	ExitUnreachableError = 5
	// ExitTimeoutError indicates a backend call exceeded its budget
	ExitTimeoutError = 6
)

// UsageError reports invalid command-line usage.
type UsageError struct {
	Message string
	Usage   string // one-line usage hint, optional
}

func (e *UsageError) Error() string {
	if e.Usage != "" {
		return fmt.Sprintf("%s\nUsage: %s", e.Message, e.Usage)
	}
	return e.Message
}

// ErrMissingArgument creates an error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return &UsageError{
		Message: "missing required argument: " + argName,
		Usage:   usage,
	}
}

// GetExitCode determines the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}

	var validationErr config.ValidationError
	if errors.As(err, &validationErr) {
		return ExitConfigError
	}

	var gw *backend.GatewayError
	if errors.As(err, &gw) {
		switch gw.Kind {
		case backend.KindTimeout:
			return ExitTimeoutError
		case backend.KindUnreachable:
			return ExitUnreachableError
		default:
			return ExitBackendError
		}
	}

	return ExitGeneralError
}

// commandError pairs the message shown to the user with its cause, so
// GetExitCode still sees the gateway error through errors.As.
type commandError struct {
	message string
	cause   error
}

func (e *commandError) Error() string { return e.message }
func (e *commandError) Unwrap() error { return e.cause }

// wrapBackendErr builds the user-facing error for a failed backend call.
// The display text uses the friendly gateway message; the original error
// stays on the chain for exit-code mapping.
func wrapBackendErr(prefix string, err error) error {
	msg := userFacing(err)
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return &commandError{message: msg, cause: err}
}

// userFacing converts a backend error into the message shown to the user.
// Non-gateway errors pass through unchanged.
func userFacing(err error) string {
	var gw *backend.GatewayError
	if errors.As(err, &gw) {
		return gw.UserMessage()
	}
	return err.Error()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
