// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the DocuScout backend API.
//
// Every call is normalized to one of three failure kinds: Timeout (the
// per-endpoint budget expired), Remote (the backend answered with an error,
// optionally naming the processing step that failed), and Unreachable (a
// transport failure before any answer). Ingestion and report generation
// carry a long budget; chat and agent listing a short one. The client never
// retries; retry policy belongs to the caller.
package backend
