// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session is the interactive session orchestrator. A Controller
// composes three pipelines over one backend client: chat (the ordered
// transcript, one turn in flight at a time), report (the single-slot
// risk-report task with single-flight and idempotent caching), and ingest
// (document upload with its own in-flight guard). Pipelines never share
// mutable state, so a chat turn and a report generation may be outstanding
// simultaneously.
//
// Operations never block on network I/O. The presentation layer observes
// the session by polling Snapshot or through the Subscribe channel.
package session
