// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the docuscout command-line interface: argument
// parsing, one-shot command handlers (ask, ingest, report, agents,
// version), and a plain-terminal chat REPL.
//
// The TUI is the default surface; these commands exist for scripting and
// for terminals where a full-screen interface is unwanted. Handlers
// construct their own configuration and backend client; there is no
// shared global state.
//
// Output conventions:
//   - Markdown rendering and colors only when stdout is a TTY
//   - NO_COLOR and FORCE_COLOR are respected
//   - Diagnostics go to stderr, results to stdout
//   - Exit codes distinguish usage, config, backend, connectivity, and
//     timeout failures (see errors.go)
package cli
