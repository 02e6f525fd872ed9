// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the docuscout
// TUI: the loading spinner shown while a turn or report is in flight, the
// session status bar, and the syntax-highlighted code block renderer used
// inside assistant messages and reports.
package components
