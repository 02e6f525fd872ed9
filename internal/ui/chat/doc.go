// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea session view for the docuscout TUI.
//
// The view is a thin presentation layer over the session controller: key
// presses and slash commands become controller operations, and every
// controller state change arrives as a SessionUpdatedMsg that triggers a
// snapshot re-read. The view never mutates conversation, report, or
// ingestion state directly, so the TUI and the plain-terminal chat REPL
// share identical semantics.
//
// Layout, top to bottom: header, transcript viewport (user, assistant,
// and system bubbles plus the report block), activity spinner, input
// line, optional help line, status bar.
package chat
