// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// SessionUpdatedMsg signals that the session controller's state changed;
// the model re-reads a snapshot and re-renders.
type SessionUpdatedMsg struct{}

// BackendStatusMsg reports the result of the startup connectivity probe.
type BackendStatusMsg struct {
	Err error
}

// DocsChangedMsg signals that the watched documents folder changed since
// the last ingestion.
type DocsChangedMsg struct{}
