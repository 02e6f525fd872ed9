// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body for POST /chat.
type ChatRequest struct {
	Message string `json:"message"`

	// ConversationID is null on the first turn; the backend assigns one
	// and the client echoes it on subsequent turns.
	ConversationID *string `json:"conversation_id"`
}

// IngestRequest is the body for POST /ingest (folder variant).
type IngestRequest struct {
	FolderPath string `json:"folder_path"`
}

// ReportRequest is the body for the report-generation call. The session
// reference ties the report to a previously ingested corpus.
type ReportRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the successful response to POST /chat.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id,omitempty"`

	// Agent names the backend agent that produced the answer, when the
	// backend routes between agents.
	Agent string `json:"agent,omitempty"`
}

// IngestResponse is the response to POST /ingest, both variants.
type IngestResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ReportResponse is the response to the report-generation call.
type ReportResponse struct {
	Success bool   `json:"success"`
	Report  string `json:"report,omitempty"`
	Error   string `json:"error,omitempty"`
	Step    string `json:"step,omitempty"`
}

// Agent describes one backend agent from GET /agents.
type Agent struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// agentsEnvelope is the wrapped form of the agents listing. The backend may
// return either a bare array or {"agents": [...]}.
type agentsEnvelope struct {
	Agents []Agent `json:"agents"`
}

// errorBody is the error shape probed in failure responses. The backend
// signals errors either through "error"/"detail" fields or through an
// explicit success flag.
type errorBody struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Step    string `json:"step,omitempty"`
}

// message returns the error description, preferring "error" over "detail".
func (b errorBody) message() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Detail
}

// indicatesFailure reports whether the body carries an error description
// or an explicit success=false flag.
func (b errorBody) indicatesFailure() bool {
	if b.Success != nil && !*b.Success {
		return true
	}
	return b.message() != ""
}
