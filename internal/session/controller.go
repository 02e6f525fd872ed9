// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/model"
	"github.com/docuscout/docuscout-tui/internal/render"
)

// welcomeText opens every session and re-appears after a clear.
const welcomeText = "Hi! I'm DocuScout. Ask me anything about your ingested documents, or request a risk report when you're ready."

// =============================================================================
// SESSION CONTROLLER
// =============================================================================

// Controller composes the chat, report, and ingest pipelines into one
// session. It is constructed once per session and holds all mutable session
// state; there are no package-level session variables.
//
// Every operation is synchronous to invoke and never blocks on network I/O:
// pipelines run their calls in the background and fold results back under
// their own locks. Callers observe changes either by polling Snapshot or
// through the Subscribe channel.
type Controller struct {
	client *backend.Client

	chat   *ChatPipeline
	report *ReportPipeline
	ingest *IngestPipeline

	mu          sync.Mutex
	agents      []backend.Agent
	subscribers []chan struct{}
}

// Snapshot is a read-only view of the whole session for presentation.
// Mutating it has no effect on the session.
type Snapshot struct {
	Conversation *model.Conversation
	Report       ReportTask
	Ingest       IngestState
	Agents       []backend.Agent
}

// NewController builds a session around a backend client and seeds the
// welcome message.
func NewController(client *backend.Client) *Controller {
	c := &Controller{client: client}
	c.chat = NewChatPipeline(client, c.broadcast)
	c.ingest = NewIngestPipeline(client, c.chat.AddSystemNote, c.broadcast)
	c.report = NewReportPipeline(client, c.ingest.SessionID, c.broadcast)

	c.chat.AddAssistantNote(welcomeText)
	return c
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SendChatMessage submits one user turn. Returns false when the text is
// empty after trimming or a turn is already in flight.
func (c *Controller) SendChatMessage(ctx context.Context, text string) bool {
	return c.chat.SendTurn(ctx, text)
}

// RequestRiskReport drives the report state machine (see ReportPipeline).
func (c *Controller) RequestRiskReport(ctx context.Context) (ReportTask, ReportOutcome) {
	return c.report.Request(ctx)
}

// IngestDocuments asks the backend to ingest a folder. Returns false when
// an ingestion is already in flight.
func (c *Controller) IngestDocuments(ctx context.Context, folder string) bool {
	return c.ingest.IngestFolder(ctx, folder)
}

// UploadFiles uploads individual files for ingestion.
func (c *Controller) UploadFiles(ctx context.Context, paths []string) bool {
	return c.ingest.IngestFiles(ctx, paths)
}

// ClearConversation empties the transcript, forgets the conversation
// identifier, and re-seeds the welcome message. The report task is not
// touched; its cache outlives a transcript clear.
func (c *Controller) ClearConversation() {
	c.chat.Clear()
	c.chat.AddAssistantNote(welcomeText)
}

// ViewCachedReport renders the Ready report. The second return value is
// false when no report is ready; the task snapshot tells the caller why
// (Idle, Running, or Failed).
func (c *Controller) ViewCachedReport() (render.Fragment, bool) {
	result, ok := c.report.Result()
	if !ok {
		return nil, false
	}
	return render.Render(result), true
}

// CheckBackend probes backend connectivity. It is a health check only;
// no session state changes.
func (c *Controller) CheckBackend(ctx context.Context) error {
	return c.client.CheckRunning(ctx)
}

// StartSession fetches the backend agent listing in the background. A
// failure becomes a System transcript entry pointing the user at the
// backend process.
func (c *Controller) StartSession(ctx context.Context) {
	go func() {
		agents, err := c.client.ListAgents(ctx)
		if err != nil {
			c.chat.AddSystemNote("Could not load the agent list. " + userFacing(err))
			return
		}
		c.mu.Lock()
		c.agents = agents
		c.mu.Unlock()
		c.broadcast()
	}()
}

// =============================================================================
// OBSERVATION
// =============================================================================

// Snapshot returns a consistent read-only copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	agents := make([]backend.Agent, len(c.agents))
	copy(agents, c.agents)
	c.mu.Unlock()

	return Snapshot{
		Conversation: c.chat.Conversation(),
		Report:       c.report.Task(),
		Ingest:       c.ingest.State(),
		Agents:       agents,
	}
}

// Subscribe returns a channel that receives a signal after every state
// change. The channel is buffered and signals coalesce, so a slow consumer
// never blocks the session; it re-reads Snapshot on each signal.
func (c *Controller) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

// broadcast signals every subscriber without blocking.
func (c *Controller) broadcast() {
	c.mu.Lock()
	subs := c.subscribers
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
