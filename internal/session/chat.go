// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/model"
)

// =============================================================================
// CHAT PIPELINE
// =============================================================================

// ChatPipeline owns the conversation transcript and issues one backend
// request per user turn. The AwaitingResponse flag on the conversation is
// the single-flight guard: a second turn while one is in flight is rejected
// locally, so transcript order is always request order.
type ChatPipeline struct {
	client *backend.Client

	mu   sync.Mutex
	conv *model.Conversation

	// notify is called after every transcript mutation, outside the lock.
	notify func()
}

// NewChatPipeline creates a pipeline with an empty conversation.
func NewChatPipeline(client *backend.Client, notify func()) *ChatPipeline {
	if notify == nil {
		notify = func() {}
	}
	return &ChatPipeline{
		client: client,
		conv:   model.NewConversation(),
		notify: notify,
	}
}

// SendTurn submits one user turn. Empty text after trimming and a turn
// already in flight are both local no-ops; the return value reports
// whether the turn was accepted.
//
// On acceptance the user message is appended immediately and the backend
// call runs in the background. Its continuation appends exactly one
// Assistant message (success) or System message (any failure) and always
// clears the in-flight flag, so the pipeline is never left stuck waiting.
func (p *ChatPipeline) SendTurn(ctx context.Context, userText string) bool {
	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return false
	}

	p.mu.Lock()
	if p.conv.AwaitingResponse {
		p.mu.Unlock()
		return false
	}
	p.conv.AppendUser(trimmed)
	p.conv.AwaitingResponse = true
	conversationID := p.conv.ConversationID
	p.mu.Unlock()
	p.notify()

	go p.completeTurn(ctx, trimmed, conversationID)
	return true
}

// completeTurn performs the network call and folds the result back into
// the transcript.
func (p *ChatPipeline) completeTurn(ctx context.Context, text, conversationID string) {
	resp, err := p.client.Chat(ctx, text, conversationID)

	p.mu.Lock()
	if err != nil {
		p.conv.AppendSystem(userFacing(err))
	} else {
		p.conv.AppendAssistant(resp.Response, resp.Agent)
		if p.conv.ConversationID == "" && resp.ConversationID != "" {
			p.conv.ConversationID = resp.ConversationID
		}
	}
	p.conv.AwaitingResponse = false
	p.mu.Unlock()
	p.notify()
}

// AddSystemNote appends a System message outside the turn flow. Used for
// session-level announcements (ingestion progress, agent discovery).
func (p *ChatPipeline) AddSystemNote(text string) {
	p.mu.Lock()
	p.conv.AppendSystem(text)
	p.mu.Unlock()
	p.notify()
}

// AddAssistantNote appends an Assistant message outside the turn flow.
// Used for the welcome line.
func (p *ChatPipeline) AddAssistantNote(text string) {
	p.mu.Lock()
	p.conv.AppendAssistant(text, "")
	p.mu.Unlock()
	p.notify()
}

// Clear empties the transcript and forgets the conversation identifier.
func (p *ChatPipeline) Clear() {
	p.mu.Lock()
	p.conv.Clear()
	p.mu.Unlock()
	p.notify()
}

// Conversation returns a deep copy of the conversation for read-only use.
func (p *ChatPipeline) Conversation() *model.Conversation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conv.Clone()
}

// Awaiting reports whether a turn is currently in flight.
func (p *ChatPipeline) Awaiting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conv.AwaitingResponse
}

// userFacing maps an error onto the text shown in the transcript,
// preserving the gateway's kind-specific wording.
func userFacing(err error) string {
	var gwErr *backend.GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.UserMessage()
	}
	return err.Error()
}
