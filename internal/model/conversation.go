// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the ordered transcript for one session together with
// the backend conversation identifier and the in-flight guard.
//
// The transcript is append-only during normal operation; only Clear empties
// it. Messages are never reordered or deduplicated, so insertion order is
// conversation order.
type Conversation struct {
	// Messages is the ordered transcript.
	Messages []Message `json:"messages"`

	// ConversationID is the opaque identifier assigned by the backend on
	// the first response and echoed on subsequent requests. Empty until
	// the backend assigns one.
	ConversationID string `json:"conversation_id,omitempty"`

	// AwaitingResponse is true while a chat turn is in flight. It is the
	// single-flight guard: a new turn is rejected while set.
	AwaitingResponse bool `json:"-"`

	// UpdatedAt is the time of the last transcript mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		Messages:  make([]Message, 0),
		UpdatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the transcript.
func (c *Conversation) Append(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AppendUser creates and appends a user message, returning it.
func (c *Conversation) AppendUser(text string) Message {
	msg := NewUserMessage(text)
	c.Append(msg)
	return msg
}

// AppendAssistant creates and appends an assistant message, returning it.
func (c *Conversation) AppendAssistant(text, agent string) Message {
	msg := NewAssistantMessage(text, agent)
	c.Append(msg)
	return msg
}

// AppendSystem creates and appends a system message, returning it.
func (c *Conversation) AppendSystem(text string) Message {
	msg := NewSystemMessage(text)
	c.Append(msg)
	return msg
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// MessageCount returns the number of transcript entries.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Clear empties the transcript and forgets the backend conversation
// identifier. This is the only operation that removes messages.
func (c *Conversation) Clear() {
	c.Messages = make([]Message, 0)
	c.ConversationID = ""
	c.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the conversation for read-only snapshots.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ConversationID:   c.ConversationID,
		AwaitingResponse: c.AwaitingResponse,
		UpdatedAt:        c.UpdatedAt,
		Messages:         make([]Message, len(c.Messages)),
	}
	copy(clone.Messages, c.Messages)
	return clone
}

// Preview returns a short preview of the conversation for listings.
func (c *Conversation) Preview() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderUser {
			return c.Messages[i].Preview(100)
		}
	}
	if len(c.Messages) == 0 {
		return "Empty conversation"
	}
	return c.Messages[0].Preview(100)
}
