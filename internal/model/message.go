// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the session transcript.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a transcript message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAssistant:
		return "DocuScout"
	case SenderSystem:
		return "System"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the conversation transcript.
// Messages are immutable once created; the transcript only appends.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Text is the message content, verbatim as entered or received.
	Text string `json:"text"`

	// Agent names the backend agent that produced an assistant message
	// (e.g. "Consultor"). Empty for user and system messages, and for
	// assistant responses that carry no attribution.
	Agent string `json:"agent,omitempty"`
}

// NewMessage creates a new message with a generated ID and the current time.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        generateID(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) Message {
	return NewMessage(SenderUser, text)
}

// NewAssistantMessage creates a new assistant message with optional agent
// attribution.
func NewAssistantMessage(text, agent string) Message {
	msg := NewMessage(SenderAssistant, text)
	msg.Agent = agent
	return msg
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(text string) Message {
	return NewMessage(SenderSystem, text)
}

// DisplayName returns the name shown for this message in the transcript,
// preferring the agent attribution for assistant messages.
func (m Message) DisplayName() string {
	if m.Sender == SenderAssistant && m.Agent != "" {
		return m.Agent
	}
	return m.Sender.DisplayName()
}

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Text) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
