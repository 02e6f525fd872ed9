// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("What is clause 4?")

	if msg.ID == "" {
		t.Error("Message ID should not be empty")
	}
	if msg.Sender != SenderUser {
		t.Errorf("Expected sender user, got %s", msg.Sender)
	}
	if msg.Text != "What is clause 4?" {
		t.Errorf("Unexpected text: %q", msg.Text)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	a := NewSystemMessage("a")
	b := NewSystemMessage("b")
	if a.ID == b.ID {
		t.Errorf("Message IDs should be unique, both were %s", a.ID)
	}
}

func TestSenderDisplayName(t *testing.T) {
	tests := []struct {
		sender Sender
		want   string
	}{
		{SenderUser, "You"},
		{SenderAssistant, "DocuScout"},
		{SenderSystem, "System"},
		{Sender("other"), "other"},
	}

	for _, tt := range tests {
		if got := tt.sender.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%s) = %q, want %q", tt.sender, got, tt.want)
		}
	}
}

func TestMessageDisplayNamePrefersAgent(t *testing.T) {
	msg := NewAssistantMessage("Found it in section 2.", "ClauseHunter")
	if got := msg.DisplayName(); got != "ClauseHunter" {
		t.Errorf("Expected agent attribution, got %q", got)
	}

	plain := NewAssistantMessage("Hello", "")
	if got := plain.DisplayName(); got != "DocuScout" {
		t.Errorf("Expected default assistant name, got %q", got)
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("x", 100))
	preview := msg.Preview(10)
	if len([]rune(preview)) != 10 {
		t.Errorf("Preview should be 10 runes, got %d", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Error("Truncated preview should end with ellipsis")
	}

	short := NewUserMessage("hi")
	if short.Preview(10) != "hi" {
		t.Error("Short message should not be truncated")
	}
}

func TestMessagePreviewUnicode(t *testing.T) {
	msg := NewUserMessage("日本語のテキストです、長い長い長い")
	preview := msg.Preview(8)
	// Must not split a multi-byte character.
	for _, r := range preview {
		if r == '�' {
			t.Error("Preview corrupted a multi-byte character")
		}
	}
}

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation()

	conv.AppendUser("first")
	conv.AppendAssistant("second", "")
	conv.AppendSystem("third")

	if conv.MessageCount() != 3 {
		t.Fatalf("Expected 3 messages, got %d", conv.MessageCount())
	}

	want := []string{"first", "second", "third"}
	for i, text := range want {
		if conv.Messages[i].Text != text {
			t.Errorf("Message %d = %q, want %q", i, conv.Messages[i].Text, text)
		}
	}
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.AppendUser("hello")
	conv.ConversationID = "conv_123"

	conv.Clear()

	if !conv.IsEmpty() {
		t.Error("Conversation should be empty after Clear")
	}
	if conv.ConversationID != "" {
		t.Error("Clear should forget the conversation identifier")
	}
}

func TestConversationClone(t *testing.T) {
	conv := NewConversation()
	conv.AppendUser("hello")
	conv.ConversationID = "conv_123"
	conv.AwaitingResponse = true

	clone := conv.Clone()
	clone.AppendSystem("mutated")
	clone.ConversationID = "other"

	if conv.MessageCount() != 1 {
		t.Error("Mutating the clone should not affect the original")
	}
	if conv.ConversationID != "conv_123" {
		t.Error("Clone should not share the identifier field")
	}

	snapshot := conv.Clone()
	if !snapshot.AwaitingResponse {
		t.Error("Clone should carry the awaiting flag")
	}
}

func TestConversationLastMessage(t *testing.T) {
	conv := NewConversation()

	if _, ok := conv.LastMessage(); ok {
		t.Error("Empty conversation should have no last message")
	}

	conv.AppendUser("a")
	conv.AppendAssistant("b", "")

	last, ok := conv.LastMessage()
	if !ok || last.Text != "b" {
		t.Errorf("Expected last message 'b', got %q", last.Text)
	}
}

func TestConversationPreview(t *testing.T) {
	conv := NewConversation()
	if conv.Preview() != "Empty conversation" {
		t.Error("Empty conversation preview mismatch")
	}

	conv.AppendUser("What are the termination clauses?")
	conv.AppendAssistant("They are in section 9.", "")
	if conv.Preview() != "What are the termination clauses?" {
		t.Errorf("Preview should use the last user message, got %q", conv.Preview())
	}
}
