// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return NewClientWithConfig(&Config{BaseURL: url})
}

func TestChatSuccess(t *testing.T) {
	var gotBody ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Unexpected content type %s", ct)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(ChatResponse{
			Response:       "Clause 4 covers termination.",
			ConversationID: "conv_42",
			Agent:          "Consultor",
		})
	}))
	defer server.Close()

	resp, err := testClient(server.URL).Chat(context.Background(), "What is clause 4?", "")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Response != "Clause 4 covers termination." {
		t.Errorf("Unexpected response text: %q", resp.Response)
	}
	if resp.ConversationID != "conv_42" {
		t.Errorf("Expected conversation ID conv_42, got %q", resp.ConversationID)
	}
	if resp.Agent != "Consultor" {
		t.Errorf("Expected agent attribution, got %q", resp.Agent)
	}
	if gotBody.ConversationID != nil {
		t.Error("First turn should send a null conversation_id")
	}
}

func TestChatEchoesConversationID(t *testing.T) {
	var gotBody ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	}))
	defer server.Close()

	if _, err := testClient(server.URL).Chat(context.Background(), "again", "conv_42"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if gotBody.ConversationID == nil || *gotBody.ConversationID != "conv_42" {
		t.Error("Subsequent turns should echo the conversation identifier")
	}
}

func TestNonSuccessStatusIsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model overloaded"})
	}))
	defer server.Close()

	_, err := testClient(server.URL).Chat(context.Background(), "hi", "")
	if !IsRemote(err) {
		t.Fatalf("Expected remote error, got %v", err)
	}

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.Message != "model overloaded" {
		t.Errorf("Expected backend detail to surface, got %v", err)
	}
}

func TestFailureBodyCarriesStep(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "index missing",
			"step":    "retrieval",
		})
	}))
	defer server.Close()

	_, err := testClient(server.URL).PredictWarnings(context.Background(), "sess_1")
	if !IsRemote(err) {
		t.Fatalf("Expected remote error, got %v", err)
	}

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatal("Error should be a GatewayError")
	}
	if gwErr.Message != "index missing" || gwErr.Step != "retrieval" {
		t.Errorf("Expected message and step, got message=%q step=%q", gwErr.Message, gwErr.Step)
	}
}

func TestUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := testClient(server.URL).Chat(context.Background(), "hi", "")
	if !IsUnreachable(err) {
		t.Fatalf("Expected unreachable error, got %v", err)
	}
}

func TestTimeoutKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClientWithConfig(&Config{
		BaseURL:      server.URL,
		ShortTimeout: 50 * time.Millisecond,
		LongTimeout:  50 * time.Millisecond,
	})

	_, err := client.Chat(context.Background(), "slow", "")
	if !IsTimeout(err) {
		t.Fatalf("Expected timeout error, got %v", err)
	}
}

func TestMalformedResponseIsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Chat(context.Background(), "hi", "")
	if !IsRemote(err) {
		t.Fatalf("Malformed response should be a remote error, got %v", err)
	}
}

func TestTimeoutBudgetSelection(t *testing.T) {
	client := NewClient()

	tests := []struct {
		endpoint string
		want     time.Duration
	}{
		{"/ingest", client.config.LongTimeout},
		{"/predict-warnings", client.config.LongTimeout},
		{"/chat", client.config.ShortTimeout},
		{"/agents", client.config.ShortTimeout},
	}

	for _, tt := range tests {
		if got := client.timeoutFor(tt.endpoint); got != tt.want {
			t.Errorf("timeoutFor(%s) = %v, want %v", tt.endpoint, got, tt.want)
		}
	}
}

func TestListAgentsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Agent{{Name: "Consultor"}, {Name: "Auditor"}})
	}))
	defer server.Close()

	agents, err := testClient(server.URL).ListAgents(context.Background())
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if len(agents) != 2 || agents[0].Name != "Consultor" {
		t.Errorf("Unexpected agents: %+v", agents)
	}
}

func TestListAgentsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"agents": []Agent{{Name: "Consultor", Description: "contract review"}},
		})
	}))
	defer server.Close()

	agents, err := testClient(server.URL).ListAgents(context.Background())
	if err != nil {
		t.Fatalf("ListAgents failed: %v", err)
	}
	if len(agents) != 1 || agents[0].Description != "contract review" {
		t.Errorf("Unexpected agents: %+v", agents)
	}
}

func TestCheckRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Agent{})
	}))

	client := testClient(server.URL)
	if err := client.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning against live server failed: %v", err)
	}

	server.Close()
	if err := client.CheckRunning(context.Background()); err == nil {
		t.Error("CheckRunning against closed server should fail")
	}
}

func TestGatewayErrorUserMessage(t *testing.T) {
	timeout := &GatewayError{Kind: KindTimeout, Message: "request timed out"}
	if msg := timeout.UserMessage(); msg == "" {
		t.Error("Timeout should have a user message")
	}

	remote := &GatewayError{Kind: KindRemote, Message: "index missing", Step: "retrieval"}
	msg := remote.UserMessage()
	if msg == "" {
		t.Fatal("Remote error should have a user message")
	}
	if !strings.Contains(msg, "retrieval") {
		t.Errorf("Step name should appear in %q", msg)
	}

	unreachable := &GatewayError{Kind: KindUnreachable, Message: "backend unreachable"}
	if !strings.Contains(unreachable.UserMessage(), "running") {
		t.Error("Unreachable message should guide the user toward the backend process")
	}
}

