// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Config holds configuration options for the backend client.
type Config struct {
	// BaseURL is the backend API base URL (default: http://localhost:8001/api)
	BaseURL string

	// ShortTimeout is the budget for chat and agent-listing calls
	// (default: 180s).
	ShortTimeout time.Duration

	// LongTimeout is the budget for document ingestion and report
	// generation, which run multi-step backend pipelines (default: 300s).
	LongTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:8001/api",
		ShortTimeout: 180 * time.Second,
		LongTimeout:  300 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the DocuScout backend.
// All failures are normalized into *GatewayError; callers never see raw
// transport errors. No retries are performed, so a retry is always a fresh
// caller-initiated request.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8001/api"
	}
	if config.ShortTimeout == 0 {
		config.ShortTimeout = 180 * time.Second
	}
	if config.LongTimeout == 0 {
		config.LongTimeout = 300 * time.Second
	}

	return &Client{
		config: config,
		// Per-endpoint budgets are applied through request contexts, so
		// the transport itself carries no global timeout.
		httpClient: &http.Client{},
	}
}

// Config returns the client configuration.
func (c *Client) Config() *Config {
	return c.config
}

// timeoutFor selects the budget class for an endpoint. Ingestion and report
// generation get the long budget; everything else the short one.
func (c *Client) timeoutFor(endpoint string) time.Duration {
	switch {
	case strings.HasPrefix(endpoint, "/ingest"), strings.HasPrefix(endpoint, "/predict-warnings"):
		return c.config.LongTimeout
	default:
		return c.config.ShortTimeout
	}
}

// =============================================================================
// CORE SEND
// =============================================================================

// Send issues one request to the backend and returns the raw JSON response.
// A nil payload sends a GET, anything else a JSON POST. The per-endpoint
// timeout is applied here; on expiry the in-flight call is cancelled and the
// error kind is Timeout. Schema validation of the returned JSON is the
// caller's responsibility.
func (c *Client) Send(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeoutFor(endpoint))
	defer cancel()

	var req *http.Request
	var err error
	if payload == nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+endpoint, nil)
	} else {
		var body []byte
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, &GatewayError{Kind: KindRemote, Message: "failed to encode request", Cause: err}
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+endpoint, bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, &GatewayError{Kind: KindUnreachable, Message: "failed to create request", Cause: err}
	}

	return c.do(req)
}

// do executes a prepared request and normalizes the outcome.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorBody
		if json.Unmarshal(raw, &body) == nil && body.message() != "" {
			return nil, &GatewayError{Kind: KindRemote, Message: body.message(), Step: body.Step}
		}
		return nil, &GatewayError{Kind: KindRemote, Message: "backend returned " + resp.Status}
	}

	if !json.Valid(raw) {
		return nil, &GatewayError{Kind: KindRemote, Message: "invalid response from backend"}
	}

	// A 2xx body may still carry an application-level failure flag.
	var body errorBody
	if json.Unmarshal(raw, &body) == nil && body.indicatesFailure() {
		msg := body.message()
		if msg == "" {
			msg = "backend reported an unspecified error"
		}
		return nil, &GatewayError{Kind: KindRemote, Message: msg, Step: body.Step}
	}

	return raw, nil
}

// classifyTransport maps a transport error onto the gateway taxonomy:
// deadline expiry becomes Timeout, everything else Unreachable.
func classifyTransport(err error) *GatewayError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: KindTimeout, Message: "request timed out", Cause: err}
	}
	return &GatewayError{Kind: KindUnreachable, Message: "backend unreachable", Cause: err}
}

// decode unmarshals a raw response into out, mapping a shape mismatch to a
// generic remote failure so a malformed response never crashes the session.
func decode(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &GatewayError{Kind: KindRemote, Message: "unexpected response from backend", Cause: err}
	}
	return nil
}

// =============================================================================
// TYPED OPERATIONS
// =============================================================================

// Chat sends one conversation turn. conversationID is empty on the first
// turn; the backend assigns one in the response.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	req := ChatRequest{Message: message}
	if conversationID != "" {
		req.ConversationID = &conversationID
	}

	raw, err := c.Send(ctx, "/chat", req)
	if err != nil {
		return nil, err
	}

	var result ChatResponse
	if err := decode(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ingest asks the backend to ingest every document under a folder.
func (c *Client) Ingest(ctx context.Context, folderPath string) (*IngestResponse, error) {
	raw, err := c.Send(ctx, "/ingest", IngestRequest{FolderPath: folderPath})
	if err != nil {
		return nil, err
	}

	var result IngestResponse
	if err := decode(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// IngestFiles uploads individual files as a multipart request, the variant
// used when the caller has file handles rather than a server-visible folder.
func (c *Client) IngestFiles(ctx context.Context, paths []string) (*IngestResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.LongTimeout)
	defer cancel()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			writer.Close()
			return nil, &GatewayError{Kind: KindRemote, Message: "cannot read " + path, Cause: err}
		}
		part, err := writer.CreateFormFile("files", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			writer.Close()
			return nil, &GatewayError{Kind: KindRemote, Message: "failed to stage " + path, Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &GatewayError{Kind: KindRemote, Message: "failed to finalize upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/ingest", &buf)
	if err != nil {
		return nil, &GatewayError{Kind: KindUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result IngestResponse
	if err := decode(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PredictWarnings runs risk-report generation over the ingested corpus.
// This is the long-running multi-step backend call; failures may name the
// step that failed.
func (c *Client) PredictWarnings(ctx context.Context, sessionID string) (*ReportResponse, error) {
	raw, err := c.Send(ctx, "/predict-warnings", ReportRequest{SessionID: sessionID})
	if err != nil {
		return nil, err
	}

	var result ReportResponse
	if err := decode(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAgents retrieves the backend agents. The backend returns either a
// bare array or an {"agents": [...]} envelope; both are accepted.
func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	raw, err := c.Send(ctx, "/agents", nil)
	if err != nil {
		return nil, err
	}

	var agents []Agent
	if json.Unmarshal(raw, &agents) == nil {
		return agents, nil
	}

	var envelope agentsEnvelope
	if err := decode(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.Agents, nil
}

// CheckRunning verifies that the backend is reachable.
func (c *Client) CheckRunning(ctx context.Context) error {
	_, err := c.ListAgents(ctx)
	if err != nil && !IsRemote(err) {
		return err
	}
	// Any answer, even an error body, means the process is up.
	return nil
}
