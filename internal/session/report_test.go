// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docuscout/docuscout-tui/internal/backend"
)

func reportServer(t *testing.T, calls *int32, body map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		json.NewEncoder(w).Encode(body)
	}))
}

func newReportPipeline(url string) *ReportPipeline {
	client := backend.NewClientWithConfig(&backend.Config{BaseURL: url})
	return NewReportPipeline(client, func() string { return "sess_1" }, nil)
}

func TestReportIdleToReady(t *testing.T) {
	var calls int32
	server := reportServer(t, &calls, map[string]any{"success": true, "report": "# Done"})
	defer server.Close()

	p := newReportPipeline(server.URL)

	task, outcome := p.Request(context.Background())
	if outcome != ReportStarted {
		t.Fatalf("Expected start from Idle, got %v", outcome)
	}
	if task.Status != ReportRunning || task.ProgressText == "" {
		t.Errorf("Running task should carry the progress placeholder, got %+v", task)
	}

	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportReady })

	final := p.Task()
	if final.Result != "# Done" {
		t.Errorf("Expected cached result, got %q", final.Result)
	}
	if final.ProgressText != "" {
		t.Error("Progress text should clear on completion")
	}
	if final.Failure != nil {
		t.Error("Ready task must not carry a failure reason")
	}
}

func TestReportIdempotentCaching(t *testing.T) {
	var calls int32
	server := reportServer(t, &calls, map[string]any{"success": true, "report": "# Done"})
	defer server.Close()

	p := newReportPipeline(server.URL)

	p.Request(context.Background())
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportReady })

	task, outcome := p.Request(context.Background())
	if outcome != ReportCached {
		t.Fatalf("Second request after success should hit the cache, got %v", outcome)
	}
	if task.Result != "# Done" {
		t.Errorf("Cached request should return the identical result, got %q", task.Result)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly 1 network call, got %d", got)
	}
}

func TestReportSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		json.NewEncoder(w).Encode(map[string]any{"success": true, "report": "# Done"})
	}))
	defer server.Close()

	p := newReportPipeline(server.URL)

	first, _ := p.Request(context.Background())
	second, outcome := p.Request(context.Background())

	if outcome != ReportAlreadyRunning {
		t.Fatalf("Request while Running should be rejected, got %v", outcome)
	}
	if second.Status != ReportRunning || second.ProgressText != first.ProgressText {
		t.Error("Rejected request must leave status and progress text unchanged")
	}

	close(release)
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportReady })

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected exactly 1 network call, got %d", got)
	}
}

func TestReportFailureCarriesStep(t *testing.T) {
	var calls int32
	server := reportServer(t, &calls, map[string]any{
		"success": false,
		"error":   "index missing",
		"step":    "retrieval",
	})
	defer server.Close()

	p := newReportPipeline(server.URL)

	p.Request(context.Background())
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportFailed })

	task := p.Task()
	if task.Failure == nil {
		t.Fatal("Failed task must carry a failure reason")
	}
	if task.Failure.Message != "index missing" || task.Failure.Step != "retrieval" {
		t.Errorf("Expected message and step preserved, got %+v", task.Failure)
	}
	if task.Result != "" {
		t.Error("Failed task must not carry a result")
	}
	if _, ok := p.Result(); ok {
		t.Error("Result must be unavailable unless Ready")
	}
}

func TestReportRetryAfterFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "index missing"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "report": "# Recovered"})
	}))
	defer server.Close()

	p := newReportPipeline(server.URL)

	p.Request(context.Background())
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportFailed })

	retry, outcome := p.Request(context.Background())
	if outcome != ReportStarted {
		t.Fatalf("Retry from Failed should start, got %v", outcome)
	}
	if retry.Failure != nil || retry.Result != "" {
		t.Error("Re-entering Running must clear prior result and failure")
	}

	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportReady })
	if got, _ := p.Result(); got != "# Recovered" {
		t.Errorf("Expected recovered report, got %q", got)
	}
}

func TestReportTimeoutFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := backend.NewClientWithConfig(&backend.Config{
		BaseURL:      server.URL,
		ShortTimeout: 50 * time.Millisecond,
		LongTimeout:  50 * time.Millisecond,
	})
	p := NewReportPipeline(client, nil, nil)

	p.Request(context.Background())
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportFailed })

	if p.Task().Failure == nil {
		t.Error("Timeout must resolve the task to Failed with a reason, never leave it Running")
	}
}

func TestReportEmptyResultFails(t *testing.T) {
	var calls int32
	server := reportServer(t, &calls, map[string]any{"success": true, "report": ""})
	defer server.Close()

	p := newReportPipeline(server.URL)

	p.Request(context.Background())
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportFailed })

	// Result non-empty iff Ready: an empty report cannot become Ready.
	if _, ok := p.Result(); ok {
		t.Error("Empty report must not be treated as Ready")
	}
}

func TestReportSendsSessionReference(t *testing.T) {
	var gotSession string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.ReportRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotSession = req.SessionID
		json.NewEncoder(w).Encode(map[string]any{"success": true, "report": "# Done"})
	}))
	defer server.Close()

	p := newReportPipeline(server.URL)
	p.Request(context.Background())
	waitFor(t, 2*time.Second, func() bool { return p.Task().Status == ReportReady })

	if gotSession != "sess_1" {
		t.Errorf("Report call should carry the ingestion session reference, got %q", gotSession)
	}
}
