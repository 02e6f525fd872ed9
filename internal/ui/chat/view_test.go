// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/config"
	"github.com/docuscout/docuscout-tui/internal/docs"
	"github.com/docuscout/docuscout-tui/internal/model"
	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/styles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	client := backend.NewClientWithConfig(cfg.BackendClientConfig())
	ctrl := session.NewController(client)
	m := New(styles.NewTheme("dark"), cfg, ctrl, nil, nil)

	updated, _ := m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func TestResizeMarksReady(t *testing.T) {
	m := newTestModel(t)
	if !m.ready {
		t.Error("model should be ready after a resize")
	}
	if m.View() == "Starting docuscout..." {
		t.Error("ready model should render the full view")
	}
}

func TestRenderUserMessage(t *testing.T) {
	m := newTestModel(t)
	msg := model.NewUserMessage("hello there")
	out := m.renderMessage(&msg)
	if !strings.Contains(out, "hello there") {
		t.Errorf("user message text missing: %q", out)
	}
	if !strings.Contains(out, "You") {
		t.Errorf("sender label missing: %q", out)
	}
}

func TestRenderAssistantMessageShowsAgent(t *testing.T) {
	m := newTestModel(t)
	msg := model.NewAssistantMessage("The clause is standard.", "Consultor")
	out := m.renderMessage(&msg)
	if !strings.Contains(out, "Consultor") {
		t.Errorf("agent attribution missing: %q", out)
	}
}

func TestRenderSystemMessage(t *testing.T) {
	m := newTestModel(t)
	msg := model.NewSystemMessage("The backend request failed.")
	out := m.renderMessage(&msg)
	if !strings.Contains(out, "The backend request failed.") {
		t.Errorf("system text missing: %q", out)
	}
}

func TestRenderReportStates(t *testing.T) {
	m := newTestModel(t)

	if m.renderReport(session.ReportTask{Status: session.ReportIdle}) != "" {
		t.Error("idle report should render nothing")
	}

	running := m.renderReport(session.ReportTask{
		Status:       session.ReportRunning,
		ProgressText: "Analyzing the ingested documents",
	})
	if !strings.Contains(running, "Analyzing the ingested documents") {
		t.Errorf("running report missing progress text: %q", running)
	}

	failed := m.renderReport(session.ReportTask{
		Status:  session.ReportFailed,
		Failure: &session.FailureReason{Message: "index missing", Step: "retrieval"},
	})
	if !strings.Contains(failed, "retrieval") || !strings.Contains(failed, "index missing") {
		t.Errorf("failed report missing step or message: %q", failed)
	}

	ready := m.renderReport(session.ReportTask{
		Status: session.ReportReady,
		Result: "# Findings\n\nAll clear.",
	})
	if !strings.Contains(ready, "Risk Report") {
		t.Errorf("ready report missing title: %q", ready)
	}
}

func TestUnknownSlashCommandSetsNote(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.handleSlashCommand("/bogus")
	m = updated.(Model)
	if !strings.Contains(m.statusNote, "/bogus") {
		t.Errorf("statusNote = %q", m.statusNote)
	}
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	m := newTestModel(t)
	before := len(m.ctrl.Snapshot().Conversation.Messages)

	m.input.SetValue("   ")
	updated, _ := m.submitInput()
	m = updated.(Model)

	after := len(m.ctrl.Snapshot().Conversation.Messages)
	if before != after {
		t.Error("blank input must not append a transcript entry")
	}
}

func TestTranscriptIncludesWelcome(t *testing.T) {
	m := newTestModel(t)
	out := m.renderTranscript(m.ctrl.Snapshot())
	if !strings.Contains(out, "DocuScout") {
		t.Errorf("welcome message missing from transcript: %q", out)
	}
}

func TestCorpusStalenessTracksWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := docs.NewWatcher(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	client := backend.NewClientWithConfig(cfg.BackendClientConfig())
	ctrl := session.NewController(client)
	m := New(styles.NewTheme("dark"), cfg, ctrl, w, nil)
	updated, _ := m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)

	if stale, _ := m.corpusState(ctrl.Snapshot()); stale {
		t.Error("fresh folder reported stale")
	}

	if err := os.WriteFile(filepath.Join(dir, "contract.txt"), []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !w.Stale() {
		if time.Now().After(deadline) {
			t.Fatal("watcher never flagged the write")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if stale, changedAt := m.corpusState(ctrl.Snapshot()); !stale || changedAt.IsZero() {
		t.Error("on-disk change not reflected in corpus state")
	}

	// An observed running-to-idle transition without a failure counts as
	// a completed ingestion and clears the flag.
	m.ingestRunning = true
	if stale, _ := m.corpusState(ctrl.Snapshot()); stale {
		t.Error("completed ingestion did not clear staleness")
	}
	if w.Stale() {
		t.Error("watcher flag not cleared after ingestion")
	}
}
