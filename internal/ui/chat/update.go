// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionUpdatedMsg:
		m.refreshViews()
		// Re-arm the listener; the channel coalesces, so one pending
		// signal is enough to stay current.
		return m, waitForSessionCmd(m.events)

	case BackendStatusMsg:
		if msg.Err != nil {
			m.backend = components.BackendOffline
		} else {
			m.backend = components.BackendOnline
		}
		m.refreshViews()
		return m, nil

	case DocsChangedMsg:
		// Staleness itself lives in the watcher; re-render picks it up.
		m.refreshViews()
		return m, waitForDocsCmd(m.docsCh)
	}

	// Spinner ticks and input events
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleResize recomputes the layout for a new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.status.SetWidth(msg.Width)

	// Header (3) + input (3) + status bar (1) + spinner line (1)
	contentHeight := msg.Height - 8
	if contentHeight < 3 {
		contentHeight = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = contentHeight
	m.input.Width = msg.Width - 6
	m.ready = true

	m.refreshViews()
	return m, nil
}

// handleKey processes one key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.ctrl.ClearConversation()
		m.refreshViews()
		return m, nil

	case key.Matches(msg, m.keyMap.Report):
		return m.requestReport()

	case key.Matches(msg, m.keyMap.Ingest):
		return m.ingestConfiguredFolder()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput sends the typed text as a chat turn or slash command.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.handleSlashCommand(text)
	}

	if !m.ctrl.SendChatMessage(context.Background(), text) {
		m.statusNote = "A reply is still in flight."
		return m, nil
	}

	m.input.SetValue("")
	m.statusNote = ""
	m.refreshViews()
	return m, m.startSpinner("Waiting for reply")
}

// handleSlashCommand processes a typed slash command.
func (m Model) handleSlashCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(text)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/?":
		m.showHelp = !m.showHelp
		return m, nil

	case "/clear":
		m.ctrl.ClearConversation()
		m.refreshViews()
		return m, nil

	case "/report":
		return m.requestReport()

	case "/ingest":
		if len(rest) > 0 {
			return m.ingestFolder(strings.Join(rest, " "))
		}
		return m.ingestConfiguredFolder()

	case "/quit", "/exit":
		return m, tea.Quit

	default:
		m.statusNote = fmt.Sprintf("Unknown command: %s", command)
		return m, nil
	}
}

// requestReport drives the report state machine.
func (m Model) requestReport() (tea.Model, tea.Cmd) {
	task, outcome := m.ctrl.RequestRiskReport(context.Background())

	switch outcome {
	case session.ReportAlreadyRunning:
		m.statusNote = "Report generation already in progress."
		return m, nil
	case session.ReportCached:
		m.statusNote = "Showing the cached report; clear has no effect on it."
		m.refreshViews()
		return m, nil
	}

	m.statusNote = task.ProgressText
	m.refreshViews()
	return m, m.startSpinner("Generating report")
}

// ingestConfiguredFolder ingests the folder named in the configuration.
func (m Model) ingestConfiguredFolder() (tea.Model, tea.Cmd) {
	return m.ingestFolder(m.cfg.Documents.Folder)
}

// ingestFolder starts a folder ingestion.
func (m Model) ingestFolder(folder string) (tea.Model, tea.Cmd) {
	if !m.ctrl.IngestDocuments(context.Background(), folder) {
		m.statusNote = "An ingestion is already in progress."
		return m, nil
	}
	m.refreshViews()
	return m, m.startSpinner("Ingesting documents")
}

// startSpinner activates the spinner with a message.
func (m *Model) startSpinner(message string) tea.Cmd {
	m.spin.SetMessage(message)
	return m.spin.Start()
}

// refreshViews re-reads the session snapshot into the viewport and the
// status bar, stopping the spinner when nothing is in flight.
func (m *Model) refreshViews() {
	snap := m.ctrl.Snapshot()

	if !snap.Conversation.AwaitingResponse &&
		snap.Report.Status != session.ReportRunning &&
		!snap.Ingest.InProgress {
		m.spin.Stop()
	}

	m.status.SetBackend(m.backend, m.cfg.Backend.URL)
	stale, changedAt := m.corpusState(snap)
	m.status.SetCorpus(snap.Ingest.DocumentCount, stale, changedAt)
	m.status.SetReportStatus(snap.Report.Status)
	m.status.SetAgentCount(len(snap.Agents))

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript(snap))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// corpusState folds the ingest transition into the watcher and reports
// the corpus staleness for the status bar. A successful ingestion clears
// the watcher's stale flag.
func (m *Model) corpusState(snap session.Snapshot) (bool, time.Time) {
	if m.watcher == nil {
		return false, time.Time{}
	}
	if m.ingestRunning && !snap.Ingest.InProgress && !snap.Ingest.Failed {
		m.watcher.MarkIngested()
	}
	m.ingestRunning = snap.Ingest.InProgress
	return m.watcher.Stale(), m.watcher.LastChange()
}
