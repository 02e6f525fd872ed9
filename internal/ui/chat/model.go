// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/docuscout/docuscout-tui/internal/config"
	"github.com/docuscout/docuscout-tui/internal/docs"
	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/components"
	"github.com/docuscout/docuscout-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the session view. It renders state
// owned by the session controller and translates key presses into
// controller operations; it holds no conversation state of its own.
type Model struct {
	theme *styles.Theme
	cfg   *config.Config

	ctrl   *session.Controller
	events <-chan struct{}

	// watcher tracks documents-folder staleness; docsCh signals its
	// changes. Both are nil when watching is off.
	watcher *docs.Watcher
	docsCh  <-chan struct{}

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spin     components.Spinner
	status   *components.StatusBar
	keyMap   KeyMap

	// Markdown renderer for assistant messages and reports. Nil when
	// initialization fails; rendering falls back to plain text.
	glam *glamour.TermRenderer

	// Layout
	width  int
	height int
	ready  bool

	// View state
	backend components.BackendStatus
	// ingestRunning mirrors the snapshot so a completed ingestion can
	// clear the watcher's stale flag.
	ingestRunning bool
	showHelp      bool
	statusNote    string
}

// New creates the session view around an existing controller. watcher and
// docsCh may be nil when folder watching is disabled.
func New(theme *styles.Theme, cfg *config.Config, ctrl *session.Controller, watcher *docs.Watcher, docsCh <-chan struct{}) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents, or /help for commands"
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	glam, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		glam = nil
	}

	return Model{
		theme:    theme,
		cfg:      cfg,
		ctrl:     ctrl,
		events:   ctrl.Subscribe(),
		watcher:  watcher,
		docsCh:   docsCh,
		viewport: vp,
		input:    ti,
		spin:     components.NewSpinner("Working"),
		status:   components.NewStatusBar(theme),
		keyMap:   DefaultKeyMap(),
		glam:     glam,
		backend:  components.BackendChecking,
	}
}

// Init starts the background listeners and the connectivity probe.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		waitForSessionCmd(m.events),
		checkBackendCmd(m.ctrl),
	}
	if m.docsCh != nil {
		cmds = append(cmds, waitForDocsCmd(m.docsCh))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForSessionCmd blocks on the controller's subscription channel and
// converts each signal into a SessionUpdatedMsg. The Update loop re-arms
// it after every delivery.
func waitForSessionCmd(events <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-events
		return SessionUpdatedMsg{}
	}
}

// waitForDocsCmd blocks on the documents watcher channel.
func waitForDocsCmd(docsCh <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-docsCh
		return DocsChangedMsg{}
	}
}

// checkBackendCmd probes backend connectivity once at startup.
func checkBackendCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return BackendStatusMsg{Err: ctrl.CheckBackend(ctx)}
	}
}
