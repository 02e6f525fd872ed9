// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/styles"
	"github.com/docuscout/docuscout-tui/internal/util"
)

// =============================================================================
// BACKEND STATUS
// =============================================================================

// BackendStatus describes connectivity to the DocuScout backend.
type BackendStatus int

const (
	BackendChecking BackendStatus = iota
	BackendOnline
	BackendOffline
)

// String returns the status label.
func (s BackendStatus) String() string {
	switch s {
	case BackendOnline:
		return "online"
	case BackendOffline:
		return "offline"
	default:
		return "checking"
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows session state at the bottom of the TUI: backend
// connectivity, corpus size, report status, and the loaded agents.
type StatusBar struct {
	theme *styles.Theme
	width int

	backend    BackendStatus
	backendURL string

	documentCount int
	corpusStale   bool
	corpusChanged time.Time

	reportStatus session.ReportStatus
	agentCount   int
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		theme:        theme,
		backend:      BackendChecking,
		reportStatus: session.ReportIdle,
	}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetBackend records backend connectivity and the URL being probed.
func (s *StatusBar) SetBackend(status BackendStatus, url string) {
	s.backend = status
	s.backendURL = url
}

// SetCorpus records the ingested document count and staleness. changedAt
// is the time of the last on-disk change; zero when unknown.
func (s *StatusBar) SetCorpus(documentCount int, stale bool, changedAt time.Time) {
	s.documentCount = documentCount
	s.corpusStale = stale
	s.corpusChanged = changedAt
}

// SetReportStatus records the report task state.
func (s *StatusBar) SetReportStatus(status session.ReportStatus) {
	s.reportStatus = status
}

// SetAgentCount records how many backend agents are loaded.
func (s *StatusBar) SetAgentCount(n int) {
	s.agentCount = n
}

// View renders the status bar for the current width.
func (s *StatusBar) View() string {
	segments := []string{s.backendSegment(), s.corpusSegment(), s.reportSegment()}
	if s.width >= 80 && s.agentCount > 0 {
		segments = append(segments, s.theme.StatusSegment.Render(
			fmt.Sprintf("%d agents", s.agentCount)))
	}

	sep := s.theme.Help.Render(" | ")
	line := strings.Join(segments, sep)
	line = truncateToWidth(line, s.width)

	return s.theme.StatusBar.Width(s.width).Render(line)
}

// backendSegment renders backend connectivity.
func (s *StatusBar) backendSegment() string {
	var badge string
	switch s.backend {
	case BackendOnline:
		badge = s.theme.StatusOK.Render("backend " + s.backend.String())
	case BackendOffline:
		badge = s.theme.StatusError.Render("backend " + s.backend.String())
	default:
		badge = s.theme.StatusBusy.Render("backend " + s.backend.String())
	}
	return badge
}

// corpusSegment renders the ingested corpus state.
func (s *StatusBar) corpusSegment() string {
	if s.documentCount == 0 {
		return s.theme.StatusSegment.Render("no documents ingested")
	}
	text := fmt.Sprintf("%d documents", s.documentCount)
	if s.corpusStale {
		note := " (changed on disk)"
		if !s.corpusChanged.IsZero() {
			note = fmt.Sprintf(" (changed %s)", s.corpusChanged.Format("15:04"))
		}
		return s.theme.StatusStale.Render(text + note)
	}
	return s.theme.StatusSegment.Render(text)
}

// reportSegment renders the report task state.
func (s *StatusBar) reportSegment() string {
	switch s.reportStatus {
	case session.ReportRunning:
		return s.theme.StatusBusy.Render("report: running")
	case session.ReportReady:
		return s.theme.StatusOK.Render("report: ready")
	case session.ReportFailed:
		return s.theme.StatusError.Render("report: failed")
	default:
		return s.theme.StatusSegment.Render("report: none")
	}
}

// truncateToWidth trims a styled line to the terminal width, accounting
// for wide runes.
func truncateToWidth(line string, width int) string {
	if width <= 0 || lipgloss.Width(line) <= width {
		return line
	}
	// Strip styling before truncation; a cut ANSI sequence corrupts
	// the terminal.
	return util.TruncateWidth(stripANSI(line), width)
}

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
