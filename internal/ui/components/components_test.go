// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/styles"
)

func TestSpinnerInactiveRendersNothing(t *testing.T) {
	s := NewSpinner("Working")
	if s.View() != "" {
		t.Error("inactive spinner should render empty")
	}
}

func TestSpinnerActiveShowsMessage(t *testing.T) {
	s := NewSpinner("Generating report")
	s.Start()
	view := s.View()
	if !strings.Contains(view, "Generating report") {
		t.Errorf("view missing message: %q", view)
	}
	s.Stop()
	if s.IsActive() {
		t.Error("spinner still active after Stop")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m00s"},
		{125 * time.Second, "2m05s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestStatusBarSegments(t *testing.T) {
	theme := styles.NewTheme("dark")
	bar := NewStatusBar(theme)
	bar.SetWidth(120)
	bar.SetBackend(BackendOnline, "http://localhost:8001/api")
	bar.SetCorpus(12, false, time.Time{})
	bar.SetReportStatus(session.ReportReady)
	bar.SetAgentCount(2)

	view := bar.View()
	for _, want := range []string{"backend online", "12 documents", "report: ready", "2 agents"} {
		if !strings.Contains(view, want) {
			t.Errorf("status bar missing %q in %q", want, view)
		}
	}
}

func TestStatusBarStaleCorpus(t *testing.T) {
	theme := styles.NewTheme("dark")
	bar := NewStatusBar(theme)
	bar.SetWidth(120)
	bar.SetCorpus(3, true, time.Time{})
	if !strings.Contains(bar.View(), "changed on disk") {
		t.Error("stale corpus not flagged")
	}

	// With a known change time the segment names it instead.
	changed := time.Date(2026, 8, 28, 15, 4, 0, 0, time.Local)
	bar.SetCorpus(3, true, changed)
	if !strings.Contains(bar.View(), "changed 15:04") {
		t.Error("change time not shown")
	}
}

func TestStatusBarEmptyCorpus(t *testing.T) {
	theme := styles.NewTheme("dark")
	bar := NewStatusBar(theme)
	bar.SetWidth(120)

	if !strings.Contains(bar.View(), "no documents ingested") {
		t.Error("empty corpus not reported")
	}
}

func TestParseCodeBlocksReplacesFences(t *testing.T) {
	text := "before\n```json\n{\"a\": 1}\n```\nafter"
	out := ParseCodeBlocks(text, 80)

	if strings.Contains(out, "```") {
		t.Error("fence markers should be consumed")
	}
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Error("surrounding text should pass through")
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	text := "```\ncode line"
	out := ParseCodeBlocks(text, 80)
	if !strings.Contains(out, "code line") {
		t.Error("unclosed fence content should still render")
	}
}

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m text"
	if got := stripANSI(in); got != "red text" {
		t.Errorf("stripANSI = %q", got)
	}
}
