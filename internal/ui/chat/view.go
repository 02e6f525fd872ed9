// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docuscout/docuscout-tui/internal/model"
	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/components"
)

// View renders the whole session view.
func (m Model) View() string {
	if !m.ready {
		return "Starting docuscout..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.spin.IsActive() {
		b.WriteString(m.spin.View())
	} else if m.statusNote != "" {
		b.WriteString(m.theme.Help.Render(m.statusNote))
	}
	b.WriteString("\n")

	b.WriteString(m.theme.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelp())
		b.WriteString("\n")
	}

	b.WriteString(m.status.View())
	return b.String()
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("DocuScout")
	subtitle := m.theme.HeaderSubtitle.Render("document analysis session")
	return m.theme.Header.Width(m.width - 2).Render(title + " " + subtitle)
}

// renderHelp renders the key binding summary.
func (m Model) renderHelp() string {
	entries := []string{
		"Enter send",
		"C-r report",
		"C-o ingest",
		"C-l clear",
		"PgUp/PgDn scroll",
		"C-g help",
		"C-c quit",
		"/ingest DIR, /report, /clear, /quit",
	}
	return m.theme.Help.Render(strings.Join(entries, "  "))
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript renders the conversation and, when one exists, the
// report task below it.
func (m Model) renderTranscript(snap session.Snapshot) string {
	var parts []string

	for i := range snap.Conversation.Messages {
		parts = append(parts, m.renderMessage(&snap.Conversation.Messages[i]))
	}

	if block := m.renderReport(snap.Report); block != "" {
		parts = append(parts, block)
	}

	return strings.Join(parts, "\n\n")
}

// renderMessage renders one transcript entry as a styled bubble.
func (m Model) renderMessage(msg *model.Message) string {
	maxWidth := m.width - 10
	if maxWidth < 20 {
		maxWidth = 20
	}

	label := m.theme.SenderLabel.Render(msg.DisplayName())
	timestamp := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	switch msg.Sender {
	case model.SenderUser:
		bubble := m.theme.UserBubble.MaxWidth(maxWidth).Render(msg.Text)
		header := lipgloss.NewStyle().MarginLeft(4).Render(label + " " + timestamp)
		return header + "\n" + bubble

	case model.SenderAssistant:
		body := m.renderAssistantBody(msg.Text, maxWidth)
		bubble := m.theme.AssistantBubble.MaxWidth(maxWidth).Render(body)
		header := label + " " + timestamp
		if msg.Agent != "" {
			header = m.theme.AgentTag.Render(msg.Agent) + " " + timestamp
		}
		return header + "\n" + bubble

	default:
		bubble := m.theme.SystemBubble.MaxWidth(maxWidth).Render(msg.Text)
		return label + " " + timestamp + "\n" + bubble
	}
}

// renderAssistantBody renders assistant markdown for the terminal, with
// fenced code blocks syntax-highlighted.
func (m Model) renderAssistantBody(text string, maxWidth int) string {
	if m.glam != nil {
		if rendered, err := m.glam.Render(text); err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return components.ParseCodeBlocks(text, maxWidth)
}

// renderReport renders the report task block. Empty when Idle.
func (m Model) renderReport(task session.ReportTask) string {
	switch task.Status {
	case session.ReportRunning:
		return m.theme.ReportProgress.Render(task.ProgressText)

	case session.ReportFailed:
		text := "Report generation failed"
		if task.Failure != nil {
			if task.Failure.Step != "" {
				text = fmt.Sprintf("Report generation failed at step '%s': %s",
					task.Failure.Step, task.Failure.Message)
			} else {
				text = "Report generation failed: " + task.Failure.Message
			}
		}
		return m.theme.ErrorText.Render(text)

	case session.ReportReady:
		title := m.theme.ReportTitle.Render("Risk Report")
		body := m.renderAssistantBody(task.Result, m.width-6)
		return title + "\n" + body

	default:
		return ""
	}
}
