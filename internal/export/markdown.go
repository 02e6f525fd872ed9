// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/docuscout/docuscout-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports a document to Markdown. The report body is the
// backend's own markup and is written verbatim; the transcript is wrapped
// in sender headings.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a document to Markdown.
func (e *MarkdownExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if doc.Report == "" && (doc.Transcript == nil || doc.Transcript.IsEmpty()) {
		return nil, fmt.Errorf("document has no content")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(doc.Title)))
		sb.WriteString(fmt.Sprintf("date: %s\n", doc.CreatedAt.Format(time.RFC3339)))
		if doc.Transcript != nil {
			sb.WriteString(fmt.Sprintf("messages: %d\n", doc.Transcript.MessageCount()))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: docuscout\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", doc.Title))

	if doc.Report != "" {
		sb.WriteString(doc.Report)
		if !strings.HasSuffix(doc.Report, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if doc.Transcript != nil && !doc.Transcript.IsEmpty() {
		sb.WriteString("## Conversation\n\n")
		for _, msg := range doc.Transcript.Messages {
			sb.WriteString(e.renderMessage(msg))
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// renderMessage renders a single transcript entry.
func (e *MarkdownExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### %s\n\n", msg.DisplayName()))
	sb.WriteString(msg.Text)
	sb.WriteString("\n\n")
	return sb.String()
}

// escapeYAML quotes a value when it could break the frontmatter.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n") {
		return fmt.Sprintf("%q", strings.ReplaceAll(s, "\n", " "))
	}
	return s
}
