// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/docuscout/docuscout-tui/internal/model"
	"github.com/docuscout/docuscout-tui/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports a document to HTML with embedded CSS. Report markup
// goes through the render pipeline, so the output carries no live markup
// from the backend.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a document to HTML.
func (e *HTMLExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if doc.Report == "" && (doc.Transcript == nil || doc.Transcript.IsEmpty()) {
		return nil, fmt.Errorf("document has no content")
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(doc.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"docuscout\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", doc.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(doc.Title)))
		sb.WriteString(fmt.Sprintf("            <p class=\"meta\">Generated %s</p>\n", formatTimestamp(doc.CreatedAt)))
		sb.WriteString("        </header>\n")
	}

	if doc.Report != "" {
		sb.WriteString("        <main class=\"report\">\n")
		sb.WriteString(render.Render(doc.Report).HTML())
		sb.WriteString("        </main>\n")
	}

	if doc.Transcript != nil && !doc.Transcript.IsEmpty() {
		sb.WriteString("        <section class=\"conversation\">\n")
		for _, msg := range doc.Transcript.Messages {
			sb.WriteString(e.renderMessage(msg))
		}
		sb.WriteString("        </section>\n")
	}

	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// renderMessage renders a single transcript entry. Message text runs
// through the render pipeline like report content.
func (e *HTMLExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder

	roleClass := strings.ToLower(msg.Sender.String())
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", roleClass))
	sb.WriteString(fmt.Sprintf("                <div class=\"message-header\">%s</div>\n",
		html.EscapeString(msg.DisplayName())))
	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(render.Render(msg.Text).HTML())
	sb.WriteString("                </div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// getCSS returns the embedded stylesheet.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        :root { --bg: #ffffff; --fg: #1a1a2e; --accent: #0f3460; --border: #dddddd; --code-bg: #f4f4f4; }
        .dark-theme { --bg: #16161e; --fg: #d8dee9; --accent: #88c0d0; --border: #3b4252; --code-bg: #222230; }
        body { background: var(--bg); color: var(--fg); font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; }
        .container { max-width: 840px; margin: 0 auto; padding: 2rem 1rem; }
        .header { border-bottom: 2px solid var(--accent); margin-bottom: 1.5rem; }
        .header .meta { color: var(--accent); font-size: 0.85rem; }
        h1, h2, h3, h4 { color: var(--accent); }
        pre { background: var(--code-bg); border: 1px solid var(--border); border-radius: 6px; padding: 0.75rem; overflow-x: auto; }
        code { background: var(--code-bg); border-radius: 3px; padding: 0.1rem 0.3rem; font-family: "SF Mono", Consolas, monospace; }
        pre code { padding: 0; border: none; }
        .message { border: 1px solid var(--border); border-radius: 8px; margin: 0.75rem 0; padding: 0.5rem 1rem; }
        .message-header { font-weight: 600; color: var(--accent); margin-bottom: 0.25rem; }
        .user-message { border-left: 4px solid var(--accent); }
        .system-message { opacity: 0.8; font-style: italic; }
        hr { border: none; border-top: 1px solid var(--border); }
        a { color: var(--accent); }
    </style>
`
}
