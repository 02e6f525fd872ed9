// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strconv"
	"strings"
)

// =============================================================================
// FRAGMENT TREE
// =============================================================================

// Node is one element of a rendered fragment tree. Text content inside the
// tree is stored already escaped, so serializers write it verbatim and the
// presentation layer cannot reintroduce raw markup.
type Node interface {
	writeHTML(sb *strings.Builder)
}

// Fragment is the rendered output: an ordered sequence of block nodes.
type Fragment []Node

// HTML serializes the fragment. Safe by construction: every Text node was
// escaped when the tree was built, and attribute values are escaped here.
func (f Fragment) HTML() string {
	var sb strings.Builder
	for _, node := range f {
		node.writeHTML(&sb)
	}
	return sb.String()
}

// IsEmpty returns true if the fragment has no nodes.
func (f Fragment) IsEmpty() bool {
	return len(f) == 0
}

// =============================================================================
// BLOCK NODES
// =============================================================================

// Heading is a header element, level 1 through 4.
type Heading struct {
	Level    int
	Children []Node
}

func (h Heading) writeHTML(sb *strings.Builder) {
	tag := "h" + strconv.Itoa(h.Level)
	sb.WriteString("<" + tag + ">")
	writeAll(sb, h.Children)
	sb.WriteString("</" + tag + ">\n")
}

// Paragraph is a run of inline content between blank lines.
type Paragraph struct {
	Children []Node
}

func (p Paragraph) writeHTML(sb *strings.Builder) {
	sb.WriteString("<p>")
	writeAll(sb, p.Children)
	sb.WriteString("</p>\n")
}

// CodeBlock is a fenced preformatted block. Code holds the escaped body
// verbatim, markers and all; no inline rule ever ran inside it.
type CodeBlock struct {
	Language string
	Code     string
}

func (c CodeBlock) writeHTML(sb *strings.Builder) {
	sb.WriteString("<pre><code")
	if c.Language != "" {
		sb.WriteString(` class="language-` + escapeAttr(c.Language) + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(c.Code)
	sb.WriteString("</code></pre>\n")
}

// Rule is a horizontal divider.
type Rule struct{}

func (Rule) writeHTML(sb *strings.Builder) {
	sb.WriteString("<hr>\n")
}

// List groups consecutive item lines into one container.
type List struct {
	Ordered bool
	Items   []ListItem
}

// ListItem is one item's inline content.
type ListItem struct {
	Children []Node
}

func (l List) writeHTML(sb *strings.Builder) {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	sb.WriteString("<" + tag + ">\n")
	for _, item := range l.Items {
		sb.WriteString("<li>")
		writeAll(sb, item.Children)
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</" + tag + ">\n")
}

// =============================================================================
// INLINE NODES
// =============================================================================

// Text is a literal run. Content is already escaped.
type Text struct {
	Content string
}

func (t Text) writeHTML(sb *strings.Builder) {
	sb.WriteString(t.Content)
}

// Strong is double-marker emphasis.
type Strong struct {
	Children []Node
}

func (s Strong) writeHTML(sb *strings.Builder) {
	sb.WriteString("<strong>")
	writeAll(sb, s.Children)
	sb.WriteString("</strong>")
}

// Emphasis is single-marker emphasis.
type Emphasis struct {
	Children []Node
}

func (e Emphasis) writeHTML(sb *strings.Builder) {
	sb.WriteString("<em>")
	writeAll(sb, e.Children)
	sb.WriteString("</em>")
}

// InlineCode is a single-backtick span. Code is already escaped and is
// never re-parsed for markers.
type InlineCode struct {
	Code string
}

func (c InlineCode) writeHTML(sb *strings.Builder) {
	sb.WriteString("<code>")
	sb.WriteString(c.Code)
	sb.WriteString("</code>")
}

// Link is an inert label+href pair. It always opens in a new browsing
// context without granting the opened page access back to the opener.
type Link struct {
	Label string
	URL   string
}

func (l Link) writeHTML(sb *strings.Builder) {
	sb.WriteString(`<a href="` + escapeAttr(l.URL) + `" target="_blank" rel="noopener noreferrer">`)
	sb.WriteString(l.Label)
	sb.WriteString("</a>")
}

// LineBreak is a single newline inside a paragraph.
type LineBreak struct{}

func (LineBreak) writeHTML(sb *strings.Builder) {
	sb.WriteString("<br>\n")
}

// =============================================================================
// HELPERS
// =============================================================================

func writeAll(sb *strings.Builder, nodes []Node) {
	for _, node := range nodes {
		node.writeHTML(sb)
	}
}

// escapeAttr hardens a value for use inside a quoted attribute. The text
// rules escaped &, < and > already; quotes must not terminate the attribute.
func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return strings.ReplaceAll(s, "'", "&#39;")
}
