// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "strings"

// =============================================================================
// RENDER PIPELINE
// =============================================================================

// Render converts a constrained markup subset into a safe fragment tree.
// It is pure and total: it never fails, and malformed input degrades to
// literal text. Rules run in a fixed order; escaping runs before every
// other rule, so no downstream rule can be used to inject raw markup.
func Render(source string) Fragment {
	if source == "" {
		return Fragment{}
	}

	// Rule 1: escape the HTML-significant characters before anything else.
	escaped := escapeText(source)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")

	lines := strings.Split(escaped, "\n")
	p := &blockParser{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// Fenced code blocks shield their body from every later rule,
		// so they are claimed before any line-level rule runs.
		if strings.HasPrefix(trimmed, "```") {
			end := findClosingFence(lines, i+1)
			if end < 0 {
				// Unclosed fence stays literal.
				p.addText(line)
				continue
			}
			p.flush()
			p.out = append(p.out, CodeBlock{
				Language: strings.TrimSpace(strings.TrimPrefix(trimmed, "```")),
				Code:     strings.Join(lines[i+1:end], "\n"),
			})
			i = end
			continue
		}

		if level, rest, ok := parseHeading(trimmed); ok {
			p.flush()
			p.out = append(p.out, Heading{Level: level, Children: parseInline(rest)})
			continue
		}

		if trimmed == "---" {
			p.flush()
			p.out = append(p.out, Rule{})
			continue
		}

		if item, ordered, ok := parseListItem(trimmed); ok {
			p.addItem(item, ordered)
			continue
		}

		if trimmed == "" {
			p.flush()
			continue
		}

		p.addText(line)
	}

	p.flush()
	return p.out
}

// escapeText rewrites the three HTML-significant characters. Ampersand goes
// first so the other replacements are not double-escaped.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// findClosingFence returns the index of the closing ``` line, or -1.
func findClosingFence(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "```" {
			return i
		}
	}
	return -1
}

// parseHeading matches a line of 1 to 4 leading # markers plus a space.
// Five or more markers are not a heading and stay literal.
func parseHeading(line string) (level int, rest string, ok bool) {
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level < 1 || level > 4 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}

// parseListItem matches "* ", "- ", or "N. " item lines.
func parseListItem(line string) (content string, ordered bool, ok bool) {
	if len(line) >= 2 && (line[0] == '*' || line[0] == '-') && line[1] == ' ' {
		return strings.TrimSpace(line[2:]), false, true
	}
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits+1 < len(line) && line[digits] == '.' && line[digits+1] == ' ' {
		return strings.TrimSpace(line[digits+2:]), true, true
	}
	return "", false, false
}

// =============================================================================
// BLOCK ACCUMULATION
// =============================================================================

// blockParser groups consecutive text lines into paragraphs and consecutive
// item lines into one list container each.
type blockParser struct {
	out       Fragment
	paraLines []string
	items     []ListItem
	ordered   bool
}

func (p *blockParser) addText(line string) {
	p.flushList()
	p.paraLines = append(p.paraLines, line)
}

func (p *blockParser) addItem(content string, ordered bool) {
	p.flushPara()
	if len(p.items) == 0 {
		p.ordered = ordered
	}
	p.items = append(p.items, ListItem{Children: parseInline(content)})
}

func (p *blockParser) flush() {
	p.flushPara()
	p.flushList()
}

func (p *blockParser) flushPara() {
	if len(p.paraLines) == 0 {
		return
	}
	var children []Node
	for i, line := range p.paraLines {
		if i > 0 {
			// Single line breaks inside a paragraph stay line breaks,
			// not new paragraphs.
			children = append(children, LineBreak{})
		}
		children = append(children, parseInline(strings.TrimSpace(line))...)
	}
	p.out = append(p.out, Paragraph{Children: children})
	p.paraLines = nil
}

func (p *blockParser) flushList() {
	if len(p.items) == 0 {
		return
	}
	p.out = append(p.out, List{Ordered: p.ordered, Items: p.items})
	p.items = nil
}

// =============================================================================
// INLINE RULES
// =============================================================================

// parseInline scans one run of escaped text for inline spans. Double
// markers take precedence over single ones, and unbalanced markers are
// left as literal characters rather than producing malformed structure.
func parseInline(s string) []Node {
	var nodes []Node
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			nodes = append(nodes, Text{Content: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**"):
			inner, end := spanBody(s, i+2, "**")
			if end < 0 {
				literal.WriteString("**")
				i += 2
				continue
			}
			flush()
			nodes = append(nodes, Strong{Children: parseInline(inner)})
			i = end

		case s[i] == '*':
			inner, end := spanBody(s, i+1, "*")
			if end < 0 {
				literal.WriteByte('*')
				i++
				continue
			}
			flush()
			nodes = append(nodes, Emphasis{Children: parseInline(inner)})
			i = end

		case s[i] == '`':
			inner, end := spanBody(s, i+1, "`")
			if end < 0 {
				literal.WriteByte('`')
				i++
				continue
			}
			flush()
			nodes = append(nodes, InlineCode{Code: inner})
			i = end

		case s[i] == '[':
			label, url, end := parseLink(s, i)
			if end < 0 {
				literal.WriteByte('[')
				i++
				continue
			}
			if !safeLinkTarget(url) {
				// javascript: and friends must never reach an href.
				literal.WriteString(s[i:end])
				i = end
				continue
			}
			flush()
			nodes = append(nodes, Link{Label: label, URL: url})
			i = end

		default:
			literal.WriteByte(s[i])
			i++
		}
	}

	flush()
	return nodes
}

// spanBody finds the closing marker for a span opened at from. Returns the
// non-empty body and the index just past the closing marker, or -1.
func spanBody(s string, from int, marker string) (string, int) {
	rel := strings.Index(s[from:], marker)
	if rel <= 0 {
		return "", -1
	}
	return s[from : from+rel], from + rel + len(marker)
}

// parseLink matches [label](url) starting at the opening bracket. Returns
// -1 when the shape is incomplete, leaving the bracket literal.
func parseLink(s string, from int) (label, url string, end int) {
	sep := strings.Index(s[from:], "](")
	if sep <= 0 {
		return "", "", -1
	}
	label = s[from+1 : from+sep]
	urlStart := from + sep + 2
	closeParen := strings.Index(s[urlStart:], ")")
	if closeParen <= 0 {
		return "", "", -1
	}
	return label, s[urlStart : urlStart+closeParen], urlStart + closeParen + 1
}

// safeLinkTarget reports whether a link destination stays inert inside an
// href attribute: http, https, mailto, or a relative reference carrying no
// scheme at all. Anything else (javascript:, data:, vbscript:, unknown
// schemes) is rejected and the construct stays literal text.
func safeLinkTarget(url string) bool {
	lower := strings.ToLower(strings.TrimSpace(url))
	for _, prefix := range []string{"http://", "https://", "mailto:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	// A relative reference has no ':' before its first path delimiter.
	if i := strings.IndexAny(lower, ":/?#"); i < 0 || lower[i] != ':' {
		return true
	}
	return false
}
