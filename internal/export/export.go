// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes session artifacts (the risk report, the transcript)
// to files in Markdown or HTML.
package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/docuscout/docuscout-tui/internal/model"
	"github.com/docuscout/docuscout-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Document is the exportable view of a session: a generated report, a
// transcript, or both.
type Document struct {
	Title     string
	CreatedAt time.Time

	// Report is the raw report markup, present when a report is Ready.
	Report string

	// Transcript is the conversation, when the caller wants it included.
	Transcript *model.Conversation
}

// Exporter converts a document into one output format.
type Exporter interface {
	// Export returns the formatted content.
	Export(doc *Document) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// IncludeMetadata includes a metadata header (title, dates, counts).
	IncludeMetadata bool

	// Theme for HTML export ("light" or "dark").
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes a document to a timestamped file in the output
// directory and returns its path.
func ExportToFile(doc *Document, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("docuscout_%s_%s%s",
		sanitizeFilename(doc.Title), timestamp, exporter.FileExtension())

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// ExportToPath writes a document to an explicit path, picking the exporter
// from the extension (.html or .md).
func ExportToPath(doc *Document, path string, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	var exporter Exporter
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		exporter = NewHTMLExporter(opts)
	case ".md", ".markdown":
		exporter = NewMarkdownExporter(opts)
	default:
		return fmt.Errorf("unsupported export format: %s", path)
	}

	content, err := exporter.Export(doc)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// sanitizeFilename reduces a title to a safe filename fragment.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 40 {
		s = strings.Trim(s[:40], "_")
	}
	if s == "" {
		return "session"
	}
	return s
}

func formatTimestamp(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}
