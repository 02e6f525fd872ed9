// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/docuscout/docuscout-tui/internal/backend"
)

// =============================================================================
// INGEST PIPELINE
// =============================================================================

// IngestState is the observable ingestion state for one session.
type IngestState struct {
	// InProgress is the single-flight guard; a new ingestion request
	// while one runs is rejected.
	InProgress bool

	// SessionID is the backend session reference from the last successful
	// ingestion; the report call carries it.
	SessionID string

	// DocumentCount is parsed from the backend success message when it
	// names one ("Ingested 12 documents").
	DocumentCount int

	// LastMessage is the most recent backend result text.
	LastMessage string

	// Failed reports whether the most recent ingestion ended in error.
	Failed bool
}

// documentCountPattern pulls the count out of the backend success message.
var documentCountPattern = regexp.MustCompile(`(\d+)\s+documents?`)

// IngestPipeline owns ingestion state and runs the long upload call.
// Results are announced into the transcript through the announce callback.
type IngestPipeline struct {
	client *backend.Client

	mu    sync.Mutex
	state IngestState

	announce func(text string)
	notify   func()
}

// NewIngestPipeline creates an idle ingest pipeline.
func NewIngestPipeline(client *backend.Client, announce func(string), notify func()) *IngestPipeline {
	if announce == nil {
		announce = func(string) {}
	}
	if notify == nil {
		notify = func() {}
	}
	return &IngestPipeline{
		client:   client,
		announce: announce,
		notify:   notify,
	}
}

// IngestFolder asks the backend to ingest every document under folder.
// Returns false when an ingestion is already in flight.
func (p *IngestPipeline) IngestFolder(ctx context.Context, folder string) bool {
	if !p.begin("Ingesting documents from " + folder + "...") {
		return false
	}
	go func() {
		resp, err := p.client.Ingest(ctx, folder)
		p.finish(resp, err)
	}()
	return true
}

// IngestFiles uploads individual files. Returns false when an ingestion is
// already in flight.
func (p *IngestPipeline) IngestFiles(ctx context.Context, paths []string) bool {
	if !p.begin(fmt.Sprintf("Uploading %d file(s)...", len(paths))) {
		return false
	}
	go func() {
		resp, err := p.client.IngestFiles(ctx, paths)
		p.finish(resp, err)
	}()
	return true
}

// begin claims the single-flight slot and announces the start.
func (p *IngestPipeline) begin(announcement string) bool {
	p.mu.Lock()
	if p.state.InProgress {
		p.mu.Unlock()
		return false
	}
	p.state.InProgress = true
	p.state.Failed = false
	p.mu.Unlock()

	p.announce(announcement)
	p.notify()
	return true
}

// finish folds the backend result into state and announces the outcome.
func (p *IngestPipeline) finish(resp *backend.IngestResponse, err error) {
	var announcement string

	p.mu.Lock()
	p.state.InProgress = false
	if err != nil {
		announcement = "Ingestion failed. " + userFacing(err)
		p.state.LastMessage = announcement
		p.state.Failed = true
	} else {
		p.state.SessionID = resp.SessionID
		p.state.LastMessage = resp.Message
		if count, ok := parseDocumentCount(resp.Message); ok {
			p.state.DocumentCount = count
		}
		announcement = resp.Message
		if announcement == "" {
			announcement = "Documents ingested successfully."
		}
	}
	p.mu.Unlock()

	p.announce(announcement)
	p.notify()
}

// State returns a snapshot of the ingestion state.
func (p *IngestPipeline) State() IngestState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SessionID returns the backend session reference, empty before the first
// successful ingestion.
func (p *IngestPipeline) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.SessionID
}

// parseDocumentCount extracts "N documents" from a backend message.
func parseDocumentCount(message string) (int, bool) {
	match := documentCountPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	count, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return count, true
}
