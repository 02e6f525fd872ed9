// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docuscout/docuscout-tui/internal/backend"
)

// =============================================================================
// REPORT STATUS
// =============================================================================

// ReportStatus represents the current state of the risk-report task.
type ReportStatus string

const (
	// ReportIdle indicates no report has been requested this session
	ReportIdle ReportStatus = "Idle"

	// ReportRunning indicates generation is in flight
	ReportRunning ReportStatus = "Running"

	// ReportReady indicates the report finished and the result is cached
	ReportReady ReportStatus = "Ready"

	// ReportFailed indicates generation failed; a retry is allowed
	ReportFailed ReportStatus = "Failed"
)

// String returns the string representation of the status.
func (s ReportStatus) String() string {
	return string(s)
}

// FailureReason describes why report generation failed, naming the backend
// processing step when the backend reports one.
type FailureReason struct {
	Message string
	Step    string
}

// ReportTask is the single mutable report slot for one session. It is not
// a queue: a request while Running is rejected and a request while Ready
// returns the cached result.
type ReportTask struct {
	// ID identifies one generation attempt; a retry gets a fresh ID.
	ID string

	Status       ReportStatus
	ProgressText string

	// Result holds the report markup. Non-empty exactly when Ready.
	Result string

	// Failure is set exactly when Failed.
	Failure *FailureReason

	StartedAt  time.Time
	FinishedAt time.Time
}

// ReportOutcome tells the caller how a report request was handled.
type ReportOutcome int

const (
	// ReportStarted: the task entered Running and a backend call is in flight.
	ReportStarted ReportOutcome = iota

	// ReportAlreadyRunning: single-flight rejection, task unchanged.
	ReportAlreadyRunning

	// ReportCached: the task is Ready; the cached result was returned
	// without contacting the backend.
	ReportCached
)

// progressPlaceholder is shown while generation runs.
const progressPlaceholder = "Analyzing the ingested documents and generating the risk report. This can take a few minutes."

// =============================================================================
// REPORT PIPELINE
// =============================================================================

// ReportPipeline owns the report task and runs the long backend call.
type ReportPipeline struct {
	client *backend.Client

	// sessionID supplies the current ingestion session reference at the
	// moment the call is issued.
	sessionID func() string

	mu   sync.Mutex
	task ReportTask

	notify func()
}

// NewReportPipeline creates a pipeline with an Idle task.
func NewReportPipeline(client *backend.Client, sessionID func() string, notify func()) *ReportPipeline {
	if notify == nil {
		notify = func() {}
	}
	if sessionID == nil {
		sessionID = func() string { return "" }
	}
	return &ReportPipeline{
		client:    client,
		sessionID: sessionID,
		task:      ReportTask{Status: ReportIdle},
		notify:    notify,
	}
}

// Request drives the task state machine:
//
//	Idle   -> Running   (starts generation)
//	Running-> Running   (no-op; never more than one outstanding generation)
//	Ready  -> Ready     (cached result, zero backend calls)
//	Failed -> Running   (retry, exactly as from Idle)
//
// The returned task is a snapshot taken after the transition.
func (p *ReportPipeline) Request(ctx context.Context) (ReportTask, ReportOutcome) {
	p.mu.Lock()

	switch p.task.Status {
	case ReportRunning:
		snapshot := p.task
		p.mu.Unlock()
		return snapshot, ReportAlreadyRunning

	case ReportReady:
		snapshot := p.task
		p.mu.Unlock()
		return snapshot, ReportCached
	}

	// Idle or Failed: any prior progress, result, or failure is cleared
	// before re-entering Running.
	p.task = ReportTask{
		ID:           uuid.New().String(),
		Status:       ReportRunning,
		ProgressText: progressPlaceholder,
		StartedAt:    time.Now(),
	}
	snapshot := p.task
	p.mu.Unlock()
	p.notify()

	go p.generate(ctx, snapshot.ID)
	return snapshot, ReportStarted
}

// generate performs the backend call and resolves the task to Ready or
// Failed. The attempt ID guards against a stale continuation writing over
// a later attempt.
func (p *ReportPipeline) generate(ctx context.Context, attemptID string) {
	resp, err := p.client.PredictWarnings(ctx, p.sessionID())

	p.mu.Lock()
	if p.task.ID != attemptID || p.task.Status != ReportRunning {
		p.mu.Unlock()
		return
	}

	switch {
	case err != nil:
		p.task.Status = ReportFailed
		p.task.Failure = failureFrom(err)
	case resp.Report == "":
		p.task.Status = ReportFailed
		p.task.Failure = &FailureReason{Message: "the backend returned an empty report"}
	default:
		p.task.Status = ReportReady
		p.task.Result = resp.Report
	}
	p.task.ProgressText = ""
	p.task.FinishedAt = time.Now()
	p.mu.Unlock()
	p.notify()
}

// Task returns a snapshot of the current task.
func (p *ReportPipeline) Task() ReportTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.task
}

// Result returns the cached report if and only if the task is Ready.
func (p *ReportPipeline) Result() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.task.Status != ReportReady {
		return "", false
	}
	return p.task.Result, true
}

// failureFrom extracts message and step from a gateway error.
func failureFrom(err error) *FailureReason {
	var gwErr *backend.GatewayError
	if errors.As(err, &gwErr) {
		return &FailureReason{Message: gwErr.Message, Step: gwErr.Step}
	}
	return &FailureReason{Message: err.Error()}
}
