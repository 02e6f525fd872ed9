// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"testing"

	"github.com/docuscout/docuscout-tui/internal/backend"
)

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{
		"-q", "--backend", "http://localhost:9000/api", "ask", "hello",
	})

	if !args.Quiet {
		t.Error("expected Quiet to be set")
	}
	if args.Backend != "http://localhost:9000/api" {
		t.Errorf("Backend = %q", args.Backend)
	}
	if len(remaining) != 2 || remaining[0] != "ask" || remaining[1] != "hello" {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseGlobalFlagsEqualsForm(t *testing.T) {
	_, args := parseGlobalFlags([]string{"--backend=http://example.com/api"})
	if args.Backend != "http://example.com/api" {
		t.Errorf("Backend = %q", args.Backend)
	}
}

func TestParseAskArgsJoinsQuery(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"which", "contracts", "renew"})
	if args.Query != "which contracts renew" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseReportArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"separate flag", []string{"--out", "risk.html"}, "risk.html"},
		{"equals form", []string{"--out=risk.md"}, "risk.md"},
		{"short flag", []string{"-o", "r.html"}, "r.html"},
		{"absent", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args Args
			parseReportArgs(&args, tt.in)
			if args.OutFile != tt.want {
				t.Errorf("OutFile = %q, want %q", args.OutFile, tt.want)
			}
		})
	}
}

func TestParseIngestArgsSkipsFlags(t *testing.T) {
	var args Args
	parseIngestArgs(&args, []string{"--something", "/tmp/docs"})
	if args.Folder != "/tmp/docs" {
		t.Errorf("Folder = %q", args.Folder)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", ErrMissingArgument("folder", "docuscout ingest DIR"), ExitUsageError},
		{"timeout", &backend.GatewayError{Kind: backend.KindTimeout, Message: "budget expired"}, ExitTimeoutError},
		{"unreachable", &backend.GatewayError{Kind: backend.KindUnreachable, Message: "refused"}, ExitUnreachableError},
		{"remote", &backend.GatewayError{Kind: backend.KindRemote, Message: "index missing"}, ExitBackendError},
		{"wrapped gateway", fmt.Errorf("report generation failed: %w",
			&backend.GatewayError{Kind: backend.KindTimeout}), ExitTimeoutError},
		{"generic", fmt.Errorf("boom"), ExitGeneralError},
		{"handler timeout", wrapBackendErr("report generation failed",
			&backend.GatewayError{Kind: backend.KindTimeout, Message: "budget expired"}), ExitTimeoutError},
		{"handler unreachable", wrapBackendErr("backend is not reachable",
			&backend.GatewayError{Kind: backend.KindUnreachable, Message: "refused"}), ExitUnreachableError},
		{"handler remote", wrapBackendErr("ingestion failed",
			&backend.GatewayError{Kind: backend.KindRemote, Message: "index missing"}), ExitBackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapBackendErrKeepsFriendlyMessage(t *testing.T) {
	gw := &backend.GatewayError{Kind: backend.KindUnreachable, Message: "refused"}
	err := wrapBackendErr("backend is not reachable", gw)

	want := "backend is not reachable: " + gw.UserMessage()
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	// No prefix: the friendly message stands alone.
	bare := wrapBackendErr("", gw)
	if bare.Error() != gw.UserMessage() {
		t.Errorf("Error() = %q, want %q", bare.Error(), gw.UserMessage())
	}
}

func TestUsageErrorIncludesUsageLine(t *testing.T) {
	err := ErrMissingArgument("question", `docuscout ask "your question"`)
	want := "missing required argument: question\nUsage: docuscout ask \"your question\""
	if err.Error() != want {
		t.Errorf("Error() = %q", err.Error())
	}
}
