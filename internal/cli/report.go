// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// report.go - Risk report generation.
//
//	docuscout report                # print to the terminal
//	docuscout report --out risk.html
//
// Report generation runs the backend's multi-step analysis pipeline and
// can take a few minutes; it uses the long request budget.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docuscout/docuscout-tui/internal/export"
)

// HandleReportCommand handles the "report" command.
func HandleReportCommand(args Args) error {
	client, cfg, err := newBackendClient(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.CheckRunning(ctx); err != nil {
		return wrapBackendErr("backend is not reachable", err)
	}

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, DimStyle.Render(
			"Generating the risk report. This can take a few minutes."))
	}

	// A one-shot report has no prior ingestion in this process; the
	// backend falls back to its current corpus when the session is empty.
	resp, err := client.PredictWarnings(ctx, "")
	if err != nil {
		return wrapBackendErr("report generation failed", err)
	}
	if resp.Report == "" {
		return fmt.Errorf("report generation failed: the backend returned an empty report")
	}

	if args.OutFile != "" {
		doc := &export.Document{
			Title:     "Risk Report",
			CreatedAt: time.Now(),
			Report:    resp.Report,
		}
		opts := export.DefaultOptions()
		// "auto" only makes sense in the terminal; exported files get dark.
		if cfg.UI.Theme == "light" {
			opts.Theme = "light"
		}
		if err := export.ExportToPath(doc, args.OutFile, opts); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if !args.Quiet {
			fmt.Printf("%s report written to %s\n", SuccessStyle.Render("[OK]"), args.OutFile)
		}
		return nil
	}

	displayResponse(resp.Report)
	return nil
}
