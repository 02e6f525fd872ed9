// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// ingest.go - One-shot document ingestion.
//
//	docuscout ingest ~/contracts
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// HandleIngestCommand handles the "ingest" command.
func HandleIngestCommand(args Args) error {
	if args.Folder == "" {
		return ErrMissingArgument("folder", "docuscout ingest DIR")
	}

	folder, err := filepath.Abs(args.Folder)
	if err != nil {
		return fmt.Errorf("invalid folder path: %w", err)
	}
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", folder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", folder)
	}

	client, _, err := newBackendClient(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.CheckRunning(ctx); err != nil {
		return wrapBackendErr("backend is not reachable", err)
	}

	if !args.Quiet {
		fmt.Printf("%s %s\n", DimStyle.Render("Ingesting"), folder)
	}

	resp, err := client.Ingest(ctx, folder)
	if err != nil {
		return wrapBackendErr("ingestion failed", err)
	}

	if args.JSON {
		printJSON(resp)
		return nil
	}

	fmt.Printf("%s %s\n", SuccessStyle.Render("[OK]"), resp.Message)
	if resp.SessionID != "" && args.Verbose {
		fmt.Printf("%s %s\n", LabelStyle.Render("Session:"), DimStyle.Render(resp.SessionID))
	}
	return nil
}
