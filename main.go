// docuscout TUI - a terminal client for the DocuScout document-analysis
// backend.
//
// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/cli"
	"github.com/docuscout/docuscout-tui/internal/config"
	"github.com/docuscout/docuscout-tui/internal/docs"
	"github.com/docuscout/docuscout-tui/internal/session"
	"github.com/docuscout/docuscout-tui/internal/ui/chat"
	"github.com/docuscout/docuscout-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdIngest:
		cli.HandleIngest(args)
	case cli.CmdReport:
		cli.HandleReport(args)
	case cli.CmdAgents:
		cli.HandleAgents(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// runTUI starts the full-screen session interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if args.Backend != "" {
		cfg.Backend.URL = args.Backend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	client := backend.NewClientWithConfig(cfg.BackendClientConfig())
	ctrl := session.NewController(client)
	ctrl.StartSession(context.Background())

	// Watch the documents folder so the status bar can flag a corpus
	// that changed since the last ingestion.
	var docsCh chan struct{}
	var watcher *docs.Watcher
	if cfg.Documents.Watch && cfg.Documents.Folder != "" {
		if _, err := os.Stat(cfg.Documents.Folder); err == nil {
			docsCh = make(chan struct{}, 1)
			w, werr := docs.NewWatcher(cfg.Documents.Folder, func() {
				select {
				case docsCh <- struct{}{}:
				default:
				}
			})
			if werr != nil {
				docsCh = nil
			} else {
				watchCtx, cancel := context.WithCancel(context.Background())
				defer cancel()
				if err := w.Start(watchCtx); err != nil {
					w.Close()
					docsCh = nil
				} else {
					defer w.Close()
					watcher = w
				}
			}
		}
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	m := chat.New(theme, cfg, ctrl, watcher, docsCh)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docuscout: %v\n", err)
		os.Exit(1)
	}
}
