// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
//	docuscout ask "Which contracts renew this quarter?"
//
// Sends a single chat turn to the backend and prints the answer. When
// stdout is a TTY the answer is rendered as terminal markdown; piped
// output gets the raw text.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/config"
)

// markdownRenderer renders backend answers for terminal display.
// Nil when initialization fails; output falls back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a response, markdown-rendered only on a TTY so
// piped output is not corrupted by ANSI sequences.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// newBackendClient loads the configuration and builds the backend client,
// applying the --backend override when given.
func newBackendClient(args Args) (*backend.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if args.Backend != "" {
		cfg.Backend.URL = args.Backend
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return backend.NewClientWithConfig(cfg.BackendClientConfig()), cfg, nil
}

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("question", `docuscout ask "your question"`)
	}

	client, _, err := newBackendClient(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.CheckRunning(ctx); err != nil {
		return wrapBackendErr("backend is not reachable", err)
	}

	if !args.Quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, DimStyle.Render("Thinking..."))
	}

	resp, err := client.Chat(ctx, args.Query, "")
	if err != nil {
		return wrapBackendErr("", err)
	}

	if resp.Agent != "" && !args.Quiet && IsStdoutTTY() {
		fmt.Println(AgentStyle.Render("[" + resp.Agent + "]"))
	}
	displayResponse(resp.Response)

	return nil
}
