// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL without the TUI.
//
//	docuscout chat
//
// A plain-terminal conversation loop with input history and slash
// commands. Runs on the same session controller as the TUI, so chat,
// ingestion, and report generation behave identically in both surfaces.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/docuscout/docuscout-tui/internal/config"
	"github.com/docuscout/docuscout-tui/internal/model"
	"github.com/docuscout/docuscout-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the config dir.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt. Non-empty input
// is added to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	client, cfg, err := newBackendClient(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.CheckRunning(ctx); err != nil {
		return wrapBackendErr(
			fmt.Sprintf("backend is not reachable at %s", cfg.Backend.URL), err)
	}

	ctrl := session.NewController(client)
	ctrl.StartSession(ctx)
	events := ctrl.Subscribe()

	input := NewChatCLI()
	defer input.Close()

	if !args.Quiet {
		printChatWelcome(cfg)
	}

	// The welcome message is already in the transcript; everything after
	// it gets printed as it arrives.
	printed := len(ctrl.Snapshot().Conversation.Messages)

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C, Ctrl+D, or a read error all end the session.
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			keepGoing, err := handleSlashCommand(ctx, line, ctrl, events, &printed)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		if !ctrl.SendChatMessage(ctx, line) {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("[Busy]")+" a reply is still in flight")
			continue
		}

		waitForSession(ctrl, events, func(s session.Snapshot) bool {
			return !s.Conversation.AwaitingResponse
		})
		printed = printNewMessages(ctrl, printed)
	}
}

// waitForSession blocks until the predicate holds for a fresh snapshot.
// The subscription channel coalesces signals, so the predicate is
// re-checked on every wakeup.
func waitForSession(ctrl *session.Controller, events <-chan struct{}, done func(session.Snapshot) bool) {
	for {
		if done(ctrl.Snapshot()) {
			return
		}
		<-events
	}
}

// printNewMessages prints transcript entries past the printed watermark
// and returns the new watermark.
func printNewMessages(ctrl *session.Controller, printed int) int {
	msgs := ctrl.Snapshot().Conversation.Messages
	for ; printed < len(msgs); printed++ {
		printMessage(msgs[printed])
	}
	return printed
}

// printMessage prints one transcript entry with sender attribution.
func printMessage(msg model.Message) {
	switch msg.Sender {
	case model.SenderAssistant:
		fmt.Println(AgentStyle.Render("[" + msg.DisplayName() + "]"))
		displayResponse(msg.Text)
	case model.SenderSystem:
		fmt.Printf("%s %s\n", InfoStyle.Render("[System]"), msg.Text)
	default:
		// User input was just typed; echoing it back is noise.
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes a slash command. Returns false when the
// session should end.
func handleSlashCommand(ctx context.Context, cmd string, ctrl *session.Controller, events <-chan struct{}, printed *int) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp()
		return true, nil

	case "/clear", "/c":
		ctrl.ClearConversation()
		// Re-seeded welcome stays unprinted, like the one at startup.
		*printed = len(ctrl.Snapshot().Conversation.Messages)
		fmt.Println(DimStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/report", "/r":
		return true, runReportFromChat(ctx, ctrl, events)

	case "/ingest", "/i":
		if len(rest) == 0 {
			return true, ErrMissingArgument("folder", "/ingest DIR")
		}
		folder := strings.Join(rest, " ")
		if !ctrl.IngestDocuments(ctx, folder) {
			return true, fmt.Errorf("an ingestion is already in progress")
		}
		waitForSession(ctrl, events, func(s session.Snapshot) bool {
			return !s.Ingest.InProgress
		})
		*printed = printNewMessages(ctrl, *printed)
		return true, nil

	case "/agents", "/a":
		printAgents(ctrl.Snapshot().Agents)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// runReportFromChat drives the report state machine and prints the result.
func runReportFromChat(ctx context.Context, ctrl *session.Controller, events <-chan struct{}) error {
	task, outcome := ctrl.RequestRiskReport(ctx)

	switch outcome {
	case session.ReportAlreadyRunning:
		fmt.Println(WarningStyle.Render("[Report]") + " generation already in progress")
		return nil
	case session.ReportCached:
		fmt.Println(DimStyle.Render("[Report] showing cached result"))
		displayResponse(task.Result)
		return nil
	}

	fmt.Println(DimStyle.Render("[Report] " + task.ProgressText))
	waitForSession(ctrl, events, func(s session.Snapshot) bool {
		return s.Report.Status != session.ReportRunning
	})

	final := ctrl.Snapshot().Report
	if final.Status == session.ReportFailed && final.Failure != nil {
		if final.Failure.Step != "" {
			return fmt.Errorf("report generation failed at step '%s': %s",
				final.Failure.Step, final.Failure.Message)
		}
		return fmt.Errorf("report generation failed: %s", final.Failure.Message)
	}

	displayResponse(final.Result)
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

// printChatWelcome prints the session banner.
func printChatWelcome(cfg *config.Config) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("docuscout chat"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n", LabelStyle.Render("Backend:"), ValueStyle.Render(cfg.Backend.URL))
	fmt.Println(DimStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
}

// printChatHelp lists the slash commands.
func printChatHelp() {
	fmt.Println(TitleStyle.Render("Commands"))
	fmt.Println("  /clear        Clear the conversation")
	fmt.Println("  /ingest DIR   Ingest a documents folder")
	fmt.Println("  /report       Generate (or show) the risk report")
	fmt.Println("  /agents       List backend agents")
	fmt.Println("  /help         Show this help")
	fmt.Println("  /quit         Exit")
}
