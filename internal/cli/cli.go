// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for docuscout.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdIngest
	CmdReport
	CmdAgents
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Backend string // Override backend URL for this invocation

	// Command-specific
	Query   string // ask: the question text
	Folder  string // ingest: documents folder
	OutFile string // report: export destination (--out)

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `docuscout - document analysis assistant for the terminal

DocuScout talks to a running DocuScout backend: it ingests a folder of
documents, answers questions about them, and generates risk reports.

Usage:
  docuscout                  Start the TUI session (default)
  docuscout ask "question"   Ask a single question
  docuscout chat             Interactive chat without the TUI
  docuscout ingest DIR       Ingest a documents folder
  docuscout report           Generate and print the risk report
    --out FILE               Export to FILE (.html or .md) instead
  docuscout agents           List backend agents
  docuscout version          Show version information

Global Flags:
  --backend URL   Override the backend URL for this invocation
  --json          Machine-readable output (agents, version)
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  docuscout ingest ~/contracts
  docuscout ask "Which contracts renew this quarter?"
  docuscout report --out risk.html
  docuscout chat

Configuration lives in ~/.docuscout/config.toml; DOCUSCOUT_* environment
variables override it (e.g. DOCUSCOUT_BACKEND_URL).

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("docuscout version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args: launch the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "ingest":
		parseIngestArgs(&parsedArgs, remaining)
		return CmdIngest, parsedArgs

	case "report":
		parseReportArgs(&parsedArgs, remaining)
		return CmdReport, parsedArgs

	case "agents", "agent":
		return CmdAgents, parsedArgs

	case "version", "-V", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags, returning the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--backend":
			if i+1 < len(args) {
				i++
				parsedArgs.Backend = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--backend=") {
				parsedArgs.Backend = strings.TrimPrefix(arg, "--backend=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs collects the question text from the positional args.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			query = append(query, arg)
		}
	}
	args.Query = strings.Join(query, " ")
}

// parseIngestArgs takes the folder from the first positional arg.
func parseIngestArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			args.Folder = arg
			return
		}
	}
}

// parseReportArgs parses the report command's --out flag.
func parseReportArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--out" || arg == "-o":
			if i+1 < len(remaining) {
				i++
				args.OutFile = remaining[i]
			}
		case strings.HasPrefix(arg, "--out="):
			args.OutFile = strings.TrimPrefix(arg, "--out=")
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleIngest handles the "ingest" command.
func HandleIngest(args Args) {
	if err := HandleIngestCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleReport handles the "report" command.
func HandleReport(args Args) {
	if err := HandleReportCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleAgents handles the "agents" command.
func HandleAgents(args Args) {
	if err := HandleAgentsCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		printJSON(map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
		})
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
