// Copyright (c) 2025 DocuScout Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// agents.go - Backend agent listing.
//
//	docuscout agents
package cli

import (
	"context"
	"fmt"

	"github.com/docuscout/docuscout-tui/internal/backend"
	"github.com/docuscout/docuscout-tui/internal/util"
)

// HandleAgentsCommand handles the "agents" command.
func HandleAgentsCommand(args Args) error {
	client, _, err := newBackendClient(args)
	if err != nil {
		return err
	}

	agents, err := client.ListAgents(context.Background())
	if err != nil {
		return wrapBackendErr("could not list agents", err)
	}

	if args.JSON {
		printJSON(agents)
		return nil
	}

	printAgents(agents)
	return nil
}

// printAgents prints the agent listing, one per line.
func printAgents(agents []backend.Agent) {
	if len(agents) == 0 {
		fmt.Println(DimStyle.Render("No agents reported by the backend."))
		return
	}

	// Keep one agent per line even when descriptions run long.
	descWidth := GetTerminalWidth() - 24
	fmt.Println(TitleStyle.Render("Backend agents"))
	for _, agent := range agents {
		if agent.Description != "" {
			fmt.Printf("  %s  %s\n",
				AgentStyle.Render(agent.Name),
				DimStyle.Render(util.TruncateRunes(agent.Description, descWidth)))
		} else {
			fmt.Printf("  %s\n", AgentStyle.Render(agent.Name))
		}
	}
}
