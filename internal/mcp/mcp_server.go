// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Tabulate MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Tabulate Tournament Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_standings ---
	s.AddTool(mcp.NewTool("get_standings",
		mcp.WithDescription("Rank the teams of a tournament by wins and the configured tiebreakers."),
		mcp.WithString("tournament_path", mcp.Description("Path to the tournament YAML or JSON file (defaults to the configured tournament).")),
		mcp.WithNumber("round", mcp.Description("Only count results of rounds 1..round. 0 counts every result.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of teams returned.")),
		mcp.WithString("tiebreakers", mcp.Description("Comma-separated tiebreak sequence, e.g. 'wins,speaks,coin_flip'.")),
	), h.handleGetStandings)

	// --- 2. Tool: get_pairings ---
	s.AddTool(mcp.NewTool("get_pairings",
		mcp.WithDescription("Generate the power-paired draw for the round after the last decided one."),
		mcp.WithString("tournament_path", mcp.Description("Path to the tournament file.")),
		mcp.WithString("method", mcp.Description("Pairing method inside each win pool. Defaults to 'high_low'."), mcp.Enum("high_high", "high_low", "random")),
		mcp.WithNumber("seed", mcp.Description("Seed for the random method and coin flips. 0 draws a fresh seed.")),
		mcp.WithNumber("round", mcp.Description("Only count results of rounds 1..round.")),
	), h.handleGetPairings)

	// --- 3. Tool: get_elimination ---
	s.AddTool(mcp.NewTool("get_elimination",
		mcp.WithDescription("Seed a break category into a first elimination round (1 vs N, 2 vs N-1)."),
		mcp.WithString("tournament_path", mcp.Description("Path to the tournament file.")),
		mcp.WithString("category", mcp.Description("Break category id. Defaults to the first general category.")),
		mcp.WithNumber("break_size", mcp.Description("Override the break size of the selected category.")),
	), h.handleGetElimination)

	// --- 4. Tool: get_break ---
	s.AddTool(mcp.NewTool("get_break",
		mcp.WithDescription("Generate the break of every category, applying eligibility, institution caps and AIDA rules."),
		mcp.WithString("tournament_path", mcp.Description("Path to the tournament file.")),
		mcp.WithString("category", mcp.Description("Only return this category's results.")),
		mcp.WithNumber("break_size", mcp.Description("Override the break size of the selected category.")),
	), h.handleGetBreak)

	// --- 5. Tool: get_liveness ---
	s.AddTool(mcp.NewTool("get_liveness",
		mcp.WithDescription("Classify every team as safe, live or dead for the break."),
		mcp.WithString("tournament_path", mcp.Description("Path to the tournament file.")),
		mcp.WithNumber("break_size", mcp.Description("Number of teams that break. Defaults to the selected category's size.")),
		mcp.WithNumber("rounds_remaining", mcp.Description("Preliminary rounds still to be held. -1 derives it from total_rounds.")),
	), h.handleGetLiveness)

	return s
}

// StartMCPServer starts the Tabulate MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
