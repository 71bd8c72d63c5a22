// Package core has core logic for loading tournaments, running the
// tabulation engine and recording runs.
package core

import (
	"context"
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/outwriter"
	"github.com/huangsam/tabulate/schema"
)

// ExecutorFunc defines the function signature for executing different tabulation commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteStandings ranks the teams and prints the standings.
// It serves as the main entry point for the 'standings' command.
func ExecuteStandings(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	standings, _, err := GetStandingsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteStandings(standings, cfg, time.Since(start))
}

// ExecutePairings generates and prints the next round's draw.
// It serves as the main entry point for the 'pair' command.
func ExecutePairings(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	output, t, err := GetPairingsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePairings(output, t.Teams, cfg, time.Since(start))
}

// ExecuteElimination seeds the break into an elimination draw and prints it.
// It serves as the main entry point for the 'elim' command.
func ExecuteElimination(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	output, t, err := GetEliminationResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePairings(output, t.Teams, cfg, time.Since(start))
}

// ExecuteBreak generates and prints the break of every category.
// It serves as the main entry point for the 'break' command.
func ExecuteBreak(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	results, t, err := GetBreakResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBreaks(results, t.Teams, cfg, time.Since(start))
}

// ExecuteLiveness classifies every team's break prospects and prints them.
// It serves as the main entry point for the 'liveness' command.
func ExecuteLiveness(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	results, t, breakSize, err := GetLivenessResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLiveness(results, t.Teams, cfg, breakSize)
}

// ExecuteTiebreakers prints the criteria registry, the presets and the
// sequence that would be used. The tournament file is optional here.
func ExecuteTiebreakers(ctx context.Context, cfg *contract.Config) error {
	var t *schema.Tournament
	if cfg.TournamentPath != "" {
		var err error
		if t, err = (contract.FileSource{}).Load(ctx, cfg.TournamentPath); err != nil {
			return err
		}
	}
	return outwriter.NewOutWriter().WriteTiebreakers(cfg.ResolveTiebreakers(t), cfg)
}

// GetStandingsResults returns the ranked standings cut to the configured limit.
func GetStandingsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.Standing, *schema.Tournament, error) {
	return runStandings(ctx, cfg, contract.FileSource{}, mgr)
}

// GetPairingsResults returns the draw for the next round.
func GetPairingsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.PairingOutput, *schema.Tournament, error) {
	return runPairings(ctx, cfg, contract.FileSource{}, mgr)
}

// GetEliminationResults returns the elimination draw of the selected category.
func GetEliminationResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.PairingOutput, *schema.Tournament, error) {
	return runElimination(ctx, cfg, contract.FileSource{}, mgr)
}

// GetBreakResults returns the break results in category order.
func GetBreakResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.BreakResult, *schema.Tournament, error) {
	return runBreaks(ctx, cfg, contract.FileSource{}, mgr)
}

// GetLivenessResults returns every team's liveness and the break size used.
func GetLivenessResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.LivenessResult, *schema.Tournament, int, error) {
	return runLiveness(ctx, cfg, contract.FileSource{}, mgr)
}
