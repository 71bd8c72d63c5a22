package core

import (
	"context"
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// runStore returns the configured run store, or nil when tracking is off.
func runStore(mgr contract.StoreManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}

// beginRun starts run tracking and stores the run ID in the context.
// Tracking failures are logged and never stop the run.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, t *schema.Tournament, command string, round int) context.Context {
	store := runStore(mgr)
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"tournament_path": cfg.TournamentPath,
		"round":           cfg.Round,
		"tiebreakers":     cfg.ResolveTiebreakers(t),
		"method":          string(cfg.Method),
		"seed":            cfg.Seed,
		"break_size":      cfg.BreakSize,
		"category":        cfg.Category,
	}
	runID, err := store.BeginRun(t.Name, command, round, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}
	return ctx
}

// endRun records the run's rows with the given function and closes the run.
func endRun(ctx context.Context, mgr contract.StoreManager, totalRows int, record func(store contract.RunStore, runID int64) error) {
	store := runStore(mgr)
	runID := getRunID(ctx)
	if store == nil || runID == 0 {
		return
	}
	if record != nil {
		if err := record(store, runID); err != nil {
			contract.LogWarn("Failed to record run output", err)
		}
	}
	if err := store.EndRun(runID, time.Now(), totalRows); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
