package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/tabulate/core/algo"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// defaultCategoryID names the category created from --break-size when the
// tournament defines none.
const defaultCategoryID = "open"

// session is a loaded tournament with its ranked standings.
type session struct {
	tournament *schema.Tournament
	results    []schema.PairingResult // results counted for this run
	standings  []schema.Standing
	completed  int // highest decided round among the counted results
}

// loadSession loads the tournament and ranks its teams.
func loadSession(ctx context.Context, cfg *contract.Config, source contract.TournamentSource, mgr contract.StoreManager, command string) (*session, error) {
	t, err := source.Load(ctx, cfg.TournamentPath)
	if err != nil {
		return nil, err
	}

	results := t.ResultsUpTo(cfg.Round)
	if unknown := algo.UnknownReferences(t.Teams, results); len(unknown) > 0 {
		contract.LogWarn("Ignoring results that reference unknown teams", errors.New(strings.Join(unknown, ", ")))
	}

	sequence := cfg.ResolveTiebreakers(t)
	logRunHeader(ctx, cfg, t, command, sequence)

	standings, err := cachedStandings(mgr, standingsInput{
		Teams:    t.Teams,
		Results:  results,
		Sequence: sequence,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank teams: %w", err)
	}

	return &session{
		tournament: t,
		results:    results,
		standings:  standings,
		completed:  schema.LastDecidedRound(results),
	}, nil
}

// runStandings ranks the teams and records the full standings.
// The returned standings are cut to the configured limit.
func runStandings(ctx context.Context, cfg *contract.Config, source contract.TournamentSource, mgr contract.StoreManager) ([]schema.Standing, *schema.Tournament, error) {
	s, err := loadSession(ctx, cfg, source, mgr, "standings")
	if err != nil {
		return nil, nil, err
	}

	ctx = beginRun(ctx, cfg, mgr, s.tournament, "standings", s.completed)
	endRun(ctx, mgr, len(s.standings), func(store contract.RunStore, runID int64) error {
		return store.RecordStandings(runID, s.standings)
	})

	return algo.TopStandings(s.standings, cfg.ResultLimit), s.tournament, nil
}

// runPairings generates the draw for the round after the last decided one.
func runPairings(ctx context.Context, cfg *contract.Config, source contract.TournamentSource, mgr contract.StoreManager) (schema.PairingOutput, *schema.Tournament, error) {
	s, err := loadSession(ctx, cfg, source, mgr, "pair")
	if err != nil {
		return schema.PairingOutput{}, nil, err
	}
	t := s.tournament

	method := cfg.Method
	if method == "" {
		method = schema.HighLowMethod
	}
	opts := schema.PairingOptions{
		Method:   method,
		Weights:  &cfg.Weights,
		Rooms:    t.Rooms,
		PullDown: cfg.PullDown,
		Seed:     cfg.Seed,
	}
	pairings, byes, err := algo.GeneratePairings(s.standings, t.Judges, cfg.ResolveConstraints(t), opts, s.results)
	if err != nil {
		return schema.PairingOutput{}, nil, err
	}

	output := schema.PairingOutput{
		Round:    s.completed + 1,
		Method:   method,
		Pairings: pairings,
		Byes:     byes,
	}
	ctx = beginRun(ctx, cfg, mgr, t, "pair", output.Round)
	endRun(ctx, mgr, len(pairings), func(store contract.RunStore, runID int64) error {
		return store.RecordPairings(runID, output.Round, pairings)
	})
	return output, t, nil
}

// runElimination seeds the selected category's break into an elimination draw.
func runElimination(ctx context.Context, cfg *contract.Config, source contract.TournamentSource, mgr contract.StoreManager) (schema.PairingOutput, *schema.Tournament, error) {
	s, err := loadSession(ctx, cfg, source, mgr, "elim")
	if err != nil {
		return schema.PairingOutput{}, nil, err
	}
	t := s.tournament

	categories, selected, err := resolveCategories(cfg, t)
	if err != nil {
		return schema.PairingOutput{}, nil, err
	}
	breaks, err := algo.GenerateAllBreaks(s.standings, categories, t.Eligibility)
	if err != nil {
		return schema.PairingOutput{}, nil, err
	}

	seeds := algo.SeedsFor(s.standings, breaks[selected.ID])
	pairings := algo.GenerateEliminationPairings(seeds, t.Judges, cfg.ResolveConstraints(t))
	for i := range pairings {
		if i < len(t.Rooms) {
			pairings[i].Room = t.Rooms[i]
		}
	}

	output := schema.PairingOutput{
		Round:    s.completed + 1,
		Method:   schema.EliminationMethod,
		Pairings: pairings,
		Byes:     unpairedSeeds(seeds, pairings),
	}
	ctx = beginRun(ctx, cfg, mgr, t, "elim", output.Round)
	endRun(ctx, mgr, len(pairings), func(store contract.RunStore, runID int64) error {
		return store.RecordPairings(runID, output.Round, pairings)
	})
	return output, t, nil
}

// runBreaks generates the break of every category. Only the selected
// category is returned when --category is set, but every category is recorded.
func runBreaks(ctx context.Context, cfg *contract.Config, source contract.TournamentSource, mgr contract.StoreManager) ([]schema.BreakResult, *schema.Tournament, error) {
	s, err := loadSession(ctx, cfg, source, mgr, "break")
	if err != nil {
		return nil, nil, err
	}
	t := s.tournament

	categories, selected, err := resolveCategories(cfg, t)
	if err != nil {
		return nil, nil, err
	}
	breaks, err := algo.GenerateAllBreaks(s.standings, categories, t.Eligibility)
	if err != nil {
		return nil, nil, err
	}

	var all, shown []schema.BreakResult
	for _, c := range algo.SortCategories(categories) {
		all = append(all, breaks[c.ID]...)
		if cfg.Category == "" || c.ID == selected.ID {
			shown = append(shown, breaks[c.ID]...)
		}
	}

	ctx = beginRun(ctx, cfg, mgr, t, "break", s.completed)
	endRun(ctx, mgr, len(all), func(store contract.RunStore, runID int64) error {
		return store.RecordBreaks(runID, all)
	})
	return shown, t, nil
}

// runLiveness classifies every team against the break size. It also returns
// the break size used.
func runLiveness(ctx context.Context, cfg *contract.Config, source contract.TournamentSource, mgr contract.StoreManager) ([]schema.LivenessResult, *schema.Tournament, int, error) {
	s, err := loadSession(ctx, cfg, source, mgr, "liveness")
	if err != nil {
		return nil, nil, 0, err
	}
	t := s.tournament

	breakSize := cfg.BreakSize
	if breakSize <= 0 {
		_, selected, err := resolveCategories(cfg, t)
		if err != nil {
			return nil, nil, 0, err
		}
		breakSize = selected.BreakSize
	}

	remaining := cfg.RoundsRemaining
	if remaining < 0 {
		if t.TotalRounds <= 0 {
			return nil, nil, 0, errors.New("cannot derive rounds remaining: set total_rounds in the tournament file or use --rounds-remaining")
		}
		remaining = max(t.TotalRounds-s.completed, 0)
	}

	results, err := algo.ComputeAllLiveness(s.standings, breakSize, remaining)
	if err != nil {
		return nil, nil, 0, err
	}

	ctx = beginRun(ctx, cfg, mgr, t, "liveness", s.completed)
	endRun(ctx, mgr, len(results), nil)
	return results, t, breakSize, nil
}

// resolveCategories returns the categories to break with the configured break
// size applied, plus the category selected by --category (or the first general one).
func resolveCategories(cfg *contract.Config, t *schema.Tournament) ([]schema.BreakCategory, schema.BreakCategory, error) {
	categories := slices.Clone(t.Categories)
	if len(categories) == 0 {
		if cfg.BreakSize <= 0 {
			return nil, schema.BreakCategory{}, errors.New("tournament defines no break categories: use --break-size")
		}
		categories = []schema.BreakCategory{{
			ID:        defaultCategoryID,
			Name:      "Open",
			BreakSize: cfg.BreakSize,
			Rule:      schema.StandardRule,
			IsGeneral: true,
		}}
	}

	idx := -1
	if cfg.Category != "" {
		idx = slices.IndexFunc(categories, func(c schema.BreakCategory) bool { return c.ID == cfg.Category })
		if idx < 0 {
			return nil, schema.BreakCategory{}, fmt.Errorf("unknown break category '%s'", cfg.Category)
		}
	} else {
		first := algo.SortCategories(categories)[0]
		idx = slices.IndexFunc(categories, func(c schema.BreakCategory) bool { return c.ID == first.ID })
	}

	if cfg.BreakSize > 0 {
		categories[idx].BreakSize = cfg.BreakSize
	}
	return categories, categories[idx], nil
}

// unpairedSeeds lists the seeds that did not get an elimination debate.
func unpairedSeeds(seeds []schema.Standing, pairings []schema.GeneratedPairing) []string {
	paired := make(map[string]struct{}, 2*len(pairings))
	for _, p := range pairings {
		paired[p.AffID] = struct{}{}
		paired[p.NegID] = struct{}{}
	}
	var byes []string
	for _, s := range seeds {
		if _, ok := paired[s.TeamID]; !ok {
			byes = append(byes, s.TeamID)
		}
	}
	return byes
}
