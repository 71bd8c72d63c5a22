package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/internal/iostore"
	"github.com/huangsam/tabulate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pts(v float64) *float64 { return &v }

// testTournament has two decided rounds: a 2-0, b 1-1, c 1-1, d 0-2.
// b outspeaks c so the order is fully resolved without a coin flip.
func testTournament() *schema.Tournament {
	return &schema.Tournament{
		Name: "Test Open",
		Teams: []schema.Team{
			{ID: "a", Name: "Alpha", Institution: "North"},
			{ID: "b", Name: "Bravo", Institution: "South"},
			{ID: "c", Name: "Charlie", Institution: "East"},
			{ID: "d", Name: "Delta", Institution: "West"},
		},
		Judges: []schema.Judge{{ID: "j1", Name: "Judy", Institution: "Neutral"}},
		Results: []schema.PairingResult{
			{Round: 1, AffID: "a", NegID: "b", Winner: schema.AffSide, AffSpeaks: pts(75), NegSpeaks: pts(74)},
			{Round: 1, AffID: "c", NegID: "d", Winner: schema.AffSide, AffSpeaks: pts(73), NegSpeaks: pts(72)},
			{Round: 2, AffID: "a", NegID: "c", Winner: schema.AffSide, AffSpeaks: pts(76), NegSpeaks: pts(72)},
			{Round: 2, AffID: "b", NegID: "d", Winner: schema.AffSide, AffSpeaks: pts(75), NegSpeaks: pts(71)},
		},
		Categories: []schema.BreakCategory{
			{ID: "open", Name: "Open", BreakSize: 2, Rule: schema.StandardRule, IsGeneral: true},
		},
		Rooms:       []string{"R1", "R2"},
		TotalRounds: 4,
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		TournamentPath:  "t.yaml",
		Output:          schema.JSONOut,
		RoundsRemaining: contract.DeriveRounds,
		StoreBackend:    schema.NoneBackend,
		Weights:         schema.DefaultQualityWeights(),
	}
}

func testSource(t *schema.Tournament) *contract.MockTournamentSource {
	source := &contract.MockTournamentSource{}
	source.On("Load", mock.Anything, "t.yaml").Return(t, nil)
	return source
}

// noStores returns a manager with caching and tracking turned off.
func noStores() *iostore.MockStoreManager {
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetSnapshotCache").Return(nil)
	mgr.On("GetRunStore").Return(nil)
	return mgr
}

// trackingStores returns a manager whose run store hands out run 7.
func trackingStores(command string, round int) (*iostore.MockStoreManager, *iostore.MockRunStore) {
	store := &iostore.MockRunStore{}
	store.On("BeginRun", "Test Open", command, round, mock.Anything, mock.Anything).Return(int64(7), nil)
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetSnapshotCache").Return(nil)
	mgr.On("GetRunStore").Return(store)
	return mgr, store
}

func teamIDs(standings []schema.Standing) []string {
	out := make([]string, len(standings))
	for i, s := range standings {
		out[i] = s.TeamID
	}
	return out
}

func TestRunStandings(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("ranks every team", func(t *testing.T) {
		source := testSource(testTournament())
		standings, tour, err := runStandings(ctx, testConfig(), source, noStores())
		require.NoError(t, err)
		assert.Equal(t, "Test Open", tour.Name)
		assert.Equal(t, []string{"a", "b", "c", "d"}, teamIDs(standings))
		assert.Equal(t, 1, standings[0].Rank)
		assert.Equal(t, schema.SpeaksCriterion, standings[2].DecidedBy)
		source.AssertExpectations(t)
	})

	t.Run("limit cuts the output", func(t *testing.T) {
		cfg := testConfig()
		cfg.ResultLimit = 2
		standings, _, err := runStandings(ctx, cfg, testSource(testTournament()), noStores())
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, teamIDs(standings))
	})

	t.Run("round filter drops later results", func(t *testing.T) {
		cfg := testConfig()
		cfg.Round = 1
		standings, _, err := runStandings(ctx, cfg, testSource(testTournament()), noStores())
		require.NoError(t, err)
		for _, s := range standings {
			assert.LessOrEqual(t, s.Wins, 1)
		}
	})

	t.Run("nil manager", func(t *testing.T) {
		standings, _, err := runStandings(ctx, testConfig(), testSource(testTournament()), nil)
		require.NoError(t, err)
		assert.Len(t, standings, 4)
	})

	t.Run("load error", func(t *testing.T) {
		source := &contract.MockTournamentSource{}
		source.On("Load", mock.Anything, "t.yaml").Return(nil, errors.New("no such file"))
		_, _, err := runStandings(ctx, testConfig(), source, noStores())
		assert.ErrorContains(t, err, "no such file")
	})

	t.Run("invalid tiebreakers", func(t *testing.T) {
		tour := testTournament()
		tour.Tiebreakers = []schema.Criterion{"shoe_size"}
		_, _, err := runStandings(ctx, testConfig(), testSource(tour), noStores())
		assert.ErrorContains(t, err, "failed to rank teams")
	})
}

func TestRunStandingsRecordsFullRun(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	mgr, store := trackingStores("standings", 2)
	store.On("RecordStandings", int64(7), mock.MatchedBy(func(s []schema.Standing) bool {
		return len(s) == 4
	})).Return(nil)
	store.On("EndRun", int64(7), mock.Anything, 4).Return(nil)

	cfg := testConfig()
	cfg.ResultLimit = 1
	standings, _, err := runStandings(ctx, cfg, testSource(testTournament()), mgr)
	require.NoError(t, err)
	assert.Len(t, standings, 1)
	store.AssertExpectations(t)
}

func TestRunStandingsTrackingFailure(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	store := &iostore.MockRunStore{}
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("database is locked"))
	mgr := &iostore.MockStoreManager{}
	mgr.On("GetSnapshotCache").Return(nil)
	mgr.On("GetRunStore").Return(store)

	standings, _, err := runStandings(ctx, testConfig(), testSource(testTournament()), mgr)
	require.NoError(t, err)
	assert.Len(t, standings, 4)
	store.AssertNotCalled(t, "RecordStandings", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPairings(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("next round with byes", func(t *testing.T) {
		output, _, err := runPairings(ctx, testConfig(), testSource(testTournament()), noStores())
		require.NoError(t, err)
		assert.Equal(t, 3, output.Round)
		assert.Equal(t, schema.HighLowMethod, output.Method)
		require.Len(t, output.Pairings, 1)
		p := output.Pairings[0]
		assert.Equal(t, "b", p.AffID)
		assert.Equal(t, "c", p.NegID)
		assert.Equal(t, "j1", p.JudgeID)
		assert.Equal(t, "R1", p.Room)
		assert.ElementsMatch(t, []string{"a", "d"}, output.Byes)
	})

	t.Run("pull down pairs every team", func(t *testing.T) {
		cfg := testConfig()
		cfg.PullDown = true
		output, _, err := runPairings(ctx, cfg, testSource(testTournament()), noStores())
		require.NoError(t, err)
		assert.Len(t, output.Pairings, 2)
		assert.Empty(t, output.Byes)
	})

	t.Run("records pairings", func(t *testing.T) {
		mgr, store := trackingStores("pair", 3)
		store.On("RecordPairings", int64(7), 3, mock.Anything).Return(nil)
		store.On("EndRun", int64(7), mock.Anything, 1).Return(nil)
		_, _, err := runPairings(ctx, testConfig(), testSource(testTournament()), mgr)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("first round", func(t *testing.T) {
		tour := testTournament()
		tour.Results = nil
		cfg := testConfig()
		cfg.Method = schema.HighHighMethod
		output, _, err := runPairings(ctx, cfg, testSource(tour), noStores())
		require.NoError(t, err)
		assert.Equal(t, 1, output.Round)
		assert.Equal(t, schema.HighHighMethod, output.Method)
		assert.Len(t, output.Pairings, 2)
	})
}

func TestRunElimination(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("seeds the break", func(t *testing.T) {
		output, _, err := runElimination(ctx, testConfig(), testSource(testTournament()), noStores())
		require.NoError(t, err)
		assert.Equal(t, schema.EliminationMethod, output.Method)
		assert.Equal(t, 3, output.Round)
		require.Len(t, output.Pairings, 1)
		assert.Equal(t, "a", output.Pairings[0].AffID)
		assert.Equal(t, "b", output.Pairings[0].NegID)
		assert.Equal(t, "R1", output.Pairings[0].Room)
		assert.Empty(t, output.Byes)
	})

	t.Run("odd break leaves the middle seed out", func(t *testing.T) {
		cfg := testConfig()
		cfg.BreakSize = 3
		output, _, err := runElimination(ctx, cfg, testSource(testTournament()), noStores())
		require.NoError(t, err)
		require.Len(t, output.Pairings, 1)
		assert.Equal(t, "a", output.Pairings[0].AffID)
		assert.Equal(t, "c", output.Pairings[0].NegID)
		assert.Equal(t, []string{"b"}, output.Byes)
	})

	t.Run("unknown category", func(t *testing.T) {
		cfg := testConfig()
		cfg.Category = "novice"
		_, _, err := runElimination(ctx, cfg, testSource(testTournament()), noStores())
		assert.ErrorContains(t, err, "unknown break category 'novice'")
	})
}

func TestRunBreaks(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	withNovice := func() *schema.Tournament {
		tour := testTournament()
		tour.Categories = append(tour.Categories, schema.BreakCategory{
			ID: "novice", Name: "Novice", BreakSize: 1, Priority: 1,
		})
		return tour
	}

	t.Run("every category in order", func(t *testing.T) {
		results, _, err := runBreaks(ctx, testConfig(), testSource(withNovice()), noStores())
		require.NoError(t, err)
		require.Len(t, results, 8)
		assert.Equal(t, "open", results[0].CategoryID)
		assert.Equal(t, "novice", results[4].CategoryID)
	})

	t.Run("selected category only", func(t *testing.T) {
		cfg := testConfig()
		cfg.Category = "novice"
		results, _, err := runBreaks(ctx, cfg, testSource(withNovice()), noStores())
		require.NoError(t, err)
		require.Len(t, results, 4)
		assert.Equal(t, schema.DifferentBreakRemark, results[0].Remark)
		assert.Equal(t, schema.DifferentBreakRemark, results[1].Remark)
		assert.True(t, results[2].IsBreaking)
		assert.Equal(t, "c", results[2].TeamID)
	})

	t.Run("records every category", func(t *testing.T) {
		mgr, store := trackingStores("break", 2)
		store.On("RecordBreaks", int64(7), mock.MatchedBy(func(r []schema.BreakResult) bool {
			return len(r) == 8
		})).Return(nil)
		store.On("EndRun", int64(7), mock.Anything, 8).Return(nil)
		cfg := testConfig()
		cfg.Category = "novice"
		_, _, err := runBreaks(ctx, cfg, testSource(withNovice()), mgr)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("default category from break size", func(t *testing.T) {
		tour := testTournament()
		tour.Categories = nil
		cfg := testConfig()
		cfg.BreakSize = 1
		results, _, err := runBreaks(ctx, cfg, testSource(tour), noStores())
		require.NoError(t, err)
		require.Len(t, results, 4)
		assert.Equal(t, defaultCategoryID, results[0].CategoryID)
		assert.True(t, results[0].IsBreaking)
		assert.False(t, results[1].IsBreaking)
	})

	t.Run("no categories and no break size", func(t *testing.T) {
		tour := testTournament()
		tour.Categories = nil
		_, _, err := runBreaks(ctx, testConfig(), testSource(tour), noStores())
		assert.ErrorContains(t, err, "no break categories")
	})
}

func TestRunLiveness(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	t.Run("derives rounds remaining", func(t *testing.T) {
		results, _, breakSize, err := runLiveness(ctx, testConfig(), testSource(testTournament()), noStores())
		require.NoError(t, err)
		assert.Equal(t, 2, breakSize)
		require.Len(t, results, 4)
		for _, r := range results {
			assert.Equal(t, schema.LiveStatus, r.Status, r.TeamID)
		}
	})

	t.Run("no rounds remaining", func(t *testing.T) {
		cfg := testConfig()
		cfg.RoundsRemaining = 0
		results, _, _, err := runLiveness(ctx, cfg, testSource(testTournament()), noStores())
		require.NoError(t, err)
		statuses := make(map[string]schema.Liveness, len(results))
		for _, r := range results {
			statuses[r.TeamID] = r.Status
		}
		assert.Equal(t, map[string]schema.Liveness{
			"a": schema.SafeStatus,
			"b": schema.LiveStatus,
			"c": schema.LiveStatus,
			"d": schema.DeadStatus,
		}, statuses)
	})

	t.Run("break size flag wins", func(t *testing.T) {
		cfg := testConfig()
		cfg.BreakSize = 3
		_, _, breakSize, err := runLiveness(ctx, cfg, testSource(testTournament()), noStores())
		require.NoError(t, err)
		assert.Equal(t, 3, breakSize)
	})

	t.Run("cannot derive rounds", func(t *testing.T) {
		tour := testTournament()
		tour.TotalRounds = 0
		_, _, _, err := runLiveness(ctx, testConfig(), testSource(tour), noStores())
		assert.ErrorContains(t, err, "cannot derive rounds remaining")
	})

	t.Run("records run", func(t *testing.T) {
		mgr, store := trackingStores("liveness", 2)
		store.On("EndRun", int64(7), mock.Anything, 4).Return(nil)
		_, _, _, err := runLiveness(ctx, testConfig(), testSource(testTournament()), mgr)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestResolveCategories(t *testing.T) {
	twoCategories := &schema.Tournament{Categories: []schema.BreakCategory{
		{ID: "esl", BreakSize: 2, Priority: 1},
		{ID: "open", BreakSize: 4, IsGeneral: true},
	}}

	tests := []struct {
		name         string
		tournament   *schema.Tournament
		category     string
		breakSize    int
		wantSelected string
		wantSize     int
		wantErr      string
	}{
		{name: "first in processing order", tournament: twoCategories, wantSelected: "open", wantSize: 4},
		{name: "selected by id", tournament: twoCategories, category: "esl", wantSelected: "esl", wantSize: 2},
		{name: "override applies to selected", tournament: twoCategories, category: "esl", breakSize: 8, wantSelected: "esl", wantSize: 8},
		{name: "unknown id", tournament: twoCategories, category: "pro", wantErr: "unknown break category"},
		{name: "default category", tournament: &schema.Tournament{}, breakSize: 4, wantSelected: defaultCategoryID, wantSize: 4},
		{name: "nothing to break", tournament: &schema.Tournament{}, wantErr: "use --break-size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Category = tt.category
			cfg.BreakSize = tt.breakSize
			categories, selected, err := resolveCategories(cfg, tt.tournament)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSelected, selected.ID)
			assert.Equal(t, tt.wantSize, selected.BreakSize)
			assert.NotEmpty(t, categories)
		})
	}

	t.Run("tournament categories are not modified", func(t *testing.T) {
		cfg := testConfig()
		cfg.BreakSize = 16
		_, _, err := resolveCategories(cfg, twoCategories)
		require.NoError(t, err)
		assert.Equal(t, 4, twoCategories.Categories[1].BreakSize)
	})
}

func TestUnpairedSeeds(t *testing.T) {
	seeds := []schema.Standing{
		{TeamRecord: schema.TeamRecord{TeamID: "a"}},
		{TeamRecord: schema.TeamRecord{TeamID: "b"}},
		{TeamRecord: schema.TeamRecord{TeamID: "c"}},
	}
	pairings := []schema.GeneratedPairing{{AffID: "a", NegID: "c"}}
	assert.Equal(t, []string{"b"}, unpairedSeeds(seeds, pairings))
	assert.Nil(t, unpairedSeeds(seeds[:2], []schema.GeneratedPairing{{AffID: "a", NegID: "b"}}))
}
