package contract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/tabulate/core/algo"
	"github.com/huangsam/tabulate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTournament creates a minimal tournament file and returns its path.
func writeTournament(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "open.yaml")
	require.NoError(t, os.WriteFile(path, []byte("teams:\n  - id: a\n  - id: b\n"), 0o644))
	return path
}

// validInput returns a raw input that passes validation.
func validInput(path string) *ConfigRawInput {
	return &ConfigRawInput{
		Tournament:      path,
		Precision:       1,
		Output:          "text",
		Color:           "yes",
		StoreBackend:    "sqlite",
		RoundsRemaining: DeriveRounds,
	}
}

func TestProcessAndValidate(t *testing.T) {
	path := writeTournament(t)
	negative := -5.0

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "no tournament", mutate: func(in *ConfigRawInput) { in.Tournament = "" }},
		{name: "tournament not found", mutate: func(in *ConfigRawInput) { in.Tournament = path + ".missing" }, expectError: true},
		{name: "tournament is a directory", mutate: func(in *ConfigRawInput) { in.Tournament = filepath.Dir(path) }, expectError: true},
		{name: "negative round", mutate: func(in *ConfigRawInput) { in.Round = -1 }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: true},
		{name: "precision out of range", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "invalid method", mutate: func(in *ConfigRawInput) { in.Method = "swiss" }, expectError: true},
		{name: "method is case-insensitive", mutate: func(in *ConfigRawInput) { in.Method = "HIGH_HIGH" }},
		{name: "invalid avoid-rematch", mutate: func(in *ConfigRawInput) { in.AvoidRematch = "perhaps" }, expectError: true},
		{name: "negative break size", mutate: func(in *ConfigRawInput) { in.BreakSize = -1 }, expectError: true},
		{name: "rounds remaining below derive", mutate: func(in *ConfigRawInput) { in.RoundsRemaining = -2 }, expectError: true},
		{name: "unknown tiebreaker", mutate: func(in *ConfigRawInput) { in.Tiebreakers = "wins,style" }, expectError: true},
		{name: "coin flip not last", mutate: func(in *ConfigRawInput) { in.Tiebreakers = "coin_flip,wins" }, expectError: true},
		{name: "unknown preset", mutate: func(in *ConfigRawInput) { in.TiebreakPreset = "fastest" }, expectError: true},
		{name: "negative weight", mutate: func(in *ConfigRawInput) { in.Weights.Rematch = &negative }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "redis" }, expectError: true},
		{name: "mysql without connect", mutate: func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, expectError: true},
		{
			name: "postgres with connect",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "postgresql"
				in.StoreDBConnect = "host=localhost dbname=tabulate"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(path)
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(context.Background(), cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput(writeTournament(t))
	input.StoreBackend = ""
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))

	assert.Equal(t, schema.HighLowMethod, cfg.Method)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, schema.DefaultQualityWeights(), cfg.Weights)
	assert.Nil(t, cfg.AvoidRematch)
	assert.Nil(t, cfg.ProtectInstitution)
	assert.Nil(t, cfg.Tiebreakers)
	assert.Equal(t, DeriveRounds, cfg.RoundsRemaining)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ProcessAndValidate(ctx, &Config{}, validInput(writeTournament(t)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessTiebreakers(t *testing.T) {
	path := writeTournament(t)

	t.Run("explicit list wins over preset", func(t *testing.T) {
		input := validInput(path)
		input.Tiebreakers = "wins, opponent_wins ,coin_flip"
		input.TiebreakPreset = "speaks_first"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))
		assert.Equal(t, []schema.Criterion{schema.WinsCriterion, schema.OpponentWinsCriterion, schema.CoinFlipCriterion}, cfg.Tiebreakers)
	})

	t.Run("preset", func(t *testing.T) {
		input := validInput(path)
		input.TiebreakPreset = "Strength"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))
		assert.Equal(t, schema.TiebreakPresets["strength"], cfg.Tiebreakers)
	})

	t.Run("error wraps the engine sentinel", func(t *testing.T) {
		_, err := ParseTiebreakers("wins,style")
		assert.ErrorIs(t, err, algo.ErrUnknownCriterion)
		_, err = ParseTiebreakers(" , ")
		assert.ErrorIs(t, err, algo.ErrInvalidSequence)
	})
}

func TestProcessCustomWeights(t *testing.T) {
	rematch := 80.0
	zero := 0.0
	input := validInput(writeTournament(t))
	input.Weights = WeightsRawInput{Rematch: &rematch, SpeakGap: &zero}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))

	want := schema.DefaultQualityWeights()
	want.Rematch = 80
	want.SpeakGap = 0
	assert.Equal(t, want, cfg.Weights)
}

func TestProcessCustomWeightsAllZero(t *testing.T) {
	zero := 0.0
	input := validInput(writeTournament(t))
	input.Weights = WeightsRawInput{Institution: &zero, Rematch: &zero, WinGap: &zero, SpeakGap: &zero}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))
	assert.Equal(t, schema.QualityWeights{}, cfg.Weights)
}

func TestOptionalBoolOverrides(t *testing.T) {
	input := validInput(writeTournament(t))
	input.AvoidRematch = "no"
	input.ProtectInstitution = "yes"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(context.Background(), cfg, input))

	tournament := &schema.Tournament{Constraints: schema.PairingConstraints{AvoidRematch: true}}
	got := cfg.ResolveConstraints(tournament)
	assert.False(t, got.AvoidRematch)
	assert.True(t, got.ProtectInstitutions)
	assert.True(t, tournament.Constraints.AvoidRematch, "tournament constraints must not be modified")
}

func TestResolveTiebreakers(t *testing.T) {
	fromFile := []schema.Criterion{schema.WinsCriterion, schema.RanksCriterion}

	cfg := &Config{}
	assert.Equal(t, schema.TiebreakPresets[schema.DefaultTiebreakPreset], cfg.ResolveTiebreakers(nil))
	assert.Equal(t, fromFile, cfg.ResolveTiebreakers(&schema.Tournament{Tiebreakers: fromFile}))

	cfg.Tiebreakers = []schema.Criterion{schema.SpeaksCriterion}
	assert.Equal(t, cfg.Tiebreakers, cfg.ResolveTiebreakers(&schema.Tournament{Tiebreakers: fromFile}))
}

func TestConfigClone(t *testing.T) {
	avoid := true
	cfg := &Config{
		Tiebreakers:  []schema.Criterion{schema.WinsCriterion},
		AvoidRematch: &avoid,
	}
	clone := cfg.Clone()
	clone.Tiebreakers[0] = schema.SpeaksCriterion
	*clone.AvoidRematch = false

	assert.Equal(t, schema.WinsCriterion, cfg.Tiebreakers[0])
	assert.True(t, *cfg.AvoidRematch)
	assert.Nil(t, clone.ProtectInstitution)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite ignores connect", schema.SQLiteBackend, "", false},
		{"none ignores connect", schema.NoneBackend, "anything", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/tabulate", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/tabulate", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=tabulate", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=tabulate", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
