package contract

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/huangsam/tabulate/core/algo"
	"github.com/huangsam/tabulate/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // all teams
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultBreakSize   = 0 // use the tournament's categories
	DeriveRounds       = -1
)

// WeightsRawInput holds custom pairing penalties from the YAML config file.
// Use float64 pointers so that unset fields keep their defaults.
type WeightsRawInput struct {
	Institution *float64 `mapstructure:"institution"`
	Rematch     *float64 `mapstructure:"rematch"`
	WinGap      *float64 `mapstructure:"win_gap"`
	SpeakGap    *float64 `mapstructure:"speak_gap"`
}

// Config holds the runtime configuration for a tabulation run.
// This struct remains the "final, validated" config.
type Config struct {
	TournamentPath string
	Round          int // results of rounds 1..Round are used (0 = every result)
	ResultLimit    int // 0 = every team
	Precision      int
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)
	UseColors      bool

	Method   schema.PairingMethod
	Seed     int64
	PullDown bool
	Weights  schema.QualityWeights

	// AvoidRematch and ProtectInstitution override the tournament file when set
	AvoidRematch       *bool
	ProtectInstitution *bool

	// Tiebreakers overrides the tournament file sequence when non-empty
	Tiebreakers []schema.Criterion

	BreakSize       int
	Category        string
	RoundsRemaining int // DeriveRounds computes it from the tournament's total rounds

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
	NoCache        bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Tournament     string `mapstructure:"tournament"`
	Round          int    `mapstructure:"round"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Tiebreakers    string `mapstructure:"tiebreakers"`
	TiebreakPreset string `mapstructure:"tiebreak-preset"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	NoCache        bool   `mapstructure:"no-cache"`

	// --- Fields from pairCmd.Flags() ---
	Method             string `mapstructure:"method"`
	Seed               int64  `mapstructure:"seed"`
	PullDown           bool   `mapstructure:"pull-down"`
	AvoidRematch       string `mapstructure:"avoid-rematch"`
	ProtectInstitution string `mapstructure:"protect-institution"`

	// --- Fields from breakCmd.Flags() and livenessCmd.Flags() ---
	BreakSize       int    `mapstructure:"break-size"`
	Category        string `mapstructure:"category"`
	RoundsRemaining int    `mapstructure:"rounds-remaining"`

	// --- Custom pairing weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Tiebreakers = slices.Clone(c.Tiebreakers)
	if c.AvoidRematch != nil {
		v := *c.AvoidRematch
		clone.AvoidRematch = &v
	}
	if c.ProtectInstitution != nil {
		v := *c.ProtectInstitution
		clone.ProtectInstitution = &v
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, input *ConfigRawInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPairingInputs(cfg, input); err != nil {
		return err
	}
	if err := processBreakInputs(cfg, input); err != nil {
		return err
	}
	if err := processTiebreakers(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseTiebreakers parses a comma-separated criterion list such as
// "wins,speaks,coin_flip" and validates it as a sequence.
func ParseTiebreakers(s string) ([]schema.Criterion, error) {
	var sequence []schema.Criterion
	for part := range strings.SplitSeq(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		sequence = append(sequence, schema.Criterion(name))
	}
	if err := algo.ValidateSequence(sequence); err != nil {
		return nil, err
	}
	return sequence, nil
}

// LookupPreset returns a copy of a named tiebreak preset.
func LookupPreset(name string) ([]schema.Criterion, error) {
	preset, ok := schema.TiebreakPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown tiebreak preset '%s'", name)
	}
	return slices.Clone(preset), nil
}

// ResolveTiebreakers picks the sequence for a run: the configured override,
// then the tournament's own sequence, then the default preset.
func (c *Config) ResolveTiebreakers(t *schema.Tournament) []schema.Criterion {
	if len(c.Tiebreakers) > 0 {
		return slices.Clone(c.Tiebreakers)
	}
	if t != nil && len(t.Tiebreakers) > 0 {
		return slices.Clone(t.Tiebreakers)
	}
	return slices.Clone(schema.TiebreakPresets[schema.DefaultTiebreakPreset])
}

// ResolveConstraints applies the configured overrides to the tournament's constraints.
func (c *Config) ResolveConstraints(t *schema.Tournament) schema.PairingConstraints {
	constraints := t.Constraints
	if c.AvoidRematch != nil {
		constraints.AvoidRematch = *c.AvoidRematch
	}
	if c.ProtectInstitution != nil {
		constraints.ProtectInstitutions = *c.ProtectInstitution
	}
	return constraints
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(input.StoreBackend)
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates the shared output fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.NoCache = input.NoCache

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// The tournament is optional here; tiebreakers and mcp run without one.
	cfg.TournamentPath = input.Tournament
	if input.Tournament != "" {
		if info, err := os.Stat(input.Tournament); err != nil {
			return fmt.Errorf("tournament file %s: %w", input.Tournament, err)
		} else if info.IsDir() {
			return fmt.Errorf("tournament path %s is a directory", input.Tournament)
		}
	}

	if input.Round < 0 {
		return fmt.Errorf("round cannot be negative (received %d)", input.Round)
	}
	cfg.Round = input.Round

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// processPairingInputs handles the pair command's method and constraint overrides.
func processPairingInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Method = schema.PairingMethod(strings.ToLower(input.Method))
	if cfg.Method == "" {
		cfg.Method = schema.HighLowMethod
	}
	if _, ok := schema.ValidPairingMethods[cfg.Method]; !ok {
		return fmt.Errorf("invalid method '%s'. must be high_high, high_low, random", input.Method)
	}
	cfg.Seed = input.Seed
	cfg.PullDown = input.PullDown

	var err error
	if cfg.AvoidRematch, err = parseOptionalBool(input.AvoidRematch); err != nil {
		return fmt.Errorf("invalid --avoid-rematch value: %w", err)
	}
	if cfg.ProtectInstitution, err = parseOptionalBool(input.ProtectInstitution); err != nil {
		return fmt.Errorf("invalid --protect-institution value: %w", err)
	}
	return nil
}

// processBreakInputs handles the break and liveness fields.
func processBreakInputs(cfg *Config, input *ConfigRawInput) error {
	if input.BreakSize < 0 {
		return fmt.Errorf("break-size cannot be negative (received %d)", input.BreakSize)
	}
	cfg.BreakSize = input.BreakSize
	cfg.Category = strings.TrimSpace(input.Category)

	if input.RoundsRemaining < DeriveRounds {
		return fmt.Errorf("rounds-remaining must be %d (derive) or greater (received %d)", DeriveRounds, input.RoundsRemaining)
	}
	cfg.RoundsRemaining = input.RoundsRemaining
	return nil
}

// processTiebreakers resolves the explicit list first, then the preset.
func processTiebreakers(cfg *Config, input *ConfigRawInput) error {
	cfg.Tiebreakers = nil
	if strings.TrimSpace(input.Tiebreakers) != "" {
		sequence, err := ParseTiebreakers(input.Tiebreakers)
		if err != nil {
			return fmt.Errorf("invalid --tiebreakers value: %w", err)
		}
		cfg.Tiebreakers = sequence
		return nil
	}
	if input.TiebreakPreset != "" {
		sequence, err := LookupPreset(input.TiebreakPreset)
		if err != nil {
			return err
		}
		cfg.Tiebreakers = sequence
	}
	return nil
}

// processCustomWeights overlays the configured penalties on the defaults.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultQualityWeights()
	overrides := []struct {
		name  string
		value *float64
		dest  *float64
	}{
		{"institution", input.Weights.Institution, &weights.Institution},
		{"rematch", input.Weights.Rematch, &weights.Rematch},
		{"win_gap", input.Weights.WinGap, &weights.WinGap},
		{"speak_gap", input.Weights.SpeakGap, &weights.SpeakGap},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		if *o.value < 0 {
			return fmt.Errorf("weight %s cannot be negative (received %v)", o.name, *o.value)
		}
		*o.dest = *o.value
	}
	cfg.Weights = weights
	return nil
}

func parseOptionalBool(s string) (*bool, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := ParseBoolString(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &v, nil
}
