// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStandings prints ranked standings using the configured output format.
func (ow *OutWriter) WriteStandings(standings []schema.Standing, cfg *contract.Config, duration time.Duration) error {
	return WriteStandingResults(standings, cfg, duration)
}

// WritePairings prints a round's pairings using the configured output format.
func (ow *OutWriter) WritePairings(output schema.PairingOutput, teams []schema.Team, cfg *contract.Config, duration time.Duration) error {
	return WritePairingResults(output, teams, cfg, duration)
}

// WriteBreaks prints break results using the configured output format.
func (ow *OutWriter) WriteBreaks(results []schema.BreakResult, teams []schema.Team, cfg *contract.Config, duration time.Duration) error {
	return WriteBreakResults(results, teams, cfg, duration)
}

// WriteLiveness prints liveness results using the configured output format.
func (ow *OutWriter) WriteLiveness(results []schema.LivenessResult, teams []schema.Team, cfg *contract.Config, breakSize int) error {
	return WriteLivenessResults(results, teams, cfg, breakSize)
}

// WriteTiebreakers prints the criteria registry and presets using the configured output format.
func (ow *OutWriter) WriteTiebreakers(active []schema.Criterion, cfg *contract.Config) error {
	return WriteTiebreakerCatalog(active, cfg)
}
