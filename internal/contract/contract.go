// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/tabulate/schema"
)

// TournamentSource loads the tournament state the engine runs on.
// This allows the orchestration layer to be tested without touching the filesystem.
type TournamentSource interface {
	// Load reads a tournament from the given location.
	Load(ctx context.Context, path string) (*schema.Tournament, error)
}

// StoreManager defines the interface for managing the persistence stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetSnapshotCache() SnapshotCache
	GetRunStore() RunStore
}

// SnapshotCache defines the interface for the computed standings cache.
type SnapshotCache interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking tabulation runs and their outputs.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(tournament, command string, round int, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// RecordStandings stores the ranked standings of a run
	RecordStandings(runID int64, standings []schema.Standing) error

	// RecordPairings stores the generated pairings of a run
	RecordPairings(runID int64, round int, pairings []schema.GeneratedPairing) error

	// RecordBreaks stores the break results of a run
	RecordBreaks(runID int64, results []schema.BreakResult) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.StoreStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllStandings returns every recorded standings row
	GetAllStandings() ([]schema.StandingRecord, error)

	// Close closes the underlying connection
	Close() error
}
