package schema

import "time"

// CacheStatus represents the status of the standings snapshot cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// StoreStatus represents the status of the run store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the tabulate_runs table.
type RunRecord struct {
	RunID        int64
	Tournament   string
	Command      string
	Round        int
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	TotalRows    int32
	ConfigParams *string
}

// StandingRecord represents a row from the tabulate_standings table.
type StandingRecord struct {
	RunID          int64
	TeamID         string
	Rank           int32
	Wins           int32
	Losses         int32
	Speaks         float64
	Ranks          float64
	AdjustedSpeaks float64
	AdjustedRanks  float64
	OpponentWins   int32
	DecidedBy      *string
}
