package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// Table names for run tracking.
const (
	runsTable      = "tabulate_runs"
	standingsTable = "tabulate_standings"
	pairingsTable  = "tabulate_pairings"
	breaksTable    = "tabulate_breaks"
)

// runTables lists the run store tables in creation order.
var runTables = []string{runsTable, standingsTable, pairingsTable, breaksTable}

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	newID   func() uuid.UUID
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend and brings
// its schema up to date.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend, newID: uuid.New}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := applyMigrations(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend, newID: uuid.New}, nil
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(tournament, command string, round int, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	columns := "(tournament, command, round, start_time, config_params)"
	args := []any{tournament, command, round, formatTime(startTime, rs.backend), string(configJSON)}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s %s VALUES (%s) RETURNING run_id`, quotedTableName, columns, placeholders(rs.backend, len(args)))
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s %s VALUES (%s)`, quotedTableName, columns, placeholders(rs.backend, len(args)))
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalRows int) error {
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1))
	startTime, err := rs.scanTime(rs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_rows = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3), placeholder(rs.backend, 4))
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, totalRows, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordStandings stores the ranked standings of a run.
func (rs *RunStoreImpl) RecordStandings(runID int64, standings []schema.Standing) error {
	if rs.disabled() || len(standings) == 0 {
		return nil
	}
	query := rs.insertQuery(standingsTable, "run_id, team_id, team_rank, wins, losses, speaks, ranks, adjusted_speaks, adjusted_ranks, opponent_wins, decided_by", 11)
	return rs.insertAll(query, len(standings), func(i int) []any {
		s := standings[i]
		return []any{
			runID, s.TeamID, s.Rank, s.Wins, s.Losses, s.Speaks, s.Ranks,
			s.AdjustedSpeaks, s.AdjustedRanks, s.OpponentWins, nullString(string(s.DecidedBy)),
		}
	})
}

// RecordPairings stores the generated pairings of a run. Each pairing gets a
// fresh UUID so rows stay unique across runs and rounds.
func (rs *RunStoreImpl) RecordPairings(runID int64, round int, pairings []schema.GeneratedPairing) error {
	if rs.disabled() || len(pairings) == 0 {
		return nil
	}
	query := rs.insertQuery(pairingsTable, "pairing_id, run_id, round, debate_no, aff_id, neg_id, judge_id, room, quality", 9)
	return rs.insertAll(query, len(pairings), func(i int) []any {
		p := pairings[i]
		return []any{
			rs.newID().String(), runID, round, i + 1, p.AffID, p.NegID,
			nullString(p.JudgeID), nullString(p.Room), p.Quality,
		}
	})
}

// RecordBreaks stores the break results of a run.
func (rs *RunStoreImpl) RecordBreaks(runID int64, results []schema.BreakResult) error {
	if rs.disabled() || len(results) == 0 {
		return nil
	}
	query := rs.insertQuery(breaksTable, "run_id, category_id, team_id, team_rank, break_rank, is_breaking, remark", 7)
	return rs.insertAll(query, len(results), func(i int) []any {
		r := results[i]
		return []any{runID, r.CategoryID, r.TeamID, r.Rank, r.BreakRank, r.IsBreaking, nullString(string(r.Remark))}
	})
}

func (rs *RunStoreImpl) insertQuery(table, columns string, n int) string {
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quoteTableName(table, rs.backend), columns, placeholders(rs.backend, n))
}

// insertAll runs one prepared insert per row inside a single transaction.
func (rs *RunStoreImpl) insertAll(query string, n int, row func(i int) []any) error {
	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range n {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns))
		var err error
		if status.LastRunID, status.LastRunTime, err = rs.scanIDTime(row); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns))
		if _, status.OldestRunTime, err = rs.scanIDTime(row); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
	}

	for _, table := range runTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, tournament, command, round, start_time, end_time, run_duration_ms, total_rows, config_params FROM %s ORDER BY run_id",
		quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.Tournament, &record.Command, &record.Round, &startTimeStr, &endTimeStr,
				&record.DurationMs, &record.TotalRows, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = time.Parse(time.RFC3339Nano, startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.Tournament, &record.Command, &record.Round, &record.StartTime, &record.EndTime,
				&record.DurationMs, &record.TotalRows, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllStandings retrieves all recorded standings rows.
func (rs *RunStoreImpl) GetAllStandings() ([]schema.StandingRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, team_id, team_rank, wins, losses, speaks, ranks, adjusted_speaks,
    adjusted_ranks, opponent_wins, decided_by
    FROM %s ORDER BY run_id, team_rank`, quoteTableName(standingsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StandingRecord
	for rows.Next() {
		var r schema.StandingRecord
		if err := rows.Scan(&r.RunID, &r.TeamID, &r.Rank, &r.Wins, &r.Losses, &r.Speaks, &r.Ranks,
			&r.AdjustedSpeaks, &r.AdjustedRanks, &r.OpponentWins, &r.DecidedBy); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column, handling the SQLite text encoding.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if rs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

// scanIDTime reads a run id and its start time.
func (rs *RunStoreImpl) scanIDTime(row *sql.Row) (int64, time.Time, error) {
	var id int64
	if rs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&id, &t)
		return id, t, err
	}
	var s string
	if err := row.Scan(&id, &s); err != nil {
		return 0, time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	return id, t, err
}
