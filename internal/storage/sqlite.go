// Package storage provides SQLite-based persistence for the Loopy save and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/progress"
)

// ErrNoSave is returned by Stored when nothing has been persisted yet.
var ErrNoSave = errors.New("storage: no save recorded")

// Run outcomes stored in the history table.
const (
	OutcomeCompleted = "completed"
	OutcomeGameOver  = "game_over"
	OutcomeAbandoned = "abandoned"
)

// Store manages the SQLite database connection for save persistence.
type Store struct {
	db  *sql.DB
	log *log.Logger
}

// Ensure Store can back a level.
var _ loopy.SaveStore = (*Store)(nil)

// RunRecord is one finished attempt at a level.
type RunRecord struct {
	ID            string
	LevelID       int
	Outcome       string
	Reason        string
	Score         int
	Collected     int
	Seeds         int
	UniverseSeeds int
	BloomsCast    int
	Deaths        int
	DurationMs    int64
	CreatedAt     time.Time
}

// LevelStats contains aggregated history for one level.
type LevelStats struct {
	LevelID    int
	Runs       int
	Completed  int
	BestScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store warnings to lg.
func WithLogger(lg *log.Logger) Option {
	return func(s *Store) {
		if lg != nil {
			s.log = lg
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string, opts ...Option) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Concurrent SSH sessions write through one store. Transactions take
	// the write lock at BEGIN so busy_timeout covers read-then-write merges.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS save_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			highest_unlocked INTEGER NOT NULL DEFAULT 1,
			seeds INTEGER NOT NULL DEFAULT 0,
			universe_seeds INTEGER NOT NULL DEFAULT 0,
			blooms_cast INTEGER NOT NULL DEFAULT 0,
			music_volume REAL NOT NULL,
			sfx_volume REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS level_best (
			level_id INTEGER PRIMARY KEY,
			score INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			level_id INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT,
			score INTEGER NOT NULL DEFAULT 0,
			collected INTEGER NOT NULL DEFAULT 0,
			seeds INTEGER NOT NULL DEFAULT 0,
			universe_seeds INTEGER NOT NULL DEFAULT 0,
			blooms_cast INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(level_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// queryer is the read surface shared by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// Stored returns the persisted save, or ErrNoSave if none exists.
func (s *Store) Stored() (progress.SaveState, error) {
	return readState(s.db)
}

// Load returns the persisted save, falling back to defaults when nothing
// has been saved yet. The result is always sanitized.
func (s *Store) Load() (progress.SaveState, error) {
	st, err := readState(s.db)
	if errors.Is(err, ErrNoSave) {
		return progress.Defaults(), nil
	}
	if err != nil {
		return progress.SaveState{}, err
	}
	return st, nil
}

func readState(q queryer) (progress.SaveState, error) {
	st := progress.SaveState{LevelBest: map[int]int{}}
	err := q.QueryRow(
		`SELECT highest_unlocked, seeds, universe_seeds, blooms_cast, music_volume, sfx_volume
		 FROM save_state WHERE id = 1`,
	).Scan(
		&st.HighestUnlocked,
		&st.Totals.Seeds,
		&st.Totals.UniverseSeeds,
		&st.Totals.BloomsCast,
		&st.Settings.MusicVolume,
		&st.Settings.SfxVolume,
	)
	if err == sql.ErrNoRows {
		return progress.SaveState{}, ErrNoSave
	}
	if err != nil {
		return progress.SaveState{}, fmt.Errorf("storage: cannot query save: %w", err)
	}

	rows, err := q.Query("SELECT level_id, score FROM level_best")
	if err != nil {
		return progress.SaveState{}, fmt.Errorf("storage: cannot query level scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level, score int
		if err := rows.Scan(&level, &score); err != nil {
			return progress.SaveState{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		st.LevelBest[level] = score
	}
	if err := rows.Err(); err != nil {
		return progress.SaveState{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return progress.Sanitize(st), nil
}

// Merge folds a level completion into the save inside one transaction and
// returns the merged state.
func (s *Store) Merge(levelID, score int, earned progress.Earned) (progress.SaveState, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return progress.SaveState{}, fmt.Errorf("storage: cannot begin merge: %w", err)
	}

	before, err := readState(tx)
	if errors.Is(err, ErrNoSave) {
		before, err = progress.Defaults(), nil
	}
	if err != nil {
		s.rollback(tx)
		return progress.SaveState{}, err
	}

	merged := progress.Merge(before, levelID, score, earned)
	if err := writeState(tx, merged); err != nil {
		s.rollback(tx)
		return progress.SaveState{}, err
	}
	if err := tx.Commit(); err != nil {
		return progress.SaveState{}, fmt.Errorf("storage: cannot commit merge: %w", err)
	}
	return merged, nil
}

// Replace overwrites the whole save with st after sanitizing it.
func (s *Store) Replace(st progress.SaveState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin replace: %w", err)
	}
	if err := writeState(tx, progress.Sanitize(st)); err != nil {
		s.rollback(tx)
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit replace: %w", err)
	}
	return nil
}

// SaveSettings updates only the volume settings.
func (s *Store) SaveSettings(settings progress.Settings) error {
	st, err := s.Load()
	if err != nil {
		return err
	}
	st.Settings = settings
	return s.Replace(st)
}

// Reset deletes the save and the run history.
func (s *Store) Reset() error {
	_, err := s.db.Exec(`
		DELETE FROM save_state;
		DELETE FROM level_best;
		DELETE FROM runs;
	`)
	if err != nil {
		return fmt.Errorf("storage: cannot reset save: %w", err)
	}
	return nil
}

func writeState(tx *sql.Tx, st progress.SaveState) error {
	_, err := tx.Exec(
		`INSERT INTO save_state
		 (id, highest_unlocked, seeds, universe_seeds, blooms_cast, music_volume, sfx_volume, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
		   highest_unlocked = excluded.highest_unlocked,
		   seeds = excluded.seeds,
		   universe_seeds = excluded.universe_seeds,
		   blooms_cast = excluded.blooms_cast,
		   music_volume = excluded.music_volume,
		   sfx_volume = excluded.sfx_volume,
		   updated_at = excluded.updated_at`,
		st.HighestUnlocked,
		st.Totals.Seeds,
		st.Totals.UniverseSeeds,
		st.Totals.BloomsCast,
		st.Settings.MusicVolume,
		st.Settings.SfxVolume,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write save: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM level_best"); err != nil {
		return fmt.Errorf("storage: cannot clear level scores: %w", err)
	}
	for level, score := range st.LevelBest {
		if _, err := tx.Exec(
			"INSERT INTO level_best (level_id, score) VALUES (?, ?)",
			level, score,
		); err != nil {
			return fmt.Errorf("storage: cannot write level %d score: %w", level, err)
		}
	}
	return nil
}

func (s *Store) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.log.Warn("rollback failed", "error", err)
	}
}

// RecordRun appends a finished attempt to the history. An empty ID is
// replaced with a fresh UUID, which is returned.
func (s *Store) RecordRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Outcome == "" {
		r.Outcome = OutcomeAbandoned
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, level_id, outcome, reason, score, collected, seeds, universe_seeds, blooms_cast, deaths, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.LevelID,
		r.Outcome,
		r.Reason,
		r.Score,
		r.Collected,
		r.Seeds,
		r.UniverseSeeds,
		r.BloomsCast,
		r.Deaths,
		r.DurationMs,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot record run: %w", err)
	}
	return r.ID, nil
}

// RunFromSnapshot builds a history record from the final debug snapshot of
// an attempt.
func RunFromSnapshot(snap loopy.DebugSnapshot) RunRecord {
	outcome := OutcomeAbandoned
	switch {
	case snap.Completed:
		outcome = OutcomeCompleted
	case snap.GameOver:
		outcome = OutcomeGameOver
	}
	return RunRecord{
		LevelID:       snap.LevelID,
		Outcome:       outcome,
		Reason:        snap.Reason,
		Score:         snap.Score,
		Collected:     snap.Objective.Collected,
		Seeds:         snap.Economy.Seeds,
		UniverseSeeds: snap.Economy.UniverseSeeds,
		BloomsCast:    snap.Economy.BloomsCast,
		Deaths:        snap.Economy.Deaths,
		DurationMs:    int64(snap.NowMs),
	}
}

const runColumns = `run_id, level_id, outcome, reason, score, collected, seeds,
	universe_seeds, blooms_cast, deaths, duration_ms, created_at`

// RecentRuns retrieves the most recent attempts, newest first. A levelID
// of 0 returns runs for every level.
func (s *Store) RecentRuns(levelID, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = 0 OR level_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var reason sql.NullString
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.LevelID,
			&r.Outcome,
			&reason,
			&r.Score,
			&r.Collected,
			&r.Seeds,
			&r.UniverseSeeds,
			&r.BloomsCast,
			&r.Deaths,
			&r.DurationMs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if reason.Valid {
			r.Reason = reason.String
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves one attempt. Returns nil if it does not exist.
func (s *Store) RunByID(id string) (*RunRecord, error) {
	var r RunRecord
	var reason sql.NullString
	var createdAt any

	err := s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`,
		id,
	).Scan(
		&r.ID,
		&r.LevelID,
		&r.Outcome,
		&reason,
		&r.Score,
		&r.Collected,
		&r.Seeds,
		&r.UniverseSeeds,
		&r.BloomsCast,
		&r.Deaths,
		&r.DurationMs,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	if reason.Valid {
		r.Reason = reason.String
	}
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// AllLevelStats retrieves history statistics for every level that has
// been attempted, keyed by level id.
func (s *Store) AllLevelStats() (map[int]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        MAX(score), AVG(score), MAX(created_at)
		 FROM runs
		 GROUP BY level_id`,
		OutcomeCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[int]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.LevelID, &ls.Runs, &ls.Completed, &ls.BestScore, &ls.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = parseTime(lastPlayed)
		stats[ls.LevelID] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
