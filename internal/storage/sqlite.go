// Package storage provides SQLite-based persistence for run history
// and game saves. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry represents one finished (or abandoned) run.
type RunEntry struct {
	ID           int64
	Mode         string
	Score        int
	Level        int
	Merges       int
	Matches      int
	BestTier     int
	DurationSecs int
	CreatedAt    time.Time
}

// SaveGame is a full snapshot of a session: the board, the player
// ledger and the run counters, keyed by a save slot.
type SaveGame struct {
	Slot         string
	Mode         string
	BoardW       int
	BoardH       int
	Score        int
	Placements   int
	Merges       int
	Matches      int
	BestTier     int
	DurationSecs int
	XP           int64
	Level        int
	Blocks       []grid.Block
	Resources    map[core.Resource]int64
	Attributes   map[core.Attribute]int64
	UpdatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			merges INTEGER NOT NULL DEFAULT 0,
			matches INTEGER NOT NULL DEFAULT 0,
			best_tier INTEGER NOT NULL DEFAULT 1,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);

		CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			board_w INTEGER NOT NULL,
			board_h INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			placements INTEGER NOT NULL DEFAULT 0,
			merges INTEGER NOT NULL DEFAULT 0,
			matches INTEGER NOT NULL DEFAULT 0,
			best_tier INTEGER NOT NULL DEFAULT 1,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS save_blocks (
			slot TEXT NOT NULL,
			block_id TEXT NOT NULL,
			block_type TEXT NOT NULL,
			tier INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (slot, block_id)
		);
		CREATE INDEX IF NOT EXISTS idx_save_blocks_slot ON save_blocks(slot);

		CREATE TABLE IF NOT EXISTS save_stats (
			slot TEXT NOT NULL,
			stat TEXT NOT NULL,
			kind TEXT NOT NULL,
			amount INTEGER NOT NULL,
			PRIMARY KEY (slot, stat)
		);
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

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (mode, score, level, merges, matches, best_tier, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Mode, run.Score, run.Level, run.Merges, run.Matches, run.BestTier, run.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the top N runs for the given mode, ordered by
// score descending.
func (s *Store) TopRuns(mode string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode, score, level, merges, matches, best_tier, duration_secs, created_at
		 FROM runs
		 WHERE mode = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs across all modes.
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, score, level, merges, matches, best_tier, duration_secs, created_at
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Mode, &e.Score, &e.Level, &e.Merges,
			&e.Matches, &e.BestTier, &e.DurationSecs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given mode.
// Returns 0 if no runs exist.
func (s *Store) HighScore(mode string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE mode = ?",
		mode,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes all runs for the given mode.
func (s *Store) ClearRuns(mode string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE mode = ?", mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// RunStats contains aggregated statistics for one mode.
type RunStats struct {
	Mode       string
	RunsCount  int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestTier   int
	LastPlayed time.Time
}

// GetRunStats retrieves aggregated statistics for a specific mode.
func (s *Store) GetRunStats(mode string) (*RunStats, error) {
	stats := &RunStats{Mode: mode}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(MAX(best_tier), 1)
		 FROM runs WHERE mode = ?`,
		mode,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.BestTier)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE mode = ? ORDER BY created_at DESC LIMIT 1`,
		mode,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// GetAllRunStats retrieves statistics for every mode that has runs.
func (s *Store) GetAllRunStats() (map[string]*RunStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(best_tier), MAX(created_at)
		 FROM runs
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*RunStats)
	for rows.Next() {
		var st RunStats
		var lastPlayed any
		if err := rows.Scan(&st.Mode, &st.RunsCount, &st.HighScore, &st.AvgScore,
			&st.TotalScore, &st.BestTier, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTimestamp(lastPlayed)
		stats[st.Mode] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SaveGame persists a full session snapshot under its slot, replacing
// any previous snapshot in that slot. The header row, the board blocks
// and the player stats are written in one transaction.
func (s *Store) SaveGame(save SaveGame) error {
	if save.Slot == "" {
		return fmt.Errorf("storage: save slot cannot be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO saves (slot, mode, board_w, board_h, score, placements, merges, matches,
		                    best_tier, duration_secs, xp, level, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   mode = excluded.mode,
		   board_w = excluded.board_w,
		   board_h = excluded.board_h,
		   score = excluded.score,
		   placements = excluded.placements,
		   merges = excluded.merges,
		   matches = excluded.matches,
		   best_tier = excluded.best_tier,
		   duration_secs = excluded.duration_secs,
		   xp = excluded.xp,
		   level = excluded.level,
		   updated_at = CURRENT_TIMESTAMP`,
		save.Slot, save.Mode, save.BoardW, save.BoardH, save.Score, save.Placements,
		save.Merges, save.Matches, save.BestTier, save.DurationSecs, save.XP, save.Level,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot upsert save header: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM save_blocks WHERE slot = ?", save.Slot); err != nil {
		return fmt.Errorf("storage: cannot clear save blocks: %w", err)
	}
	for _, b := range save.Blocks {
		_, err := tx.Exec(
			`INSERT INTO save_blocks (slot, block_id, block_type, tier, x, y, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			save.Slot, b.ID, string(b.Type), b.Tier, b.Pos.X, b.Pos.Y,
			b.CreatedAt.Format(time.RFC3339Nano), b.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("storage: cannot insert save block %s: %w", b.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM save_stats WHERE slot = ?", save.Slot); err != nil {
		return fmt.Errorf("storage: cannot clear save stats: %w", err)
	}
	for res, amount := range save.Resources {
		_, err := tx.Exec(
			"INSERT INTO save_stats (slot, stat, kind, amount) VALUES (?, ?, 'resource', ?)",
			save.Slot, string(res), amount,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot insert save stat %s: %w", res, err)
		}
	}
	for attr, amount := range save.Attributes {
		_, err := tx.Exec(
			"INSERT INTO save_stats (slot, stat, kind, amount) VALUES (?, ?, 'attribute', ?)",
			save.Slot, string(attr), amount,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot insert save stat %s: %w", attr, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit save: %w", err)
	}

	return nil
}

// LoadGame retrieves the snapshot stored under the slot.
// Returns nil if the slot has no save.
func (s *Store) LoadGame(slot string) (*SaveGame, error) {
	save := &SaveGame{Slot: slot}
	var updatedAt any

	err := s.db.QueryRow(
		`SELECT mode, board_w, board_h, score, placements, merges, matches,
		        best_tier, duration_secs, xp, level, updated_at
		 FROM saves WHERE slot = ?`,
		slot,
	).Scan(&save.Mode, &save.BoardW, &save.BoardH, &save.Score, &save.Placements,
		&save.Merges, &save.Matches, &save.BestTier, &save.DurationSecs,
		&save.XP, &save.Level, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save: %w", err)
	}
	save.UpdatedAt = parseTimestamp(updatedAt)

	rows, err := s.db.Query(
		`SELECT block_id, block_type, tier, x, y, created_at, updated_at
		 FROM save_blocks WHERE slot = ?`,
		slot,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b grid.Block
		var blockType string
		var createdAt, updatedAt any
		if err := rows.Scan(&b.ID, &blockType, &b.Tier, &b.Pos.X, &b.Pos.Y,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan save block: %w", err)
		}
		b.Type = grid.BlockType(blockType)
		b.CreatedAt = parseTimestamp(createdAt)
		b.UpdatedAt = parseTimestamp(updatedAt)
		save.Blocks = append(save.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	statRows, err := s.db.Query(
		"SELECT stat, kind, amount FROM save_stats WHERE slot = ?",
		slot,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save stats: %w", err)
	}
	defer statRows.Close()

	save.Resources = make(map[core.Resource]int64)
	save.Attributes = make(map[core.Attribute]int64)
	for statRows.Next() {
		var stat, kind string
		var amount int64
		if err := statRows.Scan(&stat, &kind, &amount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan save stat: %w", err)
		}
		switch kind {
		case "resource":
			save.Resources[core.Resource(stat)] = amount
		case "attribute":
			save.Attributes[core.Attribute(stat)] = amount
		}
	}
	if err := statRows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return save, nil
}

// DeleteSave removes the snapshot stored under the slot, if any.
func (s *Store) DeleteSave(slot string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM save_blocks WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete save blocks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM save_stats WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete save stats: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM saves WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}

	return nil
}

// parseTimestamp handles the datetime shapes the driver may return:
// native time.Time, the sqlite CURRENT_TIMESTAMP string, or the
// RFC 3339 strings block rows are written with.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
