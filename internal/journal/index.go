package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// TurnRow is the indexed summary of one journaled turn.
type TurnRow struct {
	RunID     string
	Turn      int
	At        time.Time
	Budget    int
	Committed int
	Actions   int
	Truncated bool
	Duration  time.Duration
	Line      string
}

// Index is a SQLite table of turn summaries keyed by (run_id, turn).
type Index struct {
	db     *sql.DB
	insert *sql.Stmt
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("journal: empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open index: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	insert, err := db.Prepare(`INSERT OR REPLACE INTO turns
		(run_id, turn, at, budget, committed, actions, truncated, duration_us, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: prepare: %w", err)
	}
	return &Index{db: db, insert: insert}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("journal: %s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			run_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			at TEXT NOT NULL,
			budget INTEGER NOT NULL,
			committed INTEGER NOT NULL,
			actions INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			duration_us INTEGER NOT NULL,
			line TEXT NOT NULL,
			PRIMARY KEY (run_id, turn)
		);`,
		`CREATE INDEX IF NOT EXISTS turns_at ON turns(at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("journal: schema: %w", err)
		}
	}
	return nil
}

// Insert stores the summary of rec, replacing an existing row for the same
// run and turn.
func (x *Index) Insert(ctx context.Context, rec Record) error {
	d := rec.Decision
	_, err := x.insert.ExecContext(ctx,
		rec.RunID,
		rec.Turn,
		rec.At.UTC().Format(time.RFC3339Nano),
		d.Budget,
		d.Committed(),
		len(d.Actions),
		d.Truncated,
		d.Duration.Microseconds(),
		rec.Line,
	)
	if err != nil {
		return fmt.Errorf("journal: insert turn %d: %w", rec.Turn, err)
	}
	return nil
}

// Turns returns the rows of runID ordered by turn.
func (x *Index) Turns(ctx context.Context, runID string) ([]TurnRow, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT run_id, turn, at, budget, committed, actions, truncated, duration_us, line
		FROM turns WHERE run_id = ? ORDER BY turn`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []TurnRow
	for rows.Next() {
		var (
			r      TurnRow
			at     string
			durMic int64
		)
		if err := rows.Scan(&r.RunID, &r.Turn, &at, &r.Budget, &r.Committed, &r.Actions, &r.Truncated, &durMic, &r.Line); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if r.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("journal: turn %d timestamp: %w", r.Turn, err)
		}
		r.Duration = time.Duration(durMic) * time.Microsecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// Runs lists distinct run ids, most recent first.
func (x *Index) Runs(ctx context.Context) ([]string, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT run_id FROM turns GROUP BY run_id ORDER BY MAX(at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (x *Index) Close() error {
	if x.insert != nil {
		_ = x.insert.Close()
	}
	return x.db.Close()
}
