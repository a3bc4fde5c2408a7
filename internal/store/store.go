// Package store archives finished campaigns in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/peterkuimelis/campaignx/internal/sim"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for an unknown campaign ID.
var ErrNotFound = errors.New("campaign not found")

// Record is one finished campaign.
type Record struct {
	ID             string      `json:"id"`
	Candidate      string      `json:"candidate"`
	Party          string      `json:"party"`
	District       string      `json:"district"`
	Difficulty     string      `json:"difficulty"`
	Outcome        sim.Outcome `json:"outcome"`
	PrimarySupport float64     `json:"primary_support"`
	FinalSupport   float64     `json:"final_support"`
	Turnout        float64     `json:"turnout"`
	FinalVote      float64     `json:"final_vote"`
	WeeksPlayed    int         `json:"weeks_played"`
	Seed           int64       `json:"seed"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
	Archive        string      `json:"archive,omitempty"` // path of the zstd event log
}

// Store wraps a SQLite connection holding campaign records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return err
	}

	if version < 1 {
		if _, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS campaigns (
				id              TEXT    PRIMARY KEY,
				candidate       TEXT    NOT NULL,
				party           TEXT    NOT NULL,
				district        TEXT    NOT NULL,
				difficulty      TEXT    NOT NULL DEFAULT 'normal',
				outcome         TEXT    NOT NULL,
				primary_support REAL    NOT NULL DEFAULT 0,
				final_support   REAL    NOT NULL DEFAULT 0,
				turnout         REAL    NOT NULL DEFAULT 0,
				final_vote      REAL    NOT NULL DEFAULT 0,
				weeks_played    INTEGER NOT NULL DEFAULT 0,
				seed            INTEGER NOT NULL DEFAULT 0,
				started_at      TEXT    NOT NULL,
				finished_at     TEXT    NOT NULL,
				archive         TEXT    NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_campaigns_finished ON campaigns(finished_at);
			CREATE INDEX IF NOT EXISTS idx_campaigns_outcome  ON campaigns(outcome);
		`); err != nil {
			return err
		}
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (1)`); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a record.
func (s *Store) Save(ctx context.Context, r Record) error {
	if r.ID == "" {
		return fmt.Errorf("store: save: empty campaign id")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO campaigns (
			id, candidate, party, district, difficulty, outcome,
			primary_support, final_support, turnout, final_vote,
			weeks_played, seed, started_at, finished_at, archive
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Candidate, r.Party, r.District, r.Difficulty, r.Outcome.String(),
		r.PrimarySupport, r.FinalSupport, r.Turnout, r.FinalVote,
		r.WeeksPlayed, r.Seed, formatTime(r.StartedAt), formatTime(r.FinishedAt), r.Archive)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", r.ID, err)
	}
	return nil
}

const selectColumns = `
	SELECT id, candidate, party, district, difficulty, outcome,
		primary_support, final_support, turnout, final_vote,
		weeks_played, seed, started_at, finished_at, archive
	FROM campaigns`

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return r, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: recent: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Tally counts finished campaigns by outcome.
func (s *Store) Tally(ctx context.Context) (map[sim.Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM campaigns GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("store: tally: %w", err)
	}
	defer rows.Close()

	tally := make(map[sim.Outcome]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("store: tally: %w", err)
		}
		var o sim.Outcome
		if err := o.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("store: tally: %w", err)
		}
		tally[o] = n
	}
	return tally, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var outcome, started, finished string
	if err := sc.Scan(&r.ID, &r.Candidate, &r.Party, &r.District, &r.Difficulty, &outcome,
		&r.PrimarySupport, &r.FinalSupport, &r.Turnout, &r.FinalVote,
		&r.WeeksPlayed, &r.Seed, &started, &finished, &r.Archive); err != nil {
		return Record{}, err
	}
	if err := r.Outcome.UnmarshalText([]byte(outcome)); err != nil {
		return Record{}, err
	}
	var err error
	if r.StartedAt, err = parseTime(started); err != nil {
		return Record{}, err
	}
	if r.FinishedAt, err = parseTime(finished); err != nil {
		return Record{}, err
	}
	return r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
