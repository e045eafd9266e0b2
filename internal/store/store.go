// Package store persists finished canonical drafts for downstream review.
// All data lives in a single SQLite database file: the draft payload as
// JSON plus a flattened match-audit table for "why was this field filled"
// queries. The extraction engine itself never touches this package; it is
// the reference implementation of the downstream persistence collaborator.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hatch-crm/mlsdraft/internal/draft"
)

// StoredDraft is one persisted build result with its row identity.
type StoredDraft struct {
	ID           int64        `json:"id"`
	MLSNumber    string       `json:"mls_number,omitempty"`
	Vendor       string       `json:"vendor,omitempty"`
	MissingCount int          `json:"missing_count"`
	WarningCount int          `json:"warning_count"`
	CreatedAt    time.Time    `json:"created_at"`
	Result       draft.Result `json:"result"`
}

// ListOpts controls pagination for ListDrafts.
type ListOpts struct {
	Limit  int
	Offset int
}

// Config holds configuration for Open.
type Config struct {
	DBPath string
}

// Store is the SQLite-backed draft store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the draft database and runs migrations.
func Open(cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("store: empty db path")
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: cfg.DBPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mls_number TEXT NOT NULL DEFAULT '',
			vendor TEXT NOT NULL DEFAULT '',
			missing_count INTEGER NOT NULL DEFAULT 0,
			warning_count INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS draft_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			draft_id INTEGER NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
			canonical TEXT NOT NULL,
			label TEXT NOT NULL,
			score REAL NOT NULL,
			regex_matched INTEGER NOT NULL DEFAULT 0,
			value TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_mls ON drafts(mls_number)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_draft ON draft_matches(draft_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveDraft persists one build result and its match audit rows, returning
// the new draft id.
func (s *Store) SaveDraft(ctx context.Context, res draft.Result) (int64, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshaling draft: %w", err)
	}

	mls := ""
	if res.Draft.Basic.MLSNumber != nil {
		mls = *res.Draft.Basic.MLSNumber
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO drafts (mls_number, vendor, missing_count, warning_count, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		mls,
		res.Draft.Source.Vendor,
		len(res.Draft.Diagnostics.Missing),
		len(res.Draft.Diagnostics.Warnings),
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting draft: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading draft id: %w", err)
	}

	for _, m := range res.Matches {
		value, _ := json.Marshal(m.Value)
		regexMatched := 0
		if m.RegexMatched {
			regexMatched = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO draft_matches (draft_id, canonical, label, score, regex_matched, value)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, string(m.Canonical), m.Raw.Label, m.Score, regexMatched, string(value),
		); err != nil {
			return 0, fmt.Errorf("inserting match row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing draft: %w", err)
	}
	return id, nil
}

// GetDraft loads one stored draft by id.
func (s *Store) GetDraft(ctx context.Context, id int64) (*StoredDraft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mls_number, vendor, missing_count, warning_count, payload, created_at
		 FROM drafts WHERE id = ?`, id)

	var sd StoredDraft
	var payload string
	if err := row.Scan(&sd.ID, &sd.MLSNumber, &sd.Vendor, &sd.MissingCount, &sd.WarningCount, &payload, &sd.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("draft %d not found", id)
		}
		return nil, fmt.Errorf("loading draft %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(payload), &sd.Result); err != nil {
		return nil, fmt.Errorf("decoding draft %d payload: %w", id, err)
	}
	return &sd, nil
}

// ListDrafts returns stored drafts newest first. Payloads are decoded.
func (s *Store) ListDrafts(ctx context.Context, opts ListOpts) ([]*StoredDraft, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mls_number, vendor, missing_count, warning_count, payload, created_at
		 FROM drafts ORDER BY id DESC LIMIT ? OFFSET ?`, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var out []*StoredDraft
	for rows.Next() {
		var sd StoredDraft
		var payload string
		if err := rows.Scan(&sd.ID, &sd.MLSNumber, &sd.Vendor, &sd.MissingCount, &sd.WarningCount, &payload, &sd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &sd.Result); err != nil {
			return nil, fmt.Errorf("decoding draft %d payload: %w", sd.ID, err)
		}
		out = append(out, &sd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating draft rows: %w", err)
	}
	return out, nil
}

// DeleteDraft removes a stored draft and its match rows.
func (s *Store) DeleteDraft(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting draft %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("draft %d not found", id)
	}
	return nil
}
