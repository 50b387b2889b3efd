// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists document listing metadata in SQLite so pickers and
// listings work offline and push can detect stale revisions.
// Implements: prd005-local-cache (R1-R4);
//
//	docs/ARCHITECTURE § Local cache.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nithilgadde/gdocs.nvim/pkg/types"
)

// ErrNotCached is returned when a document has no cache row.
var ErrNotCached = errors.New("document not cached")

// timeLayout is fixed-width UTC so lexicographic ORDER BY on the stored
// strings is chronological. RFC3339Nano trims trailing zeros and breaks that.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the local document cache SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the cache database at cfg.Path, creating the
// schema if it does not exist.
func NewStore(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("cache path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			modified_time TEXT,
			revision TEXT,
			local_path TEXT,
			pulled_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_modified ON documents(modified_time)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RefreshListing upserts Drive listing results. Title and modified time come
// from the listing; revision, local path, and pull time are local state and
// survive the refresh.
func (s *Store) RefreshListing(ctx context.Context, metas []types.DocumentMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, title, modified_time) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, modified_time=excluded.modified_time`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range metas {
		modTime := ""
		if !m.ModifiedTime.IsZero() {
			modTime = m.ModifiedTime.UTC().Format(timeLayout)
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.Title, modTime); err != nil {
			return fmt.Errorf("upserting document %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// MarkPulled records that a document was pulled into the workspace: the
// revision observed, the file it was written to, and when.
func (s *Store) MarkPulled(ctx context.Context, meta types.DocumentMeta, pulledAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, revision, local_path, pulled_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, revision=excluded.revision,
			local_path=excluded.local_path, pulled_at=excluded.pulled_at`,
		meta.ID, meta.Title, meta.Revision, meta.LocalPath,
		pulledAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording pull of %s: %w", meta.ID, err)
	}
	return nil
}

// Get returns the cached metadata for one document.
func (s *Store) Get(ctx context.Context, id string) (types.DocumentMeta, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, modified_time, revision, local_path FROM documents WHERE id = ?`, id)

	meta, err := scanMeta(row)
	if err == sql.ErrNoRows {
		return types.DocumentMeta{}, fmt.Errorf("document %s: %w", id, ErrNotCached)
	}
	if err != nil {
		return types.DocumentMeta{}, fmt.Errorf("reading cache row: %w", err)
	}
	return meta, nil
}

// List returns cached documents, most recently modified first. A non-empty
// filter narrows results to fuzzy title matches, best match first. limit <= 0
// uses the store default.
func (s *Store) List(ctx context.Context, filter string, limit int) ([]types.DocumentMeta, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, modified_time, revision, local_path FROM documents
		 ORDER BY modified_time DESC, title`)
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	defer rows.Close()

	var metas []types.DocumentMeta
	for rows.Next() {
		meta, err := scanMeta(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if filter != "" {
		metas = Rank(metas, filter)
	}
	if len(metas) > limit {
		metas = metas[:limit]
	}
	return metas, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(sc scanner) (types.DocumentMeta, error) {
	var (
		meta      types.DocumentMeta
		modTime   sql.NullString
		revision  sql.NullString
		localPath sql.NullString
	)
	if err := sc.Scan(&meta.ID, &meta.Title, &modTime, &revision, &localPath); err != nil {
		return types.DocumentMeta{}, err
	}
	if modTime.Valid && modTime.String != "" {
		if t, err := time.Parse(timeLayout, modTime.String); err == nil {
			meta.ModifiedTime = t
		}
	}
	if revision.Valid {
		meta.Revision = revision.String
	}
	if localPath.Valid {
		meta.LocalPath = localPath.String
	}
	return meta, nil
}
