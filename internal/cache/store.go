// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps a local SQLite copy of the backend's article list and
// a log of scrape requests, so the last known list can be shown while the
// backend is unreachable.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-client/pkg/types"
)

const defaultRunLimit = 20

// Store manages the cache database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the cache file under the user cache directory,
// falling back to the working directory.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "scholar-client.db"
	}
	return filepath.Join(dir, "scholar-client", "articles.db")
}

// Open opens or creates the cache database at cfg.Path.
func Open(cfg types.CacheConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
		`CREATE TABLE IF NOT EXISTS articles (
			position INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			source_url TEXT NOT NULL,
			record TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_title ON articles(title)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source_url ON articles(source_url)`,
		`CREATE TABLE IF NOT EXISTS scrape_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			author TEXT NOT NULL,
			inserted INTEGER NOT NULL,
			message TEXT,
			failed INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Replace swaps the cached list for articles, keeping their order.
func (s *Store) Replace(ctx context.Context, articles []types.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM articles`); err != nil {
		return fmt.Errorf("clearing articles: %w", err)
	}
	if err := insertArticles(ctx, tx, 0, articles, s.now()); err != nil {
		return err
	}
	return tx.Commit()
}

// Merge appends articles that are not cached yet and returns how many were
// added. An article counts as cached when its title or its source URL is
// already stored, the same rule the backend applies when saving.
func (s *Store) Merge(ctx context.Context, articles []types.Article) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	titles := make(map[string]bool)
	sources := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, `SELECT title, source_url FROM articles`)
	if err != nil {
		return 0, fmt.Errorf("reading cached keys: %w", err)
	}
	for rows.Next() {
		var title, source string
		if err := rows.Scan(&title, &source); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning cached keys: %w", err)
		}
		titles[title] = true
		sources[source] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	var fresh []types.Article
	for _, a := range articles {
		title, source := a.Get("title").String(), a.Get("source_url").String()
		if titles[title] || sources[source] {
			continue
		}
		titles[title] = true
		sources[source] = true
		fresh = append(fresh, a)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM articles`).Scan(&next); err != nil {
		return 0, fmt.Errorf("reading next position: %w", err)
	}
	if err := insertArticles(ctx, tx, next, fresh, s.now()); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

func insertArticles(ctx context.Context, tx *sql.Tx, start int, articles []types.Article, at time.Time) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (position, title, source_url, record, fetched_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ts := at.UTC().Format(time.RFC3339)
	for i, a := range articles {
		record, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding article %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, start+i,
			a.Get("title").String(), a.Get("source_url").String(), string(record), ts); err != nil {
			return fmt.Errorf("inserting article %d: %w", i, err)
		}
	}
	return nil
}

// Articles returns the cached list in backend order and the time it was
// last written. The time is zero when the cache is empty.
func (s *Store) Articles(ctx context.Context) ([]types.Article, time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record, fetched_at FROM articles ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var (
		articles []types.Article
		latest   time.Time
	)
	for rows.Next() {
		var record, fetched string
		if err := rows.Scan(&record, &fetched); err != nil {
			return nil, time.Time{}, fmt.Errorf("scanning article: %w", err)
		}
		var a types.Article
		if err := json.Unmarshal([]byte(record), &a); err != nil {
			return nil, time.Time{}, fmt.Errorf("decoding cached article: %w", err)
		}
		articles = append(articles, a)
		if t, err := time.Parse(time.RFC3339, fetched); err == nil && t.After(latest) {
			latest = t
		}
	}
	return articles, latest, rows.Err()
}

// RecordRun logs a scrape request.
func (s *Store) RecordRun(ctx context.Context, run types.ScrapeRun) error {
	if run.Timestamp.IsZero() {
		run.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scrape_runs (author, inserted, message, failed, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.Author, run.Inserted, run.Message, run.Failed, run.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording scrape run: %w", err)
	}
	return nil
}

// Runs returns the most recent scrape runs, newest first. A limit of zero
// or less means 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]types.ScrapeRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT author, inserted, message, failed, created_at FROM scrape_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scrape runs: %w", err)
	}
	defer rows.Close()

	var runs []types.ScrapeRun
	for rows.Next() {
		var (
			run     types.ScrapeRun
			message sql.NullString
			created string
		)
		if err := rows.Scan(&run.Author, &run.Inserted, &message, &run.Failed, &created); err != nil {
			return nil, fmt.Errorf("scanning scrape run: %w", err)
		}
		run.Message = message.String
		run.Timestamp, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
