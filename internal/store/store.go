// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists enriched articles in a local SQLite index with
// full-text search, filtered retrieval, statistics and export.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "hoax.db"

	defaultMaxResults = 20
)

// Store manages the enriched-article SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates the database at <dir>/index/hoax.db and creates
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "store: creating index directory")
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, eris.Wrap(err, "store: opening database")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: creating schema")
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
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description TEXT,
			content TEXT NOT NULL DEFAULT '',
			author TEXT,
			source_url TEXT,
			status TEXT,
			fact TEXT,
			published_at TEXT,
			categories TEXT NOT NULL DEFAULT '[]',
			classifications TEXT NOT NULL DEFAULT '[]',
			refs TEXT NOT NULL DEFAULT '[]',
			all_dates TEXT NOT NULL DEFAULT '[]',
			relevant_date TEXT,
			all_locations TEXT NOT NULL DEFAULT '[]',
			relevant_location TEXT,
			relevant_province TEXT,
			content_hash TEXT NOT NULL,
			enriched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_province ON articles(relevant_province)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(relevant_date)`,
		// docid mirrors articles.id; rows are replaced alongside the article.
		`CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts4(title, content)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return eris.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// SaveSummary holds counts from a Save run.
type SaveSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of articles processed.
func (s SaveSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Save upserts enriched articles, one transaction each. An article whose
// content hash matches the stored one is skipped unless force is set.
// Progress lines go to w. When anything changed, export.yaml is rewritten.
func (s *Store) Save(ctx context.Context, articles []types.EnrichedArticle, force bool, w io.Writer) (SaveSummary, error) {
	var summary SaveSummary

	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var storedHash string
		err := s.db.QueryRowContext(ctx,
			`SELECT content_hash FROM articles WHERE id = ?`, a.ID,
		).Scan(&storedHash)
		switch {
		case err == nil && storedHash == a.ContentHash && !force:
			fmt.Fprintf(w, "skipped %d\n", a.ID)
			summary.Skipped++
			continue
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			fmt.Fprintf(w, "failed  %d: %v\n", a.ID, err)
			summary.Failed++
			continue
		}
		isUpdate := err == nil

		if err := s.saveArticle(ctx, a); err != nil {
			zap.L().Warn("saving article failed", zap.Int64("id", a.ID), zap.Error(err))
			fmt.Fprintf(w, "failed  %d: %v\n", a.ID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %d\n", a.ID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %d\n", a.ID)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) saveArticle(ctx context.Context, a types.EnrichedArticle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	var publishedAt any
	if a.PublishedAt != nil {
		publishedAt = a.PublishedAt.UTC().Format(time.RFC3339)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, description, content, author, source_url, status, fact,
			published_at, categories, classifications, refs,
			all_dates, relevant_date, all_locations, relevant_location, relevant_province,
			content_hash, enriched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, description=excluded.description, content=excluded.content,
			author=excluded.author, source_url=excluded.source_url, status=excluded.status,
			fact=excluded.fact, published_at=excluded.published_at,
			categories=excluded.categories, classifications=excluded.classifications, refs=excluded.refs,
			all_dates=excluded.all_dates, relevant_date=excluded.relevant_date,
			all_locations=excluded.all_locations, relevant_location=excluded.relevant_location,
			relevant_province=excluded.relevant_province,
			content_hash=excluded.content_hash, enriched_at=excluded.enriched_at`,
		a.ID, a.Title, a.Description, a.Content, a.Author, a.SourceURL, a.Status, a.Fact,
		publishedAt, jsonList(a.Categories), jsonList(a.Classifications), jsonList(a.References),
		jsonList(a.AllDates), nullable(a.RelevantDate), jsonList(a.AllLocations),
		nullable(a.RelevantLocation), nullable(a.RelevantProvince),
		a.ContentHash, a.EnrichedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return eris.Wrapf(err, "upserting article %d", a.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM articles_fts WHERE docid = ?`, a.ID); err != nil {
		return eris.Wrap(err, "clearing search index")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO articles_fts (docid, title, content) VALUES (?, ?, ?)`,
		a.ID, a.Title, a.Content,
	); err != nil {
		return eris.Wrap(err, "updating search index")
	}

	return tx.Commit()
}

// Hashes returns the stored content hash of every article by id.
func (s *Store) Hashes(ctx context.Context) (map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, content_hash FROM articles`)
	if err != nil {
		return nil, eris.Wrap(err, "store: querying hashes")
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var (
			id   int64
			hash string
		)
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, eris.Wrap(err, "store: scanning hash")
		}
		out[id] = hash
	}
	return out, rows.Err()
}

func jsonList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
