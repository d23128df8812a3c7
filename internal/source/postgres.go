// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Pool is the subset of *pgxpool.Pool the source needs.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Relations are aggregated per article so one row carries everything.
const articlesQuery = `
SELECT a.id,
       a.title,
       COALESCE(a.description, ''),
       COALESCE(a.content, ''),
       COALESCE(a.author, ''),
       COALESCE(a.source_url, ''),
       COALESCE(a.status, ''),
       COALESCE(a.fact, ''),
       a.published_at,
       ARRAY(SELECT c.name FROM article_categories ac
             JOIN categories c ON c.id = ac.category_id
             WHERE ac.article_id = a.id ORDER BY c.name),
       ARRAY(SELECT cl.name FROM article_classifications acl
             JOIN classifications cl ON cl.id = acl.classification_id
             WHERE acl.article_id = a.id ORDER BY cl.name),
       ARRAY(SELECT r.ref_url FROM article_references r
             WHERE r.article_id = a.id AND r.ref_url IS NOT NULL ORDER BY r.id)
FROM articles a
ORDER BY a.id`

const countQuery = `SELECT COUNT(*) FROM articles`

// Postgres reads articles from the hoax-article database.
type Postgres struct {
	pool Pool
}

// NewPostgres connects a pool to connString and pings it.
func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "source: parse postgres config")
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "source: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "source: ping")
	}
	return NewPostgresWithPool(pool), nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Articles returns every article with its categories, classifications and
// reference URLs, ordered by id.
func (p *Postgres) Articles(ctx context.Context) ([]types.Article, error) {
	zap.L().Info("loading articles from postgres")

	rows, err := p.pool.Query(ctx, articlesQuery)
	if err != nil {
		return nil, eris.Wrap(err, "source: query articles")
	}
	defer rows.Close()

	var out []types.Article
	for rows.Next() {
		var (
			a         types.Article
			published *time.Time
		)
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Description, &a.Content, &a.Author, &a.SourceURL, &a.Status, &a.Fact,
			&published, &a.Categories, &a.Classifications, &a.References,
		); err != nil {
			return nil, eris.Wrap(err, "source: scan article")
		}
		if published != nil {
			t := published.UTC()
			a.PublishedAt = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate articles")
	}

	if len(out) == 0 {
		zap.L().Warn("no articles found in postgres")
	} else {
		zap.L().Info("loaded articles from postgres", zap.Int("articles", len(out)))
	}
	return out, nil
}

// Check counts articles to confirm the database is reachable.
func (p *Postgres) Check(ctx context.Context) Health {
	var n int
	err := p.pool.QueryRow(ctx, countQuery).Scan(&n)
	if err != nil {
		err = eris.Wrap(err, "source: count articles")
	}
	return healthFor(n, err)
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
