// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads hoax articles from Postgres or from a local file.
package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Status is the outcome of a source health check.
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// Health reports whether a source is reachable and holds articles.
type Health struct {
	Status   Status `json:"status" yaml:"status"`
	Message  string `json:"message" yaml:"message"`
	Articles int    `json:"articles" yaml:"articles"`
}

// Source yields the articles to enrich.
type Source interface {
	Articles(ctx context.Context) ([]types.Article, error)
	Check(ctx context.Context) Health
	Close()
}

// New opens the source selected by cfg.Driver.
func New(ctx context.Context, cfg types.SourceConfig) (Source, error) {
	switch cfg.Driver {
	case types.SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, eris.New("source: postgres driver requires source.database_url")
		}
		return NewPostgres(ctx, cfg.DatabaseURL)
	case types.SourceFile:
		if cfg.Path == "" {
			return nil, eris.New("source: file driver requires source.path")
		}
		return NewFile(cfg.Path), nil
	default:
		return nil, eris.Errorf("source: unknown driver %q", cfg.Driver)
	}
}

// healthFor maps an article count (or the error that prevented counting)
// to a Health.
func healthFor(n int, err error) Health {
	switch {
	case err != nil:
		return Health{Status: StatusError, Message: err.Error()}
	case n == 0:
		return Health{Status: StatusEmpty, Message: "source accessible but no articles found"}
	default:
		return Health{Status: StatusHealthy, Message: "source accessible and contains articles", Articles: n}
	}
}
