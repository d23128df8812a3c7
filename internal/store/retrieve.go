// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rotisserie/eris"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

// QueryOptions holds retrieval and statistics filters. Zero fields do not
// filter.
type QueryOptions struct {
	// Query is an FTS4 match expression over title and content.
	Query string

	// Province filters by relevant province.
	Province string

	// Category and Classification filter by list membership.
	Category       string
	Classification string

	// From and To bound the relevant date (YYYY-MM-DD, inclusive).
	From string
	To   string

	// IncludeUndated keeps articles without a relevant date when From or To
	// is set.
	IncludeUndated bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Province == "" && q.Category == "" &&
		q.Classification == "" && q.From == "" && q.To == ""
}

var articleColumns = []string{
	"a.id", "a.title", "a.description", "a.content", "a.author", "a.source_url", "a.status", "a.fact",
	"a.published_at", "a.categories", "a.classifications", "a.refs",
	"a.all_dates", "a.relevant_date", "a.all_locations", "a.relevant_location", "a.relevant_province",
	"a.content_hash", "a.enriched_at",
}

// filtered applies opts to a select over articles aliased as a.
func filtered(b sq.SelectBuilder, opts QueryOptions) sq.SelectBuilder {
	b = b.From("articles a")
	if opts.Query != "" {
		b = b.Join("articles_fts ON articles_fts.docid = a.id").
			Where("articles_fts MATCH ?", opts.Query)
	}
	if opts.Province != "" {
		b = b.Where(sq.Eq{"a.relevant_province": opts.Province})
	}
	if opts.Category != "" {
		b = b.Where(`EXISTS (SELECT 1 FROM json_each(a.categories) WHERE value = ?)`, opts.Category)
	}
	if opts.Classification != "" {
		b = b.Where(`EXISTS (SELECT 1 FROM json_each(a.classifications) WHERE value = ?)`, opts.Classification)
	}

	var dated sq.And
	if opts.From != "" {
		dated = append(dated, sq.GtOrEq{"a.relevant_date": opts.From})
	}
	if opts.To != "" {
		dated = append(dated, sq.LtOrEq{"a.relevant_date": opts.To})
	}
	if len(dated) > 0 {
		if opts.IncludeUndated {
			b = b.Where(sq.Or{sq.Eq{"a.relevant_date": nil}, dated})
		} else {
			b = b.Where(dated)
		}
	}
	return b
}

// Retrieve returns enriched articles matching opts, newest relevant date
// first. Undated articles sort last.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.EnrichedArticle, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	query, args, err := filtered(sq.Select(articleColumns...), opts).
		OrderBy("a.relevant_date DESC", "a.id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "store: building query")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: querying articles")
	}
	defer rows.Close()

	var results []types.EnrichedArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func scanArticle(rows *sql.Rows) (types.EnrichedArticle, error) {
	var (
		a                                             types.EnrichedArticle
		description, author, sourceURL, status, fact  sql.NullString
		publishedAt, relDate, relLocation, relProv    sql.NullString
		categories, classifications, refs, dates, locs string
		enrichedAt                                    string
	)
	if err := rows.Scan(
		&a.ID, &a.Title, &description, &a.Content, &author, &sourceURL, &status, &fact,
		&publishedAt, &categories, &classifications, &refs,
		&dates, &relDate, &locs, &relLocation, &relProv,
		&a.ContentHash, &enrichedAt,
	); err != nil {
		return a, eris.Wrap(err, "store: scanning row")
	}

	a.Description = description.String
	a.Author = author.String
	a.SourceURL = sourceURL.String
	a.Status = status.String
	a.Fact = fact.String
	a.RelevantDate = relDate.String
	a.RelevantLocation = relLocation.String
	a.RelevantProvince = relProv.String

	if publishedAt.Valid {
		if t, err := time.Parse(time.RFC3339, publishedAt.String); err == nil {
			a.PublishedAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, enrichedAt); err == nil {
		a.EnrichedAt = t
	}

	lists := []struct {
		column string
		raw    string
		dst    *[]string
	}{
		{"categories", categories, &a.Categories},
		{"classifications", classifications, &a.Classifications},
		{"refs", refs, &a.References},
		{"all_dates", dates, &a.AllDates},
		{"all_locations", locs, &a.AllLocations},
	}
	for _, l := range lists {
		v, err := decodeList(l.raw)
		if err != nil {
			return a, eris.Wrapf(err, "store: decoding %s of article %d", l.column, a.ID)
		}
		*l.dst = v
	}
	return a, nil
}

// decodeList parses a JSON list column. Empty lists decode to nil.
func decodeList(s string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
