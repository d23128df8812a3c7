// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich derives relevant dates and locations for batches of
// articles.
package enrich

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/hoax-insight/internal/dates"
	"github.com/pdiddy/hoax-insight/internal/location"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Enricher runs the date and location pipelines over articles. It holds
// no mutable state and may be shared.
type Enricher struct {
	dates     *dates.Extractor
	locations *location.Extractor
	workers   int
	field     types.TextField
	settings  string
	now       func() time.Time
}

// New builds an Enricher. Workers defaults to runtime.NumCPU() and the text
// field to the article content.
func New(d *dates.Extractor, l *location.Extractor, cfg types.EnrichConfig) *Enricher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	field := cfg.TextField
	if field == "" {
		field = types.TextContent
	}
	return &Enricher{
		dates:     d,
		locations: l,
		workers:   workers,
		field:     field,
		settings:  settingsDigest(d, l, field),
		now:       time.Now,
	}
}

// settingsDigest fingerprints everything besides the text that enrichment
// results depend on.
func settingsDigest(d *dates.Extractor, l *location.Extractor, field types.TextField) string {
	data, err := json.Marshal(struct {
		Dates     types.DateConfig `json:"dates"`
		Keywords  []string         `json:"keywords"`
		Gazetteer string           `json:"gazetteer"`
		Field     types.TextField  `json:"field"`
	}{d.Config(), l.Keywords(), l.Gazetteer().Digest(), field})
	if err != nil {
		zap.L().Warn("fingerprinting enrichment settings", zap.Error(err))
	}
	return digest(string(data))
}

// Text returns the text the pipelines read for a. The title_content field
// joins title and content with a single space.
func (en *Enricher) Text(a types.Article) string {
	if en.field == types.TextTitleContent {
		return strings.TrimSpace(a.Title + " " + a.Content)
	}
	return a.Content
}

// Hash identifies the text of a together with the extractor settings.
// Enrichment is a pure function of both, so an unchanged hash means the
// stored results are still current.
func (en *Enricher) Hash(a types.Article) string {
	return digest(en.settings, en.Text(a))
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// Enrich derives every field for one article. It never fails: fields the
// text does not support are left empty.
func (en *Enricher) Enrich(a types.Article) types.EnrichedArticle {
	text := en.Text(a)
	out := types.EnrichedArticle{
		Article:      a,
		AllDates:     en.dates.AllDates(text),
		AllLocations: en.locations.AllLocations(text),
		ContentHash:  digest(en.settings, text),
		EnrichedAt:   en.now().UTC(),
	}
	out.RelevantDate, _ = en.dates.RelevantDate(text)
	if loc, ok := en.locations.RelevantLocation(text); ok {
		out.RelevantLocation = loc
		out.RelevantProvince, _ = en.locations.Gazetteer().Province(loc)
	}
	return out
}

// EnrichAll enriches articles with a bounded pool of workers. The result
// is in input order. It fails only when ctx is cancelled.
func (en *Enricher) EnrichAll(ctx context.Context, articles []types.Article) ([]types.EnrichedArticle, error) {
	out := make([]types.EnrichedArticle, len(articles))
	if len(articles) == 0 {
		return out, nil
	}

	zap.L().Info("enriching articles",
		zap.Int("articles", len(articles)),
		zap.Int("workers", en.workers),
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(en.workers)

	for i, a := range articles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = en.Enrich(a)
			zap.L().Debug("article enriched",
				zap.Int64("id", a.ID),
				zap.String("relevant_date", out[i].RelevantDate),
				zap.String("relevant_province", out[i].RelevantProvince),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "enrich: batch")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "enrich: batch")
	}

	zap.L().Info("enrichment complete",
		zap.Int("articles", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// Pending returns the articles whose hash differs from the stored one, or
// that have never been stored.
func (en *Enricher) Pending(articles []types.Article, stored map[int64]string) []types.Article {
	var out []types.Article
	for _, a := range articles {
		if h, ok := stored[a.ID]; ok && h == en.Hash(a) {
			continue
		}
		out = append(out, a)
	}
	return out
}
