package enrich

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hoax-insight/internal/dates"
	"github.com/pdiddy/hoax-insight/internal/location"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestEnricher(cfg types.EnrichConfig) *Enricher {
	en := New(
		dates.New(types.DateConfig{MaxYear: 2027}),
		location.New(nil, types.LocationConfig{}),
		cfg,
	)
	en.now = func() time.Time { return fixedNow }
	return en
}

func TestEnrich(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{})
	a := types.Article{
		ID:      7,
		Title:   "[HOAKS] Banjir Surabaya",
		Content: "Video ini diunggah pada 12 Maret 2023 dan beredar kabar banjir besar di Surabaya, Jawa Timur",
	}

	got := en.Enrich(a)
	assert.Equal(t, a, got.Article)
	assert.Equal(t, "2023-03-12", got.RelevantDate)
	assert.Equal(t, "2023-03-12", got.AllDates[0])
	assert.Equal(t, "Surabaya", got.RelevantLocation)
	assert.Equal(t, "Jawa Timur", got.RelevantProvince)
	assert.Equal(t, []string{"Jawa Timur", "Surabaya"}, got.AllLocations)
	assert.Equal(t, en.Hash(a), got.ContentHash)
	assert.Equal(t, fixedNow, got.EnrichedAt)
}

func TestEnrichEmptyText(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{})
	got := en.Enrich(types.Article{ID: 1})
	assert.Nil(t, got.AllDates)
	assert.Nil(t, got.AllLocations)
	assert.Empty(t, got.RelevantDate)
	assert.Empty(t, got.RelevantLocation)
	assert.Empty(t, got.RelevantProvince)
}

func TestText(t *testing.T) {
	a := types.Article{Title: "Judul", Content: "Isi"}

	assert.Equal(t, "Isi", newTestEnricher(types.EnrichConfig{}).Text(a))

	en := newTestEnricher(types.EnrichConfig{TextField: types.TextTitleContent})
	assert.Equal(t, "Judul Isi", en.Text(a))
	assert.Equal(t, "Judul", en.Text(types.Article{Title: "Judul"}))
	assert.Equal(t, "Isi", en.Text(types.Article{Content: "Isi"}))
}

func TestTitleContentFindsLocationInTitle(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{TextField: types.TextTitleContent})
	got := en.Enrich(types.Article{Title: "Banjir di Medan", Content: "air setinggi dada."})
	assert.Equal(t, "Medan", got.RelevantLocation)
	assert.Equal(t, "Sumatera Utara", got.RelevantProvince)
}

func TestHash(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{})
	a := types.Article{Content: "abc"}

	assert.Len(t, en.Hash(a), 16)
	assert.Equal(t, en.Hash(a), en.Hash(a))
	assert.NotEqual(t, en.Hash(a), en.Hash(types.Article{Content: "abd"}))
	assert.Equal(t, en.Hash(a), newTestEnricher(types.EnrichConfig{Workers: 3}).Hash(a))
}

func TestHashFollowsSettings(t *testing.T) {
	a := types.Article{Title: "Judul", Content: "Banjir di Malang 2022"}
	base := newTestEnricher(types.EnrichConfig{}).Hash(a)

	tests := []struct {
		name string
		en   *Enricher
	}{
		{"min year", New(
			dates.New(types.DateConfig{MinYear: 2000, MaxYear: 2027}),
			location.New(nil, types.LocationConfig{}),
			types.EnrichConfig{},
		)},
		{"location keywords", New(
			dates.New(types.DateConfig{MaxYear: 2027}),
			location.New(nil, types.LocationConfig{Keywords: []string{"lokasi"}}),
			types.EnrichConfig{},
		)},
		{"text field", newTestEnricher(types.EnrichConfig{TextField: types.TextTitleContent})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.en.Hash(a))
		})
	}
}

func TestEnrichAllPreservesOrder(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{Workers: 4})

	var articles []types.Article
	for i := range 50 {
		articles = append(articles, types.Article{
			ID:      int64(i),
			Content: fmt.Sprintf("Diunggah pada %d Januari 2022 di Malang", i%28+1),
		})
	}

	got, err := en.EnrichAll(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, got, len(articles))
	for i, g := range got {
		assert.Equal(t, int64(i), g.ID)
		assert.Equal(t, fmt.Sprintf("2022-01-%02d", i%28+1), g.RelevantDate)
		assert.Equal(t, "Jawa Timur", g.RelevantProvince)
	}
}

func TestEnrichAllEmpty(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{})
	got, err := en.EnrichAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnrichAllCancelled(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := en.EnrichAll(ctx, []types.Article{{ID: 1, Content: "di Malang"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPending(t *testing.T) {
	en := newTestEnricher(types.EnrichConfig{})
	articles := []types.Article{
		{ID: 1, Content: "sama"},
		{ID: 2, Content: "berubah"},
		{ID: 3, Content: "baru"},
	}
	stored := map[int64]string{
		1: en.Hash(types.Article{Content: "sama"}),
		2: en.Hash(types.Article{Content: "lama"}),
	}

	got := en.Pending(articles, stored)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Len(t, en.Pending(articles, nil), 3)
}
