package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/hoax-insight/internal/store"
)

// run executes the root command with args in an empty working directory
// and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestExtractCommand(t *testing.T) {
	inTempDir(t)

	out, err := run(t, "extract", "--json",
		"Video ini diunggah pada 12 Maret 2023 dan beredar kabar banjir besar di Surabaya, Jawa Timur")
	require.NoError(t, err)

	var got extraction
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2023-03-12", got.RelevantDate)
	assert.Equal(t, "Surabaya", got.RelevantLocation)
	assert.Equal(t, "Jawa Timur", got.RelevantProvince)
	assert.Contains(t, got.AllLocations, "Surabaya")
}

const articlesFile = `
- id: 1
  title: "[HOAKS] Banjir Surabaya"
  content: Video ini diunggah pada 12 Maret 2023 dan beredar kabar banjir besar di Surabaya, Jawa Timur
  classifications: [hoaks]
- id: 2
  title: "[SALAH] Gempa Malang"
  content: Rekaman gempa di Malang yang viral pada 2 Februari 2024 ternyata video lama
  classifications: [hoaks]
`

func TestEnrichThenStats(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "articles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(articlesFile), 0o644))

	out, err := run(t, "enrich", "--source-path", path, "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 to enrich")
	assert.Contains(t, out, "indexed: 2, updated: 0, skipped: 0, failed: 0")

	out, err = run(t, "enrich", "--source-path", path, "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 to enrich")

	out, err = run(t, "articles", "stats", "--json", "--store-dir", dir)
	require.NoError(t, err)

	var stats store.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, []store.Count{{Key: "Jawa Timur", Count: 2}}, stats.ByProvince)
	assert.Equal(t, []store.Count{{Key: "2023-03", Count: 1}, {Key: "2024-02", Count: 1}}, stats.ByMonth)
	assert.Equal(t, []store.Count{{Key: "hoaks", Count: 2}}, stats.ByTruthCategory)
	assert.InDelta(t, 1.0, stats.AvgPerDay, 1e-9)
	assert.Zero(t, stats.UniqueSources)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	dir := inTempDir(t)

	out, err := run(t, "articles", "retrieve", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "The index is empty")

	out, err = run(t, "articles", "retrieve", "--province", "Bali", "--store-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestFormatStatsOutputText(t *testing.T) {
	var buf bytes.Buffer
	st := store.Stats{
		Total:           2,
		UniqueSources:   1,
		TotalReferences: 3,
		AvgPerDay:       1.5,
		ByTruthCategory: []store.Count{{Key: "hoaks", Count: 2}},
		Completeness:    []store.Count{{Key: "source_url", Count: 1}},
	}
	require.NoError(t, formatStatsOutput(&buf, st, false))

	out := buf.String()
	assert.Contains(t, out, "References:     3")
	assert.Contains(t, out, "Per day:        1.50")
	assert.Contains(t, out, "By truth category")
	assert.Contains(t, out, "1 (50%)")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "Jawa", dash("Jawa"))
	assert.Equal(t, "Sulaw...", truncate("Sulawesi Selatan", 8))
	assert.Equal(t, "Bali", truncate("Bali", 8))
	assert.Equal(t, "50%", percent(1, 2))
	assert.Equal(t, "0%", percent(0, 0))
}
