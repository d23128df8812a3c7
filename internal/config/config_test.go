package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/internal/secrets"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// chdirTemp moves into an empty directory so no hoax-insight.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2018, cfg.Dates.MinYear)
	assert.Zero(t, cfg.Dates.MaxYear)
	assert.Equal(t, 80, cfg.Dates.PublicationWindow)
	assert.Equal(t, 40, cfg.Dates.ContextWindow)
	assert.Equal(t, 30, cfg.Dates.CountWindow)
	assert.Nil(t, cfg.Dates.PublicationVerbs)
	assert.Nil(t, cfg.Locations.Keywords)
	assert.Equal(t, types.TextContent, cfg.Enrich.TextField)
	assert.Equal(t, ".", cfg.Store.Dir)
	assert.Equal(t, 20, cfg.Store.MaxResults)
	assert.Equal(t, types.SourcePostgres, cfg.Source.Driver)
	assert.Equal(t, 15*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 3, cfg.Classifier.MaxRetries)
	assert.InDelta(t, 2.0, cfg.Classifier.RatePerSecond, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dates:
  min_year: 2020
  max_year: 2025
  publication_verbs: [diunggah, dibagikan]
locations:
  keywords: [di, lokasi]
enrich:
  workers: 8
  text_field: title_content
store:
  dir: /var/lib/hoax
source:
  driver: file
  path: articles.yaml
classifier:
  endpoint: http://localhost:8000
  timeout: 3s
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hoax-insight.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2020, cfg.Dates.MinYear)
	assert.Equal(t, 2025, cfg.Dates.MaxYear)
	assert.Equal(t, []string{"diunggah", "dibagikan"}, cfg.Dates.PublicationVerbs)
	assert.Equal(t, []string{"di", "lokasi"}, cfg.Locations.Keywords)
	assert.Equal(t, 8, cfg.Enrich.Workers)
	assert.Equal(t, types.TextTitleContent, cfg.Enrich.TextField)
	assert.Equal(t, "/var/lib/hoax", cfg.Store.Dir)
	assert.Equal(t, types.SourceFile, cfg.Source.Driver)
	assert.Equal(t, "articles.yaml", cfg.Source.Path)
	assert.Equal(t, "http://localhost:8000", cfg.Classifier.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, 80, cfg.Dates.PublicationWindow)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  max_results: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Store.MaxResults)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOAX_INSIGHT_STORE_DIR", "/tmp/hoax")
	t.Setenv("HOAX_INSIGHT_ENRICH_WORKERS", "3")
	t.Setenv("HOAX_INSIGHT_SOURCE_DRIVER", "file")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/hoax", cfg.Store.Dir)
	assert.Equal(t, 3, cfg.Enrich.Workers)
	assert.Equal(t, types.SourceFile, cfg.Source.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad text field", func(c *Config) { c.Enrich.TextField = "body" }, "enrich.text_field"},
		{"bad driver", func(c *Config) { c.Source.Driver = "mysql" }, "source.driver"},
		{"year window inverted", func(c *Config) { c.Dates.MaxYear = 2010 }, "dates.max_year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Dates:  types.DateConfig{MinYear: 2018},
				Source: types.SourceConfig{Driver: types.SourcePostgres},
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplySecrets(t *testing.T) {
	s := secrets.Secrets{
		secrets.DatabaseURL:      "postgres://from-file",
		secrets.ClassifierAPIKey: "ck_file",
	}

	c := &Config{}
	c.ApplySecrets(s)
	assert.Equal(t, "postgres://from-file", c.Source.DatabaseURL)
	assert.Equal(t, "ck_file", c.Classifier.APIKey)

	c = &Config{Source: types.SourceConfig{DatabaseURL: "postgres://explicit"}}
	c.ApplySecrets(s)
	assert.Equal(t, "postgres://explicit", c.Source.DatabaseURL)
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	require.NoError(t, InitLogger(types.LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(types.LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	assert.Error(t, InitLogger(types.LogConfig{Level: "loud"}))
}
