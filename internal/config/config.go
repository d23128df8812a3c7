// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads hoax-insight settings from file, environment and
// the secrets directory, and sets up the global logger.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/hoax-insight/internal/dates"
	"github.com/pdiddy/hoax-insight/internal/secrets"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Name is the config file base name and the directory name under
// ~/.config.
const Name = "hoax-insight"

// EnvPrefix prefixes environment overrides, e.g. HOAX_INSIGHT_STORE_DIR.
const EnvPrefix = "HOAX_INSIGHT"

// Config is the complete application configuration.
type Config struct {
	Dates      types.DateConfig       `yaml:"dates" mapstructure:"dates"`
	Locations  types.LocationConfig   `yaml:"locations" mapstructure:"locations"`
	Enrich     types.EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Store      types.StoreConfig      `yaml:"store" mapstructure:"store"`
	Source     types.SourceConfig     `yaml:"source" mapstructure:"source"`
	Classifier types.ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Log        types.LogConfig        `yaml:"log" mapstructure:"log"`
}

// Load reads configuration. When path is empty it looks for hoax-insight.yaml
// in the working directory and in ~/.config/hoax-insight; a missing file is
// not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. List settings are left unset so the extractors fall back
	// to their built-in lists.
	v.SetDefault("dates.min_year", dates.DefaultMinYear)
	v.SetDefault("dates.max_year", 0)
	v.SetDefault("dates.publication_window", dates.DefaultPublicationWindow)
	v.SetDefault("dates.context_window", dates.DefaultContextWindow)
	v.SetDefault("dates.count_window", dates.DefaultCountWindow)
	v.SetDefault("locations.gazetteer_file", "")
	v.SetDefault("enrich.workers", 0)
	v.SetDefault("enrich.text_field", string(types.TextContent))
	v.SetDefault("store.dir", ".")
	v.SetDefault("store.max_results", 20)
	v.SetDefault("source.driver", string(types.SourcePostgres))
	v.SetDefault("source.database_url", "")
	v.SetDefault("source.path", "")
	v.SetDefault("classifier.endpoint", "")
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.timeout", "15s")
	v.SetDefault("classifier.max_retries", 3)
	v.SetDefault("classifier.rate_per_second", 2.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		zap.L().Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the extractors and store cannot work with.
func (c *Config) Validate() error {
	switch c.Enrich.TextField {
	case types.TextContent, types.TextTitleContent, "":
	default:
		return eris.Errorf("config: enrich.text_field must be %q or %q, got %q",
			types.TextContent, types.TextTitleContent, c.Enrich.TextField)
	}
	switch c.Source.Driver {
	case types.SourcePostgres, types.SourceFile:
	default:
		return eris.Errorf("config: source.driver must be %q or %q, got %q",
			types.SourcePostgres, types.SourceFile, c.Source.Driver)
	}
	if c.Dates.MaxYear != 0 && c.Dates.MaxYear < c.Dates.MinYear {
		return eris.Errorf("config: dates.max_year %d is before dates.min_year %d",
			c.Dates.MaxYear, c.Dates.MinYear)
	}
	return nil
}

// ApplySecrets fills credentials the config leaves empty from s.
func (c *Config) ApplySecrets(s secrets.Secrets) {
	c.Source.DatabaseURL = s.Default(secrets.DatabaseURL, c.Source.DatabaseURL)
	c.Classifier.APIKey = s.Default(secrets.ClassifierAPIKey, c.Classifier.APIKey)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg types.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
