package types

import "time"

// DateConfig tunes the relevant-date extractor. Zero values fall back to
// the defaults in package dates.
type DateConfig struct {
	// MinYear is the earliest accepted year (default 2018).
	MinYear int `json:"min_year" yaml:"min_year" mapstructure:"min_year"`

	// MaxYear is the latest accepted year (default current year + 1).
	MaxYear int `json:"max_year" yaml:"max_year" mapstructure:"max_year"`

	// PublicationVerbs are phrases such as "diunggah" that usually precede
	// the date a claim was posted or shared.
	PublicationVerbs []string `json:"publication_verbs" yaml:"publication_verbs" mapstructure:"publication_verbs"`

	// SentenceKeywords mark sentences worth searching for a date
	// ("beredar", "viral", "klaim", ...).
	SentenceKeywords []string `json:"sentence_keywords" yaml:"sentence_keywords" mapstructure:"sentence_keywords"`

	// NonPublicationPhrases mark bare years that denote plans, permits,
	// construction or photo capture rather than an event.
	NonPublicationPhrases []string `json:"non_publication_phrases" yaml:"non_publication_phrases" mapstructure:"non_publication_phrases"`

	// CountWords mark four-digit numbers that are counts, not years.
	CountWords []string `json:"count_words" yaml:"count_words" mapstructure:"count_words"`

	// PublicationWindow is the number of runes searched after a
	// publication verb (default 80).
	PublicationWindow int `json:"publication_window" yaml:"publication_window" mapstructure:"publication_window"`

	// ContextWindow is the rune radius checked for non-publication
	// phrases around a bare year (default 40).
	ContextWindow int `json:"context_window" yaml:"context_window" mapstructure:"context_window"`

	// CountWindow is the rune radius checked for count words (default 30).
	CountWindow int `json:"count_window" yaml:"count_window" mapstructure:"count_window"`
}

// LocationConfig tunes the relevant-location extractor.
type LocationConfig struct {
	// Keywords precede a place name ("di", "dari", "viral di", ...).
	// They are tried in order.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// GazetteerFile replaces the built-in province and city tables.
	GazetteerFile string `json:"gazetteer_file,omitempty" yaml:"gazetteer_file,omitempty" mapstructure:"gazetteer_file"`
}

// TextField selects which article text the extractors read.
type TextField string

const (
	TextContent      TextField = "content"
	TextTitleContent TextField = "title_content"
)

// EnrichConfig holds settings for the enrichment stage.
type EnrichConfig struct {
	// Workers bounds the number of articles enriched concurrently
	// (default runtime.NumCPU()).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// TextField selects the text passed to the extractors (default content).
	TextField TextField `json:"text_field" yaml:"text_field" mapstructure:"text_field"`
}

// StoreConfig holds settings for the enriched-article store.
type StoreConfig struct {
	// Dir is the base directory for the store (contains index/).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// SourceDriver identifies where articles are loaded from.
type SourceDriver string

const (
	SourcePostgres SourceDriver = "postgres"
	SourceFile     SourceDriver = "file"
)

// SourceConfig selects and configures the article source.
type SourceConfig struct {
	Driver SourceDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// DatabaseURL is the Postgres connection string for the postgres driver.
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty" mapstructure:"database_url"`

	// Path is the YAML or JSON article list for the file driver.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// ClassifierConfig holds settings for the external hoax classifier.
type ClassifierConfig struct {
	// Endpoint is the base URL of the classification service.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout is the HTTP request timeout (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of retries on 429/503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RatePerSecond paces batch requests (default 2).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" for production output or "console" for development.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}
