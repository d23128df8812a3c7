// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Article is one row from the hoax-article store, with its category,
// classification and reference relations flattened to string lists.
type Article struct {
	ID int64 `json:"id" yaml:"id"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Content     string `json:"content" yaml:"content"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	SourceURL   string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`

	// Fact is the fact-check verdict text written by the source site.
	Fact string `json:"fact,omitempty" yaml:"fact,omitempty"`

	// PublishedAt is the article's own publication timestamp. It is not the
	// event date; see EnrichedArticle.RelevantDate.
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"`

	Categories      []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Classifications []string `json:"classifications,omitempty" yaml:"classifications,omitempty"`
	References      []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// UnknownTruthCategory is the truth category of an article with no
// classification and no category.
const UnknownTruthCategory = "UNKNOWN"

// TruthCategory returns the first classification, falling back to the first
// category.
func (a Article) TruthCategory() string {
	if len(a.Classifications) > 0 {
		return a.Classifications[0]
	}
	if len(a.Categories) > 0 {
		return a.Categories[0]
	}
	return UnknownTruthCategory
}

// EnrichedArticle is an Article plus the attributes derived from its text.
// The derived fields are a cache: they are recomputed wholesale when the
// source text changes, never patched.
type EnrichedArticle struct {
	Article `json:",inline" yaml:",inline"`

	// AllDates lists every accepted date, most specific first, without duplicates.
	AllDates []string `json:"all_dates,omitempty" yaml:"all_dates,omitempty"`

	// RelevantDate is the inferred event or circulation date (YYYY-MM-DD).
	RelevantDate string `json:"relevant_date,omitempty" yaml:"relevant_date,omitempty"`

	AllLocations     []string `json:"all_locations,omitempty" yaml:"all_locations,omitempty"`
	RelevantLocation string   `json:"relevant_location,omitempty" yaml:"relevant_location,omitempty"`

	// RelevantProvince is set only when RelevantLocation is, and is always
	// the gazetteer province of RelevantLocation.
	RelevantProvince string `json:"relevant_province,omitempty" yaml:"relevant_province,omitempty"`

	// ContentHash identifies the text the derived fields were computed from.
	ContentHash string    `json:"content_hash" yaml:"content_hash"`
	EnrichedAt  time.Time `json:"enriched_at" yaml:"enriched_at"`
}
