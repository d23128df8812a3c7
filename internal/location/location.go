// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package location infers the Indonesian place an article is about and the
// province it belongs to.
package location

import (
	"regexp"
	"strings"

	"github.com/pdiddy/hoax-insight/internal/gazetteer"
	"github.com/pdiddy/hoax-insight/internal/lexicon"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

// KindPhrase marks a candidate captured by a keyword pattern rather than a
// gazetteer term.
const KindPhrase gazetteer.Kind = "phrase"

// placeExpr captures a run of capitalized words. Case matters here even
// where the surrounding keyword is matched case-insensitively.
const placeExpr = `([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`

// DefaultKeywords precede a place name. They are tried in order.
var DefaultKeywords = []string{
	"di", "dari", "ke", "pada", "di daerah", "di wilayah", "di kota", "di provinsi",
	"berlokasi", "terletak", "berada", "mengenai", "tentang", "di indonesia",
	"di jakarta", "di bandung", "di surabaya", "di medan", "di yogyakarta",
	"viral di", "menyebar di", "beredar di", "ditemukan di", "terjadi di",
	"di pulau", "di sumatera", "di jawa", "di kalimantan", "di sulawesi",
	"di papua", "di bali", "di nusa tenggara", "di maluku",
}

var scanPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\bdi\s+)` + placeExpr),
	regexp.MustCompile(`(?i:\bdari\s+)` + placeExpr),
	regexp.MustCompile(`(?i:\bke\s+)` + placeExpr),
	regexp.MustCompile(`\b` + placeExpr + `\s*,\s*(?i:indonesia)`),
	regexp.MustCompile(`(?i:\b(?:kota|kabupaten)\s+)` + placeExpr),
	regexp.MustCompile(`(?i:\bprovinsi\s+)` + placeExpr),
}

// Candidate is a place found in a text. Offset is the byte offset of the
// match.
type Candidate struct {
	Name   string
	Kind   gazetteer.Kind
	Offset int
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// Extractor runs the location pipeline. It is immutable after New and safe
// for concurrent use.
type Extractor struct {
	gaz        *gazetteer.Gazetteer
	keywords   []keywordPattern
	keywordSet *lexicon.PhraseSet
}

// New builds an Extractor over gaz, or the built-in gazetteer when gaz is
// nil. An empty keyword list in cfg selects DefaultKeywords.
func New(gaz *gazetteer.Gazetteer, cfg types.LocationConfig) *Extractor {
	if gaz == nil {
		gaz = gazetteer.Default()
	}
	kws := cfg.Keywords
	if len(kws) == 0 {
		kws = DefaultKeywords
	}

	e := &Extractor{gaz: gaz, keywordSet: lexicon.New(kws)}
	for _, kw := range kws {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		e.keywords = append(e.keywords, keywordPattern{
			keyword: kw,
			re:      regexp.MustCompile(`(?i:` + lexicon.WordExpr(kw) + `\s+)` + placeExpr),
		})
	}
	return e
}

// NewFromConfig loads the gazetteer named in cfg (the built-in one when
// unset) and builds an Extractor over it.
func NewFromConfig(cfg types.LocationConfig) (*Extractor, error) {
	gaz, err := gazetteer.Load(cfg.GazetteerFile)
	if err != nil {
		return nil, err
	}
	return New(gaz, cfg), nil
}

// Keywords returns the normalized keywords in the order they are tried.
func (e *Extractor) Keywords() []string {
	out := make([]string, len(e.keywords))
	for i, kp := range e.keywords {
		out[i] = kp.keyword
	}
	return out
}

// Gazetteer returns the tables the extractor validates against.
func (e *Extractor) Gazetteer() *gazetteer.Gazetteer {
	return e.gaz
}

// phrase normalizes a captured phrase and reports whether it is a valid
// place.
func (e *Extractor) phrase(raw string) (string, bool) {
	name, ok := e.gaz.NormalizeLocation(raw)
	if !ok || !e.gaz.Valid(name) {
		return "", false
	}
	return name, true
}

// Scan returns every place candidate in text: gazetteer terms first
// (provinces, then cities), then valid phrases captured by the keyword
// patterns. Duplicates are kept.
func (e *Extractor) Scan(text string) []Candidate {
	if text == "" {
		return nil
	}

	var out []Candidate
	for _, m := range e.gaz.Scan(text) {
		out = append(out, Candidate{Name: m.Name, Kind: m.Kind, Offset: m.Offset})
	}
	for _, re := range scanPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if name, ok := e.phrase(text[loc[2]:loc[3]]); ok {
				out = append(out, Candidate{Name: name, Kind: KindPhrase, Offset: loc[0]})
			}
		}
	}
	return out
}

// AllLocations returns the distinct places mentioned in text in the order
// Scan finds them. Names are compared case-insensitively.
func (e *Extractor) AllLocations(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range e.Scan(text) {
		key := strings.ToLower(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c.Name)
	}
	return out
}
