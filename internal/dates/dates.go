// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dates infers the event-relevant date of an Indonesian hoax
// article from its free text. Candidates come from a table of date
// patterns, bare years are filtered by their surroundings, and a chain of
// selectors picks the date most likely tied to when a claim circulated.
package dates

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/pdiddy/hoax-insight/internal/lexicon"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

// Default window sizes, in runes.
const (
	DefaultPublicationWindow = 80
	DefaultContextWindow     = 40
	DefaultCountWindow       = 30
	DefaultMinYear           = 2018

	// publicationLead is how far before a publication verb the fallback
	// window starts.
	publicationLead = 5

	// boundedPhraseRunes is the length at or below which a non-publication
	// phrase must match as a whole word.
	boundedPhraseRunes = 3
)

var (
	defaultPublicationVerbs = []string{
		"diposting", "diposting pada", "diunggah", "diunggah pada", "unggah", "unggahan",
		"unggah pada", "mengunggah", "mengunggahnya", "mengunggah pada", "diupload", "upload",
		"dipublikasikan", "dipublikasikan pada", "dibagikan", "dibagikan pada", "posting",
		"posted", "share", "shares", "unggah di", "diunggah di",
	}

	defaultSentenceKeywords = []string{
		"beredar", "unggahan", "diunggah", "diposting", "pada", "arsip",
		"klaim", "disebut", "dibagikan", "membagikan", "membagikan video",
		"melaporkan", "viral", "menyebar",
	}

	// Bare "no" is left out: as a substring it hits "nomor", "november"
	// and most of the vocabulary. Document numbers are caught by docNumber.
	defaultNonPublicationPhrases = []string{
		"direncanakan", "direncanakan tahun", "disimulasikan", "simulasi", "dilaksanakan",
		"direncanakan pada", "perencanaan", "rencana", "diajukan", "diusulkan",
		"sejak", "sejak tahun", "iup", "iupk", "nomor", "no.", "nº", "sk", "surat", "ijin", "izin",
		"registrasi", "nomor izin", "nomor iup", "nomor iupk", "nomor.",
		"diambil", "diambil pada", "gambar", "foto", "satelit", "denah", "tangkapan layar", "cuplikan layar",
		"tangkapan", "screenshot", "dibangun", "pembangunan", "dalam pembangunan", "sedang dibangun",
	}

	defaultCountWords = []string{
		"akun", "pendaftar", "pendaftaran", "anggota", "orang", "member",
		"pengguna", "jumlah", "total", "registrant", "subscriber",
	}
)

// DefaultConfig returns the built-in extractor settings. MaxYear is one
// year past the current year.
func DefaultConfig() types.DateConfig {
	return types.DateConfig{
		MinYear:               DefaultMinYear,
		MaxYear:               time.Now().Year() + 1,
		PublicationVerbs:      slices.Clone(defaultPublicationVerbs),
		SentenceKeywords:      slices.Clone(defaultSentenceKeywords),
		NonPublicationPhrases: slices.Clone(defaultNonPublicationPhrases),
		CountWords:            slices.Clone(defaultCountWords),
		PublicationWindow:     DefaultPublicationWindow,
		ContextWindow:         DefaultContextWindow,
		CountWindow:           DefaultCountWindow,
	}
}

// Candidate is a date found in a text. Offset is the byte offset of the
// match that produced it; Score ranks specificity (3 full date, 2 month and
// year, 1 bare year).
type Candidate struct {
	Date   string
	Score  int
	Offset int
}

// Extractor runs the date pipeline. It is immutable after New and safe for
// concurrent use.
type Extractor struct {
	cfg types.DateConfig

	patterns   []datePattern
	pubVerbs   *regexp.Regexp // nil when no verbs are configured
	keywords   *lexicon.PhraseSet
	nonPub     *lexicon.PhraseSet
	countWords *regexp.Regexp // nil when no count words are configured
}

// New builds an Extractor. Zero fields in cfg take their defaults.
func New(cfg types.DateConfig) *Extractor {
	def := DefaultConfig()
	if cfg.MinYear == 0 {
		cfg.MinYear = def.MinYear
	}
	if cfg.MaxYear == 0 {
		cfg.MaxYear = def.MaxYear
	}
	if cfg.PublicationVerbs == nil {
		cfg.PublicationVerbs = def.PublicationVerbs
	}
	if cfg.SentenceKeywords == nil {
		cfg.SentenceKeywords = def.SentenceKeywords
	}
	if cfg.NonPublicationPhrases == nil {
		cfg.NonPublicationPhrases = def.NonPublicationPhrases
	}
	if cfg.CountWords == nil {
		cfg.CountWords = def.CountWords
	}
	if cfg.PublicationWindow <= 0 {
		cfg.PublicationWindow = def.PublicationWindow
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = def.ContextWindow
	}
	if cfg.CountWindow <= 0 {
		cfg.CountWindow = def.CountWindow
	}

	return &Extractor{
		cfg:        cfg,
		patterns:   datePatterns,
		pubVerbs:   alternation(cfg.PublicationVerbs),
		keywords:   lexicon.New(cfg.SentenceKeywords),
		nonPub:     lexicon.NewBounded(cfg.NonPublicationPhrases, boundedPhraseRunes),
		countWords: alternation(cfg.CountWords),
	}
}

// Config returns the effective settings.
func (e *Extractor) Config() types.DateConfig {
	return e.cfg
}

// alternation compiles a case-insensitive whole-word alternation that keeps
// the order of words, so the earliest listed alternative wins at a given
// position.
func alternation(words []string) *regexp.Regexp {
	var parts []string
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			parts = append(parts, lexicon.WordExpr(w))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}
