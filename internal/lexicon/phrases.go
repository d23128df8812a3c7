// Package lexicon provides the multi-phrase matching and sentence splitting
// shared by the date and location extractors.
package lexicon

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// PhraseSet answers "which of these phrases occur in a text" in one pass
// using an Aho-Corasick automaton. Matching is case-insensitive. Phrases
// short enough to occur inside unrelated words ("sk", "no.") can be
// required to stand on word boundaries; see NewBounded.
//
// A PhraseSet is immutable and safe for concurrent use.
type PhraseSet struct {
	phrases []string
	matcher *ahocorasick.Matcher
	bounded []*regexp.Regexp // nil entry: plain substring match
}

// New builds a PhraseSet with substring semantics for every phrase.
func New(phrases []string) *PhraseSet {
	return NewBounded(phrases, 0)
}

// NewBounded builds a PhraseSet in which phrases of at most maxBoundedRunes
// runes only match on word boundaries. Duplicate and empty phrases are
// dropped; the first occurrence keeps its position.
func NewBounded(phrases []string, maxBoundedRunes int) *PhraseSet {
	ps := &PhraseSet{}
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		ps.phrases = append(ps.phrases, p)

		var re *regexp.Regexp
		if utf8.RuneCountInString(p) <= maxBoundedRunes {
			re = WordPattern(p)
		}
		ps.bounded = append(ps.bounded, re)
	}
	if len(ps.phrases) > 0 {
		ps.matcher = ahocorasick.NewStringMatcher(ps.phrases)
	}
	return ps
}

// indices returns the indices of all phrases found in text, ascending.
func (ps *PhraseSet) indices(text string) []int {
	if ps.matcher == nil || text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	hits := ps.matcher.MatchThreadSafe([]byte(lower))
	if len(hits) == 0 {
		return nil
	}

	out := hits[:0]
	for _, i := range hits {
		if re := ps.bounded[i]; re != nil && !re.MatchString(lower) {
			continue
		}
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Contains reports whether any phrase occurs in text.
func (ps *PhraseSet) Contains(text string) bool {
	return len(ps.indices(text)) > 0
}

// Matches returns the phrases found in text in set order.
func (ps *PhraseSet) Matches(text string) []string {
	idx := ps.indices(text)
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = ps.phrases[j]
	}
	return out
}

// WordPattern compiles a case-insensitive pattern for phrase that only
// matches where the phrase is not glued to neighbouring letters or digits.
// Inner whitespace matches any run of whitespace. Boundaries are ASCII
// only, as with \b; a phrase ending in any other rune is left open there.
func WordPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + WordExpr(phrase))
}

// WordExpr returns the uncompiled expression behind WordPattern so callers
// can embed it in a larger pattern.
func WordExpr(phrase string) string {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return ""
	}
	parts := strings.Fields(phrase)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := strings.Join(parts, `\s+`)

	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)
	if isWordRune(first) {
		expr = `\b` + expr
	}
	if isWordRune(last) {
		expr += `\b`
	}
	return expr
}

func isWordRune(r rune) bool {
	return r < utf8.RuneSelf && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
