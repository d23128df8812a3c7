package dates

import (
	"regexp"

	"github.com/pdiddy/hoax-insight/internal/lexicon"
)

var parenthetical = regexp.MustCompile(`\(([^)]+)\)`)

// selector proposes a date for a text, or "" when it has none.
type selector func(e *Extractor, text string) string

// relevantSelectors are tried in order; the first non-empty answer wins.
var relevantSelectors = []selector{
	(*Extractor).nearPublication,
	(*Extractor).inParentheses,
	(*Extractor).inKeywordSentences,
	(*Extractor).best,
}

// RelevantDate returns the date most likely tied to when the claim in text
// was posted or circulated.
func (e *Extractor) RelevantDate(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, sel := range relevantSelectors {
		if d := sel(e, text); d != "" {
			return d, true
		}
	}
	return "", false
}

// nearPublication looks at the first publication verb only. It prefers a
// date after the verb, then one in a window that starts just before it.
func (e *Extractor) nearPublication(text string) string {
	if e.pubVerbs == nil {
		return ""
	}
	loc := e.pubVerbs.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	end := forwardRunes(text, loc[1], e.cfg.PublicationWindow)
	if d := e.best(text[loc[1]:end]); d != "" {
		return d
	}
	return e.best(window(text, loc[0], loc[1], publicationLead, e.cfg.PublicationWindow))
}

func (e *Extractor) inParentheses(text string) string {
	for _, m := range parenthetical.FindAllStringSubmatch(text, -1) {
		if d := e.best(m[1]); d != "" {
			return d
		}
	}
	return ""
}

func (e *Extractor) inKeywordSentences(text string) string {
	for _, s := range lexicon.Sentences(text) {
		if !e.keywords.Contains(s) {
			continue
		}
		if d := e.nearPublication(s); d != "" {
			return d
		}
		if d := e.best(s); d != "" {
			return d
		}
	}
	return ""
}

func (e *Extractor) best(text string) string {
	d, _ := e.BestDate(text)
	return d
}
