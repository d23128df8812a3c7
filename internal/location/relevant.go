package location

import (
	"github.com/pdiddy/hoax-insight/internal/gazetteer"
	"github.com/pdiddy/hoax-insight/internal/lexicon"
)

type selector func(e *Extractor, text string) string

// relevantSelectors are tried in order; the first non-empty answer wins.
var relevantSelectors = []selector{
	(*Extractor).afterKeyword,
	(*Extractor).inKeywordSentences,
	(*Extractor).knownPlace,
	(*Extractor).firstMentioned,
}

// RelevantLocation returns the place the text is most likely about.
func (e *Extractor) RelevantLocation(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, sel := range relevantSelectors {
		if loc := sel(e, text); loc != "" {
			return loc, true
		}
	}
	return "", false
}

// RelevantProvince maps RelevantLocation to its province. It is absent
// whenever the location is absent or unmapped.
func (e *Extractor) RelevantProvince(text string) (string, bool) {
	loc, ok := e.RelevantLocation(text)
	if !ok {
		return "", false
	}
	return e.gaz.Province(loc)
}

// afterKeyword tries each keyword in order against every match in text.
func (e *Extractor) afterKeyword(text string) string {
	for _, kp := range e.keywords {
		for _, m := range kp.re.FindAllStringSubmatch(text, -1) {
			if name, ok := e.phrase(m[1]); ok {
				return name
			}
		}
	}
	return ""
}

// inKeywordSentences checks the first match of each keyword within each
// sentence that mentions a keyword.
func (e *Extractor) inKeywordSentences(text string) string {
	for _, s := range lexicon.Sentences(text) {
		if !e.keywordSet.Contains(s) {
			continue
		}
		for _, kp := range e.keywords {
			m := kp.re.FindStringSubmatch(s)
			if m == nil {
				continue
			}
			if name, ok := e.phrase(m[1]); ok {
				return name
			}
		}
	}
	return ""
}

// knownPlace returns the first city named in text, else the first province.
func (e *Extractor) knownPlace(text string) string {
	m, ok := e.gaz.Find(text, gazetteer.KindCity, gazetteer.KindProvince)
	if !ok {
		return ""
	}
	return m.Name
}

func (e *Extractor) firstMentioned(text string) string {
	all := e.AllLocations(text)
	if len(all) == 0 {
		return ""
	}
	return all[0]
}
