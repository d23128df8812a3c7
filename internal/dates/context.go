package dates

import (
	"regexp"
	"unicode/utf8"
)

var (
	docNumberWord = regexp.MustCompile(`(?i)\b(?:no\.?|nomor|iupk?|sk|surat)\b`)
	docNumberID   = regexp.MustCompile(`\d+\s*[./-]\s*\d+|/\s*\d{4}\b`)
	separatorTail = regexp.MustCompile(`[./-]\s*$`)
	tahunWord     = regexp.MustCompile(`(?i)\btahun\b`)
)

// nonPublication reports whether the year at text[start:end] sits in a
// context that dates something other than the claim: a plan, a permit or
// document number, a photo capture or a construction.
func (e *Extractor) nonPublication(text string, start, end int) bool {
	snippet := around(text, start, end, e.cfg.ContextWindow)
	if e.nonPub.Contains(snippet) {
		return true
	}
	if docNumberWord.MatchString(snippet) && docNumberID.MatchString(snippet) {
		return true
	}
	return separatorTail.MatchString(runesBefore(text, start, 3))
}

// likelyCount reports whether the number at text[start:end] is a count of
// people or accounts. A nearby "tahun" overrides the count words.
func (e *Extractor) likelyCount(text string, start, end int) bool {
	if e.countWords == nil {
		return false
	}
	snippet := around(text, start, end, e.cfg.CountWindow)
	if tahunWord.MatchString(snippet) {
		return false
	}
	return e.countWords.MatchString(snippet)
}

// around returns text[start:end] widened by up to n runes on each side.
func around(text string, start, end, n int) string {
	return window(text, start, end, n, n)
}

func runesBefore(text string, start, n int) string {
	return text[backRunes(text, start, n):start]
}

// backRunes moves n runes left of byte offset i, stopping at 0.
func backRunes(text string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return i
}

// forwardRunes moves n runes right of byte offset i, stopping at len(text).
func forwardRunes(text string, i, n int) int {
	for ; n > 0 && i < len(text); n-- {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}

// window returns the text from lead runes before start to n runes after end.
func window(text string, start, end, lead, n int) string {
	return text[backRunes(text, start, lead):forwardRunes(text, end, n)]
}
