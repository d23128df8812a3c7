package dates

import (
	"cmp"
	"slices"
)

// Rank orders candidates by score, highest first, then by position, and
// drops repeated dates. It returns nil for no candidates.
func Rank(cands []Candidate) []string {
	if len(cands) == 0 {
		return nil
	}
	sorted := slices.Clone(cands)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Offset, b.Offset)
	})

	seen := make(map[string]bool, len(sorted))
	out := make([]string, 0, len(sorted))
	for _, c := range sorted {
		if seen[c.Date] {
			continue
		}
		seen[c.Date] = true
		out = append(out, c.Date)
	}
	return out
}

// AllDates returns every accepted date in text, most specific first.
func (e *Extractor) AllDates(text string) []string {
	return Rank(e.Scan(text))
}

// BestDate returns the highest-ranked date in text.
func (e *Extractor) BestDate(text string) (string, bool) {
	all := e.AllDates(text)
	if len(all) == 0 {
		return "", false
	}
	return all[0], true
}
