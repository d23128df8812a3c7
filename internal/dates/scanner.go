package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNumber = map[string]int{
	"januari": 1, "februari": 2, "maret": 3, "april": 4, "mei": 5, "juni": 6,
	"juli": 7, "agustus": 8, "september": 9, "oktober": 10, "november": 11, "desember": 12,
}

const monthNames = `Januari|Februari|Maret|April|Mei|Juni|Juli|Agustus|September|Oktober|November|Desember`

// datePattern is one row of the candidate table. build turns the submatches
// of re into a calendar date; guard, when set, can reject a match by the
// text that follows it.
type datePattern struct {
	name  string
	re    *regexp.Regexp
	score int
	guard func(text string, end int) bool
	build func(groups []string) (y, m, d int, ok bool)
}

var datePatterns = []datePattern{
	{
		name:  "iso",
		re:    regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`),
		score: 3,
		build: func(g []string) (int, int, int, bool) { return ymd(g[1], g[2], g[3]) },
	},
	{
		name:  "dmy-short",
		re:    regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2})`),
		score: 3,
		guard: notFollowedByDigit,
		build: func(g []string) (int, int, int, bool) {
			yy, err := strconv.Atoi(g[3])
			if err != nil {
				return 0, 0, 0, false
			}
			return ymd(strconv.Itoa(pivotYear(yy)), g[2], g[1])
		},
	},
	{
		name:  "dmy",
		re:    regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`),
		score: 3,
		build: func(g []string) (int, int, int, bool) { return ymd(g[3], g[2], g[1]) },
	},
	{
		name:  "day-month-name",
		re:    regexp.MustCompile(`(?i)(\d{1,2})\s+(` + monthNames + `)\s+(\d{4})`),
		score: 3,
		build: func(g []string) (int, int, int, bool) {
			return ymd(g[3], strconv.Itoa(monthNumber[strings.ToLower(g[2])]), g[1])
		},
	},
	{
		name:  "month-name",
		re:    regexp.MustCompile(`(?i)(` + monthNames + `)\s+(\d{4})`),
		score: 2,
		build: func(g []string) (int, int, int, bool) {
			return ymd(g[2], strconv.Itoa(monthNumber[strings.ToLower(g[1])]), "1")
		},
	},
}

var (
	bareYear = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	yearRangeDash = regexp.MustCompile(`\b(?:19|20)\d{2}\b\s*(?:-|–|—)\s*\b(?:19|20)\d{2}\b`)
	yearRangeWord = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\b\s*(?:sampai|hingga|sampai dengan|sd|s\.d\.|to)\s*\b(?:19|20)\d{2}\b`)
	decade        = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*(?:-?an|s)\b`)
)

// bareYearScore is the score of a year with no month or day.
const bareYearScore = 1

// pivotYear maps a two-digit year to four digits: below 70 is 20xx.
func pivotYear(yy int) int {
	if yy < 70 {
		return 2000 + yy
	}
	return 1900 + yy
}

func ymd(y, m, d string) (int, int, int, bool) {
	yi, err1 := strconv.Atoi(y)
	mi, err2 := strconv.Atoi(m)
	di, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return yi, mi, di, true
}

func notFollowedByDigit(text string, end int) bool {
	return end >= len(text) || text[end] < '0' || text[end] > '9'
}

// validDate reports whether y-m-d exists on the calendar and the year lies
// in the configured window.
func (e *Extractor) validDate(y, m, d int) bool {
	if y < e.cfg.MinYear || y > e.cfg.MaxYear {
		return false
	}
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && t.Month() == time.Month(m) && t.Day() == d
}

func isoDate(y, m, d int) string {
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}

// Scan returns every accepted date candidate in text, unranked. Table
// patterns come first in table order, then bare years that survive the
// context filters.
func (e *Extractor) Scan(text string) []Candidate {
	if text == "" {
		return nil
	}

	var out []Candidate
	add := func(y, m, d, score, offset int) {
		if e.validDate(y, m, d) {
			out = append(out, Candidate{Date: isoDate(y, m, d), Score: score, Offset: offset})
		}
	}

	for _, p := range e.patterns {
		for _, loc := range findAll(p, text) {
			groups := submatches(text, loc)
			y, m, d, ok := p.build(groups)
			if !ok {
				continue
			}
			add(y, m, d, p.score, loc[0])
		}
	}

	spans := append(yearRangeDash.FindAllStringIndex(text, -1), yearRangeWord.FindAllStringIndex(text, -1)...)
	spans = append(spans, decade.FindAllStringIndex(text, -1)...)

	for _, loc := range bareYear.FindAllStringIndex(text, -1) {
		if insideAny(loc[0], spans) {
			continue
		}
		if e.nonPublication(text, loc[0], loc[1]) {
			continue
		}
		y, _ := strconv.Atoi(text[loc[0]:loc[1]])
		if y < e.cfg.MinYear || y > e.cfg.MaxYear {
			continue
		}
		if e.likelyCount(text, loc[0], loc[1]) {
			continue
		}
		add(y, 1, 1, bareYearScore, loc[0])
	}

	return out
}

// findAll returns the non-overlapping leftmost matches of p. A match
// rejected by the guard is retried one byte further on, so a shorter match
// starting inside it can still be found.
func findAll(p datePattern, text string) [][]int {
	if p.guard == nil {
		return p.re.FindAllStringSubmatchIndex(text, -1)
	}

	var out [][]int
	for pos := 0; pos < len(text); {
		loc := p.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		if !p.guard(text, loc[1]) {
			pos = loc[0] + 1
			continue
		}
		out = append(out, loc)
		pos = loc[1]
	}
	return out
}

func submatches(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

func insideAny(pos int, spans [][]int) bool {
	for _, s := range spans {
		if s[0] <= pos && pos < s[1] {
			return true
		}
	}
	return false
}
