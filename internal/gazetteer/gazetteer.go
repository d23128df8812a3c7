// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gazetteer holds the Indonesian province and city tables used to
// validate place names and map them to provinces.
package gazetteer

import (
	"crypto/sha256"
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/hoax-insight/internal/lexicon"
)

//go:embed indonesia.yaml
var builtin []byte

// minNameRunes is the shortest normalized name accepted as a place.
const minNameRunes = 3

// Kind distinguishes province terms from city terms.
type Kind string

const (
	KindProvince Kind = "province"
	KindCity     Kind = "city"
)

type table struct {
	Provinces []struct {
		Name    string   `yaml:"name"`
		Aliases []string `yaml:"aliases"`
	} `yaml:"provinces"`
	Cities []struct {
		Name     string `yaml:"name"`
		Province string `yaml:"province"`
	} `yaml:"cities"`
	Regions  []string `yaml:"regions"`
	Acronyms []string `yaml:"acronyms"`
	Prefixes []string `yaml:"prefixes"`
}

// term is one searchable surface form. Province aliases are separate terms
// that share the canonical province but report their own name.
type term struct {
	surface  string // lowercase form searched for in text
	key      string // Normalize(surface)
	name     string // display name reported for a hit
	province string // canonical province
	kind     Kind
	re       *regexp.Regexp
}

// Match is a gazetteer term found in a text.
type Match struct {
	Name     string
	Province string
	Kind     Kind
	Offset   int
}

// Gazetteer is immutable after Load and safe for concurrent use.
type Gazetteer struct {
	provinces []term
	cities    []term

	provinceByKey map[string]string
	cityByKey     map[string]string

	regions  []string
	acronyms map[string]bool
	prefixes []string

	surfaces *lexicon.PhraseSet

	digest string
}

var defaultGazetteer = sync.OnceValue(func() *Gazetteer {
	g, err := parse(builtin)
	if err != nil {
		panic(eris.Wrap(err, "gazetteer: built-in table"))
	}
	return g
})

// Default returns the gazetteer built from the embedded table.
func Default() *Gazetteer {
	return defaultGazetteer()
}

// Load reads a gazetteer table from path. An empty path returns Default.
func Load(path string) (*Gazetteer, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: reading %s", path)
	}
	g, err := parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: loading %s", path)
	}
	zap.L().Debug("gazetteer loaded",
		zap.String("path", path),
		zap.Int("provinces", len(g.provinceByKey)),
		zap.Int("cities", len(g.cityByKey)),
	)
	return g, nil
}

func parse(data []byte) (*Gazetteer, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "parsing table")
	}
	if len(t.Provinces) == 0 {
		return nil, eris.New("table has no provinces")
	}

	g := &Gazetteer{
		digest:        fmt.Sprintf("%x", sha256.Sum256(data)),
		provinceByKey: make(map[string]string),
		cityByKey:     make(map[string]string),
		acronyms:      make(map[string]bool),
	}
	for _, a := range t.Acronyms {
		g.acronyms[strings.ToLower(strings.TrimSpace(a))] = true
	}
	for _, p := range t.Prefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			g.prefixes = append(g.prefixes, p)
		}
	}
	for _, r := range t.Regions {
		if r = g.Normalize(r); r != "" {
			g.regions = append(g.regions, r)
		}
	}

	var surfaces []string
	for _, p := range t.Provinces {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, eris.New("province with empty name")
		}
		for i, form := range append([]string{name}, p.Aliases...) {
			display := name
			if i > 0 {
				display = g.Display(form)
			}
			tm, ok := g.newTerm(form, display, name, KindProvince)
			if !ok {
				continue
			}
			if _, dup := g.provinceByKey[tm.key]; !dup {
				g.provinceByKey[tm.key] = name
			}
			g.provinces = append(g.provinces, tm)
			surfaces = append(surfaces, tm.surface)
		}
	}
	for _, c := range t.Cities {
		prov := strings.TrimSpace(c.Province)
		if _, ok := g.provinceByKey[g.Normalize(prov)]; !ok {
			return nil, eris.Errorf("city %q maps to unknown province %q", c.Name, c.Province)
		}
		tm, ok := g.newTerm(c.Name, g.Display(c.Name), prov, KindCity)
		if !ok {
			continue
		}
		if _, dup := g.cityByKey[tm.key]; !dup {
			g.cityByKey[tm.key] = prov
		}
		g.cities = append(g.cities, tm)
		surfaces = append(surfaces, tm.surface)
	}
	g.surfaces = lexicon.New(surfaces)
	return g, nil
}

func (g *Gazetteer) newTerm(form, name, province string, kind Kind) (term, bool) {
	surface := strings.Join(strings.Fields(strings.ToLower(form)), " ")
	key := g.Normalize(surface)
	if surface == "" || key == "" {
		return term{}, false
	}
	return term{
		surface:  surface,
		key:      key,
		name:     name,
		province: province,
		kind:     kind,
		re:       lexicon.WordPattern(surface),
	}, true
}

// Digest identifies the table the gazetteer was built from.
func (g *Gazetteer) Digest() string {
	return g.digest
}

// clean lowercases s, collapses whitespace and strips administrative
// prefixes ("kota", "provinsi", ...) until none is left.
func (g *Gazetteer) clean(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	for {
		stripped := false
		for _, p := range g.prefixes {
			rest, ok := strings.CutPrefix(s, p)
			if !ok || rest == "" {
				continue
			}
			if rest[0] != ' ' && !strings.HasSuffix(p, ".") {
				continue
			}
			s = strings.TrimSpace(rest)
			stripped = true
		}
		if !stripped {
			return s
		}
	}
}

// Normalize returns the lookup key for a place name: lowercase, accent
// folded, single-spaced, with leading administrative prefixes removed.
func (g *Gazetteer) Normalize(s string) string {
	s = g.clean(s)
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		return s
	}
	return folded
}

// Display title-cases a name, keeping configured acronyms upper case.
func (g *Gazetteer) Display(s string) string {
	words := strings.Fields(strings.ToLower(s))
	caser := cases.Title(language.Indonesian)
	for i, w := range words {
		if g.acronyms[w] {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// NormalizeLocation strips prefixes from a raw phrase and returns it in
// display casing. It reports false when nothing is left.
func (g *Gazetteer) NormalizeLocation(raw string) (string, bool) {
	s := g.clean(raw)
	if s == "" {
		return "", false
	}
	return g.Display(s), true
}

// Valid reports whether name plausibly denotes an Indonesian place: it is
// at least three runes long and overlaps a gazetteer term or contains a
// region word.
func (g *Gazetteer) Valid(name string) bool {
	n := g.Normalize(name)
	if utf8.RuneCountInString(n) < minNameRunes {
		return false
	}
	for _, terms := range [][]term{g.provinces, g.cities} {
		for _, t := range terms {
			if strings.Contains(t.key, n) || strings.Contains(n, t.key) {
				return true
			}
		}
	}
	for _, r := range g.regions {
		if strings.Contains(n, r) {
			return true
		}
	}
	return false
}

// Province maps a location to its canonical province. Exact province and
// city matches win over partial ones; partial matches are tried in table
// order, provinces first. A bare region name ("Kalimantan") spans several
// provinces and maps to none.
func (g *Gazetteer) Province(location string) (string, bool) {
	n := g.Normalize(location)
	if n == "" {
		return "", false
	}
	if p, ok := g.provinceByKey[n]; ok {
		return p, true
	}
	if p, ok := g.cityByKey[n]; ok {
		return p, true
	}
	if utf8.RuneCountInString(n) < minNameRunes || slices.Contains(g.regions, n) {
		return "", false
	}
	for _, terms := range [][]term{g.provinces, g.cities} {
		for _, t := range terms {
			if strings.Contains(t.key, n) || strings.Contains(n, t.key) {
				return t.province, true
			}
		}
	}
	return "", false
}

// Scan returns every term found in text as a whole word, provinces before
// cities, each group in table order.
func (g *Gazetteer) Scan(text string) []Match {
	var out []Match
	g.each(text, func(m Match) bool {
		out = append(out, m)
		return true
	}, KindProvince, KindCity)
	return out
}

// Find returns the first term found in text, trying kinds in the given
// order and terms in table order within each kind.
func (g *Gazetteer) Find(text string, kinds ...Kind) (Match, bool) {
	var (
		found Match
		ok    bool
	)
	g.each(text, func(m Match) bool {
		found, ok = m, true
		return false
	}, kinds...)
	return found, ok
}

func (g *Gazetteer) each(text string, yield func(Match) bool, kinds ...Kind) {
	present := g.surfaces.Matches(text)
	if len(present) == 0 {
		return
	}
	has := make(map[string]bool, len(present))
	for _, p := range present {
		has[p] = true
	}

	for _, k := range kinds {
		terms := g.provinces
		if k == KindCity {
			terms = g.cities
		}
		for _, t := range terms {
			if !has[t.surface] {
				continue
			}
			loc := t.re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			if !yield(Match{Name: t.name, Province: t.province, Kind: t.kind, Offset: loc[0]}) {
				return
			}
		}
	}
}
