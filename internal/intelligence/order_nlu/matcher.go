package order_nlu

import (
	"strings"
	"unicode/utf8"

	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
)

// Thresholds tunes the fuzzy stage of the matcher.
type Thresholds struct {
	ShortMaxEdits  int // search terms of up to 4 runes
	MediumMaxEdits int // 5 to 7 runes
	LongMaxEdits   int // 8 runes and more
	ScoreCeiling   int
}

// DefaultThresholds returns the production tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{ShortMaxEdits: 2, MediumMaxEdits: 3, LongMaxEdits: 5, ScoreCeiling: 350}
}

func (t Thresholds) maxEdits(runes int) int {
	n := t.LongMaxEdits
	switch {
	case runes <= 4:
		n = t.ShortMaxEdits
	case runes <= 7:
		n = t.MediumMaxEdits
	}
	// Edits stay below half the term length.
	if half := (runes - 1) / 2; n > half {
		n = half
	}
	return n
}

// MatchStage records which stage produced a match.
type MatchStage string

const (
	StageExact    MatchStage = "exact"
	StageContains MatchStage = "contains"
	StageFuzzy    MatchStage = "fuzzy"
)

// ItemMatch is a resolved item reference.
type ItemMatch struct {
	Item     *catalog.Item
	Stage    MatchStage
	Distance int
	Score    int
}

// CategoryMatch is a resolved category reference.
type CategoryMatch struct {
	Category *catalog.Category
	Stage    MatchStage
	Distance int
	Score    int
}

type variant struct {
	text    string
	runes   []rune
	tokens  []string
	primary bool
}

type entry struct {
	pos      int
	variants []variant
}

// matchOpts selects which stages run.
type matchOpts struct {
	fuzzy bool
	// subsume lets a variant match when it is contained in the search
	// text, not just the other way round.
	subsume bool
}

var (
	wholeText  = matchOpts{fuzzy: true, subsume: true}
	phraseOpts = matchOpts{}
	fuzzyOpts  = matchOpts{fuzzy: true}
)

// Matcher resolves free text to catalog items and categories through exact,
// containment and fuzzy stages. Ties always fall back to catalog order.
type Matcher struct {
	norm  *Normalizer
	th    Thresholds
	items []*catalog.Item
	cats  []*catalog.Category

	itemEntries []entry
	catEntries  []entry
	catWords    wordSet

	// nameWords lists the words of primary item names in catalog order.
	nameWords []string
	nameSet   wordSet
}

// NewMatcher indexes cat. norm must be the Normalizer used for user input.
func NewMatcher(cat *catalog.Catalog, norm *Normalizer, th Thresholds) *Matcher {
	m := &Matcher{
		norm:     norm,
		th:       th,
		items:    cat.Items,
		cats:     cat.Categories,
		catWords: make(wordSet),
	}

	for i, c := range cat.Categories {
		e := entry{pos: i}
		for _, s := range append([]string{c.ID, c.TitleEN, c.TitleAR}, c.Aliases...) {
			e.variants = m.addVariant(e.variants, s, true)
		}
		for _, v := range e.variants {
			if len(v.tokens) == 1 {
				m.catWords[v.text] = struct{}{}
			}
		}
		m.catEntries = append(m.catEntries, e)
	}

	for i, it := range cat.Items {
		e := entry{pos: i}
		names := []string{it.NameEN, it.NameAR, stripParens(it.NameEN), stripParens(it.NameAR)}
		for _, s := range append(names, it.Aliases...) {
			e.variants = m.addVariant(e.variants, s, true)
		}
		e.variants = m.addVariant(e.variants, togglePlural(norm.Normalize(stripParens(it.NameEN))), true)
		for _, name := range []string{it.NameEN, it.NameAR} {
			toks := norm.Tokens(stripParens(name))
			if len(toks) < 2 {
				continue
			}
			for _, w := range []string{toks[0], toks[len(toks)-1]} {
				if m.usableWord(w) {
					e.variants = m.addVariant(e.variants, w, false)
				}
			}
		}
		m.itemEntries = append(m.itemEntries, e)
	}

	m.nameSet = make(wordSet)
	for _, e := range m.itemEntries {
		for _, v := range e.variants {
			if !v.primary {
				continue
			}
			for _, w := range v.tokens {
				if m.nameSet.has(w) || utf8.RuneCountInString(w) < 3 ||
					lex.stop.has(w) || lex.spicy.has(w) || lex.regular.has(w) {
					continue
				}
				m.nameSet[w] = struct{}{}
				m.nameWords = append(m.nameWords, w)
			}
		}
	}
	return m
}

// correctWord maps w to the closest word of a primary item name within the
// fuzzy edit limit. Ties go to the smaller length difference, then catalog
// order. Words shorter than four runes are never corrected.
func (m *Matcher) correctWord(w string) (string, bool) {
	if m.nameSet.has(w) {
		return w, true
	}
	wr := utf8.RuneCountInString(w)
	if wr < 4 {
		return "", false
	}
	limit := m.th.maxEdits(wr)
	best, bestDist, bestDiff := "", 0, 0
	for _, v := range m.nameWords {
		diff := abs(utf8.RuneCountInString(v) - wr)
		if diff > limit {
			continue
		}
		d := levenshtein(w, v)
		if d > limit {
			continue
		}
		if best == "" || d < bestDist || (d == bestDist && diff < bestDiff) {
			best, bestDist, bestDiff = v, d, diff
		}
	}
	return best, best != ""
}

// usableWord reports whether a single name word may stand in for the item.
func (m *Matcher) usableWord(w string) bool {
	if utf8.RuneCountInString(w) <= 3 {
		return false
	}
	if lex.stop.has(w) || lex.spicy.has(w) || lex.regular.has(w) || m.catWords.has(w) {
		return false
	}
	_, isNum := strictNumber(w)
	return !isNum
}

func (m *Matcher) addVariant(vs []variant, raw string, primary bool) []variant {
	s := m.norm.Normalize(raw)
	if s == "" {
		return vs
	}
	for _, v := range vs {
		if v.text == s {
			return vs
		}
	}
	return append(vs, variant{text: s, runes: []rune(s), tokens: strings.Fields(s), primary: primary})
}

func stripParens(s string) string {
	if i := strings.IndexByte(s, '('); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func togglePlural(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "s") && len(s) > 3 {
		return strings.TrimSuffix(s, "s")
	}
	return s + "s"
}

// IsCategoryWord reports whether a normalized token names a category.
func (m *Matcher) IsCategoryWord(tok string) bool { return m.catWords.has(tok) }

// MatchItem resolves raw text to the best catalog item, or nil.
func (m *Matcher) MatchItem(text string) *ItemMatch {
	return m.matchItem(m.norm.Normalize(text), wholeText)
}

// MatchCategory resolves raw text to the best category, or nil.
func (m *Matcher) MatchCategory(text string) *CategoryMatch {
	return m.matchCategory(m.norm.Normalize(text), wholeText)
}

func (m *Matcher) matchItem(s string, o matchOpts) *ItemMatch {
	r, ok := m.match(m.itemEntries, s, o)
	if !ok {
		return nil
	}
	return &ItemMatch{Item: m.items[r.pos], Stage: r.stage, Distance: r.dist, Score: r.score}
}

func (m *Matcher) matchCategory(s string, o matchOpts) *CategoryMatch {
	r, ok := m.match(m.catEntries, s, o)
	if !ok && utf8.RuneCountInString(s) > 3 {
		switch {
		case strings.HasSuffix(s, "s"):
			r, ok = m.match(m.catEntries, strings.TrimSuffix(s, "s"), matchOpts{})
		case strings.HasPrefix(s, "ال"):
			r, ok = m.match(m.catEntries, strings.TrimPrefix(s, "ال"), matchOpts{})
		}
	}
	if !ok {
		return nil
	}
	return &CategoryMatch{Category: m.cats[r.pos], Stage: r.stage, Distance: r.dist, Score: r.score}
}

type result struct {
	pos   int
	stage MatchStage
	dist  int
	score int
}

func (m *Matcher) match(entries []entry, s string, o matchOpts) (result, bool) {
	if s == "" {
		return result{}, false
	}
	if r, ok := exactStage(entries, s, true); ok {
		return r, true
	}
	if r, ok := exactStage(entries, s, false); ok {
		return r, true
	}
	if r, ok := containsStage(entries, s, o.subsume); ok {
		return r, true
	}
	if o.fuzzy {
		return m.fuzzyStage(entries, s)
	}
	return result{}, false
}

func exactStage(entries []entry, s string, primary bool) (result, bool) {
	for _, e := range entries {
		for _, v := range e.variants {
			if v.primary == primary && v.text == s {
				return result{pos: e.pos, stage: StageExact}, true
			}
		}
	}
	return result{}, false
}

// containsStage matches whole-token containment of the search inside a
// primary variant (and, with subsume, of a variant inside the search). The
// closest length wins.
func containsStage(entries []entry, s string, subsume bool) (result, bool) {
	sr := utf8.RuneCountInString(s)
	if sr < 3 {
		return result{}, false
	}
	st := strings.Fields(s)
	best, bestDiff := -1, 0
	for _, e := range entries {
		for _, v := range e.variants {
			if !v.primary {
				continue
			}
			hit := indexOf(v.tokens, st) >= 0
			if !hit && subsume && len(v.runes) >= 3 {
				hit = indexOf(st, v.tokens) >= 0
			}
			if !hit {
				continue
			}
			d := abs(len(v.runes) - sr)
			if best < 0 || d < bestDiff {
				best, bestDiff = e.pos, d
			}
		}
	}
	if best < 0 {
		return result{}, false
	}
	return result{pos: best, stage: StageContains}, true
}

// fuzzyStage ranks variants by edit distance with bonuses for shared
// prefixes and affixes:
//
//	score = 100*d - 60*prefix - 40*firstChar - 50*affix + 15*|lenDiff|
func (m *Matcher) fuzzyStage(entries []entry, s string) (result, bool) {
	sr := []rune(s)
	limit := m.th.maxEdits(len(sr))
	if limit <= 0 {
		return result{}, false
	}
	found := false
	var best result
	for _, e := range entries {
		for _, v := range e.variants {
			lenDiff := abs(len(v.runes) - len(sr))
			if lenDiff > limit {
				continue
			}
			d := levenshtein(s, v.text)
			if d == 0 || d > limit {
				continue
			}
			prefix := commonPrefixLen(sr, v.runes)
			score := 100*d - 60*prefix + 15*lenDiff
			if prefix > 0 {
				score -= 40
			}
			if hasRunePrefix(v.runes, sr) || hasRunePrefix(sr, v.runes) ||
				hasRuneSuffix(v.runes, sr) || hasRuneSuffix(sr, v.runes) {
				score -= 50
			}
			if score > m.th.ScoreCeiling {
				continue
			}
			if !found || score < best.score || (score == best.score && e.pos < best.pos) {
				best = result{pos: e.pos, stage: StageFuzzy, dist: d, score: score}
				found = true
			}
		}
	}
	return best, found
}
