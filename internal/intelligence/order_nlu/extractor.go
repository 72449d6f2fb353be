package order_nlu

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
)

type tokenKind int

const (
	tkWord tokenKind = iota
	tkStop
	tkNumber
	tkSeparator
	tkRemove
	tkAdd
	tkPref
	tkNoise
)

type token struct {
	text string
	kind tokenKind
	num  int // value of tkNumber tokens
	phon int // phonetic number value, 0 when none
	pref order.Preference
}

func classify(t string) token {
	tok := token{text: t}
	if n, ok := strictNumber(t); ok {
		tok.kind, tok.num = tkNumber, n
		return tok
	}
	tok.phon = phoneticNumbers[t]
	switch {
	case lex.separators.has(t):
		tok.kind = tkSeparator
	case lex.remove.has(t):
		tok.kind = tkRemove
	case lex.add.has(t):
		tok.kind = tkAdd
	case lex.spicy.has(t):
		tok.kind, tok.pref = tkPref, order.PreferenceSpicy
	case lex.regular.has(t):
		tok.kind, tok.pref = tkPref, order.PreferenceNonSpicy
	case lex.stop.has(t):
		tok.kind = tkStop
	case lex.noise.has(t):
		tok.kind = tkNoise
	}
	return tok
}

func (t token) phraseable() bool {
	return t.kind == tkWord || t.kind == tkStop || t.kind == tkPref
}

// ParseResult is the full output of one extraction, kept for diagnostics.
type ParseResult struct {
	Normalized string                  `json:"normalized"`
	Tokens     []string                `json:"tokens"`
	Intents    []order.Intent          `json:"intents"`
	Splits     []order.PreferenceSplit `json:"splits,omitempty"`
	// Preference is the single preference stated for the whole utterance.
	Preference order.Preference `json:"preference,omitempty"`
}

// Extractor turns an utterance into an ordered list of intents.
type Extractor struct {
	norm      *Normalizer
	m         *Matcher
	cat       *catalog.Catalog
	maxTokens int
}

// NewExtractor wires an Extractor. maxTokens bounds noun phrase length.
func NewExtractor(cat *catalog.Catalog, norm *Normalizer, m *Matcher, maxTokens int) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 4
	}
	return &Extractor{norm: norm, m: m, cat: cat, maxTokens: maxTokens}
}

// Extract returns the intents found in text in order of mention. It never
// fails; unrecognised text yields an empty slice.
func (x *Extractor) Extract(text string) []order.Intent {
	return x.Parse(text).Intents
}

type span struct {
	start, end int
	item       *catalog.Item
	cat        *catalog.Category
}

type found struct {
	intent order.Intent
	start  int
	end    int
	pass   int
}

type parse struct {
	x       *Extractor
	toks    []token
	claimed []bool
	found   []found
	seen    map[string]int
	action  []order.Action
}

// Parse runs the three extraction passes: quantity-first ("2 burgers"),
// noun-first ("burger 2") and bare mentions after a conjunction
// ("and fries", quantity 1).
func (x *Extractor) Parse(text string) ParseResult {
	words := x.norm.Tokens(text)
	res := ParseResult{Normalized: strings.Join(words, " "), Tokens: words, Intents: []order.Intent{}}
	if len(words) == 0 {
		return res
	}

	p := &parse{x: x, claimed: make([]bool, len(words)), seen: make(map[string]int)}
	p.toks = make([]token, len(words))
	for i, w := range words {
		p.toks[i] = classify(w)
	}
	p.computeActions()

	p.quantityFirst()
	p.nounFirst()
	p.bare()

	sort.SliceStable(p.found, func(i, j int) bool { return p.found[i].start < p.found[j].start })

	p.applyAdjacentPreferences()
	res.Preference = p.utterancePreference()
	res.Splits = p.splits()

	var prefTargets []int
	for i := range p.found {
		in := &p.found[i].intent
		if in.Preference == order.PreferenceNone && len(res.Splits) < 2 {
			in.Preference = res.Preference
		}
		if x.needsPreference(*in) {
			prefTargets = append(prefTargets, i)
		}
	}
	if len(res.Splits) >= 2 && len(prefTargets) == 1 {
		in := &p.found[prefTargets[0]].intent
		in.Splits = res.Splits
		in.Quantity = in.SplitTotal()
		in.Preference = order.PreferenceNone
	}

	for _, f := range p.found {
		res.Intents = append(res.Intents, f.intent)
	}

	if len(res.Intents) == 0 {
		if cm := x.m.matchCategory(res.Normalized, wholeText); cm != nil {
			in := order.NewCategoryIntent(cm.Category.ID, 0)
			in.Action = p.action[len(words)]
			res.Intents = append(res.Intents, in)
		}
	}
	return res
}

func (x *Extractor) needsPreference(in order.Intent) bool {
	if in.IsItem() {
		it, ok := x.cat.Item(in.ItemID)
		return ok && it.NeedsPreference
	}
	c, ok := x.cat.Category(in.CategoryID)
	return ok && c.RequiresPreference
}

// computeActions records the add/remove state in force before each token.
func (p *parse) computeActions() {
	p.action = make([]order.Action, len(p.toks)+1)
	cur := order.ActionAdd
	for i, t := range p.toks {
		p.action[i] = cur
		switch t.kind {
		case tkRemove:
			cur = order.ActionRemove
		case tkAdd:
			cur = order.ActionAdd
		}
	}
	p.action[len(p.toks)] = cur
}

func (p *parse) claim(from, to int) {
	for i := from; i < to && i < len(p.claimed); i++ {
		p.claimed[i] = true
	}
}

func (p *parse) emit(pass int, s span, start, end, qty int, pref order.Preference) {
	var in order.Intent
	if s.item != nil {
		in = order.NewItemIntent(s.item.ID, qty)
	} else {
		in = order.NewCategoryIntent(s.cat.ID, qty)
	}
	in.Action = p.action[start]
	in.Preference = pref
	in.Position = start

	// Repeats inside the quantity-first pass are real ("2 coffee and 3
	// coffee"); anything later that re-mentions a captured entry is not.
	key := in.Ref() + ":" + string(in.Action)
	if first, ok := p.seen[key]; ok && !(pass == 1 && first == 1) {
		p.claim(start, end)
		return
	}
	p.seen[key] = pass
	p.found = append(p.found, found{intent: in, start: start, end: end, pass: pass})
	p.claim(start, end)
}

// quantityFirst handles "<number> [of|x|add] [pref] <phrase>".
func (p *parse) quantityFirst() {
	for i, t := range p.toks {
		if p.claimed[i] {
			continue
		}
		n, phonetic := t.num, false
		switch {
		case t.kind == tkNumber:
		case t.phon > 0 && !p.afterVerb(i):
			n, phonetic = t.phon, true
		default:
			continue
		}

		// A sound-alike ("to", "for") only counts when the item follows it
		// directly: "i want to add pepsi" is not two pepsis.
		j := i + 1
		for !phonetic && j < len(p.toks) && !p.claimed[j] && p.toks[j].kind != tkNumber && lex.connectors.has(p.toks[j].text) {
			j++
		}
		s, ok := p.phraseAt(j, !phonetic)
		pref := order.PreferenceNone
		if !ok && !phonetic && j < len(p.toks) && p.toks[j].kind == tkPref && !p.claimed[j] {
			pref = p.toks[j].pref
			s, ok = p.phraseAt(j+1, !phonetic)
		}
		if !ok {
			continue
		}
		p.emit(1, s, i, s.end, n, pref)
	}
}

// afterVerb reports whether toks[i] follows a verb that takes "to", where a
// sound-alike number is the particle.
func (p *parse) afterVerb(i int) bool {
	return i > 0 && lex.verbs.has(p.toks[i-1].text)
}

// nounFirst handles "<phrase> [x] <number>".
func (p *parse) nounFirst() {
	for i, t := range p.toks {
		if p.claimed[i] || t.kind != tkNumber {
			continue
		}
		end := i
		if end > 0 && !p.claimed[end-1] && p.toks[end-1].text == "x" {
			end--
		}
		s, ok := p.phraseEnding(end)
		if !ok {
			continue
		}
		p.emit(2, s, s.start, i+1, t.num, order.PreferenceNone)
	}
}

// bare picks up remaining mentions. After a conjunction they default to
// one; a leading mention keeps quantity 0 so the dialogue asks for it.
func (p *parse) bare() {
	for j := 0; j < len(p.toks); {
		if p.claimed[j] || !p.toks[j].phraseable() || p.toks[j].kind == tkStop {
			j++
			continue
		}
		s, ok := p.phraseAt(j, true)
		if !ok {
			j++
			continue
		}
		qty := 0
		if p.afterSeparator(j) {
			qty = 1
		}
		p.emit(3, s, j, s.end, qty, order.PreferenceNone)
		j = s.end
	}
}

func (p *parse) afterSeparator(j int) bool {
	for k := j - 1; k >= 0; k-- {
		switch p.toks[k].kind {
		case tkStop, tkPref:
			continue
		case tkSeparator:
			return true
		}
		return false
	}
	return false
}

// phraseAt finds the longest catalog phrase starting exactly at start.
// Non-fuzzy matches of any length beat fuzzy ones.
func (p *parse) phraseAt(start int, allowFuzzy bool) (span, bool) {
	if start >= len(p.toks) || p.claimed[start] {
		return span{}, false
	}
	if k := p.toks[start].kind; k != tkWord && k != tkPref {
		return span{}, false
	}
	maxEnd := start
	for maxEnd < len(p.toks) && maxEnd-start < p.x.maxTokens && !p.claimed[maxEnd] && p.toks[maxEnd].phraseable() {
		maxEnd++
	}
	for end := maxEnd; end > start; end-- {
		if s, ok := p.matchSpan(start, end, false); ok {
			return s, true
		}
	}
	if !allowFuzzy {
		return span{}, false
	}
	for end := maxEnd; end > start; end-- {
		if s, ok := p.matchSpan(start, end, true); ok {
			return s, true
		}
	}
	return span{}, false
}

// phraseEnding finds the longest catalog phrase ending right before end.
func (p *parse) phraseEnding(end int) (span, bool) {
	minStart := end
	for minStart > 0 && end-minStart < p.x.maxTokens && !p.claimed[minStart-1] && p.toks[minStart-1].phraseable() {
		minStart--
	}
	for _, fuzzy := range []bool{false, true} {
		for start := minStart; start < end; start++ {
			if k := p.toks[start].kind; k != tkWord && k != tkPref {
				continue
			}
			if s, ok := p.matchSpan(start, end, fuzzy); ok {
				return s, true
			}
		}
	}
	return span{}, false
}

// matchSpan resolves toks[start:end]. Spans holding a preference word only
// match item names that contain it; single words that look like a category
// ("burgers", "drinks") try categories first.
func (p *parse) matchSpan(start, end int, fuzzy bool) (span, bool) {
	last := p.toks[end-1]
	if last.kind == tkStop {
		return span{}, false
	}
	words := make([]string, 0, end-start)
	hasPref, hasStop, allPref := false, false, true
	for _, t := range p.toks[start:end] {
		words = append(words, t.text)
		switch t.kind {
		case tkPref:
			hasPref = true
		case tkStop:
			hasStop = true
			allPref = false
		default:
			allPref = false
		}
	}
	if allPref {
		return span{}, false
	}
	text := strings.Join(words, " ")
	out := span{start: start, end: end}

	if hasPref {
		if fuzzy {
			// Correct the misspelt name words and retry the exact stages, so
			// "spicy zingerr" lands where "spicy zinger" does.
			corrected, ok := p.correctedText(start, end)
			if !ok {
				return span{}, false
			}
			text = corrected
		}
		if im := p.x.m.matchItem(text, phraseOpts); im != nil {
			out.item = im.Item
			return out, true
		}
		return span{}, false
	}

	o := phraseOpts
	if fuzzy {
		if hasStop {
			return span{}, false
		}
		o = fuzzyOpts
	}

	categoryFirst := end-start == 1 && (looksPlural(text) || p.x.m.IsCategoryWord(text))
	if categoryFirst {
		if cm := p.x.m.matchCategory(text, o); cm != nil {
			out.cat = cm.Category
			return out, true
		}
	}
	if im := p.x.m.matchItem(text, o); im != nil {
		out.item = im.Item
		return out, true
	}
	if !categoryFirst {
		if cm := p.x.m.matchCategory(text, o); cm != nil {
			out.cat = cm.Category
			return out, true
		}
	}
	return span{}, false
}

// correctedText rewrites the plain words of toks[start:end] to their closest
// item-name words. It fails when no word changed.
func (p *parse) correctedText(start, end int) (string, bool) {
	words := make([]string, 0, end-start)
	changed := false
	for _, t := range p.toks[start:end] {
		w := t.text
		if t.kind == tkWord {
			if c, ok := p.x.m.correctWord(w); ok && c != w {
				w, changed = c, true
			}
		}
		words = append(words, w)
	}
	return strings.Join(words, " "), changed
}

func looksPlural(w string) bool {
	n := utf8.RuneCountInString(w)
	return (strings.HasSuffix(w, "s") && n > 3) || (strings.HasSuffix(w, "ات") && n > 4)
}

// applyAdjacentPreferences gives an intent the preference word written
// right after or right before its mention.
func (p *parse) applyAdjacentPreferences() {
	for i := range p.found {
		f := &p.found[i]
		if f.intent.Preference != order.PreferenceNone {
			continue
		}
		if f.end < len(p.toks) && !p.claimed[f.end] && p.toks[f.end].kind == tkPref {
			f.intent.Preference = p.toks[f.end].pref
			continue
		}
		if f.start > 0 && !p.claimed[f.start-1] && p.toks[f.start-1].kind == tkPref {
			f.intent.Preference = p.toks[f.start-1].pref
		}
	}
}

// utterancePreference returns the preference when every free preference
// word in the utterance agrees.
func (p *parse) utterancePreference() order.Preference {
	pref := order.PreferenceNone
	for i, t := range p.toks {
		if t.kind != tkPref || p.claimed[i] {
			continue
		}
		if pref != order.PreferenceNone && pref != t.pref {
			return order.PreferenceNone
		}
		pref = t.pref
	}
	return pref
}

func (p *parse) splits() []order.PreferenceSplit {
	var out []order.PreferenceSplit
	for i := 0; i+1 < len(p.toks); i++ {
		if p.claimed[i] || p.toks[i].kind != tkNumber || p.toks[i+1].kind != tkPref {
			continue
		}
		if p.toks[i].num <= 0 {
			continue
		}
		out = append(out, order.PreferenceSplit{Preference: p.toks[i+1].pref, Quantity: p.toks[i].num})
		i++
	}
	if len(out) < 2 {
		return nil
	}
	return out
}
