package order_nlu

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const waw = "و"

// Fold applies the character-level part of normalization: digit and width
// folding, mark removal, lowercasing, Arabic letter unification and
// punctuation cleanup. It is idempotent and vocabulary-independent.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(foldDigit, s)
	t := transform.Chain(width.Fold, norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	var last byte // 'd' digit, 'l' letter, 0 after a space
	space := func() {
		b.WriteByte(' ')
		last = 0
	}
	for _, r := range s {
		switch r {
		case 'ـ', '\'', '’', '‘', '`':
			continue
		case 'ى', 'ی':
			r = 'ي'
		case 'ة':
			r = 'ه'
		case 'ک':
			r = 'ك'
		case '&', '+', ',', '،', '؛':
			b.WriteString(" and ")
			last = 0
			continue
		}
		switch {
		case r >= '0' && r <= '9':
			if last == 'l' {
				space()
			}
			b.WriteRune(r)
			last = 'd'
		case (r >= 'a' && r <= 'z') || (unicode.Is(unicode.Arabic, r) && unicode.IsLetter(r)):
			if last == 'd' {
				space()
			}
			b.WriteRune(r)
			last = 'l'
		default:
			space()
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func foldDigit(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}
	return r
}

// Normalizer turns raw customer text into the canonical token stream every
// other NLU component works on. The same Normalizer must be used for catalog
// names and user input so both sides meet in one space.
type Normalizer struct {
	vocab map[string]struct{}
}

// NewNormalizer builds a Normalizer whose protected vocabulary is the
// built-in lexicon plus the given words (typically catalog names).
func NewNormalizer(words ...string) *Normalizer {
	n := &Normalizer{vocab: make(map[string]struct{}, len(lex.vocab)+len(words))}
	for w := range lex.vocab {
		n.vocab[w] = struct{}{}
	}
	for _, w := range words {
		for _, tok := range strings.Fields(Fold(w)) {
			n.vocab[tok] = struct{}{}
		}
	}
	return n
}

var defaultNormalizer = NewNormalizer()

// Normalize runs the package default Normalizer, which only knows the
// built-in lexicon.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize folds raw, repairs elongated words, splits attached Arabic "و"
// and applies the typo tables. Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	return strings.Join(n.Tokens(raw), " ")
}

// Tokens is Normalize split into tokens.
func (n *Normalizer) Tokens(raw string) []string {
	fields := strings.Fields(Fold(raw))
	if len(fields) == 0 {
		return nil
	}

	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		f = n.collapseRuns(f)
		if head, rest, ok := n.splitWaw(f); ok {
			toks = append(toks, head, rest)
			continue
		}
		toks = append(toks, f)
	}

	for i, t := range toks {
		if v, ok := lex.typos[t]; ok {
			toks[i] = v
		}
	}
	return applyPhrases(toks)
}

func (n *Normalizer) known(tok string) bool {
	if _, ok := n.vocab[tok]; ok {
		return true
	}
	if _, ok := lex.typos[tok]; ok {
		return true
	}
	_, ok := numberWords[tok]
	return ok
}

// collapseRuns shortens runs of three or more identical letters. A run is
// kept at two when that spells a known word ("cofffee" -> "coffee"),
// otherwise it becomes one ("burrrger" -> "burger").
func (n *Normalizer) collapseRuns(tok string) string {
	if !hasLetterRun(tok, 3) {
		return tok
	}
	two := squeeze(tok, 2)
	if n.known(two) {
		return two
	}
	return squeeze(tok, 1)
}

func hasLetterRun(s string, min int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev && unicode.IsLetter(r) {
			run++
			if run >= min {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

func squeeze(s string, max int) string {
	var b strings.Builder
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev && unicode.IsLetter(r) {
			run++
		} else {
			run = 1
		}
		prev = r
		if run <= max {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitWaw separates the Arabic conjunction when it is glued to a known
// word ("وقهوه" -> "و", "قهوه").
func (n *Normalizer) splitWaw(tok string) (string, string, bool) {
	if !strings.HasPrefix(tok, waw) || utf8.RuneCountInString(tok) < 3 || n.known(tok) {
		return "", "", false
	}
	rest := strings.TrimPrefix(tok, waw)
	if !n.known(rest) {
		return "", "", false
	}
	return waw, rest, true
}

// applyPhrases replaces multi-token typo keys, longest first, left to right.
func applyPhrases(toks []string) []string {
	if lex.maxPhrase < 2 || len(toks) < 2 {
		return toks
	}
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); {
		replaced := false
		for l := lex.maxPhrase; l >= 2; l-- {
			if i+l > len(toks) {
				continue
			}
			if v, ok := lex.phrases[strings.Join(toks[i:i+l], " ")]; ok {
				out = append(out, v)
				i += l
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, toks[i])
			i++
		}
	}
	return out
}
