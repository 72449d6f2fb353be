package order_nlu

import (
	"strings"
	"unicode/utf8"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
)

// ReferenceType classifies an anaphoric utterance.
type ReferenceType string

const (
	// PronounReference points back at the last item ("add another one of those").
	PronounReference ReferenceType = "PRONOUN_REFERENCE"
	// QuantityOverride restates the quantity of the last item ("make it 3").
	QuantityOverride ReferenceType = "QUANTITY_OVERRIDE"
)

// Resolution is the outcome of anaphora resolution.
type Resolution struct {
	Type   ReferenceType `json:"type"`
	ItemID int           `json:"item_id"`
	// Quantity is 0 when the utterance gave none.
	Quantity int  `json:"quantity,omitempty"`
	Plural   bool `json:"plural,omitempty"`
	Remove   bool `json:"remove,omitempty"`
}

var arabicObjectSuffixes = []string{"هم", "ها", "ه"}

// AnaphoraResolver maps pronouns and bare quantity restatements to the last
// item the customer handled.
type AnaphoraResolver struct {
	norm *Normalizer
}

// NewAnaphoraResolver builds a resolver over norm.
func NewAnaphoraResolver(norm *Normalizer) *AnaphoraResolver {
	return &AnaphoraResolver{norm: norm}
}

// Resolve returns nil when there is no last item or text carries no
// reference to it.
func (r *AnaphoraResolver) Resolve(text string, lastItemID int, lang locale.Lang) *Resolution {
	if lastItemID <= 0 {
		return nil
	}
	toks := r.norm.Tokens(text)
	if len(toks) == 0 {
		return nil
	}

	qty := 0
	remove := false
	for _, t := range toks {
		if n, ok := strictNumber(t); ok && qty == 0 && n > 0 {
			qty = n
		}
		if lex.remove.has(t) {
			remove = true
		}
	}

	singular := lex.pronounsSingular.contains(toks)
	plural := lex.pronounsPlural.contains(toks)
	if !singular && !plural && (lang == locale.AR || hasArabic(text)) {
		for _, t := range toks {
			stem, ok := r.objectSuffixStem(t)
			if !ok {
				continue
			}
			singular = true
			if lex.removeStems.has(stem) {
				remove = true
			}
			if strings.HasSuffix(t, "هم") {
				plural = true
			}
		}
	}

	if qty > 0 && lex.quantityTriggers.contains(toks) {
		return &Resolution{Type: QuantityOverride, ItemID: lastItemID, Quantity: qty, Plural: plural, Remove: remove}
	}
	if singular || plural {
		return &Resolution{Type: PronounReference, ItemID: lastItemID, Quantity: qty, Plural: plural, Remove: remove}
	}
	return nil
}

// objectSuffixStem detects a verb carrying an attached object pronoun
// ("شيله", "خليها"). Known nouns that merely end in the same letters are
// rejected.
func (r *AnaphoraResolver) objectSuffixStem(t string) (string, bool) {
	if r.norm.known(t) {
		return "", false
	}
	for _, suf := range arabicObjectSuffixes {
		if !strings.HasSuffix(t, suf) {
			continue
		}
		stem := strings.TrimSuffix(t, suf)
		if utf8.RuneCountInString(stem) < 2 {
			return "", false
		}
		return stem, true
	}
	return "", false
}

func hasArabic(s string) bool {
	l, ok := locale.Detect(s)
	return ok && l == locale.AR
}
