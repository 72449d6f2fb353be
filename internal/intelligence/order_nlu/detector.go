package order_nlu

import "github.com/turtacn/Joana-OrderBot/internal/domain/order"

// Command is a conversational control request recognised outside the
// ordering grammar.
type Command string

const (
	CommandNone       Command = ""
	CommandGreeting   Command = "GREETING"
	CommandMenu       Command = "MENU"
	CommandFinish     Command = "FINISH"
	CommandCancel     Command = "CANCEL"
	CommandIrrelevant Command = "IRRELEVANT"
)

// Detector recognises commands, confirmations and payment choices in
// normalized text.
type Detector struct {
	norm   *Normalizer
	filler wordSet
}

// NewDetector builds a Detector over norm.
func NewDetector(norm *Normalizer) *Detector {
	filler := make(wordSet, len(lex.fillers)+len(lex.stop))
	for w := range lex.fillers {
		filler[w] = struct{}{}
	}
	for w := range lex.stop {
		filler[w] = struct{}{}
	}
	for _, g := range lex.greetings {
		for _, w := range g {
			filler[w] = struct{}{}
		}
	}
	return &Detector{norm: norm, filler: filler}
}

// Detect returns the first matching command, in priority order finish,
// cancel, menu, greeting, irrelevant.
func (d *Detector) Detect(text string) Command {
	toks := d.norm.Tokens(text)
	switch {
	case d.covers(toks, lex.finish):
		return CommandFinish
	case d.covers(toks, lex.cancel):
		return CommandCancel
	case d.covers(toks, lex.menu):
		return CommandMenu
	case d.covers(toks, lex.greetings):
		return CommandGreeting
	case lex.irrelevant.contains(toks):
		return CommandIrrelevant
	}
	return CommandNone
}

func (d *Detector) IsGreeting(text string) bool { return d.covers(d.norm.Tokens(text), lex.greetings) }
func (d *Detector) IsMenu(text string) bool     { return d.covers(d.norm.Tokens(text), lex.menu) }
func (d *Detector) IsFinish(text string) bool   { return d.covers(d.norm.Tokens(text), lex.finish) }
func (d *Detector) IsCancel(text string) bool   { return d.covers(d.norm.Tokens(text), lex.cancel) }

// IsIrrelevant reports off-topic chatter anywhere in text.
func (d *Detector) IsIrrelevant(text string) bool {
	return lex.irrelevant.contains(d.norm.Tokens(text))
}

// covers reports whether text is one of the phrases of pl, padded only with
// filler words. "hi, show me the menu please" covers the menu phrases;
// "menu burger" does not.
func (d *Detector) covers(toks []string, pl phraseList) bool {
	if len(toks) == 0 {
		return false
	}
	start, n, ok := pl.find(toks)
	if !ok {
		return false
	}
	for i, t := range toks {
		if i >= start && i < start+n {
			continue
		}
		if !d.filler.has(t) {
			return false
		}
	}
	return true
}

// Confirmation reads a yes/no answer. ok is false when text is neither.
func (d *Detector) Confirmation(text string) (yes bool, ok bool) {
	toks := d.norm.Tokens(text)
	var sawYes, sawNo bool
	for _, t := range toks {
		if lex.no.has(t) {
			sawNo = true
		} else if lex.yes.has(t) {
			sawYes = true
		}
	}
	switch {
	case sawNo:
		return false, true
	case sawYes:
		return true, true
	}
	return false, false
}

// Payment reads a payment method choice.
func (d *Detector) Payment(text string) (order.PaymentMethod, bool) {
	toks := d.norm.Tokens(text)
	switch {
	case lex.cash.contains(toks):
		return order.PaymentCash, true
	case lex.online.contains(toks):
		return order.PaymentOnline, true
	}
	return "", false
}

// Preference reads a typed spicy/regular answer. Mixed answers are left to
// the split parser.
func (d *Detector) Preference(text string) (order.Preference, bool) {
	var spicy, regular bool
	for _, t := range d.norm.Tokens(text) {
		spicy = spicy || lex.spicy.has(t)
		regular = regular || lex.regular.has(t)
	}
	switch {
	case spicy && !regular:
		return order.PreferenceSpicy, true
	case regular && !spicy:
		return order.PreferenceNonSpicy, true
	}
	return order.PreferenceNone, false
}

// WantsAll reports "all", "everything" and their Arabic equivalents.
func (d *Detector) WantsAll(text string) bool {
	return lex.all.contains(d.norm.Tokens(text))
}

// Quantity reads a typed quantity answer: the first number in text.
// Phonetic guesses ("too", "for") count only when they are the whole answer.
func (d *Detector) Quantity(text string) (int, bool) {
	toks := d.norm.Tokens(text)
	for _, t := range toks {
		if n, ok := strictNumber(t); ok {
			return n, true
		}
	}
	if len(toks) == 1 {
		if n, ok := phoneticNumbers[toks[0]]; ok {
			return n, true
		}
	}
	return 0, false
}
