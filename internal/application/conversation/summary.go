package conversation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func prefLabel(lang locale.Lang, p order.Preference) string {
	switch p {
	case order.PreferenceSpicy:
		return locale.T(lang, locale.KeySpicy)
	case order.PreferenceNonSpicy:
		return locale.T(lang, locale.KeyNonSpicy)
	}
	return ""
}

func paymentLabel(lang locale.Lang, p order.PaymentMethod) string {
	if p == order.PaymentOnline {
		return locale.T(lang, locale.KeyOnline)
	}
	return locale.T(lang, locale.KeyCash)
}

// itemName returns the localized item name, or "#id" for an id the catalog
// no longer knows.
func (e *Engine) itemName(lang locale.Lang, id int) string {
	if it, ok := e.cat.Item(id); ok {
		return it.Name(lang)
	}
	return fmt.Sprintf("#%d", id)
}

// itemLabel renders "Beef Burger (Spicy 🌶️)".
func (e *Engine) itemLabel(lang locale.Lang, id int, p order.Preference) string {
	s := e.itemName(lang, id)
	if l := prefLabel(lang, p); l != "" {
		s += " (" + l + ")"
	}
	return s
}

// lineLabel renders "2 × Beef Burger (Spicy 🌶️)".
func (e *Engine) lineLabel(lang locale.Lang, id int, p order.Preference, qty int) string {
	return fmt.Sprintf("%d × %s", qty, e.itemLabel(lang, id, p))
}

// pendingLabel renders the item being configured, expanding splits.
func (e *Engine) pendingLabel(lang locale.Lang, cur *session.PendingItem) string {
	if len(cur.Splits) == 0 {
		return e.lineLabel(lang, cur.ItemID, cur.Preference, cur.Quantity)
	}
	parts := make([]string, 0, len(cur.Splits))
	for _, s := range cur.Splits {
		parts = append(parts, e.lineLabel(lang, cur.ItemID, s.Preference, s.Quantity))
	}
	return strings.Join(parts, ", ")
}

// intentsLabel lists queued intents for acknowledgements.
func (e *Engine) intentsLabel(lang locale.Lang, intents []order.Intent) string {
	parts := make([]string, 0, len(intents))
	for _, in := range intents {
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		if in.IsItem() {
			parts = append(parts, e.lineLabel(lang, in.ItemID, in.Preference, qty))
			continue
		}
		title := in.CategoryID
		if c, ok := e.cat.Category(in.CategoryID); ok {
			title = c.Title(lang)
		}
		if in.Quantity > 0 {
			title = fmt.Sprintf("%d × %s", in.Quantity, title)
		}
		parts = append(parts, title)
	}
	return strings.Join(parts, ", ")
}

// cartSummary renders the grouped cart with line totals and the grand total.
// The cart itself is never regrouped.
func (e *Engine) cartSummary(lang locale.Lang, cart order.Cart) string {
	var b strings.Builder
	b.WriteString(locale.T(lang, locale.KeyOrderSummary))
	for _, g := range cart.Groups() {
		fmt.Fprintf(&b, "\n• %s - %s %s",
			e.lineLabel(lang, g.Key.ItemID, g.Key.Preference, g.Quantity),
			money(g.Total()), e.opts.Currency)
	}
	b.WriteString("\n")
	b.WriteString(locale.T(lang, locale.KeyTotal, money(cart.Total()), e.opts.Currency))
	return b.String()
}

// receipt renders a confirmed order.
func (e *Engine) receipt(lang locale.Lang, o *order.Order) string {
	var b strings.Builder
	b.WriteString(locale.T(lang, locale.KeyOrderConfirmed, o.ShortID(), e.cat.Restaurant.Name(lang)))
	b.WriteString("\n\n")
	b.WriteString(locale.T(lang, locale.KeyOrderSummary))
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "\n• %s - %s %s",
			e.lineLabel(lang, l.ItemID, l.Preference, l.Quantity),
			money(l.LineTotal), o.Currency)
	}
	b.WriteString("\n")
	b.WriteString(locale.T(lang, locale.KeyTotal, money(o.Total), o.Currency))
	b.WriteString("\n")
	b.WriteString(locale.T(lang, locale.KeyPaymentLabel, paymentLabel(lang, o.PaymentMethod)))
	return b.String()
}

// welcome renders the greeting with the branch directory.
func (e *Engine) welcome(lang locale.Lang) string {
	var b strings.Builder
	b.WriteString(locale.T(lang, locale.KeyWelcome, e.cat.Restaurant.Name(lang)))
	if len(e.cat.Branches) > 0 {
		b.WriteString("\n\n")
		b.WriteString(locale.T(lang, locale.KeyBranches))
		for _, br := range e.cat.Branches {
			fmt.Fprintf(&b, "\n• %s, %s: %s", br.Name(lang), br.Address, br.Phone)
		}
	}
	return b.String()
}
