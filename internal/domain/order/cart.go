package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is one unit of a purchased item with its resolved preference.
// Ordering 3 burgers yields 3 lines.
type CartLine struct {
	ItemID     int             `json:"item_id"`
	Preference Preference      `json:"preference,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Key groups lines by item and preference.
func (l CartLine) Key() GroupKey {
	return GroupKey{ItemID: l.ItemID, Preference: l.Preference}
}

// GroupKey identifies the set of lines sharing an item and preference.
type GroupKey struct {
	ItemID     int
	Preference Preference
}

// String renders the key as "<itemId>_<pref>" for button ids.
func (k GroupKey) String() string {
	return fmt.Sprintf("%d_%s", k.ItemID, k.Preference.Token())
}

// ParseGroupKey is the inverse of GroupKey.String.
func ParseGroupKey(s string) (GroupKey, bool) {
	idPart, prefPart, ok := strings.Cut(s, "_")
	if !ok {
		return GroupKey{}, false
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		return GroupKey{}, false
	}
	pref, ok := ParsePreference(prefPart)
	if !ok {
		return GroupKey{}, false
	}
	return GroupKey{ItemID: id, Preference: pref}, true
}

// LineGroup aggregates cart lines sharing a GroupKey.
type LineGroup struct {
	Key       GroupKey
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total is quantity × unit price.
func (g LineGroup) Total() decimal.Decimal {
	return g.UnitPrice.Mul(decimal.NewFromInt(int64(g.Quantity)))
}

// Cart is the ordered list of unit lines. Methods that mutate return a new
// slice; callers reassign.
type Cart []CartLine

// Add appends qty lines. Non-positive quantities add nothing.
func (c Cart) Add(itemID int, pref Preference, unitPrice decimal.Decimal, qty int) Cart {
	for n := 0; n < qty; n++ {
		c = append(c, CartLine{ItemID: itemID, Preference: pref, UnitPrice: unitPrice})
	}
	return c
}

// Count returns how many lines match key.
func (c Cart) Count(key GroupKey) int {
	n := 0
	for _, l := range c {
		if l.Key() == key {
			n++
		}
	}
	return n
}

// CountItem returns how many lines reference itemID across preferences.
func (c Cart) CountItem(itemID int) int {
	n := 0
	for _, l := range c {
		if l.ItemID == itemID {
			n++
		}
	}
	return n
}

// Remove deletes up to n lines matching key, latest first, leaving the
// relative order of every other line intact. It returns the new cart and the
// number of lines removed.
func (c Cart) Remove(key GroupKey, n int) (Cart, int) {
	if n <= 0 {
		return c.Clone(), 0
	}
	drop := make(map[int]bool, n)
	for i := len(c) - 1; i >= 0 && len(drop) < n; i-- {
		if c[i].Key() == key {
			drop[i] = true
		}
	}
	out := make(Cart, 0, len(c)-len(drop))
	for i, l := range c {
		if !drop[i] {
			out = append(out, l)
		}
	}
	return out, len(drop)
}

// RemoveItem deletes up to n lines of itemID regardless of preference.
func (c Cart) RemoveItem(itemID, n int) (Cart, int) {
	removed := 0
	out := c.Clone()
	for _, g := range c.Groups() {
		if g.Key.ItemID != itemID || removed >= n {
			continue
		}
		var k int
		out, k = out.Remove(g.Key, n-removed)
		removed += k
	}
	return out, removed
}

// Groups aggregates lines by GroupKey in order of first appearance.
func (c Cart) Groups() []LineGroup {
	idx := make(map[GroupKey]int)
	var out []LineGroup
	for _, l := range c {
		k := l.Key()
		if i, ok := idx[k]; ok {
			out[i].Quantity++
			continue
		}
		idx[k] = len(out)
		out = append(out, LineGroup{Key: k, Quantity: 1, UnitPrice: l.UnitPrice})
	}
	return out
}

// Total sums every line's unit price.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c {
		total = total.Add(l.UnitPrice)
	}
	return total
}

// Clone returns an independent copy.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
