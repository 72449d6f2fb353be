// Package order holds the ordering vocabulary shared by the NLU layer and the
// dialogue engine: extracted intents, the unit-line cart, and the completed
// order handed to archival sinks.
package order

import "fmt"

// IntentKind discriminates what an Intent refers to.
type IntentKind string

const (
	KindItem     IntentKind = "ITEM"
	KindCategory IntentKind = "CATEGORY"
)

// Action says whether an intent adds to or removes from the cart.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
)

// Preference is an item-level variant choice.
type Preference string

const (
	PreferenceNone     Preference = ""
	PreferenceSpicy    Preference = "spicy"
	PreferenceNonSpicy Preference = "non_spicy"
)

// ParsePreference accepts the button/wire form of a preference.
func ParsePreference(s string) (Preference, bool) {
	switch Preference(s) {
	case PreferenceSpicy, PreferenceNonSpicy:
		return Preference(s), true
	case "none":
		return PreferenceNone, true
	}
	return PreferenceNone, false
}

// Token returns a non-empty representation usable inside button ids.
func (p Preference) Token() string {
	if p == PreferenceNone {
		return "none"
	}
	return string(p)
}

// PreferenceSplit is one "<qty> <preference>" pair from utterances such as
// "1 spicy and 2 regular".
type PreferenceSplit struct {
	Preference Preference `json:"preference"`
	Quantity   int        `json:"quantity"`
}

// Intent is a structured reference to a catalog entry extracted from user
// text. Exactly one of ItemID / CategoryID is meaningful, selected by Kind.
//
// Quantity 0 means "unspecified": the dialogue asks for it instead of
// ordering zero.
type Intent struct {
	Kind       IntentKind        `json:"kind"`
	ItemID     int               `json:"item_id,omitempty"`
	CategoryID string            `json:"category_id,omitempty"`
	Quantity   int               `json:"quantity"`
	Preference Preference        `json:"preference,omitempty"`
	Action     Action            `json:"action"`
	Splits     []PreferenceSplit `json:"splits,omitempty"`
	// Position is the token index where the mention starts.
	Position int `json:"-"`
}

// NewItemIntent builds an ADD intent for an item.
func NewItemIntent(itemID, qty int) Intent {
	return Intent{Kind: KindItem, ItemID: itemID, Quantity: qty, Action: ActionAdd}
}

// NewCategoryIntent builds an ADD intent for a category.
func NewCategoryIntent(categoryID string, qty int) Intent {
	return Intent{Kind: KindCategory, CategoryID: categoryID, Quantity: qty, Action: ActionAdd}
}

// IsItem reports whether the intent references a concrete item.
func (i Intent) IsItem() bool { return i.Kind == KindItem }

// Actionable reports whether the dialogue can act on the intent without
// further clarification: any item, or a category with a quantity.
func (i Intent) Actionable() bool {
	if i.Kind == KindItem {
		return i.ItemID > 0
	}
	return i.CategoryID != "" && i.Quantity > 0
}

// Ref returns a stable key identifying the referenced catalog entry.
func (i Intent) Ref() string {
	if i.Kind == KindItem {
		return fmt.Sprintf("item:%d", i.ItemID)
	}
	return "category:" + i.CategoryID
}

// SplitTotal sums the quantities of all preference splits.
func (i Intent) SplitTotal() int {
	n := 0
	for _, s := range i.Splits {
		n += s.Quantity
	}
	return n
}
