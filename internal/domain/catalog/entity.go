// Package catalog models the restaurant menu: categories, items, category
// groups shown on the home menu, and branches. A Catalog is loaded once at
// startup and is read-only afterwards, so it is safe for concurrent use.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
)

// Restaurant carries the localized restaurant name.
type Restaurant struct {
	NameEN string `json:"name_en" yaml:"name_en"`
	NameAR string `json:"name_ar" yaml:"name_ar"`
}

// Name returns the restaurant name in lang.
func (r Restaurant) Name(lang locale.Lang) string {
	return pick(lang, r.NameEN, r.NameAR)
}

// Category is a grouping of menu items.
type Category struct {
	ID      string   `json:"id"`
	TitleEN string   `json:"title_en"`
	TitleAR string   `json:"title_ar"`
	Aliases []string `json:"aliases,omitempty"`
	// RequiresPreference marks every item of the category as needing a
	// spicy/regular choice.
	RequiresPreference bool `json:"requires_preference,omitempty"`
}

// Title returns the category title in lang.
func (c *Category) Title(lang locale.Lang) string {
	return pick(lang, c.TitleEN, c.TitleAR)
}

// Group bundles categories under one home-menu button.
type Group struct {
	ID          string   `json:"id"`
	TitleEN     string   `json:"title_en"`
	TitleAR     string   `json:"title_ar"`
	CategoryIDs []string `json:"categories"`
}

// Title returns the group title in lang.
func (g *Group) Title(lang locale.Lang) string {
	return pick(lang, g.TitleEN, g.TitleAR)
}

// Item is a single orderable menu entry.
type Item struct {
	ID              int             `json:"id"`
	CategoryID      string          `json:"category_id"`
	NameEN          string          `json:"name_en"`
	NameAR          string          `json:"name_ar"`
	Aliases         []string        `json:"aliases,omitempty"`
	Price           decimal.Decimal `json:"price"`
	NeedsPreference bool            `json:"needs_preference"`
}

// Name returns the item name in lang.
func (i *Item) Name(lang locale.Lang) string {
	return pick(lang, i.NameEN, i.NameAR)
}

// Branch is a physical restaurant location.
type Branch struct {
	ID      int    `json:"id"`
	NameEN  string `json:"name_en"`
	NameAR  string `json:"name_ar"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Name returns the branch district name in lang.
func (b *Branch) Name(lang locale.Lang) string {
	return pick(lang, b.NameEN, b.NameAR)
}

func pick(lang locale.Lang, en, ar string) string {
	if lang == locale.AR && ar != "" {
		return ar
	}
	return en
}
