package catalog

import (
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// Catalog is the immutable, indexed menu.
type Catalog struct {
	Restaurant Restaurant
	Categories []*Category
	Groups     []*Group
	Items      []*Item
	Branches   []*Branch

	itemsByID     map[int]*Item
	catsByID      map[string]*Category
	groupsByID    map[string]*Group
	itemsByCat    map[string][]*Item
	itemPositions map[int]int
}

// New indexes and validates the given menu parts.
func New(r Restaurant, cats []*Category, groups []*Group, items []*Item, branches []*Branch) (*Catalog, error) {
	c := &Catalog{
		Restaurant:    r,
		Categories:    cats,
		Groups:        groups,
		Items:         items,
		Branches:      branches,
		itemsByID:     make(map[int]*Item, len(items)),
		catsByID:      make(map[string]*Category, len(cats)),
		groupsByID:    make(map[string]*Group, len(groups)),
		itemsByCat:    make(map[string][]*Item, len(cats)),
		itemPositions: make(map[int]int, len(items)),
	}

	if r.NameEN == "" {
		return nil, errors.New(errors.ErrCodeCatalogInvalid, "restaurant name is required")
	}
	if len(cats) == 0 || len(items) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogInvalid, "catalog needs at least one category and one item")
	}

	for _, cat := range cats {
		if cat.ID == "" || cat.TitleEN == "" {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "category id and title are required")
		}
		if _, dup := c.catsByID[cat.ID]; dup {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "duplicate category %q", cat.ID)
		}
		c.catsByID[cat.ID] = cat
	}

	for pos, it := range items {
		if it.ID <= 0 {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "item %q has invalid id %d", it.NameEN, it.ID)
		}
		if _, dup := c.itemsByID[it.ID]; dup {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "duplicate item id %d", it.ID)
		}
		cat, ok := c.catsByID[it.CategoryID]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "item %d references unknown category %q", it.ID, it.CategoryID)
		}
		if it.NameEN == "" || it.NameAR == "" {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "item %d needs both names", it.ID)
		}
		if it.Price.IsNegative() {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "item %d has a negative price", it.ID)
		}
		if cat.RequiresPreference {
			it.NeedsPreference = true
		}
		c.itemsByID[it.ID] = it
		c.itemPositions[it.ID] = pos
		c.itemsByCat[it.CategoryID] = append(c.itemsByCat[it.CategoryID], it)
	}

	for _, g := range groups {
		if g.ID == "" || len(g.CategoryIDs) == 0 {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "group id and categories are required")
		}
		for _, id := range g.CategoryIDs {
			if _, ok := c.catsByID[id]; !ok {
				return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "group %q references unknown category %q", g.ID, id)
			}
		}
		c.groupsByID[g.ID] = g
	}

	return c, nil
}

// Item looks up an item by id.
func (c *Catalog) Item(id int) (*Item, bool) {
	it, ok := c.itemsByID[id]
	return it, ok
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (*Category, bool) {
	cat, ok := c.catsByID[id]
	return cat, ok
}

// Group looks up a home-menu group by id.
func (c *Catalog) Group(id string) (*Group, bool) {
	g, ok := c.groupsByID[id]
	return g, ok
}

// ItemsIn returns the items of the given categories in catalog order per
// category, categories in argument order.
func (c *Catalog) ItemsIn(categoryIDs ...string) []*Item {
	var out []*Item
	for _, id := range categoryIDs {
		out = append(out, c.itemsByCat[id]...)
	}
	return out
}

// Position returns the item's index in catalog order, used for tie-breaks.
func (c *Catalog) Position(itemID int) int {
	if p, ok := c.itemPositions[itemID]; ok {
		return p
	}
	return len(c.Items)
}
