package catalog

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

//go:embed menu.yaml
var embeddedMenu []byte

type menuFile struct {
	Restaurant Restaurant `yaml:"restaurant"`
	Categories []struct {
		ID                 string   `yaml:"id"`
		TitleEN            string   `yaml:"title_en"`
		TitleAR            string   `yaml:"title_ar"`
		Aliases            []string `yaml:"aliases"`
		RequiresPreference bool     `yaml:"requires_preference"`
	} `yaml:"categories"`
	Groups []struct {
		ID         string   `yaml:"id"`
		TitleEN    string   `yaml:"title_en"`
		TitleAR    string   `yaml:"title_ar"`
		Categories []string `yaml:"categories"`
	} `yaml:"groups"`
	Items []struct {
		ID              int      `yaml:"id"`
		Category        string   `yaml:"category"`
		NameEN          string   `yaml:"name_en"`
		NameAR          string   `yaml:"name_ar"`
		Aliases         []string `yaml:"aliases"`
		Price           string   `yaml:"price"`
		NeedsPreference bool     `yaml:"needs_preference"`
	} `yaml:"items"`
	Branches []struct {
		ID      int    `yaml:"id"`
		NameEN  string `yaml:"name_en"`
		NameAR  string `yaml:"name_ar"`
		Address string `yaml:"address"`
		Phone   string `yaml:"phone"`
	} `yaml:"branches"`
}

// Load decodes a YAML menu from r.
func Load(r io.Reader) (*Catalog, error) {
	var mf menuFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&mf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCatalogInvalid, "failed to decode menu")
	}

	cats := make([]*Category, 0, len(mf.Categories))
	for _, c := range mf.Categories {
		cats = append(cats, &Category{
			ID:                 c.ID,
			TitleEN:            c.TitleEN,
			TitleAR:            c.TitleAR,
			Aliases:            c.Aliases,
			RequiresPreference: c.RequiresPreference,
		})
	}

	groups := make([]*Group, 0, len(mf.Groups))
	for _, g := range mf.Groups {
		groups = append(groups, &Group{ID: g.ID, TitleEN: g.TitleEN, TitleAR: g.TitleAR, CategoryIDs: g.Categories})
	}

	items := make([]*Item, 0, len(mf.Items))
	for _, it := range mf.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeCatalogInvalid, "item %d has invalid price %q", it.ID, it.Price)
		}
		items = append(items, &Item{
			ID:              it.ID,
			CategoryID:      it.Category,
			NameEN:          it.NameEN,
			NameAR:          it.NameAR,
			Aliases:         it.Aliases,
			Price:           price,
			NeedsPreference: it.NeedsPreference,
		})
	}

	branches := make([]*Branch, 0, len(mf.Branches))
	for _, b := range mf.Branches {
		branches = append(branches, &Branch{ID: b.ID, NameEN: b.NameEN, NameAR: b.NameAR, Address: b.Address, Phone: b.Phone})
	}

	return New(mf.Restaurant, cats, groups, items, branches)
}

// LoadFile decodes the YAML menu at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeCatalogInvalid, "failed to open menu %q", path)
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the menu compiled into the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(embeddedMenu))
	})
	return defaultCat, defaultErr
}

// Open returns the menu at path, or the embedded one when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
