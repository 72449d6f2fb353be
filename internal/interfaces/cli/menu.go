package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// MenuView is the printable menu.
type MenuView struct {
	Restaurant string         `json:"restaurant"`
	Currency   string         `json:"currency"`
	Items      []MenuItemView `json:"items"`
}

type MenuItemView struct {
	ID              int    `json:"id"`
	Category        string `json:"category"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	NeedsPreference bool   `json:"needs_preference"`
}

func (v *MenuView) TableHeaders() []string {
	return []string{"ID", "Category", "Item", "Price (" + v.Currency + ")", "Spicy?"}
}

func (v *MenuView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Items))
	for _, it := range v.Items {
		pref := ""
		if it.NeedsPreference {
			pref = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(it.ID), it.Category, it.Name, it.Price, pref})
	}
	return rows
}

// BranchesView is the printable branch list.
type BranchesView struct {
	Branches []BranchView `json:"branches"`
}

type BranchView struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (v *BranchesView) TableHeaders() []string {
	return []string{"ID", "Branch", "Address", "Phone"}
}

func (v *BranchesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Branches))
	for _, b := range v.Branches {
		rows = append(rows, []string{strconv.Itoa(b.ID), b.Name, b.Address, b.Phone})
	}
	return rows
}

// NewMenuCmd prints the configured menu, or its branches with --branches.
func NewMenuCmd() *cobra.Command {
	var (
		langFlag string
		branches bool
		category string
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the menu or the branch list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			lang, ok := locale.Parse(langFlag)
			if !ok {
				return errors.InvalidParam("unsupported lang").WithDetail(langFlag)
			}
			cat, err := catalog.Open(cliCtx.Config.Catalog.Path)
			if err != nil {
				return err
			}
			if branches {
				return PrintResult(cmd, branchesView(cat, lang))
			}
			view, err := menuView(cat, lang, category, cliCtx.Config.Dialogue.Currency)
			if err != nil {
				return err
			}
			return PrintResult(cmd, view)
		},
	}
	cmd.Flags().StringVarP(&langFlag, "lang", "l", "en", "language (en, ar)")
	cmd.Flags().BoolVar(&branches, "branches", false, "list branches instead of items")
	cmd.Flags().StringVar(&category, "category", "", "only items of this category id")
	return cmd
}

func menuView(cat *catalog.Catalog, lang locale.Lang, categoryID, currency string) (*MenuView, error) {
	cats := cat.Categories
	if categoryID != "" {
		c, ok := cat.Category(categoryID)
		if !ok {
			return nil, errors.NotFound("category not found").WithDetail(categoryID)
		}
		cats = []*catalog.Category{c}
	}
	view := &MenuView{Restaurant: cat.Restaurant.Name(lang), Currency: currency, Items: []MenuItemView{}}
	for _, c := range cats {
		for _, it := range cat.ItemsIn(c.ID) {
			view.Items = append(view.Items, MenuItemView{
				ID:              it.ID,
				Category:        c.Title(lang),
				Name:            it.Name(lang),
				Price:           it.Price.StringFixed(2),
				NeedsPreference: it.NeedsPreference,
			})
		}
	}
	return view, nil
}

func branchesView(cat *catalog.Catalog, lang locale.Lang) *BranchesView {
	out := &BranchesView{Branches: make([]BranchView, 0, len(cat.Branches))}
	for _, b := range cat.Branches {
		out.Branches = append(out.Branches, BranchView{ID: b.ID, Name: b.Name(lang), Address: b.Address, Phone: b.Phone})
	}
	return out
}
