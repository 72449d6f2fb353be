package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/intelligence/order_nlu"
)

// ParseView is what the NLU made of one utterance.
type ParseView struct {
	order_nlu.ParseResult
	Lang    locale.Lang       `json:"lang,omitempty"`
	Command order_nlu.Command `json:"command,omitempty"`

	cat *catalog.Catalog
}

func (v *ParseView) TableHeaders() []string {
	return []string{"#", "Action", "Kind", "Target", "Qty", "Preference"}
}

func (v *ParseView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Intents))
	for i, in := range v.Intents {
		qty := "?"
		if in.Quantity > 0 {
			qty = strconv.Itoa(in.Quantity)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(in.Action),
			string(in.Kind),
			v.target(in),
			qty,
			string(in.Preference),
		})
	}
	return rows
}

func (v *ParseView) target(in order.Intent) string {
	lang := v.Lang
	if lang == "" {
		lang = locale.EN
	}
	if in.IsItem() {
		if it, ok := v.cat.Item(in.ItemID); ok {
			return fmt.Sprintf("%d %s", it.ID, it.Name(lang))
		}
		return strconv.Itoa(in.ItemID)
	}
	if c, ok := v.cat.Category(in.CategoryID); ok {
		return c.Title(lang)
	}
	return in.CategoryID
}

// String is the text rendering.
func (v *ParseView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "normalized: %s\n", v.Normalized)
	if v.Command != order_nlu.CommandNone {
		fmt.Fprintf(&sb, "command:    %s\n", v.Command)
	}
	for _, row := range v.TableRows() {
		fmt.Fprintf(&sb, "%s. %s %s x%s %s\n", row[0], row[1], row[3], row[4], row[5])
	}
	if len(v.Intents) == 0 {
		sb.WriteString("no intents\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NewParseCmd prints the intents the NLU extracts from its arguments.
func NewParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "parse <text>",
		Short:   "Show how the NLU reads an utterance",
		Example: `  orderbot parse "2 chicken burgers and a pepsi"` + "\n" + `  orderbot parse -o json "اثنين برجر دجاج"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cat, nlu, err := loadNLU(cliCtx.Config)
			if err != nil {
				return err
			}
			view := parseText(cat, nlu, strings.Join(args, " "))
			if strings.ToLower(cliCtx.OutputFormat) == "table" && view.Command != order_nlu.CommandNone {
				fmt.Fprintf(cmd.OutOrStdout(), "command: %s\n", view.Command)
			}
			return PrintResult(cmd, view)
		},
	}
}

func parseText(cat *catalog.Catalog, nlu *order_nlu.NLU, text string) *ParseView {
	lang, _ := locale.Detect(text)
	return &ParseView{
		ParseResult: nlu.Extractor.Parse(text),
		Lang:        lang,
		Command:     nlu.Detector.Detect(text),
		cat:         cat,
	}
}
