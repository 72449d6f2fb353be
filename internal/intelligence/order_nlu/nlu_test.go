package order_nlu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
)

func newTestNLU(t *testing.T) *NLU {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return New(cat, DefaultConfig())
}

// newTinyNLU builds an NLU over a one-item menu.
func newTinyNLU(t *testing.T) *NLU {
	t.Helper()
	cat, err := catalog.New(
		catalog.Restaurant{NameEN: "Test", NameAR: "تجربة"},
		[]*catalog.Category{{ID: "burgers", TitleEN: "Burgers", TitleAR: "برجر", Aliases: []string{"burger", "burgers"}, RequiresPreference: true}},
		nil,
		[]*catalog.Item{{ID: 2, CategoryID: "burgers", NameEN: "Beef Burger", NameAR: "برجر لحم", Price: decimal.RequireFromString("9.50")}},
		nil,
	)
	require.NoError(t, err)
	return New(cat, Config{})
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.NLUConfig{ShortMaxEdits: 1, MediumMaxEdits: 2, LongMaxEdits: 4, ScoreCeiling: 200, MaxPhraseTokens: 3})
	require.Equal(t, Thresholds{ShortMaxEdits: 1, MediumMaxEdits: 2, LongMaxEdits: 4, ScoreCeiling: 200}, cfg.Thresholds)
	require.Equal(t, 3, cfg.MaxPhraseTokens)
}
