package order_nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
)

type want struct {
	kind order.IntentKind
	item int
	cat  string
	qty  int
}

func assertIntents(t *testing.T, got []order.Intent, wants ...want) {
	t.Helper()
	require.Len(t, got, len(wants))
	for i, w := range wants {
		assert.Equal(t, w.kind, got[i].Kind, "intent %d", i)
		assert.Equal(t, w.item, got[i].ItemID, "intent %d", i)
		assert.Equal(t, w.cat, got[i].CategoryID, "intent %d", i)
		assert.Equal(t, w.qty, got[i].Quantity, "intent %d", i)
	}
}

func TestExtract_QuantityFirst(t *testing.T) {
	n := newTestNLU(t)
	got := n.Extractor.Extract("2 beef burgers and 3 coffee")
	assertIntents(t, got,
		want{kind: order.KindItem, item: 2, qty: 2},
		want{kind: order.KindItem, item: 43, qty: 3},
	)
	assert.Equal(t, order.ActionAdd, got[0].Action)
}

func TestExtract_Arabic(t *testing.T) {
	n := newTestNLU(t)
	assertIntents(t, n.Extractor.Extract("٢ برجر لحم و ٣ قهوة"),
		want{kind: order.KindItem, item: 2, qty: 2},
		want{kind: order.KindItem, item: 43, qty: 3},
	)
}

func TestExtract_CategoriesInOrder(t *testing.T) {
	n := newTestNLU(t)
	assertIntents(t, n.Extractor.Extract("2 drinks and 2 wraps"),
		want{kind: order.KindCategory, cat: "drinks", qty: 2},
		want{kind: order.KindCategory, cat: "wraps", qty: 2},
	)
}

func TestExtract_NounFirst(t *testing.T) {
	n := newTestNLU(t)
	assertIntents(t, n.Extractor.Extract("coffee x 3"),
		want{kind: order.KindItem, item: 43, qty: 3},
	)
	assertIntents(t, n.Extractor.Extract("burger 2"),
		want{kind: order.KindCategory, cat: "burgers", qty: 2},
	)
}

func TestExtract_ConjunctionDefaultsToOne(t *testing.T) {
	n := newTestNLU(t)
	assertIntents(t, n.Extractor.Extract("2 beef burgers and fries"),
		want{kind: order.KindItem, item: 2, qty: 2},
		want{kind: order.KindItem, item: 19, qty: 1},
	)
}

func TestExtract_LeadingMentionLeavesQuantityOpen(t *testing.T) {
	n := newTestNLU(t)
	got := n.Extractor.Extract("I want a beef burger please")
	assertIntents(t, got, want{kind: order.KindItem, item: 2, qty: 0})
	assert.True(t, got[0].Actionable())

	got = n.Extractor.Extract("drinks")
	assertIntents(t, got, want{kind: order.KindCategory, cat: "drinks", qty: 0})
	assert.False(t, got[0].Actionable())
}

func TestExtract_RemoveAction(t *testing.T) {
	n := newTestNLU(t)
	got := n.Extractor.Extract("remove 2 coffee")
	assertIntents(t, got, want{kind: order.KindItem, item: 43, qty: 2})
	assert.Equal(t, order.ActionRemove, got[0].Action)
}

func TestExtract_PreferenceModifier(t *testing.T) {
	n := newTestNLU(t)

	got := n.Extractor.Extract("2 spicy burgers")
	assertIntents(t, got, want{kind: order.KindCategory, cat: "burgers", qty: 2})
	assert.Equal(t, order.PreferenceSpicy, got[0].Preference)

	got = n.Extractor.Extract("2 spicy zinger")
	assertIntents(t, got, want{kind: order.KindItem, item: 4, qty: 2})

	got = n.Extractor.Extract("beef burger non spicy")
	assertIntents(t, got, want{kind: order.KindItem, item: 2, qty: 0})
	assert.Equal(t, order.PreferenceNonSpicy, got[0].Preference)
}

func TestExtract_PreferenceSplits(t *testing.T) {
	n := newTestNLU(t)
	got := n.Extractor.Extract("2 beef burgers 1 spicy and 1 regular")
	assertIntents(t, got, want{kind: order.KindItem, item: 2, qty: 2})
	assert.Equal(t, []order.PreferenceSplit{
		{Preference: order.PreferenceSpicy, Quantity: 1},
		{Preference: order.PreferenceNonSpicy, Quantity: 1},
	}, got[0].Splits)

	assert.Equal(t, []order.PreferenceSplit{
		{Preference: order.PreferenceSpicy, Quantity: 1},
		{Preference: order.PreferenceNonSpicy, Quantity: 2},
	}, n.Extractor.Splits("1 spicy and 2 regular"))
	assert.Nil(t, n.Extractor.Splits("1 spicy"))
}

func TestExtract_SoundAlikeParticles(t *testing.T) {
	n := newTestNLU(t)
	assertIntents(t, n.Extractor.Extract("i want to add pepsi"),
		want{kind: order.KindItem, item: 40, qty: 0},
	)
	assertIntents(t, n.Extractor.Extract("coffee for me"),
		want{kind: order.KindItem, item: 43, qty: 0},
	)
	assertIntents(t, n.Extractor.Extract("too pepsi"),
		want{kind: order.KindItem, item: 40, qty: 2},
	)
}

func TestExtract_MisspeltPreferenceItem(t *testing.T) {
	n := newTestNLU(t)
	correct := n.Extractor.Extract("2 spicy zinger and a coffee")
	got := n.Extractor.Extract("2 spicy zingerr and a coffe")
	assert.Equal(t, correct, got)
	assertIntents(t, got,
		want{kind: order.KindItem, item: 4, qty: 2},
		want{kind: order.KindItem, item: 43, qty: 1},
	)
}

func TestExtract_OversizedQuantity(t *testing.T) {
	n := newTestNLU(t)
	assertIntents(t, n.Extractor.Extract("10000000000000000000000 coffee"),
		want{kind: order.KindItem, item: 43, qty: maxNumber},
	)
}

func TestExtract_NothingToFind(t *testing.T) {
	n := newTestNLU(t)
	for _, s := range []string{"", "hello", "what is the weather", "xyzzy"} {
		got := n.Extractor.Extract(s)
		assert.NotNil(t, got, s)
		assert.Empty(t, got, s)
	}
}

func TestParse_ExposesNormalizedText(t *testing.T) {
	n := newTestNLU(t)
	res := n.Extractor.Parse("2 Chiken Burgerz")
	assert.Equal(t, "2 chicken burger", res.Normalized)
	assertIntents(t, res.Intents, want{kind: order.KindItem, item: 1, qty: 2})
}
