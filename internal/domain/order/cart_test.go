package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	price95 = decimal.RequireFromString("9.5")
	price3  = decimal.RequireFromString("3")
)

func TestCart_AddThenCount(t *testing.T) {
	for n := 0; n <= 7; n++ {
		var c Cart
		c = c.Add(2, PreferenceSpicy, price95, n)
		c = c.Add(43, PreferenceNone, price3, 1)
		assert.Equal(t, n, c.Count(GroupKey{ItemID: 2, Preference: PreferenceSpicy}))
	}
}

func TestCart_RemoveTwoOfThree(t *testing.T) {
	var c Cart
	c = c.Add(43, PreferenceNone, price3, 1)
	c = c.Add(2, PreferenceSpicy, price95, 3)
	c = c.Add(2, PreferenceNonSpicy, price95, 1)
	key := GroupKey{ItemID: 2, Preference: PreferenceSpicy}

	out, removed := c.Remove(key, 2)

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, out.Count(key))
	assert.Equal(t, 1, out.Count(GroupKey{ItemID: 43}))
	assert.Equal(t, 1, out.Count(GroupKey{ItemID: 2, Preference: PreferenceNonSpicy}))
	assert.Equal(t, 43, out[0].ItemID)
	// original untouched
	assert.Equal(t, 3, c.Count(key))
}

func TestCart_RemoveMoreThanPresent(t *testing.T) {
	c := Cart{}.Add(1, PreferenceNone, price95, 2)
	out, removed := c.Remove(GroupKey{ItemID: 1}, 5)
	assert.Equal(t, 2, removed)
	assert.Empty(t, out)

	out, removed = c.Remove(GroupKey{ItemID: 1}, 0)
	assert.Equal(t, 0, removed)
	assert.Len(t, out, 2)
}

func TestCart_RemoveItemAcrossPreferences(t *testing.T) {
	c := Cart{}.
		Add(2, PreferenceSpicy, price95, 1).
		Add(2, PreferenceNonSpicy, price95, 2).
		Add(43, PreferenceNone, price3, 1)

	out, removed := c.RemoveItem(2, 2)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, out.CountItem(2))
	assert.Equal(t, 1, out.CountItem(43))
}

func TestCart_GroupsAndTotal(t *testing.T) {
	c := Cart{}.
		Add(2, PreferenceSpicy, price95, 2).
		Add(43, PreferenceNone, price3, 3).
		Add(2, PreferenceSpicy, price95, 1)

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, GroupKey{ItemID: 2, Preference: PreferenceSpicy}, groups[0].Key)
	assert.Equal(t, 3, groups[0].Quantity)
	assert.True(t, groups[0].Total().Equal(decimal.RequireFromString("28.5")))
	assert.Equal(t, 3, groups[1].Quantity)
	assert.True(t, c.Total().Equal(decimal.RequireFromString("37.5")))
}

func TestGroupKey_RoundTrip(t *testing.T) {
	for _, k := range []GroupKey{{2, PreferenceSpicy}, {2, PreferenceNonSpicy}, {43, PreferenceNone}} {
		got, ok := ParseGroupKey(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "2_non_spicy", GroupKey{2, PreferenceNonSpicy}.String())

	for _, bad := range []string{"", "x_spicy", "2", "2_hot", "0_none"} {
		_, ok := ParseGroupKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestIntent_Actionable(t *testing.T) {
	assert.True(t, NewItemIntent(2, 0).Actionable())
	assert.True(t, NewCategoryIntent("drinks", 2).Actionable())
	assert.False(t, NewCategoryIntent("drinks", 0).Actionable())
	assert.Equal(t, "item:2", NewItemIntent(2, 1).Ref())
	assert.Equal(t, "category:drinks", NewCategoryIntent("drinks", 1).Ref())

	in := NewItemIntent(2, 3)
	in.Splits = []PreferenceSplit{{PreferenceSpicy, 1}, {PreferenceNonSpicy, 2}}
	assert.Equal(t, 3, in.SplitTotal())
}
