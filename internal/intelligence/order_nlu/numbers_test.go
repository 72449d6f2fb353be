package order_nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextToNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"three", 3, true},
		{"٣", 3, true},
		{"۵", 5, true},
		{"ثلاثة", 3, true},
		{"حبتين", 2, true},
		{"won", 1, true},
		{"tree", 3, true},
		{"double", 2, true},
		{"0", 0, true},
		{"12", 12, true},
		{"2000000", maxNumber, true},
		{"10000000000000000000000", maxNumber, true},
		{"12abc", 0, false},
		{"burger", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := TextToNumber(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, n, tc.in)
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 0, levenshtein("burger", "burger"))
	assert.Equal(t, 1, levenshtein("برجر", "برغر"))
}
