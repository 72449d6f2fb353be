package order_nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
)

func TestDetect(t *testing.T) {
	n := newTestNLU(t)

	cases := map[string]Command{
		"hi":                       CommandGreeting,
		"Hello there!":             CommandGreeting,
		"مرحبا":                    CommandGreeting,
		"show menu":                CommandMenu,
		"menu please":              CommandMenu,
		"القائمة":                  CommandMenu,
		"finish order":             CommandFinish,
		"I'm done":                 CommandFinish,
		"خلاص":                     CommandFinish,
		"cancel order":             CommandCancel,
		"الغاء الطلب":              CommandCancel,
		"what is the weather like": CommandIrrelevant,
		"2 burgers":                CommandNone,
		"menu burger":              CommandNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, n.Detector.Detect(in), in)
	}
}

func TestConfirmation(t *testing.T) {
	n := newTestNLU(t)

	yes, ok := n.Detector.Confirmation("yes please")
	assert.True(t, ok)
	assert.True(t, yes)

	yes, ok = n.Detector.Confirmation("no")
	assert.True(t, ok)
	assert.False(t, yes)

	yes, ok = n.Detector.Confirmation("نعم")
	assert.True(t, ok)
	assert.True(t, yes)

	_, ok = n.Detector.Confirmation("maybe")
	assert.False(t, ok)
}

func TestPayment(t *testing.T) {
	n := newTestNLU(t)

	m, ok := n.Detector.Payment("cash")
	assert.True(t, ok)
	assert.Equal(t, order.PaymentCash, m)

	m, ok = n.Detector.Payment("I'll pay by card")
	assert.True(t, ok)
	assert.Equal(t, order.PaymentOnline, m)

	m, ok = n.Detector.Payment("كاش")
	assert.True(t, ok)
	assert.Equal(t, order.PaymentCash, m)

	_, ok = n.Detector.Payment("burger")
	assert.False(t, ok)
}

func TestPreference(t *testing.T) {
	n := newTestNLU(t)

	p, ok := n.Detector.Preference("spicy please")
	assert.True(t, ok)
	assert.Equal(t, order.PreferenceSpicy, p)

	p, ok = n.Detector.Preference("non spicy")
	assert.True(t, ok)
	assert.Equal(t, order.PreferenceNonSpicy, p)

	p, ok = n.Detector.Preference("حار")
	assert.True(t, ok)
	assert.Equal(t, order.PreferenceSpicy, p)

	_, ok = n.Detector.Preference("1 spicy and 1 regular")
	assert.False(t, ok)
}

func TestWantsAll(t *testing.T) {
	n := newTestNLU(t)
	assert.True(t, n.Detector.WantsAll("all of them"))
	assert.True(t, n.Detector.WantsAll("الكل"))
	assert.False(t, n.Detector.WantsAll("2"))
}

func TestQuantity(t *testing.T) {
	n := newTestNLU(t)
	cases := map[string]int{
		"3":         3,
		"٤":         4,
		"five":      5,
		"make it 7": 7,
		"too":       2,
		"خمسة":      5,
	}
	for in, want := range cases {
		got, ok := n.Detector.Quantity(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := n.Detector.Quantity("show menu")
	assert.False(t, ok)
	_, ok = n.Detector.Quantity("for me please")
	assert.False(t, ok)
}
