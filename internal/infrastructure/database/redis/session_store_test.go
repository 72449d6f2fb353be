package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewSessionStore(client, "ob:", time.Hour)
	ctx := context.Background()

	st := session.New("s1")
	st.Lang = locale.AR
	st.Step = session.StepItemConfirm
	st.Cart = st.Cart.Add(2, order.PreferenceSpicy, decimal.RequireFromString("9.50"), 2)
	st.Current = &session.PendingItem{ItemID: 43, Quantity: 3}
	st.Enqueue(order.NewCategoryIntent("drinks", 2))
	require.NoError(t, store.Set(ctx, st))

	assert.True(t, mr.Exists("ob:session:s1"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("ob:session:s1").Seconds(), 1)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, locale.AR, got.Lang)
	assert.Equal(t, session.StepItemConfirm, got.Step)
	assert.Equal(t, 2, got.Cart.Count(order.GroupKey{ItemID: 2, Preference: order.PreferenceSpicy}))
	assert.True(t, decimal.RequireFromString("19").Equal(got.Cart.Total()))
	require.NotNil(t, got.Current)
	assert.Equal(t, 3, got.Current.Quantity)
	require.Len(t, got.Queue, 1)
	assert.Equal(t, "drinks", got.Queue[0].CategoryID)
}

func TestSessionStore_MissingAndReset(t *testing.T) {
	_, client := newMiniredisClient(t)
	store := NewSessionStore(client, "ob:", time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "nobody")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))

	require.NoError(t, store.Set(ctx, session.New("s1")))
	require.NoError(t, store.Reset(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))

	assert.True(t, errors.IsCode(store.Set(ctx, session.New("")), errors.CodeInvalidParam))
}

func TestSessionStore_Expires(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewSessionStore(client, "ob:", time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, session.New("s1")))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))
}

func TestSessionStore_CorruptPayload(t *testing.T) {
	mr, client := newMiniredisClient(t)
	store := NewSessionStore(client, "ob:", 0)
	require.NoError(t, mr.Set("ob:session:s1", "{not json"))

	_, err := store.Get(context.Background(), "s1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestSessionStore_BackendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewSessionStore(NewClientFromUniversal(db, nil), "ob:", 0)
	mock.ExpectGet("ob:session:s1").SetErr(assert.AnError)

	_, err := store.Get(context.Background(), "s1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebouncer_Seen(t *testing.T) {
	mr, client := newMiniredisClient(t)
	d := NewDebouncer(client, "ob:", 500*time.Millisecond)
	ctx := context.Background()

	dup, err := d.Seen(ctx, "s1", "2 burgers")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = d.Seen(ctx, "s1", "2 burgers")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, _ = d.Seen(ctx, "s2", "2 burgers")
	assert.False(t, dup, "other sessions are independent")

	dup, _ = d.Seen(ctx, "s1", "1 coffee")
	assert.False(t, dup)

	mr.FastForward(time.Second)
	dup, _ = d.Seen(ctx, "s1", "1 coffee")
	assert.False(t, dup, "window elapsed")
}

func TestDebouncer_Disabled(t *testing.T) {
	_, client := newMiniredisClient(t)
	d := NewDebouncer(client, "ob:", 0)
	for i := 0; i < 2; i++ {
		dup, err := d.Seen(context.Background(), "s1", "hi")
		require.NoError(t, err)
		assert.False(t, dup)
	}
}
