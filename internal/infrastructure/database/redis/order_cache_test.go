package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *mockOrderRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, sessionID, limit)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:            "ord-1",
		SessionID:     "s1",
		PaymentMethod: order.PaymentCash,
		Lines: []order.Line{{
			ItemID: 43, CategoryID: "drinks", NameEN: "Coffee", Quantity: 2,
			UnitPrice: decimal.RequireFromString("3.00"), LineTotal: decimal.RequireFromString("6.00"),
		}},
		Total:     decimal.RequireFromString("6.00"),
		Currency:  "SAR",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCachedOrderRepository_FindByID_ReadsThrough(t *testing.T) {
	_, client := newMiniredisClient(t)
	repo := &mockOrderRepo{}
	repo.On("FindByID", mock.Anything, "ord-1").Return(sampleOrder(), nil).Once()

	cached := NewCachedOrderRepository(repo, NewRedisCache(client, nil), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		o, err := cached.FindByID(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, "s1", o.SessionID)
		assert.True(t, decimal.RequireFromString("6").Equal(o.Total))
	}
	repo.AssertExpectations(t)
}

func TestCachedOrderRepository_FindByID_NotFound(t *testing.T) {
	_, client := newMiniredisClient(t)
	repo := &mockOrderRepo{}
	repo.On("FindByID", mock.Anything, "nope").
		Return(nil, errors.New(errors.ErrCodeOrderNotFound, "order not found")).Once()

	cached := NewCachedOrderRepository(repo, NewRedisCache(client, nil), time.Minute)
	for i := 0; i < 2; i++ {
		_, err := cached.FindByID(context.Background(), "nope")
		assert.True(t, errors.IsCode(err, errors.ErrCodeOrderNotFound))
	}
	repo.AssertExpectations(t)
}

func TestCachedOrderRepository_SaveWarmsCache(t *testing.T) {
	mr, client := newMiniredisClient(t)
	repo := &mockOrderRepo{}
	o := sampleOrder()
	repo.On("Save", mock.Anything, o).Return(nil).Once()

	cached := NewCachedOrderRepository(repo, NewRedisCache(client, nil), time.Minute)
	require.NoError(t, cached.Save(context.Background(), o))
	assert.True(t, mr.Exists("orderbot:cache:order:ord-1"))

	got, err := cached.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
