package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/testutil"
	pkgerrors "github.com/turtacn/Joana-OrderBot/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *mockRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, sessionID, limit)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

type sinkFunc func(ctx context.Context, o *order.Order) error

func (f sinkFunc) OrderCompleted(ctx context.Context, o *order.Order) error { return f(ctx, o) }

func sample() *order.Order {
	return &order.Order{
		ID:            "ord-1",
		SessionID:     "s1",
		Lang:          locale.AR,
		PaymentMethod: order.PaymentOnline,
		Lines: []order.Line{{
			ItemID: 43, CategoryID: "drinks", NameEN: "Coffee", Quantity: 2,
			UnitPrice: decimal.RequireFromString("3"), LineTotal: decimal.RequireFromString("6"),
		}},
		Total:     decimal.RequireFromString("6"),
		Currency:  "SAR",
		CreatedAt: time.Now().UTC(),
	}
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(logging.NewLoggerFromCore(core))

	require.NoError(t, sink.OrderCompleted(context.Background(), sample()))
	entries := logs.FilterMessage("order completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ord-1", fields["order_id"])
	assert.Equal(t, "6.00", fields["total"])
	assert.Equal(t, "online", fields["payment"])
}

func TestLogSink_UsesOrdersLogger(t *testing.T) {
	logger := testutil.NewMockLogger()
	sink := NewLogSink(logger)

	require.NoError(t, sink.OrderCompleted(context.Background(), sample()))
	msg, ok := logger.Find("info", "order completed")
	require.True(t, ok)
	assert.Equal(t, "orders", msg.Logger)
	items, _ := msg.Field("items")
	assert.Equal(t, 2, items)
	lang, _ := msg.Field("lang")
	assert.Equal(t, "ar", lang)
}

func TestRepositorySink(t *testing.T) {
	ctx := context.Background()
	o := sample()

	repo := &mockRepo{}
	repo.On("Save", ctx, o).Return(nil).Once()
	assert.NoError(t, NewRepositorySink(repo).OrderCompleted(ctx, o))

	repo = &mockRepo{}
	repo.On("Save", ctx, o).Return(pkgerrors.Conflict("order already archived")).Once()
	assert.NoError(t, NewRepositorySink(repo).OrderCompleted(ctx, o))

	repo = &mockRepo{}
	repo.On("Save", ctx, o).Return(pkgerrors.New(pkgerrors.ErrCodeDatabaseError, "down")).Once()
	err := NewRepositorySink(repo).OrderCompleted(ctx, o)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeOrderSinkFailure))
}

func TestMultiSink_AttemptsEverySink(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	m := MultiSink{
		sinkFunc(func(context.Context, *order.Order) error { calls++; return boom }),
		sinkFunc(func(context.Context, *order.Order) error { calls++; return nil }),
	}
	assert.ErrorIs(t, m.OrderCompleted(context.Background(), sample()), boom)
	assert.Equal(t, 2, calls)
}

func TestService(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(nil).GetOrder(ctx, "ord-1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeFeatureDisabled))

	repo := &mockRepo{}
	repo.On("FindByID", ctx, "ord-1").Return(sample(), nil).Once()
	repo.On("ListBySession", ctx, "s1", 5).Return([]*order.Order{sample()}, nil).Once()
	svc := NewService(repo)

	o, err := svc.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "s1", o.SessionID)

	list, err := svc.ListSessionOrders(ctx, "s1", 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetOrder(ctx, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam))
	repo.AssertExpectations(t)
}
