// Package archive routes confirmed orders to their destination and reads
// archived orders back.
package archive

import (
	"context"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// LogSink writes each order to the log. It is the default sink.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(logger logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LogSink{logger: logger.Named("orders")}
}

func (s *LogSink) OrderCompleted(_ context.Context, o *order.Order) error {
	s.logger.Info("order completed",
		logging.String("order_id", o.ID),
		logging.String("session_id", o.SessionID),
		logging.String("lang", string(o.Lang)),
		logging.String("payment", string(o.PaymentMethod)),
		logging.Int("items", o.ItemCount()),
		logging.String("total", o.Total.StringFixed(2)),
		logging.String("currency", o.Currency),
	)
	return nil
}

// RepositorySink archives orders synchronously.
type RepositorySink struct {
	repo order.Repository
}

func NewRepositorySink(repo order.Repository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) OrderCompleted(ctx context.Context, o *order.Order) error {
	if err := s.repo.Save(ctx, o); err != nil && !errors.IsCode(err, errors.ErrCodeConflict) {
		return errors.Wrap(err, errors.ErrCodeOrderSinkFailure, "failed to archive order").WithDetail(o.ID)
	}
	return nil
}

// MultiSink fans an order out to several sinks. Every sink is attempted; the
// first error is returned.
type MultiSink []order.Sink

func (m MultiSink) OrderCompleted(ctx context.Context, o *order.Order) error {
	var first error
	for _, s := range m {
		if err := s.OrderCompleted(ctx, o); err != nil && first == nil {
			first = err
		}
	}
	return first
}
