package kafka

import (
	"context"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// OrderPublisher is the producer side used by OrderEventSink.
type OrderPublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// OrderEventSink publishes order.completed events. It implements order.Sink.
// Events are keyed by session id so one customer's orders stay ordered.
type OrderEventSink struct {
	producer OrderPublisher
	topic    string
	logger   logging.Logger
}

func NewOrderEventSink(p OrderPublisher, topic string, logger logging.Logger) *OrderEventSink {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &OrderEventSink{producer: p, topic: topic, logger: logger}
}

func (s *OrderEventSink) OrderCompleted(ctx context.Context, o *order.Order) error {
	env, err := NewEventEnvelope(order.EventTypeOrderCompleted, order.NewCompletedEvent(o))
	if err != nil {
		return err
	}
	env.Metadata = map[string]string{"order_id": o.ID}
	msg, err := env.ToMessage(s.topic, o.SessionID)
	if err != nil {
		return err
	}
	if err := s.producer.Publish(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "failed to publish order event").WithDetail(o.ID)
	}
	s.logger.Info("order event published",
		logging.String("order_id", o.ID),
		logging.String("event_id", env.EventID))
	return nil
}

// OrderArchiveHandler stores order.completed events in repo. Malformed events
// and already-archived orders are acknowledged without retry.
func OrderArchiveHandler(repo order.Repository, logger logging.Logger) MessageHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(ctx context.Context, msg *Message) error {
		env, err := MessageToEventEnvelope(msg)
		if err != nil {
			logger.Warn("dropping undecodable record", logging.Int64("offset", msg.Offset), logging.Err(err))
			return nil
		}
		if env.EventType != order.EventTypeOrderCompleted {
			logger.Debug("ignoring event", logging.String("event_type", env.EventType))
			return nil
		}
		var ev order.CompletedEvent
		if err := env.DecodePayload(&ev); err != nil || ev.Order == nil {
			logger.Warn("dropping event without order", logging.String("event_id", env.EventID), logging.Err(err))
			return nil
		}

		err = repo.Save(ctx, ev.Order)
		switch {
		case err == nil:
			logger.Info("order archived", logging.String("order_id", ev.Order.ID))
			return nil
		case errors.IsCode(err, errors.ErrCodeConflict):
			logger.Debug("order already archived", logging.String("order_id", ev.Order.ID))
			return nil
		case errors.IsCode(err, errors.CodeInvalidParam), errors.IsCode(err, errors.ErrCodeEmptyCart):
			logger.Warn("dropping invalid order", logging.String("order_id", ev.Order.ID), logging.Err(err))
			return nil
		default:
			return err
		}
	}
}
