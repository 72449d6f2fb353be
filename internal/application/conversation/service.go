package conversation

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// Service defines the conversational ordering operations.
type Service interface {
	HandleTurn(ctx context.Context, input *TurnInput) (*TurnResult, error)
	GetSession(ctx context.Context, sessionID string) (*session.State, error)
	ResetSession(ctx context.Context, sessionID string) error
}

// TurnInput contains one inbound message.
type TurnInput struct {
	SessionID string
	Text      string
}

// TurnResult contains the ordered replies and the session after the turn.
type TurnResult struct {
	Messages []Message      `json:"messages"`
	Session  *session.State `json:"session"`
	Outcome  Outcome        `json:"outcome"`
	OrderID  string         `json:"order_id,omitempty"`
}

// Metrics receives turn-level measurements.
type Metrics interface {
	TurnHandled(step session.Step, outcome string, took time.Duration)
	IntentsExtracted(intents []order.Intent)
	ParseFailure(lang locale.Lang)
	OrderCompleted(o *order.Order)
	DuplicateTurn()
	InternalError()
}

type nopMetrics struct{}

func (nopMetrics) TurnHandled(session.Step, string, time.Duration) {}
func (nopMetrics) IntentsExtracted([]order.Intent)                 {}
func (nopMetrics) ParseFailure(locale.Lang)                        {}
func (nopMetrics) OrderCompleted(*order.Order)                     {}
func (nopMetrics) DuplicateTurn()                                  {}
func (nopMetrics) InternalError()                                  {}

// NopMetrics discards every measurement.
func NopMetrics() Metrics { return nopMetrics{} }

// Option customises the service.
type Option func(*serviceImpl)

// WithDebouncer rejects repeated identical turns.
func WithDebouncer(d session.Debouncer) Option { return func(s *serviceImpl) { s.debouncer = d } }

// WithLocker serialises turns per session.
func WithLocker(l session.Locker) Option { return func(s *serviceImpl) { s.locker = l } }

// WithSink receives confirmed orders.
func WithSink(sink order.Sink) Option { return func(s *serviceImpl) { s.sink = sink } }

// WithMetrics records turn metrics.
func WithMetrics(m Metrics) Option { return func(s *serviceImpl) { s.metrics = m } }

// WithClock replaces the time source.
func WithClock(c session.Clock) Option { return func(s *serviceImpl) { s.now = c } }

// serviceImpl implements the Service interface.
type serviceImpl struct {
	handler   Handler
	store     session.Store
	debouncer session.Debouncer
	locker    session.Locker
	sink      order.Sink
	metrics   Metrics
	logger    logging.Logger
	now       session.Clock
}

// NewService creates a new conversation service. Without options it uses an
// in-process locker, no debouncing, no order sink and no metrics.
func NewService(handler Handler, store session.Store, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		handler: handler,
		store:   store,
		locker:  session.NewMemoryLocker(),
		metrics: nopMetrics{},
		logger:  logger.Named("conversation"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleTurn runs one turn: debounce, lock, load, advance, persist.
func (s *serviceImpl) HandleTurn(ctx context.Context, input *TurnInput) (*TurnResult, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidParam("session id is required")
	}
	start := s.now()
	log := s.logger.With(logging.String("session_id", input.SessionID))

	if s.debouncer != nil {
		dup, err := s.debouncer.Seen(ctx, input.SessionID, input.Text)
		if err != nil {
			log.Warn("debounce check failed", logging.Err(err))
		} else if dup {
			s.metrics.DuplicateTurn()
			log.Debug("duplicate turn dropped")
			return nil, errors.New(errors.ErrCodeDuplicateTurn, "duplicate message ignored")
		}
	}

	unlock, err := s.locker.Lock(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prev, err := s.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	res, panicErr := s.advance(prev, input.Text)
	if panicErr != nil {
		s.metrics.InternalError()
		log.Error("turn failed, session restored", logging.Err(panicErr), logging.String("step", prev.Step.String()))
		res = s.handler.Recover(prev)
	}

	if res.Completed != nil {
		s.publish(ctx, log, res.Completed)
	}

	if err := s.store.Set(ctx, res.State); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to save session")
	}

	took := s.now().Sub(start)
	s.record(prev, res, took)
	log.Info("turn handled",
		logging.String("from", prev.Step.String()),
		logging.String("to", res.State.Step.String()),
		logging.String("outcome", string(res.Outcome)),
		logging.Int("intents", len(res.Intents)),
		logging.Int("cart_lines", len(res.State.Cart)),
		logging.Duration("took", took),
	)

	out := &TurnResult{Messages: res.Messages, Session: res.State, Outcome: res.Outcome}
	if res.Completed != nil {
		out.OrderID = res.Completed.ID
	}
	return out, nil
}

// load returns the stored state or a fresh one for a new session.
func (s *serviceImpl) load(ctx context.Context, sessionID string) (*session.State, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err == nil {
		return st, nil
	}
	if errors.IsCode(err, errors.ErrCodeSessionNotFound) {
		st = session.New(sessionID)
		st.CreatedAt = s.now().UTC()
		return st, nil
	}
	return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to load session")
}

// advance runs the handler and converts a panic into an error so the caller
// can fall back to the untouched previous state.
func (s *serviceImpl) advance(prev *session.State, text string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = errors.Internal(fmt.Sprintf("panic in turn handling: %v", r)).WithDetail(string(debug.Stack()))
		}
	}()
	res = s.handler.Handle(prev, text)
	if res == nil || res.State == nil {
		return nil, errors.Internal("turn handler returned no state")
	}
	return res, nil
}

// publish hands a confirmed order to the sink. A sink failure is logged;
// the customer already has the receipt.
func (s *serviceImpl) publish(ctx context.Context, log logging.Logger, o *order.Order) {
	s.metrics.OrderCompleted(o)
	if s.sink == nil {
		return
	}
	if err := s.sink.OrderCompleted(ctx, o); err != nil {
		log.Error("order sink failed", logging.Err(err), logging.String("order_id", o.ID))
		return
	}
	log.Info("order completed",
		logging.String("order_id", o.ID),
		logging.String("total", o.Total.StringFixed(2)),
		logging.String("payment", string(o.PaymentMethod)),
	)
}

func (s *serviceImpl) record(prev *session.State, res *Result, took time.Duration) {
	s.metrics.TurnHandled(prev.Step, string(res.Outcome), took)
	if len(res.Intents) > 0 {
		s.metrics.IntentsExtracted(res.Intents)
	}
	if res.Outcome == OutcomeParseFailure {
		s.metrics.ParseFailure(res.State.Lang)
	}
}

// GetSession returns the stored session.
func (s *serviceImpl) GetSession(ctx context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, errors.InvalidParam("session id is required")
	}
	return s.store.Get(ctx, sessionID)
}

// ResetSession drops the stored session; the next turn starts over.
func (s *serviceImpl) ResetSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.InvalidParam("session id is required")
	}
	if err := s.store.Reset(ctx, sessionID); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to reset session")
	}
	s.logger.Info("session reset", logging.String("session_id", sessionID))
	return nil
}
