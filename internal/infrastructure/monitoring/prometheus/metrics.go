package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
)

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultTurnDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5}
	DefaultOrderValueBuckets   = []float64{10, 25, 50, 75, 100, 150, 250, 500, 1000}
)

// BotMetrics records conversation and order activity.
type BotMetrics struct {
	TurnsTotal           CounterVec
	TurnDuration         HistogramVec
	IntentsTotal         CounterVec
	ParseFailuresTotal   CounterVec
	OrdersCompletedTotal CounterVec
	OrderValue           HistogramVec
	DuplicateTurnsTotal  CounterVec
	InternalErrorsTotal  CounterVec
	ActiveSessions       GaugeVec
	RedisPoolConns       GaugeVec
}

func NewBotMetrics(collector MetricsCollector) *BotMetrics {
	return &BotMetrics{
		TurnsTotal:           collector.RegisterCounter("turns_total", "Conversation turns handled", "step", "outcome"),
		TurnDuration:         collector.RegisterHistogram("turn_duration_seconds", "Time spent handling a turn", DefaultTurnDurationBuckets, "step"),
		IntentsTotal:         collector.RegisterCounter("intents_total", "Intents extracted from free text", "kind", "action"),
		ParseFailuresTotal:   collector.RegisterCounter("parse_failures_total", "Free-text messages with no recognised intent", "lang"),
		OrdersCompletedTotal: collector.RegisterCounter("orders_completed_total", "Orders confirmed", "payment"),
		OrderValue:           collector.RegisterHistogram("order_value", "Confirmed order totals", DefaultOrderValueBuckets, "currency"),
		DuplicateTurnsTotal:  collector.RegisterCounter("duplicate_turns_total", "Turns rejected as duplicates"),
		InternalErrorsTotal:  collector.RegisterCounter("internal_errors_total", "Turns that failed with an internal error"),
		ActiveSessions:       collector.RegisterGauge("active_sessions", "Sessions held by the in-memory store"),
		RedisPoolConns:       collector.RegisterGauge("redis_pool_connections", "Redis pool connections by state", "state"),
	}
}

func (m *BotMetrics) TurnHandled(step session.Step, outcome string, took time.Duration) {
	m.TurnsTotal.WithLabelValues(string(step), outcome).Inc()
	m.TurnDuration.WithLabelValues(string(step)).Observe(took.Seconds())
}

func (m *BotMetrics) IntentsExtracted(intents []order.Intent) {
	for _, in := range intents {
		m.IntentsTotal.WithLabelValues(string(in.Kind), string(in.Action)).Inc()
	}
}

func (m *BotMetrics) ParseFailure(lang locale.Lang) {
	m.ParseFailuresTotal.WithLabelValues(string(lang)).Inc()
}

func (m *BotMetrics) OrderCompleted(o *order.Order) {
	m.OrdersCompletedTotal.WithLabelValues(string(o.PaymentMethod)).Inc()
	total, _ := o.Total.Float64()
	m.OrderValue.WithLabelValues(o.Currency).Observe(total)
}

func (m *BotMetrics) DuplicateTurn() {
	m.DuplicateTurnsTotal.WithLabelValues().Inc()
}

func (m *BotMetrics) InternalError() {
	m.InternalErrorsTotal.WithLabelValues().Inc()
}

// SetActiveSessions publishes the in-memory session count.
func (m *BotMetrics) SetActiveSessions(n int) {
	m.ActiveSessions.WithLabelValues().Set(float64(n))
}

// SetRedisPool publishes the Redis connection pool occupancy.
func (m *BotMetrics) SetRedisPool(total, idle, stale uint32) {
	m.RedisPoolConns.WithLabelValues("total").Set(float64(total))
	m.RedisPoolConns.WithLabelValues("idle").Set(float64(idle))
	m.RedisPoolConns.WithLabelValues("stale").Set(float64(stale))
}

// HTTPMetrics records API traffic.
type HTTPMetrics struct {
	RequestsTotal   CounterVec
	RequestDuration HistogramVec
	ActiveRequests  GaugeVec
}

func NewHTTPMetrics(collector MetricsCollector) *HTTPMetrics {
	return &HTTPMetrics{
		RequestsTotal:   collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code"),
		RequestDuration: collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route"),
		ActiveRequests:  collector.RegisterGauge("http_active_requests", "In-flight HTTP requests"),
	}
}

// RecordHTTPRequest counts one finished request. route is the router
// pattern, not the raw path, to keep label cardinality bounded.
func (m *HTTPMetrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
