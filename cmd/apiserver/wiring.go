package main

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/application/archive"
	"github.com/turtacn/Joana-OrderBot/internal/application/conversation"
	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/database/postgres"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/database/redis"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/messaging/whatsapp"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/Joana-OrderBot/internal/intelligence/order_nlu"
	httpserver "github.com/turtacn/Joana-OrderBot/internal/interfaces/http"
	"github.com/turtacn/Joana-OrderBot/internal/interfaces/http/handlers"
	"github.com/turtacn/Joana-OrderBot/internal/interfaces/http/middleware"
)

const (
	orderCacheTTL        = 10 * time.Minute
	rateLimitIdleCleanup = 5 * time.Minute
)

// app holds everything built from the configuration.
type app struct {
	logger   logging.Logger
	handler  http.Handler
	whatsapp *handlers.WhatsAppHandler

	memStore *session.MemoryStore
	rc       *redis.Client
	metrics  *prometheus.BotMetrics

	closers []func() error
}

// Close releases connections in reverse construction order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", logging.Err(err))
		}
	}
}

// housekeep evicts expired in-memory sessions and publishes the session
// and Redis pool gauges until ctx is done.
func (a *app) housekeep(ctx context.Context, every time.Duration) {
	if a.memStore == nil && (a.rc == nil || a.metrics == nil) {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

func (a *app) sweep() {
	if a.memStore != nil {
		if n := a.memStore.Sweep(); n > 0 {
			a.logger.Debug("expired sessions swept", logging.Int("count", n))
		}
		if a.metrics != nil {
			a.metrics.SetActiveSessions(a.memStore.Len())
		}
	}
	if a.rc != nil && a.metrics != nil {
		st := a.rc.PoolStats()
		a.metrics.SetRedisPool(st.TotalConns, st.IdleConns, st.StaleConns)
	}
}

func buildApp(cfg *config.Config, logger logging.Logger) (_ *app, err error) {
	a := &app{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	nlu := order_nlu.New(cat, order_nlu.ConfigFrom(cfg.NLU))
	engine := conversation.NewEngine(cat, nlu, conversation.OptionsFromConfig(cfg))

	var (
		collector   prometheus.MetricsCollector
		httpMetrics *prometheus.HTTPMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.metrics = prometheus.NewBotMetrics(collector)
		httpMetrics = prometheus.NewHTTPMetrics(collector)
	}

	var (
		checkers []handlers.HealthChecker
		rc       *redis.Client
		store    session.Store
		svcOpts  []conversation.Option
	)
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rc, err = redis.NewClient(cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc.Close)
		a.rc = rc
		checkers = append(checkers, handlers.CheckerFunc("redis", rc.Ping))

		prefix := cfg.Session.KeyPrefix
		store = redis.NewSessionStore(rc, prefix, cfg.Session.TTL)
		svcOpts = append(svcOpts,
			conversation.WithDebouncer(redis.NewDebouncer(rc, prefix, cfg.Session.DebounceWindow)),
			conversation.WithLocker(redis.NewSessionLocker(rc, prefix, cfg.Session.LockTTL, logger)),
		)
	default:
		a.memStore = session.NewMemoryStore(cfg.Session.TTL)
		store = a.memStore
		svcOpts = append(svcOpts,
			conversation.WithDebouncer(session.NewMemoryDebouncer(cfg.Session.DebounceWindow)),
			conversation.WithLocker(session.NewMemoryLocker()),
		)
	}

	var repo order.Repository
	if cfg.UsesPostgres() {
		conn, err := postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		pgCheck := handlers.CheckerFunc("postgres", conn.HealthCheck)
		if cfg.Orders.Sink != config.OrderSinkPostgres {
			// only archive reads depend on it
			pgCheck = handlers.Optional(pgCheck)
		}
		checkers = append(checkers, pgCheck)

		repo = repositories.NewPostgresOrderRepo(conn, logger)
		if rc != nil {
			cache := redis.NewRedisCache(rc, logger,
				redis.WithPrefix(cfg.Session.KeyPrefix+"cache:"),
				redis.WithDefaultTTL(orderCacheTTL),
			)
			repo = redis.NewCachedOrderRepository(repo, cache, 0)
		}
	}

	sink, err := buildSink(cfg, repo, logger, a)
	if err != nil {
		return nil, err
	}
	svcOpts = append(svcOpts, conversation.WithSink(sink))
	if a.metrics != nil {
		svcOpts = append(svcOpts, conversation.WithMetrics(a.metrics))
	}
	svc := conversation.NewService(engine, store, logger, svcOpts...)

	if cfg.WhatsApp.Enabled {
		client, err := whatsapp.NewClient(cfg.WhatsApp, logger)
		if err != nil {
			return nil, err
		}
		a.whatsapp = handlers.NewWhatsAppHandler(svc, client, cfg.WhatsApp.VerifyToken, logger)
	}

	routerCfg := httpserver.RouterConfig{
		ConversationHandler: handlers.NewConversationHandler(svc, archive.NewService(repo), logger),
		MenuHandler:         handlers.NewMenuHandler(cat, nlu, cfg.Dialogue.Currency, logger),
		WhatsAppHandler:     a.whatsapp,
		HealthHandler:       handlers.NewHealthHandler(version, checkers...),
		Logger:              logger,
		MetricsCollector:    collector,
		HTTPMetrics:         httpMetrics,
		MetricsPath:         cfg.Metrics.Path,
	}
	if cfg.Server.CORS.Enabled {
		corsCfg := middleware.CORSFromConfig(cfg.Server.CORS)
		routerCfg.CORS = &corsCfg
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewTokenBucketLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimitIdleCleanup)
		a.closers = append(a.closers, func() error { limiter.Stop(); return nil })
		routerCfg.RateLimiter = limiter
	}
	a.handler = httpserver.NewRouter(routerCfg)
	return a, nil
}

// buildSink selects where completed orders go.
func buildSink(cfg *config.Config, repo order.Repository, logger logging.Logger, a *app) (order.Sink, error) {
	switch cfg.Orders.Sink {
	case config.OrderSinkKafka:
		producer, err := kafka.NewProducer(kafka.ProducerConfigFrom(cfg.Kafka), logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, producer.Close)
		return kafka.NewOrderEventSink(producer, cfg.Kafka.OrderTopic, logger), nil
	case config.OrderSinkPostgres:
		return archive.MultiSink{archive.NewLogSink(logger), archive.NewRepositorySink(repo)}, nil
	default:
		return archive.NewLogSink(logger), nil
	}
}
