package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/Joana-OrderBot/internal/interfaces/http/handlers"
	"github.com/turtacn/Joana-OrderBot/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	ConversationHandler *handlers.ConversationHandler
	MenuHandler         *handlers.MenuHandler
	WhatsAppHandler     *handlers.WhatsAppHandler
	HealthHandler       *handlers.HealthHandler

	CORS        *middleware.CORSConfig
	RateLimiter middleware.RateLimiter

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	HTTPMetrics      *prometheus.HTTPMetrics
	MetricsPath      string
}

// NewRouter builds the chi route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	logCfg := middleware.DefaultLoggingConfig()
	logCfg.SkipPaths = append(logCfg.SkipPaths, metricsPath)
	r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	if cfg.HTTPMetrics != nil {
		r.Use(middleware.Metrics(cfg.HTTPMetrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle(metricsPath, cfg.MetricsCollector.Handler())
	}

	r.Group(func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(middleware.RateLimit(cfg.RateLimiter, middleware.RateLimitConfig{KeyFunc: middleware.SessionOrIPKey}))
		}
		api.Route("/api/v1", func(v1 chi.Router) {
			registerConversationRoutes(v1, cfg.ConversationHandler)
			registerMenuRoutes(v1, cfg.MenuHandler)
		})
	})
	// Meta delivers every user's webhook from a shared address pool.
	registerWhatsAppRoutes(r, cfg.WhatsAppHandler)

	return r
}

func registerConversationRoutes(r chi.Router, h *handlers.ConversationHandler) {
	if h == nil {
		return
	}
	r.Route("/sessions/{sessionID}", func(sr chi.Router) {
		sr.Get("/", h.GetSession)
		sr.Delete("/", h.ResetSession)
		sr.Post("/turns", h.Turn)
		sr.Get("/orders", h.ListOrders)
	})
	r.Get("/orders/{orderID}", h.GetOrder)
}

func registerMenuRoutes(r chi.Router, h *handlers.MenuHandler) {
	if h == nil {
		return
	}
	r.Get("/menu", h.Menu)
	r.Get("/branches", h.Branches)
	r.Post("/nlu/parse", h.Parse)
}

func registerWhatsAppRoutes(r chi.Router, h *handlers.WhatsAppHandler) {
	if h == nil {
		return
	}
	r.Get("/webhooks/whatsapp", h.Verify)
	r.Post("/webhooks/whatsapp", h.Receive)
}
