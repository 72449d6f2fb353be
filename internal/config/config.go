// Package config defines all configuration structures for the ordering bot.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
)

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Completed-order sinks.
const (
	OrderSinkLog      = "log"
	OrderSinkKafka    = "kafka"
	OrderSinkPostgres = "postgres"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

// CORSConfig controls the optional CORS middleware.
type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SessionConfig controls where conversation state lives and the per-turn guards.
type SessionConfig struct {
	Backend        string        `mapstructure:"backend"` // "memory" | "redis"
	TTL            time.Duration `mapstructure:"ttl"`
	DebounceWindow time.Duration `mapstructure:"debounce_window"`
	HistorySize    int           `mapstructure:"history_size"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
}

// DialogueConfig tunes the dialogue state machine.
type DialogueConfig struct {
	PageSize int `mapstructure:"page_size"`
	// SkipItemConfirmation adds items straight to the cart without the yes/no step.
	SkipItemConfirmation bool   `mapstructure:"skip_item_confirmation"`
	MaxQuantity          int    `mapstructure:"max_quantity"`
	RemoveAllThreshold   int    `mapstructure:"remove_all_threshold"`
	Currency             string `mapstructure:"currency"`
}

// NLUConfig holds the fuzzy matching thresholds.
type NLUConfig struct {
	ShortMaxEdits   int `mapstructure:"short_max_edits"`
	MediumMaxEdits  int `mapstructure:"medium_max_edits"`
	LongMaxEdits    int `mapstructure:"long_max_edits"`
	ScoreCeiling    int `mapstructure:"score_ceiling"`
	MaxPhraseTokens int `mapstructure:"max_phrase_tokens"`
}

// CatalogConfig points at an optional menu file replacing the embedded one.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // standalone | sentinel | cluster
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the order archive.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	OrderTopic   string        `mapstructure:"order_topic"`
	GroupID      string        `mapstructure:"group_id"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RequiredAcks int           `mapstructure:"required_acks"`
	Compression  string        `mapstructure:"compression"`
	EnableDLQ    bool          `mapstructure:"enable_dlq"`
}

// OrdersConfig selects where completed orders are published.
type OrdersConfig struct {
	Sink string `mapstructure:"sink"` // "log" | "kafka" | "postgres"
}

// WhatsAppConfig holds the WhatsApp Cloud API transport parameters.
type WhatsAppConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	VerifyToken        string        `mapstructure:"verify_token"`
	AccessToken        string        `mapstructure:"access_token"`
	PhoneNumberID      string        `mapstructure:"phone_number_id"`
	BaseURL            string        `mapstructure:"base_url"`
	APIVersion         string        `mapstructure:"api_version"`
	SendDelay          time.Duration `mapstructure:"send_delay"`
	MaxConcurrentSends int           `mapstructure:"max_concurrent_sends"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

// MetricsConfig controls the Prometheus exporter.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// RateLimitConfig controls the per-client token bucket on the HTTP API.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure. Every infrastructure component
// and application service reads its settings from the relevant sub-struct.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Log       logging.LogConfig `mapstructure:"log"`
	Session   SessionConfig     `mapstructure:"session"`
	Dialogue  DialogueConfig    `mapstructure:"dialogue"`
	NLU       NLUConfig         `mapstructure:"nlu"`
	Catalog   CatalogConfig     `mapstructure:"catalog"`
	Redis     RedisConfig       `mapstructure:"redis"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Kafka     KafkaConfig       `mapstructure:"kafka"`
	Orders    OrdersConfig      `mapstructure:"orders"`
	WhatsApp  WhatsAppConfig    `mapstructure:"whatsapp"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	RateLimit RateLimitConfig   `mapstructure:"ratelimit"`
}

// UsesRedis reports whether any enabled component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Session.Backend == SessionBackendRedis
}

// UsesPostgres reports whether the order archive database is needed.
func (c *Config) UsesPostgres() bool {
	return c.Database.Enabled || c.Orders.Sink == OrderSinkPostgres
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	// Session
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("config: session.backend %q is invalid; expected memory|redis", c.Session.Backend)
	}
	if c.Session.DebounceWindow < 0 {
		return fmt.Errorf("config: session.debounce_window must be ≥ 0, got %s", c.Session.DebounceWindow)
	}
	if c.Session.HistorySize < 1 {
		return fmt.Errorf("config: session.history_size must be ≥ 1, got %d", c.Session.HistorySize)
	}

	// Dialogue
	if c.Dialogue.PageSize < 1 || c.Dialogue.PageSize > 3 {
		return fmt.Errorf("config: dialogue.page_size %d is out of range [1, 3]", c.Dialogue.PageSize)
	}
	if c.Dialogue.MaxQuantity < 1 {
		return fmt.Errorf("config: dialogue.max_quantity must be ≥ 1, got %d", c.Dialogue.MaxQuantity)
	}
	if c.Dialogue.RemoveAllThreshold < 1 {
		return fmt.Errorf("config: dialogue.remove_all_threshold must be ≥ 1, got %d", c.Dialogue.RemoveAllThreshold)
	}

	// NLU
	if c.NLU.ShortMaxEdits < 0 || c.NLU.MediumMaxEdits < c.NLU.ShortMaxEdits || c.NLU.LongMaxEdits < c.NLU.MediumMaxEdits {
		return fmt.Errorf("config: nlu max edits must be non-decreasing, got %d/%d/%d",
			c.NLU.ShortMaxEdits, c.NLU.MediumMaxEdits, c.NLU.LongMaxEdits)
	}
	if c.NLU.MaxPhraseTokens < 1 {
		return fmt.Errorf("config: nlu.max_phrase_tokens must be ≥ 1, got %d", c.NLU.MaxPhraseTokens)
	}

	// Redis
	if c.UsesRedis() && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when session.backend is redis")
	}

	// Orders
	switch c.Orders.Sink {
	case OrderSinkLog, OrderSinkKafka, OrderSinkPostgres:
	default:
		return fmt.Errorf("config: orders.sink %q is invalid; expected log|kafka|postgres", c.Orders.Sink)
	}
	if c.Orders.Sink == OrderSinkKafka {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.OrderTopic == "" {
			return fmt.Errorf("config: kafka.order_topic is required")
		}
	}

	// Database
	if c.UsesPostgres() {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
	}

	// WhatsApp
	if c.WhatsApp.Enabled {
		if c.WhatsApp.VerifyToken == "" {
			return fmt.Errorf("config: whatsapp.verify_token is required when whatsapp is enabled")
		}
		if c.WhatsApp.AccessToken == "" || c.WhatsApp.PhoneNumberID == "" {
			return fmt.Errorf("config: whatsapp.access_token and whatsapp.phone_number_id are required when whatsapp is enabled")
		}
		if c.WhatsApp.MaxConcurrentSends < 1 {
			return fmt.Errorf("config: whatsapp.max_concurrent_sends must be ≥ 1, got %d", c.WhatsApp.MaxConcurrentSends)
		}
	}

	// RateLimit
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config: ratelimit requires requests_per_second > 0 and burst ≥ 1")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
