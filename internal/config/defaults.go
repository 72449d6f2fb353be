package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodySize     = 1 << 20

	DefaultSessionBackend = SessionBackendMemory
	DefaultSessionTTL     = 24 * time.Hour
	DefaultDebounceWindow = 500 * time.Millisecond
	DefaultHistorySize    = 10
	DefaultLockTTL        = 10 * time.Second
	DefaultKeyPrefix      = "orderbot:"

	DefaultPageSize           = 2
	DefaultMaxQuantity        = 50
	DefaultRemoveAllThreshold = 3
	DefaultCurrency           = "SAR"

	DefaultShortMaxEdits   = 2
	DefaultMediumMaxEdits  = 3
	DefaultLongMaxEdits    = 5
	DefaultScoreCeiling    = 350
	DefaultMaxPhraseTokens = 4

	DefaultRedisAddr = "localhost:6379"

	DefaultDBHost         = "localhost"
	DefaultDBPort         = 5432
	DefaultDBName         = "orderbot"
	DefaultDBMaxOpenConns = 10
	DefaultMigrationPath  = "migrations"

	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaOrderTopic = "orderbot.order.completed"
	DefaultKafkaGroupID    = "orderbot-archiver"

	DefaultOrderSink = OrderSinkLog

	DefaultWhatsAppBaseURL    = "https://graph.facebook.com"
	DefaultWhatsAppAPIVersion = "v19.0"
	DefaultWhatsAppSendDelay  = 800 * time.Millisecond
	DefaultWhatsAppSends      = 4
	DefaultWhatsAppTimeout    = 10 * time.Second

	DefaultMetricsNamespace = "orderbot"
	DefaultMetricsPath      = "/metrics"

	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 10

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins. It must run after unmarshalling and before
// Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}

	// ── Session ───────────────────────────────────────────────────────────────
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = DefaultSessionBackend
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if cfg.Session.DebounceWindow == 0 {
		cfg.Session.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.Session.HistorySize == 0 {
		cfg.Session.HistorySize = DefaultHistorySize
	}
	if cfg.Session.LockTTL == 0 {
		cfg.Session.LockTTL = DefaultLockTTL
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = DefaultKeyPrefix
	}

	// ── Dialogue ──────────────────────────────────────────────────────────────
	if cfg.Dialogue.PageSize == 0 {
		cfg.Dialogue.PageSize = DefaultPageSize
	}
	if cfg.Dialogue.MaxQuantity == 0 {
		cfg.Dialogue.MaxQuantity = DefaultMaxQuantity
	}
	if cfg.Dialogue.RemoveAllThreshold == 0 {
		cfg.Dialogue.RemoveAllThreshold = DefaultRemoveAllThreshold
	}
	if cfg.Dialogue.Currency == "" {
		cfg.Dialogue.Currency = DefaultCurrency
	}

	// ── NLU ───────────────────────────────────────────────────────────────────
	if cfg.NLU.ShortMaxEdits == 0 {
		cfg.NLU.ShortMaxEdits = DefaultShortMaxEdits
	}
	if cfg.NLU.MediumMaxEdits == 0 {
		cfg.NLU.MediumMaxEdits = DefaultMediumMaxEdits
	}
	if cfg.NLU.LongMaxEdits == 0 {
		cfg.NLU.LongMaxEdits = DefaultLongMaxEdits
	}
	if cfg.NLU.ScoreCeiling == 0 {
		cfg.NLU.ScoreCeiling = DefaultScoreCeiling
	}
	if cfg.NLU.MaxPhraseTokens == 0 {
		cfg.NLU.MaxPhraseTokens = DefaultMaxPhraseTokens
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = "standalone"
	}
	// DB 0 is both the default and a valid explicit value.

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultMigrationPath
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.OrderTopic == "" {
		cfg.Kafka.OrderTopic = DefaultKafkaOrderTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}

	// ── Orders ────────────────────────────────────────────────────────────────
	if cfg.Orders.Sink == "" {
		cfg.Orders.Sink = DefaultOrderSink
	}

	// ── WhatsApp ──────────────────────────────────────────────────────────────
	if cfg.WhatsApp.BaseURL == "" {
		cfg.WhatsApp.BaseURL = DefaultWhatsAppBaseURL
	}
	if cfg.WhatsApp.APIVersion == "" {
		cfg.WhatsApp.APIVersion = DefaultWhatsAppAPIVersion
	}
	if cfg.WhatsApp.SendDelay == 0 {
		cfg.WhatsApp.SendDelay = DefaultWhatsAppSendDelay
	}
	if cfg.WhatsApp.MaxConcurrentSends == 0 {
		cfg.WhatsApp.MaxConcurrentSends = DefaultWhatsAppSends
	}
	if cfg.WhatsApp.Timeout == 0 {
		cfg.WhatsApp.Timeout = DefaultWhatsAppTimeout
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── RateLimit ─────────────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config with every default applied. It is valid
// as-is: in-memory sessions, log order sink, no external services.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
