package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
log:
  level: debug
  format: console
session:
  backend: redis
  debounce_window: 250ms
redis:
  addr: "redis:6379"
dialogue:
  page_size: 3
  currency: SAR
orders:
  sink: kafka
kafka:
  brokers: ["k1:9092", "k2:9092"]
  order_topic: orders.done
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.DebounceWindow)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Dialogue.PageSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders.done", cfg.Kafka.OrderTopic)
	// untouched sections get defaults
	assert.Equal(t, 50, cfg.Dialogue.MaxQuantity)
	assert.Equal(t, 350, cfg.NLU.ScoreCeiling)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "server: [port")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, "orders:\n  sink: carrier-pigeon\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders.sink")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("ORDERBOT_SERVER_PORT", "7070")
	t.Setenv("ORDERBOT_DIALOGUE_MAX_QUANTITY", "20")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Dialogue.MaxQuantity)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ORDERBOT_SESSION_BACKEND", "memory")
	t.Setenv("ORDERBOT_ORDERS_SINK", "postgres")
	t.Setenv("ORDERBOT_DATABASE_HOST", "db.internal")
	t.Setenv("ORDERBOT_DATABASE_USER", "bot")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, OrderSinkPostgres, cfg.Orders.Sink)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "bot", cfg.Database.User)
	assert.True(t, cfg.UsesPostgres())
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, "log:\n  level: info\n")

	var mu sync.Mutex
	var got *Config
	require.NoError(t, Watch(path, func(c *Config) {
		mu.Lock()
		got = c
		mu.Unlock()
	}, nil))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.Log.Level == "warn"
	}, 5*time.Second, 50*time.Millisecond)
}
