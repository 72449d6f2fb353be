package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.DebounceWindow)
	assert.Equal(t, 10, cfg.Session.HistorySize)
	assert.Equal(t, 2, cfg.Dialogue.PageSize)
	assert.Equal(t, 50, cfg.Dialogue.MaxQuantity)
	assert.Equal(t, 3, cfg.Dialogue.RemoveAllThreshold)
	assert.Equal(t, "SAR", cfg.Dialogue.Currency)
	assert.False(t, cfg.Dialogue.SkipItemConfirmation)
	assert.Equal(t, 2, cfg.NLU.ShortMaxEdits)
	assert.Equal(t, 3, cfg.NLU.MediumMaxEdits)
	assert.Equal(t, 5, cfg.NLU.LongMaxEdits)
	assert.Equal(t, 350, cfg.NLU.ScoreCeiling)
	assert.Equal(t, OrderSinkLog, cfg.Orders.Sink)
	assert.Equal(t, "orderbot.order.completed", cfg.Kafka.OrderTopic)
	assert.Equal(t, 800*time.Millisecond, cfg.WhatsApp.SendDelay)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Dialogue.PageSize = 3
	cfg.Orders.Sink = OrderSinkKafka
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Dialogue.PageSize)
	assert.Equal(t, OrderSinkKafka, cfg.Orders.Sink)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.UsesRedis())
	assert.False(t, cfg.UsesPostgres())
}
