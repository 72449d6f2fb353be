package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return NewDefaultConfig()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad backend", func(c *Config) { c.Session.Backend = "etcd" }, "session.backend"},
		{"redis backend without addr", func(c *Config) {
			c.Session.Backend = SessionBackendRedis
			c.Redis.Addr = ""
		}, "redis.addr"},
		{"page size too large", func(c *Config) { c.Dialogue.PageSize = 4 }, "dialogue.page_size"},
		{"max quantity", func(c *Config) { c.Dialogue.MaxQuantity = -1 }, "dialogue.max_quantity"},
		{"decreasing edits", func(c *Config) { c.NLU.MediumMaxEdits = 1 }, "non-decreasing"},
		{"bad sink", func(c *Config) { c.Orders.Sink = "s3" }, "orders.sink"},
		{"kafka sink without brokers", func(c *Config) {
			c.Orders.Sink = OrderSinkKafka
			c.Kafka.Brokers = nil
		}, "kafka.brokers"},
		{"postgres sink without user", func(c *Config) {
			c.Orders.Sink = OrderSinkPostgres
			c.Database.User = ""
		}, "database.user"},
		{"whatsapp without verify token", func(c *Config) {
			c.WhatsApp.Enabled = true
		}, "whatsapp.verify_token"},
		{"whatsapp complete", func(c *Config) {
			c.WhatsApp.Enabled = true
			c.WhatsApp.VerifyToken = "v"
			c.WhatsApp.AccessToken = "a"
			c.WhatsApp.PhoneNumberID = "123"
		}, ""},
		{"rate limit zero burst", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Burst = 0
		}, "ratelimit"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "text" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestUsesPostgres(t *testing.T) {
	c := validConfig()
	c.Database.Enabled = true
	assert.True(t, c.UsesPostgres())

	c = validConfig()
	c.Orders.Sink = OrderSinkPostgres
	assert.True(t, c.UsesPostgres())
}
