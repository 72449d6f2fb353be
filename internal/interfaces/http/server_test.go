package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/config"
)

func TestNewServer(t *testing.T) {
	s := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8081, ReadTimeout: time.Second}, http.NewServeMux(), nil)
	assert.Equal(t, "127.0.0.1:8081", s.Addr())
	assert.Equal(t, time.Second, s.httpServer.ReadTimeout)
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}, http.NewServeMux(), nil)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
