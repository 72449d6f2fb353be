package testutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("http").Named("ws").With(logging.String("session_id", "s1"))
	child.WithError(errors.New("boom")).Warn("send failed", logging.Int("attempt", 2))

	msg, ok := root.Find("warn", "send failed")
	require.True(t, ok)
	assert.Equal(t, "http.ws", msg.Logger)

	sid, ok := msg.Field("session_id")
	require.True(t, ok)
	assert.Equal(t, "s1", sid)
	attempt, _ := msg.Field("attempt")
	assert.Equal(t, 2, attempt)
	_, ok = msg.Field("error")
	assert.True(t, ok)
}
