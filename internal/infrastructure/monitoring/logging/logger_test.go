package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), buf, zapcore.DebugLevel)
	return NewLoggerFromCore(core), buf
}

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyOutputPaths(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
}

func TestNewDefaultLogger(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
	assert.NotNil(t, NewDevelopmentLogger())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapLogger_Levels(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"msg":"info msg"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"msg":"error msg"`)
}

func TestZapLogger_FieldTypes(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("turn",
		String("session_id", "s1"),
		Strings("buttons", []string{"qty_1", "qty_2"}),
		Int("quantity", 2),
		Int64("order_no", 7),
		Float64("score", 1.5),
		Bool("queued", true),
		Duration("took", 3*time.Millisecond),
		Any("step", struct{ Name string }{"ITEM_QUANTITY"}),
	)

	out := buf.String()
	assert.Contains(t, out, `"session_id":"s1"`)
	assert.Contains(t, out, `"buttons":["qty_1","qty_2"]`)
	assert.Contains(t, out, `"quantity":2`)
	assert.Contains(t, out, `"order_no":7`)
	assert.Contains(t, out, `"score":1.5`)
	assert.Contains(t, out, `"queued":true`)
	assert.Contains(t, out, `"Name":"ITEM_QUANTITY"`)
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.With(String("lang", "ar")).Info("msg")
	assert.Contains(t, buf.String(), `"lang":"ar"`)
}

func TestZapLogger_WithError(t *testing.T) {
	l, buf := newTestLogger(t)
	l.WithError(errors.New("redis down")).Error("msg")
	assert.Contains(t, buf.String(), `"error":"redis down"`)
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestZapLogger_Named(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core).Named("orderbot").Named("http")
	l.Info("started")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "orderbot.http", logs.All()[0].LoggerName)
}

func TestObserver_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewLoggerFromCore(core)
	l.Info("dropped")
	l.Warn("kept", String("session_id", "abc"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["session_id"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("x")
	assert.Equal(t, l, l.With(String("a", "b")))
	assert.Equal(t, l, l.Named("n"))
	assert.Equal(t, l, l.WithError(errors.New("e")))
	assert.NoError(t, l.Sync())
}

func TestContextLogger(t *testing.T) {
	l, buf := newTestLogger(t)
	ctx := ContextWithLogger(context.Background(), l)
	FromContext(ctx).Info("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	assert.Equal(t, Default(), FromContext(context.Background()))
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newTestLogger(t)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}
