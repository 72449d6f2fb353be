package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_BurstThenRefill(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, info := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, info = l.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, now.Add(time.Second), info.ResetAt)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
}

func TestTokenBucketLimiter_Cleanup(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, time.Minute)
	defer l.Stop()
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("a")
	require.Equal(t, 1, l.BucketCount())

	now = now.Add(2 * time.Minute)
	l.cleanup()
	assert.Equal(t, 0, l.BucketCount())
	l.Stop()
}

func TestRateLimit_Middleware(t *testing.T) {
	l := NewTokenBucketLimiter(0.001, 1, 0)
	handler := RateLimit(l, RateLimitConfig{SkipPaths: []string{"/healthz"}})(okHandler())

	send := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "10.0.0.1:5555"
		handler.ServeHTTP(w, r)
		return w
	}

	first := send("/api/v1/menu")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

	second := send("/api/v1/menu")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), `"code":"COMMON_007"`)

	assert.Equal(t, http.StatusOK, send("/healthz").Code)
}

func TestSessionOrIPKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/sessions/wa-966500000001/turns", "session:wa-966500000001"},
		{"/api/v1/sessions/s1", "session:s1"},
		{"/api/v1/sessions/", "ip:10.0.0.9"},
		{"/api/v1/menu", "ip:10.0.0.9"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, tt.path, nil)
		r.RemoteAddr = "10.0.0.9:4000"
		assert.Equal(t, tt.want, SessionOrIPKey(r), tt.path)
	}
}

func TestRateLimit_PerSessionBudget(t *testing.T) {
	l := NewTokenBucketLimiter(0.001, 1, 0)
	handler := RateLimit(l, RateLimitConfig{KeyFunc: SessionOrIPKey})(okHandler())

	send := func(path string) int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, path, nil)
		r.RemoteAddr = "10.0.0.1:5555"
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/api/v1/sessions/a/turns"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/v1/sessions/a/turns"))
	assert.Equal(t, http.StatusOK, send("/api/v1/sessions/b/turns"), "same IP, different session")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(r))

	r.RemoteAddr = "192.0.2.9"
	assert.Equal(t, "192.0.2.9", ClientIP(r))
}
