package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

type capturedRequest struct {
	Path string
	Auth string
	Body map[string]interface{}
}

type fakeGraph struct {
	mu       sync.Mutex
	requests []capturedRequest
	statuses []int
	calls    int32
}

func (f *fakeGraph) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&f.calls, 1)
		data, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &body))

		f.mu.Lock()
		f.requests = append(f.requests, capturedRequest{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
		status := http.StatusOK
		if int(n) <= len(f.statuses) {
			status = f.statuses[n-1]
		}
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			w.Write([]byte(`{"error":{"message":"boom","type":"OAuthException","code":131000,"fbtrace_id":"abc"}}`))
			return
		}
		w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.1"}]}`))
	}
}

func newTestClient(t *testing.T, g *fakeGraph) *Client {
	srv := httptest.NewServer(g.handler(t))
	t.Cleanup(srv.Close)
	c, err := NewClient(config.WhatsAppConfig{
		AccessToken:        "token",
		PhoneNumberID:      "12345",
		BaseURL:            srv.URL,
		APIVersion:         "v19.0",
		SendDelay:          time.Millisecond,
		MaxConcurrentSends: 2,
		Timeout:            time.Second,
	}, nil, WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(config.WhatsAppConfig{PhoneNumberID: "1"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestSendText(t *testing.T) {
	g := &fakeGraph{}
	c := newTestClient(t, g)

	require.NoError(t, c.SendText(context.Background(), "966500000000", "Welcome"))

	require.Len(t, g.requests, 1)
	req := g.requests[0]
	assert.Equal(t, "/v19.0/12345/messages", req.Path)
	assert.Equal(t, "Bearer token", req.Auth)
	assert.Equal(t, "whatsapp", req.Body["messaging_product"])
	assert.Equal(t, "966500000000", req.Body["to"])
	assert.Equal(t, "text", req.Body["type"])
	assert.Equal(t, "Welcome", req.Body["text"].(map[string]interface{})["body"])
}

func TestDeliver_ButtonsInOrder(t *testing.T) {
	g := &fakeGraph{}
	c := newTestClient(t, g)

	replies := []Reply{
		{Text: "Your cart is empty."},
		{Text: "Pick a language", Buttons: []Button{{ID: "lang_en", Title: "English"}, {ID: "lang_ar", Title: "العربية"}}},
	}
	require.NoError(t, c.Deliver(context.Background(), "1", replies))

	require.Len(t, g.requests, 2)
	assert.Equal(t, "text", g.requests[0].Body["type"])

	second := g.requests[1].Body
	assert.Equal(t, "interactive", second["type"])
	interactive := second["interactive"].(map[string]interface{})
	assert.Equal(t, "button", interactive["type"])
	assert.Equal(t, "Pick a language", interactive["body"].(map[string]interface{})["text"])
	buttons := interactive["action"].(map[string]interface{})["buttons"].([]interface{})
	require.Len(t, buttons, 2)
	reply := buttons[1].(map[string]interface{})["reply"].(map[string]interface{})
	assert.Equal(t, "lang_ar", reply["id"])
	assert.Equal(t, "العربية", reply["title"])
}

func TestBuildPayloads_SplitsAndTruncates(t *testing.T) {
	r := Reply{Text: "Menu", Buttons: []Button{
		{ID: "a", Title: "Chicken shawarma wrap with garlic"},
		{ID: "b", Title: "B"}, {ID: "c", Title: "C"}, {ID: "d", Title: "D"},
	}}
	payloads := buildPayloads("1", r)
	require.Len(t, payloads, 2)

	first := payloads[0]["interactive"].(map[string]interface{})
	buttons := first["action"].(map[string]interface{})["buttons"].([]map[string]interface{})
	require.Len(t, buttons, MaxButtons)
	title := buttons[0]["reply"].(map[string]string)["title"]
	assert.Equal(t, "Chicken shawarma wra", title)

	second := payloads[1]["interactive"].(map[string]interface{})
	assert.Equal(t, continuationBody, second["body"].(map[string]string)["text"])
	assert.Len(t, second["action"].(map[string]interface{})["buttons"], 1)
}

func TestTruncate_CountsRunes(t *testing.T) {
	assert.Equal(t, "مرحبا", truncate("مرحبا بكم", 5))
	assert.Equal(t, "short", truncate("short", 20))
}

func TestPost_RetriesServerErrors(t *testing.T) {
	g := &fakeGraph{statuses: []int{http.StatusBadGateway, http.StatusTooManyRequests}}
	c := newTestClient(t, g)

	require.NoError(t, c.SendText(context.Background(), "1", "hi"))
	assert.EqualValues(t, 3, atomic.LoadInt32(&g.calls))
}

func TestPost_ClientErrorNotRetried(t *testing.T) {
	g := &fakeGraph{statuses: []int{http.StatusBadRequest}}
	c := newTestClient(t, g)

	err := c.SendText(context.Background(), "1", "hi")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
	assert.Contains(t, err.Error(), "boom")
	assert.EqualValues(t, 1, atomic.LoadInt32(&g.calls))
}

func TestDeliver_ContinuesAfterFailure(t *testing.T) {
	g := &fakeGraph{statuses: []int{http.StatusBadRequest}}
	c := newTestClient(t, g)

	err := c.Deliver(context.Background(), "1", []Reply{{Text: "one"}, {Text: "two"}})
	require.Error(t, err)
	require.Len(t, g.requests, 2)
	assert.Equal(t, "two", g.requests[1].Body["text"].(map[string]interface{})["body"])
}

func TestDeliver_CancelledContext(t *testing.T) {
	g := &fakeGraph{}
	c := newTestClient(t, g)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Deliver(ctx, "1", []Reply{{Text: "one"}})
	require.Error(t, err)
	assert.Empty(t, g.requests)
}

func TestParseAPIError_PlainBody(t *testing.T) {
	e := parseAPIError(http.StatusServiceUnavailable, []byte("unavailable\n"))
	assert.Equal(t, http.StatusServiceUnavailable, e.StatusCode)
	assert.Equal(t, "unavailable", e.Message)
}
