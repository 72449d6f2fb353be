// Package whatsapp talks to the WhatsApp Cloud API: it sends text and
// reply-button messages and decodes inbound webhook notifications.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/semaphore"

	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// Cloud API limits for reply-button messages.
const (
	MaxButtons        = 3
	MaxButtonTitleLen = 20
	maxBodyLen        = 1024
	continuationBody  = "..."
)

// Button is a quick reply; ID comes back in the webhook when pressed.
type Button struct {
	ID    string
	Title string
}

// Reply is one outbound bubble.
type Reply struct {
	Text    string
	Buttons []Button
}

// APIError is an error response from the Graph API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Code       int    `json:"code"`
	TraceID    string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp: %s (HTTP %d, code %d, trace %s)", e.Message, e.StatusCode, e.Code, e.TraceID)
}

// Client sends messages from one business phone number.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	sem        *semaphore.Weighted
	sendDelay  time.Duration
	retryMax   int
	retryWait  time.Duration
	logger     logging.Logger
}

// Option customises the client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

func WithRetry(max int, wait time.Duration) Option {
	return func(c *Client) {
		c.retryMax = max
		c.retryWait = wait
	}
}

func NewClient(cfg config.WhatsAppConfig, logger logging.Logger, opts ...Option) (*Client, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "whatsapp access token and phone number id are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sends := cfg.MaxConcurrentSends
	if sends <= 0 {
		sends = config.DefaultWhatsAppSends
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultWhatsAppTimeout
	}
	c := &Client{
		endpoint: fmt.Sprintf("%s/%s/%s/messages",
			strings.TrimSuffix(cfg.BaseURL, "/"), cfg.APIVersion, cfg.PhoneNumberID),
		token:      cfg.AccessToken,
		httpClient: &http.Client{Timeout: timeout},
		sem:        semaphore.NewWeighted(int64(sends)),
		sendDelay:  cfg.SendDelay,
		retryMax:   2,
		retryWait:  500 * time.Millisecond,
		logger:     logger.Named("whatsapp"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Deliver sends replies to one recipient in order, pausing between bubbles.
// A failed bubble is logged and the rest are still sent; the first failure is
// returned. At most MaxConcurrentSends recipients are served at once.
func (c *Client) Deliver(ctx context.Context, to string, replies []Reply) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "whatsapp delivery cancelled")
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, errors.ErrCodeTimeout, "whatsapp send slot unavailable")
	}
	defer c.sem.Release(1)

	var first error
	sent := 0
	for _, r := range replies {
		for _, payload := range buildPayloads(to, r) {
			if sent > 0 && c.sendDelay > 0 {
				select {
				case <-ctx.Done():
					return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "whatsapp delivery cancelled")
				case <-time.After(c.sendDelay):
				}
			}
			sent++
			if err := c.post(ctx, payload); err != nil {
				c.logger.Error("whatsapp send failed", logging.String("to", to), logging.Err(err))
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	return c.Deliver(ctx, to, []Reply{{Text: text}})
}

// buildPayloads renders r as Cloud API payloads. More than MaxButtons
// buttons are split across several interactive messages.
func buildPayloads(to string, r Reply) []map[string]interface{} {
	body := truncate(r.Text, maxBodyLen)
	if len(r.Buttons) == 0 {
		return []map[string]interface{}{{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                to,
			"type":              "text",
			"text":              map[string]interface{}{"body": body},
		}}
	}

	var out []map[string]interface{}
	for start := 0; start < len(r.Buttons); start += MaxButtons {
		end := start + MaxButtons
		if end > len(r.Buttons) {
			end = len(r.Buttons)
		}
		buttons := make([]map[string]interface{}, 0, end-start)
		for _, b := range r.Buttons[start:end] {
			buttons = append(buttons, map[string]interface{}{
				"type":  "reply",
				"reply": map[string]string{"id": b.ID, "title": truncate(b.Title, MaxButtonTitleLen)},
			})
		}
		text := body
		if start > 0 || text == "" {
			text = continuationBody
		}
		out = append(out, map[string]interface{}{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                to,
			"type":              "interactive",
			"interactive": map[string]interface{}{
				"type":   "button",
				"body":   map[string]string{"text": text},
				"action": map[string]interface{}{"buttons": buttons},
			},
		})
	}
	return out
}

// truncate cuts s to max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

func (c *Client) post(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode whatsapp payload")
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "whatsapp send cancelled")
			case <-time.After(c.backoff(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to build whatsapp request")
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = errors.Wrap(err, errors.ErrCodeExternalService, "whatsapp request failed")
			continue
		}
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		c.logger.Debug("whatsapp message posted",
			logging.Int("status", resp.StatusCode),
			logging.Duration("took", time.Since(start)))

		if resp.StatusCode < 300 {
			return nil
		}
		apiErr := parseAPIError(resp.StatusCode, respBody)
		lastErr = errors.Wrap(apiErr, errors.ErrCodeExternalService, "whatsapp rejected message")
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}

func parseAPIError(status int, body []byte) *APIError {
	var wrapper struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != nil {
		wrapper.Error.StatusCode = status
		return wrapper.Error
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// backoff doubles retryWait per attempt with up to 25% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.retryWait * time.Duration(1<<uint(attempt-1))
	if d <= 0 {
		return 0
	}
	if q := int64(d / 4); q > 0 {
		d += time.Duration(rand.Int63n(q))
	}
	return d
}
