package whatsapp

import (
	"crypto/subtle"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// Inbound is one user message extracted from a webhook notification. Text is
// the typed text, or the button id when a reply button was pressed.
type Inbound struct {
	MessageID string
	From      string
	Name      string
	Text      string
	IsButton  bool
	Timestamp time.Time
}

// Notification is the webhook body sent by the Cloud API.
type Notification struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []Contact        `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
}

type Contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type WebhookMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply,omitempty"`
	} `json:"interactive,omitempty"`
	Button *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button,omitempty"`
}

// ParseNotification decodes a webhook body into user messages. Status
// updates and unsupported message types yield nothing.
func ParseNotification(body []byte) ([]Inbound, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "malformed webhook payload")
	}
	if n.Object == "" {
		return nil, errors.InvalidParam("webhook payload has no object")
	}

	var out []Inbound
	for _, e := range n.Entry {
		for _, ch := range e.Changes {
			names := make(map[string]string, len(ch.Value.Contacts))
			for _, c := range ch.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, m := range ch.Value.Messages {
				in, ok := toInbound(m)
				if !ok {
					continue
				}
				in.Name = names[m.From]
				out = append(out, in)
			}
		}
	}
	return out, nil
}

func toInbound(m WebhookMessage) (Inbound, bool) {
	in := Inbound{MessageID: m.ID, From: m.From}
	if sec, err := strconv.ParseInt(m.Timestamp, 10, 64); err == nil {
		in.Timestamp = time.Unix(sec, 0).UTC()
	}
	switch {
	case m.Type == "text" && m.Text != nil:
		in.Text = m.Text.Body
	case m.Type == "interactive" && m.Interactive != nil && m.Interactive.ButtonReply != nil:
		in.Text = m.Interactive.ButtonReply.ID
		in.IsButton = true
	case m.Type == "button" && m.Button != nil:
		in.Text = m.Button.Payload
		in.IsButton = true
	default:
		return Inbound{}, false
	}
	if strings.TrimSpace(in.Text) == "" || in.From == "" {
		return Inbound{}, false
	}
	return in, true
}

// VerifySubscription answers the webhook verification handshake. It returns
// the challenge to echo and whether the request is valid.
func VerifySubscription(mode, token, challenge, expected string) (string, bool) {
	if mode != "subscribe" || expected == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return "", false
	}
	return challenge, true
}

// SessionID maps a WhatsApp sender to a conversation session.
func SessionID(from string) string {
	return "whatsapp:" + from
}
