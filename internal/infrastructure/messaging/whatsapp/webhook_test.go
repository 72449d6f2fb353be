package whatsapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textNotification = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"wa_id": "966500000001", "profile": {"name": "Sara"}}],
        "messages": [
          {"id": "wamid.A", "from": "966500000001", "timestamp": "1700000000", "type": "text", "text": {"body": "2 shawarma"}},
          {"id": "wamid.B", "from": "966500000001", "timestamp": "1700000005", "type": "interactive",
           "interactive": {"type": "button_reply", "button_reply": {"id": "checkout", "title": "Checkout"}}},
          {"id": "wamid.C", "from": "966500000001", "timestamp": "1700000006", "type": "image", "image": {"id": "media"}}
        ]
      }
    }]
  }]
}`

func TestParseNotification(t *testing.T) {
	msgs, err := ParseNotification([]byte(textNotification))
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "wamid.A", msgs[0].MessageID)
	assert.Equal(t, "966500000001", msgs[0].From)
	assert.Equal(t, "Sara", msgs[0].Name)
	assert.Equal(t, "2 shawarma", msgs[0].Text)
	assert.False(t, msgs[0].IsButton)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), msgs[0].Timestamp)

	assert.Equal(t, "checkout", msgs[1].Text)
	assert.True(t, msgs[1].IsButton)
}

func TestParseNotification_StatusUpdateOnly(t *testing.T) {
	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{"statuses":[{"id":"wamid.X","status":"delivered"}]}}]}]}`
	msgs, err := ParseNotification([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestParseNotification_Invalid(t *testing.T) {
	_, err := ParseNotification([]byte(`{not json`))
	assert.Error(t, err)

	_, err = ParseNotification([]byte(`{"entry":[]}`))
	assert.Error(t, err)
}

func TestParseNotification_SkipsBlankText(t *testing.T) {
	body := `{"object":"x","entry":[{"changes":[{"value":{"messages":[{"id":"1","from":"2","type":"text","text":{"body":"   "}}]}}]}]}`
	msgs, err := ParseNotification([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestVerifySubscription(t *testing.T) {
	challenge, ok := VerifySubscription("subscribe", "secret", "1158201444", "secret")
	assert.True(t, ok)
	assert.Equal(t, "1158201444", challenge)

	_, ok = VerifySubscription("subscribe", "wrong", "1", "secret")
	assert.False(t, ok)

	_, ok = VerifySubscription("unsubscribe", "secret", "1", "secret")
	assert.False(t, ok)

	_, ok = VerifySubscription("subscribe", "", "1", "")
	assert.False(t, ok)
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "whatsapp:966500000001", SessionID("966500000001"))
}
