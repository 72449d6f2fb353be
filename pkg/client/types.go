package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Button is a quick reply. Send its ID back as the next turn's text to
// press it.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is one bot chat bubble.
type Message struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}

// CartLine is one unit in the cart; two burgers are two lines.
type CartLine struct {
	ItemID     int             `json:"item_id"`
	Preference string          `json:"preference,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Session is the server-side conversation state.
type Session struct {
	SessionID     string     `json:"session_id"`
	Lang          string     `json:"lang"`
	Step          string     `json:"step"`
	Cart          []CartLine `json:"cart"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	LastOrderID   string     `json:"last_order_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TurnResult is the reply to one customer message.
type TurnResult struct {
	Messages []Message `json:"messages"`
	Session  *Session  `json:"session"`
	Outcome  string    `json:"outcome"`
	OrderID  string    `json:"order_id,omitempty"`
}

// Buttons flattens the buttons of every message in order.
func (r *TurnResult) Buttons() []Button {
	var out []Button
	for _, m := range r.Messages {
		out = append(out, m.Buttons...)
	}
	return out
}

type MenuItem struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	NeedsPreference bool   `json:"needs_preference,omitempty"`
}

type MenuCategory struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// Menu is the localized menu.
type Menu struct {
	Restaurant string         `json:"restaurant"`
	Lang       string         `json:"lang"`
	Currency   string         `json:"currency"`
	Categories []MenuCategory `json:"categories"`
}

type Branch struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Intent is one extracted order mention.
type Intent struct {
	Kind       string `json:"kind"`
	ItemID     int    `json:"item_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Quantity   int    `json:"quantity"`
	Preference string `json:"preference,omitempty"`
	Action     string `json:"action"`
}

// ParseResult is the NLU reading of one utterance.
type ParseResult struct {
	Normalized string   `json:"normalized"`
	Tokens     []string `json:"tokens"`
	Intents    []Intent `json:"intents"`
	Preference string   `json:"preference,omitempty"`
	Lang       string   `json:"lang,omitempty"`
	Command    string   `json:"command,omitempty"`
}

type OrderLine struct {
	ItemID     int             `json:"item_id"`
	CategoryID string          `json:"category_id"`
	NameEN     string          `json:"name_en"`
	NameAR     string          `json:"name_ar"`
	Preference string          `json:"preference,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// Order is an archived order.
type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Lang          string          `json:"lang"`
	PaymentMethod string          `json:"payment_method"`
	Lines         []OrderLine     `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}
