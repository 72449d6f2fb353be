package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// PaymentMethod is a label only; no payment is executed.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

// Valid reports whether p is a known method.
func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentOnline
}

// Line is an aggregated, priced row of a completed order.
type Line struct {
	ItemID     int             `json:"item_id"`
	CategoryID string          `json:"category_id"`
	NameEN     string          `json:"name_en"`
	NameAR     string          `json:"name_ar"`
	Preference Preference      `json:"preference,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// Order is a confirmed order as archived and published.
type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Lang          locale.Lang     `json:"lang"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Lines         []Line          `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewOrder snapshots cart into an Order. Lines referencing items missing from
// the catalog are rejected.
func NewOrder(sessionID string, lang locale.Lang, pay PaymentMethod, cart Cart, cat *catalog.Catalog, currency string) (*Order, error) {
	if len(cart) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyCart, "cannot create an order from an empty cart")
	}
	if !pay.Valid() {
		return nil, errors.InvalidParam("unknown payment method").WithDetail(string(pay))
	}

	o := &Order{
		ID:            uuid.New().String(),
		SessionID:     sessionID,
		Lang:          lang,
		PaymentMethod: pay,
		Total:         cart.Total(),
		Currency:      currency,
		CreatedAt:     time.Now().UTC(),
	}
	for _, g := range cart.Groups() {
		it, ok := cat.Item(g.Key.ItemID)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeCatalogInvalid, "cart references unknown item %d", g.Key.ItemID)
		}
		o.Lines = append(o.Lines, Line{
			ItemID:     it.ID,
			CategoryID: it.CategoryID,
			NameEN:     it.NameEN,
			NameAR:     it.NameAR,
			Preference: g.Key.Preference,
			Quantity:   g.Quantity,
			UnitPrice:  g.UnitPrice,
			LineTotal:  g.Total(),
		})
	}
	return o, nil
}

// ShortID is the customer-facing order number.
func (o *Order) ShortID() string {
	if len(o.ID) < 8 {
		return o.ID
	}
	return o.ID[:8]
}

// ItemCount sums line quantities.
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// Validate checks structural consistency, used before archiving.
func (o *Order) Validate() error {
	if o.ID == "" {
		return errors.InvalidParam("order id is required")
	}
	if len(o.Lines) == 0 {
		return errors.New(errors.ErrCodeEmptyCart, "order has no lines")
	}
	sum := decimal.Zero
	for _, l := range o.Lines {
		if l.Quantity <= 0 {
			return errors.InvalidParam("line quantity must be positive").WithDetail(l.NameEN)
		}
		sum = sum.Add(l.LineTotal)
	}
	if !sum.Equal(o.Total) {
		return errors.InvalidParam("order total does not match its lines")
	}
	return nil
}
