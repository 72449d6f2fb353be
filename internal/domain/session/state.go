package session

import (
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
)

// PendingItem is the item currently being configured.
type PendingItem struct {
	ItemID     int                     `json:"item_id"`
	Quantity   int                     `json:"quantity"`
	Preference order.Preference        `json:"preference,omitempty"`
	Splits     []order.PreferenceSplit `json:"splits,omitempty"`
}

// SplitsTotal sums the split quantities.
func (p *PendingItem) SplitsTotal() int {
	n := 0
	for _, s := range p.Splits {
		n += s.Quantity
	}
	return n
}

// Browse is the items-list sub-dialogue context.
type Browse struct {
	// Source is the button id suffix that opened the list (group or category id).
	Source      string   `json:"source"`
	CategoryIDs []string `json:"category_ids"`
	Page        int      `json:"page"`
	// Quantity carries a category intent's quantity to the picked item.
	Quantity int `json:"quantity,omitempty"`
}

// Removal is the remove-item sub-dialogue context.
type Removal struct {
	Page     int             `json:"page"`
	Selected *order.GroupKey `json:"selected,omitempty"`
}

// Turn is one entry of the conversation history.
type Turn struct {
	Text string    `json:"text"`
	Step Step      `json:"step"`
	At   time.Time `json:"at"`
}

// State is the full conversation state of one session.
type State struct {
	SessionID     string              `json:"session_id"`
	Lang          locale.Lang         `json:"lang"`
	LangChosen    bool                `json:"lang_chosen,omitempty"`
	Step          Step                `json:"step"`
	Cart          order.Cart          `json:"cart"`
	Queue         []order.Intent      `json:"queue,omitempty"`
	Current       *PendingItem        `json:"current,omitempty"`
	Browse        *Browse             `json:"browse,omitempty"`
	Removal       *Removal            `json:"removal,omitempty"`
	PaymentMethod order.PaymentMethod `json:"payment_method,omitempty"`
	LastItemID    int                 `json:"last_item_id,omitempty"`
	LastOrderID   string              `json:"last_order_id,omitempty"`
	History       []Turn              `json:"history,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// New returns a fresh state at INIT.
func New(sessionID string) *State {
	now := time.Now().UTC()
	return &State{
		SessionID: sessionID,
		Lang:      locale.Default,
		Step:      StepInit,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy, so a turn can work on a scratch state and the
// original survives a failed turn untouched.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Cart = s.Cart.Clone()
	if s.Queue != nil {
		c.Queue = make([]order.Intent, len(s.Queue))
		for i, in := range s.Queue {
			in.Splits = append([]order.PreferenceSplit(nil), in.Splits...)
			c.Queue[i] = in
		}
	}
	if s.Current != nil {
		cur := *s.Current
		cur.Splits = append([]order.PreferenceSplit(nil), s.Current.Splits...)
		c.Current = &cur
	}
	if s.Browse != nil {
		b := *s.Browse
		b.CategoryIDs = append([]string(nil), s.Browse.CategoryIDs...)
		c.Browse = &b
	}
	if s.Removal != nil {
		r := *s.Removal
		if s.Removal.Selected != nil {
			k := *s.Removal.Selected
			r.Selected = &k
		}
		c.Removal = &r
	}
	if s.History != nil {
		c.History = append([]Turn(nil), s.History...)
	}
	return &c
}

// ResetOrder clears everything order-related and returns to INIT, keeping
// the language, history and last order id.
func (s *State) ResetOrder() {
	s.Step = StepInit
	s.Cart = nil
	s.Queue = nil
	s.Current = nil
	s.Browse = nil
	s.Removal = nil
	s.PaymentMethod = ""
	s.LastItemID = 0
}

// ClearPending abandons the item being configured and any queued intents.
func (s *State) ClearPending() {
	s.Current = nil
	s.Queue = nil
	s.Browse = nil
	s.Removal = nil
}

// Enqueue appends intents to the FIFO queue.
func (s *State) Enqueue(intents ...order.Intent) {
	s.Queue = append(s.Queue, intents...)
}

// Dequeue pops the head of the queue.
func (s *State) Dequeue() (order.Intent, bool) {
	if len(s.Queue) == 0 {
		return order.Intent{}, false
	}
	head := s.Queue[0]
	s.Queue = s.Queue[1:]
	if len(s.Queue) == 0 {
		s.Queue = nil
	}
	return head, true
}

// RecordTurn appends text to the history ring, keeping at most limit entries.
func (s *State) RecordTurn(text string, at time.Time, limit int) {
	s.History = append(s.History, Turn{Text: text, Step: s.Step, At: at})
	if limit > 0 && len(s.History) > limit {
		s.History = append([]Turn(nil), s.History[len(s.History)-limit:]...)
	}
}
