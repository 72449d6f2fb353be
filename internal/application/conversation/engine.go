// Package conversation drives the ordering dialogue. Engine is the pure
// state machine: it takes a session state and one turn of text and returns
// the next state plus the messages to send. Service wraps it with session
// storage, debouncing, locking, panic recovery, metrics and order sinks.
package conversation

import (
	"strings"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/config"
	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
	"github.com/turtacn/Joana-OrderBot/internal/intelligence/order_nlu"
)

// Options tunes the dialogue.
type Options struct {
	// PageSize is the number of items or cart groups per list message.
	PageSize int
	// ConfirmItems asks "add X to your cart?" before every cart push.
	ConfirmItems       bool
	MaxQuantity        int
	RemoveAllThreshold int
	Currency           string
	HistorySize        int
}

// DefaultOptions returns the production dialogue settings.
func DefaultOptions() Options {
	return Options{
		PageSize:           config.DefaultPageSize,
		ConfirmItems:       true,
		MaxQuantity:        config.DefaultMaxQuantity,
		RemoveAllThreshold: config.DefaultRemoveAllThreshold,
		Currency:           config.DefaultCurrency,
		HistorySize:        config.DefaultHistorySize,
	}
}

// OptionsFromConfig maps the dialogue and session sections.
func OptionsFromConfig(cfg *config.Config) Options {
	o := DefaultOptions()
	if cfg == nil {
		return o
	}
	d := cfg.Dialogue
	if d.PageSize > 0 {
		o.PageSize = d.PageSize
	}
	o.ConfirmItems = !d.SkipItemConfirmation
	if d.MaxQuantity > 0 {
		o.MaxQuantity = d.MaxQuantity
	}
	if d.RemoveAllThreshold > 0 {
		o.RemoveAllThreshold = d.RemoveAllThreshold
	}
	if d.Currency != "" {
		o.Currency = d.Currency
	}
	if cfg.Session.HistorySize > 0 {
		o.HistorySize = cfg.Session.HistorySize
	}
	return o
}

// Result is the outcome of one turn.
type Result struct {
	State    *session.State
	Messages []Message
	Outcome  Outcome
	// Intents are the intents extracted from typed text, if any.
	Intents []order.Intent
	// Completed is set on the turn that confirms an order.
	Completed *order.Order
}

// Handler advances a conversation by one turn. *Engine implements it.
type Handler interface {
	Handle(st *session.State, text string) *Result
	// Recover builds the safe state shown after a failed turn: the cart of
	// st untouched, pending work dropped, the category menu on screen.
	Recover(st *session.State) *Result
}

// Engine is the dialogue state machine. It holds no per-session data and is
// safe for concurrent use.
type Engine struct {
	cat      *catalog.Catalog
	nlu      *order_nlu.NLU
	opts     Options
	handlers map[session.Step]stepHandler
	now      func() time.Time
}

// NewEngine builds an Engine over an immutable catalog and its NLU.
func NewEngine(cat *catalog.Catalog, nlu *order_nlu.NLU, opts Options) *Engine {
	def := DefaultOptions()
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = def.MaxQuantity
	}
	if opts.RemoveAllThreshold <= 0 {
		opts.RemoveAllThreshold = def.RemoveAllThreshold
	}
	if opts.Currency == "" {
		opts.Currency = def.Currency
	}
	return &Engine{cat: cat, nlu: nlu, opts: opts, handlers: newStepHandlers(), now: time.Now}
}

// Catalog exposes the menu the engine serves.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Handle processes one turn on a copy of st; st itself is never modified.
func (e *Engine) Handle(st *session.State, text string) *Result {
	t := e.newTurn(st, text)
	t.st.RecordTurn(t.text, e.now().UTC(), e.opts.HistorySize)
	t.run()
	return t.finishTurn()
}

// Recover implements Handler.
func (e *Engine) Recover(st *session.State) *Result {
	t := e.newTurn(st, "")
	t.res.Outcome = OutcomeRecovered
	t.st.ClearPending()
	t.say(t.tr(locale.KeyApology))
	t.promptHome()
	return t.finishTurn()
}

func (e *Engine) newTurn(st *session.State, text string) *turn {
	var c *session.State
	if st == nil {
		c = session.New("")
	} else {
		c = st.Clone()
	}
	return &turn{e: e, st: c, text: strings.TrimSpace(text), res: &Result{Outcome: OutcomeHandled}}
}

// turn is the scratch context of one Handle call.
type turn struct {
	e    *Engine
	st   *session.State
	text string
	out  []Message
	res  *Result

	parsedOnce bool
	parse      order_nlu.ParseResult
}

func (t *turn) finishTurn() *Result {
	t.st.UpdatedAt = t.e.now().UTC()
	t.res.State = t.st
	t.res.Messages = t.out
	return t.res
}

func (t *turn) lang() locale.Lang { return t.st.Lang }

func (t *turn) tr(key locale.Key, args ...interface{}) string {
	return locale.T(t.st.Lang, key, args...)
}

func (t *turn) say(text string, buttons ...Button) {
	t.out = append(t.out, Message{Text: text, Buttons: buttons})
}

func (t *turn) parsed() order_nlu.ParseResult {
	if !t.parsedOnce {
		t.parse = t.e.nlu.Extractor.Parse(t.text)
		t.parsedOnce = true
	}
	return t.parse
}

func (t *turn) detector() *order_nlu.Detector { return t.e.nlu.Detector }

// run dispatches a turn: buttons first, then the typed answer the current
// step waits for, then the free-text pipeline.
func (t *turn) run() {
	if b, ok := parseButton(t.text); ok {
		t.pressed(b)
		return
	}
	if looksLikeButton(t.text) {
		t.unknownButton()
		return
	}
	if t.st.Step == session.StepInit || !t.st.Step.Valid() {
		t.start()
		return
	}
	if t.st.Step.AwaitsTypedAnswer() {
		if h := t.e.handlers[t.st.Step]; h.typed != nil && h.typed(t) {
			return
		}
	}
	t.freeText()
}

// freeText runs the interceptors and the NLU layers in priority order.
func (t *turn) freeText() {
	switch {
	case t.intercept():
	case t.understand():
	case t.resolveReference():
	case t.command():
	default:
		t.help()
	}
}

// start opens a session: welcome, branches, and the language choice unless
// the first message already carries an order.
func (t *turn) start() {
	if t.st.LangChosen {
		t.st.Step = session.StepCategorySelection
		if t.text == "" || t.detector().IsGreeting(t.text) {
			t.promptHome()
			return
		}
		t.freeText()
		return
	}
	if lang, ok := locale.Detect(t.text); ok {
		t.st.Lang = lang
	}
	t.say(t.e.welcome(t.lang()))
	if len(t.parsed().Intents) > 0 {
		t.st.LangChosen = true
		t.st.Step = session.StepCategorySelection
		t.freeText()
		return
	}
	t.promptLanguage()
}

func (t *turn) pressed(b button) {
	if t.globalButton(b) {
		return
	}
	if h, ok := t.e.handlers[t.st.Step]; ok && h.button != nil && h.button(t, b) {
		return
	}
	t.unknownButton()
}

// unknownButton handles stale or replayed buttons like a parse failure.
func (t *turn) unknownButton() {
	t.res.Outcome = OutcomeUnknownButton
	t.say(t.tr(locale.KeyDidntUnderstand))
	t.prompt()
}

// prompt re-asks the question of the current step.
func (t *turn) prompt() {
	if h, ok := t.e.handlers[t.st.Step]; ok && h.prompt != nil {
		h.prompt(t)
		return
	}
	t.promptHome()
}

// help is the contextual fallback when nothing in the text was understood.
func (t *turn) help() {
	t.res.Outcome = OutcomeParseFailure
	t.say(t.tr(locale.KeyDidntUnderstand))
	if t.st.Step == session.StepCategorySelection || t.st.Step == session.StepItemsList {
		t.say(t.tr(locale.KeyHelpOrdering))
	}
	t.prompt()
}

// intercept handles greeting, show-menu and finish phrases from any step.
func (t *turn) intercept() bool {
	d := t.detector()
	switch {
	case d.IsFinish(t.text):
		t.finish()
	case d.IsMenu(t.text):
		t.st.ClearPending()
		t.promptHome()
	case d.IsGreeting(t.text):
		t.st.ClearPending()
		t.say(t.tr(locale.KeyWelcome, t.e.cat.Restaurant.Name(t.lang())))
		t.promptHome()
	default:
		return false
	}
	return true
}

// command handles cancel and off-topic chatter after extraction failed.
func (t *turn) command() bool {
	switch t.detector().Detect(t.text) {
	case order_nlu.CommandCancel:
		t.openModify()
	case order_nlu.CommandIrrelevant:
		t.say(t.tr(locale.KeyIrrelevant))
		if t.st.Step.Configuring() {
			t.prompt()
		} else {
			t.st.ClearPending()
			t.promptHome()
		}
	default:
		return false
	}
	return true
}

// understand runs the intent extractor. Removals apply at once; additions
// join the FIFO queue, which starts draining unless an item is already
// being configured.
func (t *turn) understand() bool {
	intents := t.parsed().Intents
	if len(intents) == 0 {
		return false
	}
	t.res.Intents = intents

	var adds []order.Intent
	browseRemoval := false
	for _, in := range intents {
		if in.Action != order.ActionRemove {
			adds = append(adds, in)
			continue
		}
		if in.IsItem() {
			t.removeItem(in)
		} else {
			browseRemoval = true
		}
	}

	if len(adds) == 0 {
		switch {
		case browseRemoval && len(t.st.Cart) > 0 && !t.st.Step.Configuring():
			t.openRemoval()
		case t.st.Step.Configuring():
			t.prompt()
		default:
			t.afterCartChange()
		}
		return true
	}

	t.st.Enqueue(adds...)
	if t.st.Step.Configuring() {
		t.say(t.tr(locale.KeyQueuedAck, t.e.intentsLabel(t.lang(), adds)))
		t.prompt()
		return true
	}
	t.next()
	return true
}

// removeItem applies a REMOVE intent: latest lines first, filtered by
// preference when one was stated. No quantity means one unit.
func (t *turn) removeItem(in order.Intent) {
	n := in.Quantity
	if n <= 0 {
		n = 1
	}
	var removed int
	if in.Preference != order.PreferenceNone {
		t.st.Cart, removed = t.st.Cart.Remove(order.GroupKey{ItemID: in.ItemID, Preference: in.Preference}, n)
	} else {
		t.st.Cart, removed = t.st.Cart.RemoveItem(in.ItemID, n)
	}
	if removed == 0 {
		t.say(t.tr(locale.KeyNotInCart, t.e.itemName(t.lang(), in.ItemID)))
		return
	}
	t.say(t.tr(locale.KeyRemoved, removed, t.e.itemLabel(t.lang(), in.ItemID, in.Preference)))
}

// afterCartChange shows the cart decision, or the menu once the cart is
// empty.
func (t *turn) afterCartChange() {
	if len(t.st.Cart) == 0 {
		t.say(t.tr(locale.KeyCartEmpty))
		t.promptHome()
		return
	}
	t.promptCartDecision()
}

// resolveReference applies pronoun and "make it N" references to the last
// item handled.
func (t *turn) resolveReference() bool {
	ref := t.e.nlu.Anaphora.Resolve(t.text, t.st.LastItemID, t.lang())
	if ref == nil {
		return false
	}
	it, ok := t.e.cat.Item(ref.ItemID)
	if !ok {
		return false
	}

	if ref.Type == order_nlu.QuantityOverride {
		t.overrideQuantity(it, ref.Quantity)
		return true
	}

	qty := ref.Quantity
	if qty <= 0 {
		qty = 1
	}
	if ref.Remove {
		t.removeItem(order.Intent{Kind: order.KindItem, ItemID: it.ID, Quantity: qty, Action: order.ActionRemove})
		if t.st.Step.Configuring() {
			t.prompt()
		} else {
			t.afterCartChange()
		}
		return true
	}

	in := order.NewItemIntent(it.ID, qty)
	in.Preference = t.lastPreference(it.ID)
	t.st.Enqueue(in)
	if t.st.Step.Configuring() {
		t.say(t.tr(locale.KeyQueuedAck, t.e.intentsLabel(t.lang(), []order.Intent{in})))
		t.prompt()
		return true
	}
	t.next()
	return true
}

// overrideQuantity restates the quantity of the item being configured, or
// of the item already in the cart.
func (t *turn) overrideQuantity(it *catalog.Item, qty int) {
	if cur := t.st.Current; cur != nil && cur.ItemID == it.ID {
		cur.Splits = nil
		t.setQuantity(qty)
		t.advanceItem()
		return
	}

	have := t.st.Cart.CountItem(it.ID)
	if have == 0 {
		in := order.NewItemIntent(it.ID, qty)
		t.st.Enqueue(in)
		if t.st.Step.Configuring() {
			t.prompt()
			return
		}
		t.next()
		return
	}

	if qty > t.e.opts.MaxQuantity {
		t.say(t.tr(locale.KeyQuantityCapped, t.e.opts.MaxQuantity, t.e.opts.MaxQuantity))
		qty = t.e.opts.MaxQuantity
	}
	switch {
	case qty > have:
		t.st.Cart = t.st.Cart.Add(it.ID, t.lastPreference(it.ID), it.Price, qty-have)
	case qty < have:
		t.st.Cart, _ = t.st.Cart.RemoveItem(it.ID, have-qty)
	}
	t.say(t.tr(locale.KeyQuantityUpdated, it.Name(t.lang()), qty))
	if t.st.Step.Configuring() {
		t.prompt()
		return
	}
	t.afterCartChange()
}

// lastPreference is the preference of the newest cart line of itemID.
func (t *turn) lastPreference(itemID int) order.Preference {
	for i := len(t.st.Cart) - 1; i >= 0; i-- {
		if t.st.Cart[i].ItemID == itemID {
			return t.st.Cart[i].Preference
		}
	}
	return order.PreferenceNone
}
