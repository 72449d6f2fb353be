package conversation

import (
	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
	"github.com/turtacn/Joana-OrderBot/internal/domain/session"
)

// stepHandler is the per-step behaviour. button handles ids that are only
// meaningful in the step; typed parses the answer the step asked for and
// returns false to let the text fall through to the free-text pipeline;
// prompt (re)asks the step's question.
type stepHandler struct {
	button func(t *turn, b button) bool
	typed  func(t *turn) bool
	prompt func(t *turn)
}

func newStepHandlers() map[session.Step]stepHandler {
	return map[session.Step]stepHandler{
		session.StepInit:               {prompt: (*turn).promptLanguage},
		session.StepLanguagePick:       {typed: (*turn).typedLanguage, prompt: (*turn).promptLanguage},
		session.StepCategorySelection:  {prompt: (*turn).promptHome},
		session.StepItemsList:          {button: (*turn).itemsListButton, prompt: (*turn).promptItems},
		session.StepItemPreference:     {button: (*turn).preferenceButton, typed: (*turn).typedPreference, prompt: (*turn).promptPreference},
		session.StepItemQuantity:       {button: (*turn).quantityButton, typed: (*turn).typedQuantity, prompt: (*turn).promptQuantity},
		session.StepItemQuantityManual: {button: (*turn).quantityButton, typed: (*turn).typedQuantity, prompt: (*turn).promptManualQuantity},
		session.StepItemConfirm:        {button: (*turn).confirmButton, typed: (*turn).typedConfirm, prompt: (*turn).promptConfirm},
		session.StepCartDecision:       {prompt: (*turn).promptCartDecision},
		session.StepPaymentMethod:      {button: (*turn).paymentButton, typed: (*turn).typedPayment, prompt: (*turn).promptPayment},
		session.StepOrderSummary:       {button: (*turn).summaryButton, typed: (*turn).typedSummary, prompt: (*turn).promptReview},
		session.StepModifyDecision:     {button: (*turn).modifyButton, prompt: (*turn).promptModify},
		session.StepCancelAllConfirm:   {button: (*turn).cancelAllButton, typed: (*turn).typedCancelAll, prompt: (*turn).promptCancelAll},
		session.StepRemoveItemSelect:   {button: (*turn).removalButton, prompt: (*turn).promptRemoval},
		session.StepItemRemoveQuantity: {button: (*turn).removeQuantityButton, typed: (*turn).typedRemoveQuantity, prompt: (*turn).promptRemoveQuantity},
		session.StepComplete:           {prompt: (*turn).promptHome},
	}
}

// ── Global buttons ──────────────────────────────────────────────────────────

// globalButton handles ids valid in every step: language, navigation and
// the order-level actions.
func (t *turn) globalButton(b button) bool {
	switch b.kind {
	case btnCategory:
		return t.openSection(b.ref)
	case btnItem:
		it, ok := t.e.cat.Item(b.n)
		if !ok {
			return false
		}
		t.pickItem(it)
		return true
	case btnFixed:
	default:
		return false
	}

	switch b.id {
	case BtnLangEN, BtnLangAR:
		t.st.Lang = locale.EN
		if b.id == BtnLangAR {
			t.st.Lang = locale.AR
		}
		t.st.LangChosen = true
		t.promptHome()
	case BtnAddMore:
		t.st.Current = nil
		t.st.Browse = nil
		t.st.Removal = nil
		if len(t.st.Queue) > 0 {
			t.next()
			return true
		}
		t.promptHome()
	case BtnFinishOrder:
		t.finish()
	case BtnCancelOrder:
		t.openModify()
	case BtnNewOrder:
		t.st.ClearPending()
		t.promptHome()
	default:
		return false
	}
	return true
}

// ── Home and items list ─────────────────────────────────────────────────────

func (t *turn) promptLanguage() {
	t.st.Step = session.StepLanguagePick
	t.say(locale.T(locale.EN, locale.KeyChooseLanguage),
		Button{ID: BtnLangEN, Title: locale.T(locale.EN, locale.KeyLangEnglish)},
		Button{ID: BtnLangAR, Title: locale.T(locale.AR, locale.KeyLangArabic)},
	)
}

func (t *turn) typedLanguage() bool {
	lang, ok := locale.Parse(t.text)
	explicit := ok
	if !ok {
		lang, ok = locale.Detect(t.text)
	}
	if !ok {
		return false
	}
	t.st.Lang = lang
	t.st.LangChosen = true
	t.st.Step = session.StepCategorySelection
	if !explicit && len(t.parsed().Intents) > 0 {
		return false
	}
	t.promptHome()
	return true
}

// promptHome shows the category groups.
func (t *turn) promptHome() {
	t.st.Step = session.StepCategorySelection
	t.st.Browse = nil
	t.st.Removal = nil
	buttons := make([]Button, 0, len(t.e.cat.Groups))
	for _, g := range t.e.cat.Groups {
		buttons = append(buttons, categoryButton(g.ID, g.Title(t.lang())))
	}
	t.say(t.tr(locale.KeyChooseCategory), buttons...)
}

// openSection opens a group or a single category from a cat_<id> button.
func (t *turn) openSection(ref string) bool {
	var ids []string
	if g, ok := t.e.cat.Group(ref); ok {
		ids = g.CategoryIDs
	} else if c, ok := t.e.cat.Category(ref); ok {
		ids = []string{c.ID}
	} else {
		return false
	}
	qty := 0
	if t.st.Browse != nil {
		qty = t.st.Browse.Quantity
	}
	t.st.Current = nil
	t.openBrowse(ref, ids, qty)
	return true
}

// openCategory starts the items-list sub-dialogue for a queued category
// intent; its quantity carries over to the picked item.
func (t *turn) openCategory(in order.Intent) {
	if _, ok := t.e.cat.Category(in.CategoryID); !ok {
		t.next()
		return
	}
	t.openBrowse(in.CategoryID, []string{in.CategoryID}, in.Quantity)
}

func (t *turn) openBrowse(source string, ids []string, qty int) {
	t.st.Browse = &session.Browse{Source: source, CategoryIDs: append([]string(nil), ids...), Quantity: qty}
	t.promptItems()
}

func (t *turn) browseTitle() string {
	b := t.st.Browse
	if g, ok := t.e.cat.Group(b.Source); ok {
		return g.Title(t.lang())
	}
	if c, ok := t.e.cat.Category(b.Source); ok {
		return c.Title(t.lang())
	}
	return b.Source
}

// promptItems shows the current page of the items list: one button per item
// plus "more" or, on the last page, "add more".
func (t *turn) promptItems() {
	b := t.st.Browse
	if b == nil {
		t.promptHome()
		return
	}
	t.st.Step = session.StepItemsList
	items := t.e.cat.ItemsIn(b.CategoryIDs...)
	size := t.e.opts.PageSize
	if b.Page*size >= len(items) {
		b.Page = 0
	}
	from := b.Page * size
	to := from + size
	if to > len(items) {
		to = len(items)
	}

	title := t.browseTitle()
	header := t.tr(locale.KeySelectItem, title)
	if b.Quantity > 0 {
		header = t.tr(locale.KeyPickForQuantity, title, b.Quantity)
	}
	text := header
	buttons := make([]Button, 0, size+1)
	for _, it := range items[from:to] {
		text += "\n• " + it.Name(t.lang()) + " - " + money(it.Price) + " " + t.e.opts.Currency
		buttons = append(buttons, itemButton(it.ID, it.Name(t.lang())))
	}
	if to < len(items) {
		buttons = append(buttons, Button{ID: BtnMoreItems, Title: t.tr(locale.KeyMore)})
	} else {
		buttons = append(buttons, Button{ID: BtnAddMore, Title: t.tr(locale.KeyAddMore)})
	}
	t.say(text, buttons...)
}

func (t *turn) itemsListButton(b button) bool {
	if b.id != BtnMoreItems || t.st.Browse == nil {
		return false
	}
	t.st.Browse.Page++
	t.promptItems()
	return true
}

// pickItem handles an item_<id> button. While another item is being
// configured the pick is queued instead.
func (t *turn) pickItem(it *catalog.Item) {
	if t.st.Step.Configuring() {
		in := order.NewItemIntent(it.ID, 1)
		t.st.Enqueue(in)
		t.say(t.tr(locale.KeyQueuedAck, t.e.intentsLabel(t.lang(), []order.Intent{in})))
		t.prompt()
		return
	}
	qty := 0
	if t.st.Browse != nil {
		qty = t.st.Browse.Quantity
	}
	t.beginItem(it, qty, order.PreferenceNone, nil)
}

// ── Queue consumption and item configuration ────────────────────────────────

// next pops the head of the queue and starts resolving it. An empty queue
// ends in the cart decision.
func (t *turn) next() {
	for {
		in, ok := t.st.Dequeue()
		if !ok {
			t.st.Browse = nil
			if len(t.st.Cart) == 0 {
				t.promptHome()
				return
			}
			t.promptCartDecision()
			return
		}
		if !in.IsItem() {
			t.openCategory(in)
			return
		}
		it, ok := t.e.cat.Item(in.ItemID)
		if !ok {
			continue
		}
		qty := in.Quantity
		if qty <= 0 {
			qty = 1
		}
		t.beginItem(it, qty, in.Preference, in.Splits)
		return
	}
}

// beginItem makes it the item being configured. qty 0 means "ask".
func (t *turn) beginItem(it *catalog.Item, qty int, pref order.Preference, splits []order.PreferenceSplit) {
	t.st.Browse = nil
	if !it.NeedsPreference {
		pref = order.PreferenceNone
		splits = nil
	}
	t.st.Current = &session.PendingItem{
		ItemID:     it.ID,
		Preference: pref,
		Splits:     append([]order.PreferenceSplit(nil), splits...),
	}
	if len(splits) > 0 {
		qty = t.st.Current.SplitsTotal()
	}
	t.st.LastItemID = it.ID
	if qty > 0 {
		t.setQuantity(qty)
	}
	t.advanceItem()
}

// currentItem resolves the item being configured. A stale id drops it.
func (t *turn) currentItem() (*catalog.Item, bool) {
	if t.st.Current == nil {
		return nil, false
	}
	it, ok := t.e.cat.Item(t.st.Current.ItemID)
	if !ok {
		t.st.Current = nil
	}
	return it, ok
}

// advanceItem asks the next missing detail of the current item, or commits
// it once nothing is missing.
func (t *turn) advanceItem() {
	it, ok := t.currentItem()
	if !ok {
		t.next()
		return
	}
	cur := t.st.Current
	switch {
	case it.NeedsPreference && cur.Preference == order.PreferenceNone && len(cur.Splits) == 0:
		t.promptPreference()
	case cur.Quantity <= 0:
		t.promptQuantity()
	case t.e.opts.ConfirmItems:
		t.promptConfirm()
	default:
		t.commitItem()
	}
}

// setQuantity stores qty on the current item, capped at MaxQuantity.
func (t *turn) setQuantity(qty int) {
	if limit := t.e.opts.MaxQuantity; qty > limit {
		t.say(t.tr(locale.KeyQuantityCapped, limit, limit))
		qty = limit
	}
	t.st.Current.Quantity = qty
}

// commitItem clears the pending item and pushes one cart line per unit,
// then moves on to the next queued intent.
func (t *turn) commitItem() {
	it, ok := t.currentItem()
	if !ok {
		t.next()
		return
	}
	cur := *t.st.Current
	t.st.Current = nil

	if len(cur.Splits) > 0 {
		for _, s := range cur.Splits {
			t.st.Cart = t.st.Cart.Add(it.ID, s.Preference, it.Price, s.Quantity)
		}
	} else {
		qty := cur.Quantity
		if qty < 1 {
			qty = 1
		}
		cur.Quantity = qty
		t.st.Cart = t.st.Cart.Add(it.ID, cur.Preference, it.Price, qty)
	}
	t.say(t.tr(locale.KeyAddedToCart, t.e.pendingLabel(t.lang(), &cur)))
	t.next()
}

func (t *turn) promptPreference() {
	it, ok := t.currentItem()
	if !ok {
		t.promptHome()
		return
	}
	t.st.Step = session.StepItemPreference
	t.say(t.tr(locale.KeyHowPreference, it.Name(t.lang())),
		Button{ID: BtnPrefSpicy, Title: t.tr(locale.KeySpicy)},
		Button{ID: BtnPrefNonSpicy, Title: t.tr(locale.KeyNonSpicy)},
	)
}

func (t *turn) preferenceButton(b button) bool {
	switch b.id {
	case BtnPrefSpicy:
		t.setPreference(order.PreferenceSpicy)
	case BtnPrefNonSpicy:
		t.setPreference(order.PreferenceNonSpicy)
	default:
		return false
	}
	return true
}

func (t *turn) setPreference(p order.Preference) {
	if t.st.Current == nil {
		t.promptHome()
		return
	}
	t.st.Current.Preference = p
	t.advanceItem()
}

// typedPreference accepts "spicy", "عادي" and split answers such as
// "1 spicy and 2 regular".
func (t *turn) typedPreference() bool {
	if t.st.Current == nil {
		return false
	}
	if splits := t.e.nlu.Extractor.Splits(t.text); len(splits) >= 2 {
		t.st.Current.Splits = splits
		t.st.Current.Preference = order.PreferenceNone
		t.setQuantity(t.st.Current.SplitsTotal())
		if t.st.Current.Quantity < t.st.Current.SplitsTotal() {
			t.st.Current.Splits = nil
			t.st.Current.Quantity = 0
			t.promptPreference()
			return true
		}
		t.advanceItem()
		return true
	}
	p, ok := t.detector().Preference(t.text)
	if !ok {
		return false
	}
	t.setPreference(p)
	return true
}

func (t *turn) promptQuantity() {
	it, ok := t.currentItem()
	if !ok {
		t.promptHome()
		return
	}
	t.st.Step = session.StepItemQuantity
	t.say(t.tr(locale.KeyHowMany, t.e.itemLabel(t.lang(), it.ID, t.st.Current.Preference)),
		qtyButton(1), qtyButton(2),
		Button{ID: BtnQtyMore, Title: t.tr(locale.KeyOtherQuantity)},
	)
}

func (t *turn) promptManualQuantity() {
	if t.st.Current == nil {
		t.promptHome()
		return
	}
	t.st.Step = session.StepItemQuantityManual
	t.say(t.tr(locale.KeyTypeQuantity, t.e.opts.MaxQuantity))
}

func (t *turn) quantityButton(b button) bool {
	if t.st.Current == nil {
		return false
	}
	switch {
	case b.kind == btnQty:
		t.setQuantity(b.n)
		t.advanceItem()
	case b.id == BtnQtyMore:
		t.promptManualQuantity()
	default:
		return false
	}
	return true
}

// typedQuantity accepts a number. Text that also names menu items is left
// to the extractor so it gets queued instead.
func (t *turn) typedQuantity() bool {
	if t.st.Current == nil || len(t.parsed().Intents) > 0 {
		return false
	}
	n, ok := t.detector().Quantity(t.text)
	if !ok {
		return false
	}
	if n <= 0 {
		t.say(t.tr(locale.KeyInvalidQuantity, t.e.opts.MaxQuantity))
		t.prompt()
		return true
	}
	t.setQuantity(n)
	t.advanceItem()
	return true
}

func (t *turn) promptConfirm() {
	if t.st.Current == nil {
		t.promptHome()
		return
	}
	t.st.Step = session.StepItemConfirm
	t.say(t.tr(locale.KeyConfirmItem, t.e.pendingLabel(t.lang(), t.st.Current)),
		Button{ID: BtnConfirmYes, Title: t.tr(locale.KeyYes)},
		Button{ID: BtnConfirmNo, Title: t.tr(locale.KeyNo)},
	)
}

func (t *turn) confirmButton(b button) bool {
	switch b.id {
	case BtnConfirmYes:
		t.confirmItem(true)
	case BtnConfirmNo:
		t.confirmItem(false)
	default:
		return false
	}
	return true
}

func (t *turn) typedConfirm() bool {
	if len(t.parsed().Intents) > 0 {
		return false
	}
	yes, ok := t.detector().Confirmation(t.text)
	if !ok {
		return false
	}
	t.confirmItem(yes)
	return true
}

// confirmItem commits or skips the current item; a declined item never
// blocks the queue.
func (t *turn) confirmItem(yes bool) {
	if t.st.Current == nil {
		t.next()
		return
	}
	if yes {
		t.commitItem()
		return
	}
	label := t.e.pendingLabel(t.lang(), t.st.Current)
	t.st.Current = nil
	t.say(t.tr(locale.KeyItemSkipped, label))
	t.next()
}

// ── Cart decision, payment and completion ───────────────────────────────────

func (t *turn) promptCartDecision() {
	if len(t.st.Cart) == 0 {
		t.promptHome()
		return
	}
	t.st.Step = session.StepCartDecision
	t.say(t.e.cartSummary(t.lang(), t.st.Cart))
	t.say(t.tr(locale.KeyWhatNext),
		Button{ID: BtnAddMore, Title: t.tr(locale.KeyAddMore)},
		Button{ID: BtnFinishOrder, Title: t.tr(locale.KeyFinishOrder)},
		Button{ID: BtnCancelOrder, Title: t.tr(locale.KeyCancelOrder)},
	)
}

// finish moves to payment. An empty cart stays where it is.
func (t *turn) finish() {
	if len(t.st.Cart) == 0 {
		t.say(t.tr(locale.KeyCartEmpty))
		if t.st.Step == session.StepInit || t.st.Step == session.StepLanguagePick {
			t.promptHome()
			return
		}
		t.prompt()
		return
	}
	t.st.ClearPending()
	t.promptPayment()
}

func (t *turn) promptPayment() {
	t.st.Step = session.StepPaymentMethod
	t.say(t.e.cartSummary(t.lang(), t.st.Cart))
	t.say(t.tr(locale.KeyChoosePayment),
		Button{ID: BtnPayCash, Title: t.tr(locale.KeyCash)},
		Button{ID: BtnPayOnline, Title: t.tr(locale.KeyOnline)},
	)
}

func (t *turn) paymentButton(b button) bool {
	switch b.id {
	case BtnPayCash:
		t.choosePayment(order.PaymentCash)
	case BtnPayOnline:
		t.choosePayment(order.PaymentOnline)
	default:
		return false
	}
	return true
}

func (t *turn) typedPayment() bool {
	p, ok := t.detector().Payment(t.text)
	if !ok {
		return false
	}
	t.choosePayment(p)
	return true
}

func (t *turn) choosePayment(p order.PaymentMethod) {
	t.st.PaymentMethod = p
	t.promptReview()
}

func (t *turn) promptReview() {
	if len(t.st.Cart) == 0 {
		t.promptHome()
		return
	}
	if !t.st.PaymentMethod.Valid() {
		t.promptPayment()
		return
	}
	t.st.Step = session.StepOrderSummary
	text := t.tr(locale.KeyReviewOrder) + "\n\n" + t.e.cartSummary(t.lang(), t.st.Cart) +
		"\n" + t.tr(locale.KeyPaymentLabel, paymentLabel(t.lang(), t.st.PaymentMethod))
	t.say(text,
		Button{ID: BtnConfirmOrder, Title: t.tr(locale.KeyConfirmOrder)},
		Button{ID: BtnAddMore, Title: t.tr(locale.KeyAddMore)},
		Button{ID: BtnCancelOrder, Title: t.tr(locale.KeyCancelOrder)},
	)
}

func (t *turn) summaryButton(b button) bool {
	if b.id != BtnConfirmOrder {
		return false
	}
	t.completeOrder()
	return true
}

func (t *turn) typedSummary() bool {
	yes, ok := t.detector().Confirmation(t.text)
	if !ok {
		return false
	}
	if yes {
		t.completeOrder()
		return true
	}
	t.promptCartDecision()
	return true
}

// completeOrder snapshots the cart into an order, renders the receipt and
// returns the session to INIT.
func (t *turn) completeOrder() {
	o, err := order.NewOrder(t.st.SessionID, t.lang(), t.st.PaymentMethod, t.st.Cart, t.e.cat, t.e.opts.Currency)
	if err != nil {
		t.say(t.tr(locale.KeyCartEmpty))
		t.promptHome()
		return
	}
	t.res.Completed = o
	t.res.Outcome = OutcomeCompleted
	t.say(t.e.receipt(t.lang(), o), Button{ID: BtnNewOrder, Title: t.tr(locale.KeyNewOrder)})
	t.st.LastOrderID = o.ID
	t.st.ResetOrder()
}

// ── Modify / cancel sub-flow ────────────────────────────────────────────────

func (t *turn) openModify() {
	if len(t.st.Cart) == 0 {
		t.say(t.tr(locale.KeyCartEmpty))
		t.st.ClearPending()
		t.promptHome()
		return
	}
	t.st.ClearPending()
	t.promptModify()
}

func (t *turn) promptModify() {
	t.st.Step = session.StepModifyDecision
	t.say(t.tr(locale.KeyCancelMenu),
		Button{ID: BtnCancelAll, Title: t.tr(locale.KeyCancelAll)},
		Button{ID: BtnCancelItem, Title: t.tr(locale.KeyCancelItem)},
		Button{ID: BtnCancelGoBack, Title: t.tr(locale.KeyGoBack)},
	)
}

func (t *turn) modifyButton(b button) bool {
	switch b.id {
	case BtnCancelAll:
		t.promptCancelAll()
	case BtnCancelItem:
		t.openRemoval()
	case BtnCancelGoBack:
		t.promptCartDecision()
	default:
		return false
	}
	return true
}

func (t *turn) promptCancelAll() {
	t.st.Step = session.StepCancelAllConfirm
	t.say(t.tr(locale.KeyCancelAllConfirm),
		Button{ID: BtnCancelAllYes, Title: t.tr(locale.KeyCancelAllYes)},
		Button{ID: BtnCancelAllNo, Title: t.tr(locale.KeyCancelAllNo)},
	)
}

func (t *turn) cancelAllButton(b button) bool {
	switch b.id {
	case BtnCancelAllYes:
		t.cancelAll(true)
	case BtnCancelAllNo:
		t.cancelAll(false)
	default:
		return false
	}
	return true
}

func (t *turn) typedCancelAll() bool {
	yes, ok := t.detector().Confirmation(t.text)
	if !ok {
		return false
	}
	t.cancelAll(yes)
	return true
}

func (t *turn) cancelAll(yes bool) {
	if !yes {
		t.promptCartDecision()
		return
	}
	t.st.ResetOrder()
	t.say(t.tr(locale.KeyCancelSuccess))
	t.promptHome()
}

// openRemoval lists the cart groups so one can be picked for removal.
func (t *turn) openRemoval() {
	t.st.Removal = &session.Removal{}
	t.promptRemoval()
}

func (t *turn) promptRemoval() {
	groups := t.st.Cart.Groups()
	if len(groups) == 0 {
		t.st.Removal = nil
		t.say(t.tr(locale.KeyCartEmpty))
		t.promptHome()
		return
	}
	if t.st.Removal == nil {
		t.st.Removal = &session.Removal{}
	}
	r := t.st.Removal
	r.Selected = nil
	size := t.e.opts.PageSize
	if r.Page*size >= len(groups) {
		r.Page = 0
	}
	from := r.Page * size
	to := from + size
	if to > len(groups) {
		to = len(groups)
	}

	t.st.Step = session.StepRemoveItemSelect
	text := t.tr(locale.KeySelectRemove)
	buttons := make([]Button, 0, size+1)
	for _, g := range groups[from:to] {
		label := t.e.lineLabel(t.lang(), g.Key.ItemID, g.Key.Preference, g.Quantity)
		text += "\n• " + label
		buttons = append(buttons, removeGroupButton(g.Key, t.e.itemLabel(t.lang(), g.Key.ItemID, g.Key.Preference)))
	}
	if to < len(groups) {
		buttons = append(buttons, Button{ID: BtnRemoveMore, Title: t.tr(locale.KeyMore)})
	} else {
		buttons = append(buttons, Button{ID: BtnCancelGoBack, Title: t.tr(locale.KeyGoBack)})
	}
	t.say(text, buttons...)
}

func (t *turn) removalButton(b button) bool {
	switch {
	case b.kind == btnRemoveGroup:
		if t.st.Cart.Count(b.group) == 0 {
			return false
		}
		if t.st.Removal == nil {
			t.st.Removal = &session.Removal{}
		}
		k := b.group
		t.st.Removal.Selected = &k
		t.promptRemoveQuantity()
	case b.id == BtnRemoveMore:
		if t.st.Removal == nil {
			t.st.Removal = &session.Removal{}
		}
		t.st.Removal.Page++
		t.promptRemoval()
	case b.id == BtnCancelGoBack:
		t.st.Removal = nil
		t.promptCartDecision()
	default:
		return false
	}
	return true
}

// selectedGroup returns the group picked for removal and its size.
func (t *turn) selectedGroup() (order.GroupKey, int, bool) {
	if t.st.Removal == nil || t.st.Removal.Selected == nil {
		return order.GroupKey{}, 0, false
	}
	k := *t.st.Removal.Selected
	n := t.st.Cart.Count(k)
	return k, n, n > 0
}

// promptRemoveQuantity offers 1..N when the group is small, otherwise 1, 2
// and "all".
func (t *turn) promptRemoveQuantity() {
	k, n, ok := t.selectedGroup()
	if !ok {
		t.promptRemoval()
		return
	}
	t.st.Step = session.StepItemRemoveQuantity
	var buttons []Button
	if n <= t.e.opts.RemoveAllThreshold {
		for i := 1; i <= n; i++ {
			buttons = append(buttons, qtyRemoveButton(i))
		}
	} else {
		buttons = []Button{
			qtyRemoveButton(1), qtyRemoveButton(2),
			{ID: BtnQtyRemoveAll, Title: t.tr(locale.KeyRemoveAll)},
		}
	}
	t.say(t.tr(locale.KeyHowManyRemove, n, t.e.itemLabel(t.lang(), k.ItemID, k.Preference)), buttons...)
}

func (t *turn) removeQuantityButton(b button) bool {
	if b.kind != btnQtyRemove {
		return false
	}
	_, n, ok := t.selectedGroup()
	if !ok {
		return false
	}
	qty := b.n
	if qty == removeAllSentinel {
		qty = n
	}
	t.removeFromGroup(qty)
	return true
}

func (t *turn) typedRemoveQuantity() bool {
	_, n, ok := t.selectedGroup()
	if !ok {
		return false
	}
	if t.detector().WantsAll(t.text) {
		t.removeFromGroup(n)
		return true
	}
	qty, ok := t.detector().Quantity(t.text)
	if !ok {
		return false
	}
	if qty <= 0 {
		t.say(t.tr(locale.KeyInvalidQuantity, n))
		t.promptRemoveQuantity()
		return true
	}
	t.removeFromGroup(qty)
	return true
}

// removeFromGroup removes up to qty lines of the selected group, capped at
// the group size; every other line is left untouched.
func (t *turn) removeFromGroup(qty int) {
	k, n, ok := t.selectedGroup()
	if !ok {
		t.promptRemoval()
		return
	}
	if qty > n {
		qty = n
	}
	var removed int
	t.st.Cart, removed = t.st.Cart.Remove(k, qty)
	t.st.Removal = nil
	t.say(t.tr(locale.KeyRemoved, removed, t.e.itemLabel(t.lang(), k.ItemID, k.Preference)))
	t.afterCartChange()
}
