// Package session models one customer's conversation: the dialogue step, the
// cart, the pending intent queue and the sub-flow context. State values are
// passed into and returned from each turn; stores persist them by session id.
package session

// Step is the dialogue state tag.
type Step string

const (
	StepInit               Step = "INIT"
	StepLanguagePick       Step = "LANGUAGE_PICK"
	StepCategorySelection  Step = "CATEGORY_SELECTION"
	StepItemsList          Step = "ITEMS_LIST"
	StepItemPreference     Step = "ITEM_PREFERENCE"
	StepItemQuantity       Step = "ITEM_QUANTITY"
	StepItemQuantityManual Step = "ITEM_QUANTITY_MANUAL"
	StepItemConfirm        Step = "ITEM_CONFIRM"
	StepCartDecision       Step = "CART_DECISION"
	StepPaymentMethod      Step = "PAYMENT_METHOD"
	StepOrderSummary       Step = "ORDER_SUMMARY"
	StepModifyDecision     Step = "MODIFY_DECISION"
	StepCancelAllConfirm   Step = "CANCEL_ALL_CONFIRM"
	StepRemoveItemSelect   Step = "REMOVE_ITEM_SELECT"
	StepItemRemoveQuantity Step = "ITEM_REMOVE_QUANTITY"
	StepComplete           Step = "COMPLETE"
)

// AllSteps lists every step in flow order.
var AllSteps = []Step{
	StepInit, StepLanguagePick, StepCategorySelection, StepItemsList,
	StepItemPreference, StepItemQuantity, StepItemQuantityManual, StepItemConfirm,
	StepCartDecision, StepPaymentMethod, StepOrderSummary, StepModifyDecision,
	StepCancelAllConfirm, StepRemoveItemSelect, StepItemRemoveQuantity, StepComplete,
}

// String implements fmt.Stringer.
func (s Step) String() string { return string(s) }

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	for _, v := range AllSteps {
		if v == s {
			return true
		}
	}
	return false
}

// Configuring reports whether the step is part of configuring a single item,
// where new orders are queued rather than started.
func (s Step) Configuring() bool {
	switch s {
	case StepItemPreference, StepItemQuantity, StepItemQuantityManual, StepItemConfirm:
		return true
	}
	return false
}

// AwaitsTypedAnswer reports whether the step expects a specific typed reply
// that must be tried before the global interceptors.
func (s Step) AwaitsTypedAnswer() bool {
	switch s {
	case StepLanguagePick, StepItemPreference, StepItemQuantity, StepItemQuantityManual,
		StepItemConfirm, StepPaymentMethod, StepOrderSummary, StepCancelAllConfirm,
		StepItemRemoveQuantity:
		return true
	}
	return false
}
