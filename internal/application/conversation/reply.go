package conversation

import (
	"strconv"
	"strings"

	"github.com/turtacn/Joana-OrderBot/internal/domain/order"
)

// Button is a quick-reply option. Transports echo ID back verbatim as the
// next turn's text.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is one outgoing chat bubble, delivered in order.
type Message struct {
	Text    string   `json:"text"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Outcome labels how a turn was handled, for metrics and logs.
type Outcome string

const (
	OutcomeHandled       Outcome = "handled"
	OutcomeParseFailure  Outcome = "parse_failure"
	OutcomeUnknownButton Outcome = "unknown_button"
	OutcomeCompleted     Outcome = "completed"
	OutcomeRecovered     Outcome = "recovered"
)

// Button ids and prefixes.
const (
	BtnLangEN       = "lang_en"
	BtnLangAR       = "lang_ar"
	BtnMoreItems    = "more_items"
	BtnAddMore      = "add_more"
	BtnQtyMore      = "qty_more"
	BtnPrefSpicy    = "pref_spicy"
	BtnPrefNonSpicy = "pref_non_spicy"
	BtnConfirmYes   = "confirm_yes"
	BtnConfirmNo    = "confirm_no"
	BtnFinishOrder  = "finish_order"
	BtnCancelOrder  = "cancel_order"
	BtnPayCash      = "pay_cash"
	BtnPayOnline    = "pay_online"
	BtnConfirmOrder = "confirm_order"
	BtnNewOrder     = "new_order"
	BtnCancelAll    = "cancel_all"
	BtnCancelItem   = "cancel_item"
	BtnCancelGoBack = "cancel_go_back"
	BtnCancelAllYes = "cancel_all_yes"
	BtnCancelAllNo  = "cancel_all_no"
	BtnRemoveMore   = "remove_more"
	BtnQtyRemoveAll = "qty_remove_all"
)

const (
	prefixCategory  = "cat_"
	prefixItem      = "item_"
	prefixQty       = "qty_"
	prefixRemove    = "remove_group_"
	prefixQtyRemove = "qty_remove_"

	removeAllSentinel = -1
)

// buttonKind classifies a parsed button id.
type buttonKind int

const (
	btnNone buttonKind = iota
	btnFixed
	btnCategory
	btnItem
	btnQty
	btnRemoveGroup
	btnQtyRemove
)

// button is a parsed button id. Fixed buttons keep their id in id; the
// parametrised ones carry their argument.
type button struct {
	kind  buttonKind
	id    string
	ref   string
	n     int
	group order.GroupKey
}

var fixedButtons = map[string]bool{
	BtnLangEN: true, BtnLangAR: true, BtnMoreItems: true, BtnAddMore: true, BtnQtyMore: true,
	BtnPrefSpicy: true, BtnPrefNonSpicy: true, BtnConfirmYes: true, BtnConfirmNo: true,
	BtnFinishOrder: true, BtnCancelOrder: true, BtnPayCash: true, BtnPayOnline: true,
	BtnConfirmOrder: true, BtnNewOrder: true, BtnCancelAll: true, BtnCancelItem: true,
	BtnCancelGoBack: true, BtnCancelAllYes: true, BtnCancelAllNo: true, BtnRemoveMore: true,
}

// parseButton recognises button ids. Anything else is typed text.
func parseButton(text string) (button, bool) {
	s := strings.TrimSpace(text)
	if fixedButtons[s] {
		return button{kind: btnFixed, id: s}, true
	}
	switch {
	case s == BtnQtyRemoveAll:
		return button{kind: btnQtyRemove, id: s, n: removeAllSentinel}, true
	case strings.HasPrefix(s, prefixQtyRemove):
		if n, err := strconv.Atoi(strings.TrimPrefix(s, prefixQtyRemove)); err == nil && n > 0 {
			return button{kind: btnQtyRemove, id: s, n: n}, true
		}
	case strings.HasPrefix(s, prefixRemove):
		if k, ok := order.ParseGroupKey(strings.TrimPrefix(s, prefixRemove)); ok {
			return button{kind: btnRemoveGroup, id: s, group: k}, true
		}
	case strings.HasPrefix(s, prefixQty):
		if n, err := strconv.Atoi(strings.TrimPrefix(s, prefixQty)); err == nil && n > 0 {
			return button{kind: btnQty, id: s, n: n}, true
		}
	case strings.HasPrefix(s, prefixItem):
		if n, err := strconv.Atoi(strings.TrimPrefix(s, prefixItem)); err == nil && n > 0 {
			return button{kind: btnItem, id: s, n: n}, true
		}
	case strings.HasPrefix(s, prefixCategory):
		if ref := strings.TrimPrefix(s, prefixCategory); ref != "" && !strings.ContainsAny(ref, " \t") {
			return button{kind: btnCategory, id: s, ref: ref}, true
		}
	}
	return button{}, false
}

// looksLikeButton reports machine-shaped ids that failed to parse, such as
// a stale "item_abc" or "qty_0".
func looksLikeButton(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	for _, p := range []string{prefixCategory, prefixItem, prefixQty, prefixRemove, "pref_", "confirm_", "pay_", "lang_", "cancel_"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func categoryButton(id, title string) Button { return Button{ID: prefixCategory + id, Title: title} }

func itemButton(id int, title string) Button {
	return Button{ID: prefixItem + strconv.Itoa(id), Title: title}
}

func qtyButton(n int) Button { return Button{ID: prefixQty + strconv.Itoa(n), Title: strconv.Itoa(n)} }

func removeGroupButton(k order.GroupKey, title string) Button {
	return Button{ID: prefixRemove + k.String(), Title: title}
}

func qtyRemoveButton(n int) Button {
	return Button{ID: prefixQtyRemove + strconv.Itoa(n), Title: strconv.Itoa(n)}
}
