package locale

import "fmt"

// Key identifies a user-facing phrase.
type Key string

const (
	KeyWelcome          Key = "welcome"
	KeyBranches         Key = "branches"
	KeyChooseLanguage   Key = "choose_language"
	KeyLangEnglish      Key = "lang_english"
	KeyLangArabic       Key = "lang_arabic"
	KeyChooseCategory   Key = "choose_category"
	KeySelectItem       Key = "select_item"
	KeyMore             Key = "more"
	KeyAddMore          Key = "add_more"
	KeyFinishOrder      Key = "finish_order"
	KeyCancelOrder      Key = "cancel_order"
	KeyHowMany          Key = "how_many"
	KeyTypeQuantity     Key = "type_quantity"
	KeyOtherQuantity    Key = "other_quantity"
	KeyInvalidQuantity  Key = "invalid_quantity"
	KeyQuantityCapped   Key = "quantity_capped"
	KeyHowPreference    Key = "how_preference"
	KeySpicy            Key = "spicy"
	KeyNonSpicy         Key = "non_spicy"
	KeyConfirmItem      Key = "confirm_item"
	KeyYes              Key = "yes"
	KeyNo               Key = "no"
	KeyAddedToCart      Key = "added_to_cart"
	KeyItemSkipped      Key = "item_skipped"
	KeyQueuedAck        Key = "queued_ack"
	KeyOrderSummary     Key = "order_summary"
	KeyTotal            Key = "total"
	KeyCartEmpty        Key = "cart_empty"
	KeyWhatNext         Key = "what_next"
	KeyChoosePayment    Key = "choose_payment"
	KeyCash             Key = "cash"
	KeyOnline           Key = "online"
	KeyPaymentLabel     Key = "payment_label"
	KeyReviewOrder      Key = "review_order"
	KeyConfirmOrder     Key = "confirm_order"
	KeyOrderConfirmed   Key = "order_confirmed"
	KeyNewOrder         Key = "new_order"
	KeyCancelMenu       Key = "cancel_menu"
	KeyCancelAll        Key = "cancel_all"
	KeyCancelItem       Key = "cancel_item"
	KeyGoBack           Key = "go_back"
	KeyCancelAllConfirm Key = "cancel_all_confirm"
	KeyCancelAllYes     Key = "cancel_all_yes"
	KeyCancelAllNo      Key = "cancel_all_no"
	KeyCancelSuccess    Key = "cancel_success"
	KeySelectRemove     Key = "select_remove"
	KeyHowManyRemove    Key = "how_many_remove"
	KeyRemoveAll        Key = "remove_all"
	KeyRemoved          Key = "removed"
	KeyNotInCart        Key = "not_in_cart"
	KeyQuantityUpdated  Key = "quantity_updated"
	KeyPickForQuantity  Key = "pick_for_quantity"
	KeyBrowseCategory   Key = "browse_category"
	KeyDidntUnderstand  Key = "didnt_understand"
	KeyUseButtons       Key = "use_buttons"
	KeyHelpOrdering     Key = "help_ordering"
	KeyIrrelevant       Key = "irrelevant"
	KeyApology          Key = "apology"
	KeyThankYou         Key = "thank_you"
)

var phrases = map[Lang]map[Key]string{
	EN: {
		KeyWelcome:          "Welcome to %s! 👋",
		KeyBranches:         "📍 Our branches:",
		KeyChooseLanguage:   "Please choose your language / الرجاء اختيار اللغة",
		KeyLangEnglish:      "English",
		KeyLangArabic:       "العربية",
		KeyChooseCategory:   "What would you like to order? Choose a section or just type your order (e.g. \"2 beef burgers and 1 pepsi\").",
		KeySelectItem:       "Please choose an item from %s:",
		KeyMore:             "More ➡️",
		KeyAddMore:          "Add more",
		KeyFinishOrder:      "Finish order",
		KeyCancelOrder:      "Cancel / modify",
		KeyHowMany:          "How many %s would you like?",
		KeyTypeQuantity:     "Please type the quantity (1-%d):",
		KeyOtherQuantity:    "Other quantity",
		KeyInvalidQuantity:  "Please enter a valid quantity between 1 and %d.",
		KeyQuantityCapped:   "The maximum per item is %d, so I used %d.",
		KeyHowPreference:    "How would you like your %s?",
		KeySpicy:            "Spicy 🌶️",
		KeyNonSpicy:         "Regular",
		KeyConfirmItem:      "Add %s to your cart?",
		KeyYes:              "Yes ✅",
		KeyNo:               "No ❌",
		KeyAddedToCart:      "✅ Added %s to your cart.",
		KeyItemSkipped:      "OK, I skipped %s.",
		KeyQueuedAck:        "Got it, I'll add %s next.",
		KeyOrderSummary:     "🧾 Your order:",
		KeyTotal:            "Total: %s %s",
		KeyCartEmpty:        "Your cart is empty. Add something first 🙂",
		KeyWhatNext:         "Would you like to add more or finish your order?",
		KeyChoosePayment:    "How would you like to pay?",
		KeyCash:             "Cash 💵",
		KeyOnline:           "Online 💳",
		KeyPaymentLabel:     "Payment: %s",
		KeyReviewOrder:      "Please review your order and confirm:",
		KeyConfirmOrder:     "Confirm order",
		KeyOrderConfirmed:   "🎉 Your order #%s is confirmed! Thank you for choosing %s.",
		KeyNewOrder:         "New order",
		KeyCancelMenu:       "What would you like to do?",
		KeyCancelAll:        "Cancel whole order",
		KeyCancelItem:       "Remove an item",
		KeyGoBack:           "Go back",
		KeyCancelAllConfirm: "Are you sure you want to cancel the whole order?",
		KeyCancelAllYes:     "Yes, cancel",
		KeyCancelAllNo:      "No, keep it",
		KeyCancelSuccess:    "Your order has been cancelled.",
		KeySelectRemove:     "Which item would you like to remove?",
		KeyHowManyRemove:    "You have %d × %s. How many should I remove?",
		KeyRemoveAll:        "All",
		KeyRemoved:          "🗑️ Removed %d × %s.",
		KeyNotInCart:        "%s is not in your cart.",
		KeyQuantityUpdated:  "Updated %s to %d.",
		KeyPickForQuantity:  "Which %s would you like? (quantity %d)",
		KeyBrowseCategory:   "Here are our %s:",
		KeyDidntUnderstand:  "Sorry, I didn't understand that.",
		KeyUseButtons:       "Please choose one of the options below.",
		KeyHelpOrdering:     "You can pick a section or type an order like \"2 beef burgers and 3 coffee\".",
		KeyIrrelevant:       "I can only help with food orders 🍔. Here's our menu:",
		KeyApology:          "Sorry, something went wrong on our side. Let's continue from the menu.",
		KeyThankYou:         "Thank you! 🙏",
	},
	AR: {
		KeyWelcome:          "أهلاً بك في %s! 👋",
		KeyBranches:         "📍 فروعنا:",
		KeyChooseLanguage:   "الرجاء اختيار اللغة / Please choose your language",
		KeyLangEnglish:      "English",
		KeyLangArabic:       "العربية",
		KeyChooseCategory:   "ماذا تود أن تطلب؟ اختر القسم أو اكتب طلبك مباشرة (مثال: \"٢ برجر لحم و ١ بيبسي\").",
		KeySelectItem:       "الرجاء اختيار صنف من %s:",
		KeyMore:             "المزيد ⬅️",
		KeyAddMore:          "إضافة المزيد",
		KeyFinishOrder:      "إنهاء الطلب",
		KeyCancelOrder:      "إلغاء / تعديل",
		KeyHowMany:          "كم عدد %s الذي تريده؟",
		KeyTypeQuantity:     "الرجاء كتابة الكمية (1-%d):",
		KeyOtherQuantity:    "كمية أخرى",
		KeyInvalidQuantity:  "الرجاء إدخال كمية صحيحة بين 1 و %d.",
		KeyQuantityCapped:   "الحد الأقصى لكل صنف هو %d، لذلك استخدمت %d.",
		KeyHowPreference:    "كيف تفضل %s؟",
		KeySpicy:            "حار 🌶️",
		KeyNonSpicy:         "عادي",
		KeyConfirmItem:      "هل تريد إضافة %s إلى السلة؟",
		KeyYes:              "نعم ✅",
		KeyNo:               "لا ❌",
		KeyAddedToCart:      "✅ تمت إضافة %s إلى سلتك.",
		KeyItemSkipped:      "حسناً، تم تخطي %s.",
		KeyQueuedAck:        "تمام، سأضيف %s بعد ذلك.",
		KeyOrderSummary:     "🧾 طلبك:",
		KeyTotal:            "المجموع: %s %s",
		KeyCartEmpty:        "سلتك فارغة. أضف شيئاً أولاً 🙂",
		KeyWhatNext:         "هل تريد إضافة المزيد أم إنهاء الطلب؟",
		KeyChoosePayment:    "كيف تفضل الدفع؟",
		KeyCash:             "كاش 💵",
		KeyOnline:           "أونلاين 💳",
		KeyPaymentLabel:     "طريقة الدفع: %s",
		KeyReviewOrder:      "الرجاء مراجعة طلبك وتأكيده:",
		KeyConfirmOrder:     "تأكيد الطلب",
		KeyOrderConfirmed:   "🎉 تم تأكيد طلبك رقم %s! شكراً لاختيارك %s.",
		KeyNewOrder:         "طلب جديد",
		KeyCancelMenu:       "ماذا تريد أن تفعل؟",
		KeyCancelAll:        "إلغاء الطلب كاملاً",
		KeyCancelItem:       "حذف صنف",
		KeyGoBack:           "رجوع",
		KeyCancelAllConfirm: "هل أنت متأكد من إلغاء الطلب بالكامل؟",
		KeyCancelAllYes:     "نعم، ألغِ الطلب",
		KeyCancelAllNo:      "لا، أبقِه",
		KeyCancelSuccess:    "تم إلغاء طلبك.",
		KeySelectRemove:     "أي صنف تريد حذفه؟",
		KeyHowManyRemove:    "لديك %d × %s. كم تريد أن تحذف؟",
		KeyRemoveAll:        "الكل",
		KeyRemoved:          "🗑️ تم حذف %d × %s.",
		KeyNotInCart:        "%s غير موجود في سلتك.",
		KeyQuantityUpdated:  "تم تعديل %s إلى %d.",
		KeyPickForQuantity:  "أي %s تريد؟ (الكمية %d)",
		KeyBrowseCategory:   "إليك %s:",
		KeyDidntUnderstand:  "عذراً، لم أفهم ذلك.",
		KeyUseButtons:       "الرجاء اختيار أحد الخيارات أدناه.",
		KeyHelpOrdering:     "يمكنك اختيار قسم أو كتابة طلبك مثل \"٢ برجر لحم و ٣ قهوة\".",
		KeyIrrelevant:       "أستطيع مساعدتك في طلبات الطعام فقط 🍔. إليك قائمتنا:",
		KeyApology:          "عذراً، حدث خطأ من جهتنا. لنكمل من القائمة.",
		KeyThankYou:         "شكراً لك! 🙏",
	},
}

// T returns the phrase for key in lang, formatted with args. Unknown
// languages fall back to English; an unknown key renders as the key itself.
func T(lang Lang, key Key, args ...interface{}) string {
	table, ok := phrases[lang]
	if !ok {
		table = phrases[Default]
	}
	s, ok := table[key]
	if !ok {
		s, ok = phrases[Default][key]
		if !ok {
			return string(key)
		}
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// Keys returns every phrase key defined for lang.
func Keys(lang Lang) []Key {
	out := make([]Key, 0, len(phrases[lang]))
	for k := range phrases[lang] {
		out = append(out, k)
	}
	return out
}
