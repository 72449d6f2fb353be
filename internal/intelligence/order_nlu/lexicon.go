package order_nlu

import "strings"

// Word lists are written in natural spelling; they are folded once at
// package init so lookups happen in the normalized space.

var rawTyposEN = map[string]string{
	// burger
	"burgers": "burger", "brgr": "burger", "brger": "burger", "buger": "burger", "bugger": "burger",
	"burge": "burger", "burgr": "burger", "burgar": "burger", "burgur": "burger", "berger": "burger",
	"burgir": "burger", "burgrr": "burger", "burgeer": "burger", "burgerr": "burger", "burguer": "burger",
	"burgre": "burger", "burgger": "burger", "burgerz": "burger", "burgars": "burger", "burgurs": "burger",
	"burder": "burger", "birger": "burger", "borger": "burger", "burgere": "burger", "brgrs": "burger",
	"borgar": "burger", "borgir": "burger", "burgeur": "burger",
	"broasted": "barosted", "brost": "barosted", "brostid": "barosted", "brosted": "barosted",

	// chicken
	"chickens": "chicken", "chicke": "chicken", "chiken": "chicken", "chickin": "chicken", "chikn": "chicken",
	"chcken": "chicken", "chickn": "chicken", "chikken": "chicken", "chicen": "chicken", "chickenn": "chicken",
	"chckn": "chicken", "chkn": "chicken", "chckin": "chicken", "chikeen": "chicken", "chickeen": "chicken",
	"chikin": "chicken", "cheken": "chicken", "chekin": "chicken", "cicken": "chicken", "chicekn": "chicken",

	// beef
	"beefs": "beef", "befe": "beef", "beefe": "beef", "bef": "beef", "beaf": "beef", "beeff": "beef",
	"beif": "beef", "beff": "beef", "beefz": "beef", "bif": "beef",

	// coffee
	"coffees": "coffee", "coffe": "coffee", "cofee": "coffee", "coffie": "coffee", "coffi": "coffee",
	"coffy": "coffee", "coffey": "coffee", "cofe": "coffee", "koffee": "coffee", "kofee": "coffee",
	"koffe": "coffee", "cofey": "coffee", "cofi": "coffee", "cafe": "coffee", "caffe": "coffee",
	"kofie": "coffee", "cofy": "coffee",

	// water
	"waters": "water", "watr": "water", "wter": "water", "waiter": "water", "watere": "water",
	"watter": "water", "wateer": "water", "waterr": "water",

	// wraps and tortilla
	"wraps": "wrap", "wrp": "wrap", "warp": "wrap", "wrapp": "wrap",
	"tortillas": "tortilla", "torta": "tortilla", "tortila": "tortilla", "tortela": "tortilla",

	// sandwich
	"sandwiches": "sandwich", "sandwch": "sandwich", "sandwhich": "sandwich", "sandwitch": "sandwich",
	"sanwich": "sandwich", "sandwic": "sandwich", "sandwih": "sandwich", "sandwish": "sandwich",
	"sandwichh": "sandwich",

	// juice
	"juices": "juice", "juic": "juice", "juce": "juice", "juise": "juice", "juis": "juice",
	"jucie": "juice", "juicee": "juice", "juuce": "juice", "juiz": "juice",

	// pepsi
	"pepsis": "pepsi", "pepsy": "pepsi", "bepsy": "pepsi", "bessi": "pepsi", "pepci": "pepsi",
	"pepsii": "pepsi", "pepsie": "pepsi", "pepzie": "pepsi", "peps": "pepsi",

	// zinger and kabab
	"zingers": "zinger", "singer": "zinger", "zenger": "zinger", "senger": "zinger", "zingr": "zinger",
	"zingir": "zinger", "zingar": "zinger", "zingur": "zinger", "zinjer": "zinger", "singar": "zinger",
	"kebab": "kabab", "kabat": "kabab", "kaba": "kabab", "kebap": "kabab",

	// nuggets, meal, potato, fries
	"nugget": "nuggets", "nugit": "nuggets", "nugets": "nuggets", "nugetts": "nuggets",
	"meals": "meal", "meel": "meal", "meeal": "meal", "meale": "meal", "mealz": "meal",
	"potatoes": "potato", "poteto": "potato", "potatto": "potato", "potatoe": "potato",
	"fris": "fries", "frys": "fries",

	// preferences
	"spicies": "spicy", "spici": "spicy", "spicey": "spicy", "spiccy": "spicy", "spicie": "spicy",
	"spicee": "spicy", "spicii": "spicy", "spcy": "spicy", "spidy": "spicy", "spisi": "spicy",
	"spyc": "spicy", "spic": "spicy", "spice": "spicy", "sicy": "spicy", "sycy": "spicy", "spicyy": "spicy",
	"regulars": "regular", "reguler": "regular", "regulr": "regular", "regulaar": "regular",
	"regullar": "regular", "regu": "regular", "normal": "regular", "normel": "regular", "norml": "regular",
	"mild": "regular", "nonspicy": "regular",

	// connectors and commands
	"adn": "and", "amp": "and",
	"finis": "finish", "finsh": "finish", "finese": "finish", "finishe": "finish", "finishh": "finish",
	"cancl": "cancel", "cancell": "cancel", "cancle": "cancel", "canel": "cancel", "cancal": "cancel",
	"ordr": "order", "ordere": "order", "odr": "order",
	"doen": "done", "dun": "done",
	"comeplte": "complete", "compelte": "complete", "complet": "complete", "compleet": "complete",
	"complt": "complete", "complette": "complete",
	"delete": "remove", "subtract": "remove", "minus": "remove", "remve": "remove", "remov": "remove",
	"rmv": "remove",
}

var rawTyposAR = map[string]string{
	// برجر
	"برغر": "برجر", "برقر": "برجر", "همبرجر": "برجر", "برجار": "برجر", "بورجر": "برجر",
	"بورغر": "برجر", "برغرات": "برجرات",

	// دجاج ولحم
	"دحاج": "دجاج", "دجاح": "دجاج", "فراخ": "دجاج", "الدجاج": "دجاج", "دجاش": "دجاج",
	"لحمة": "لحم", "اللحم": "لحم", "الحم": "لحم",

	// زنجر
	"زنقر": "زنجر", "زنجير": "زنجر", "زينجر": "زنجر", "زنجار": "زنجر",

	// التفضيل
	"سبايسي": "حار", "سبايسى": "حار", "فلفل": "حار", "شطة": "حار", "حراق": "حار", "حارر": "حار",
	"عادى": "عادي", "رجلر": "عادي", "طبيعي": "عادي", "نورمال": "عادي", "عاديه": "عادي",

	// أوامر
	"الحسا": "الحساب", "خلصنا": "خلاص",
	"ازالة": "حذف", "إزالة": "حذف", "شيل": "حذف", "نقص": "حذف", "احذف": "حذف", "امسح": "حذف",

	// مشروبات وأصناف
	"ببسي": "بيبسي", "ابسي": "بيبسي", "بيسي": "بيبسي", "بيبسى": "بيبسي", "ببصي": "بيبسي",
	"بروست": "بروستد", "بروستيد": "بروستد", "واجبه": "وجبة",
	"مويه": "ماء", "موي": "ماء", "ميه": "ماء", "موية": "ماء",
	"عسير": "عصير", "عصيرو": "عصير",
	"تورتلا": "تورتيلا", "توتلا": "تورتيلا", "ترتلا": "تورتيلا",
	"سندويتش": "ساندويتش", "ساندوتش": "ساندويتش",
	"قهوه": "قهوة", "كوفي": "قهوة",
}

// rawPhraseTypos are multi-token corrections applied after the single-token
// pass, so keys are written in corrected form.
var rawPhraseTypos = map[string]string{
	"no spicy":      "regular",
	"not spicy":     "regular",
	"non spicy":     "regular",
	"without spicy": "regular",
	"less spicy":    "regular",
	"بدون حار":      "عادي",
	"مو حار":        "عادي",
	"مش حار":        "عادي",
	"غير حار":       "عادي",
}

// stopwords may appear inside a noun phrase but never start or end one.
var rawStopwords = []string{
	"a", "an", "the", "of", "please", "pls", "plz", "i", "me", "my", "we", "our", "want", "would", "like",
	"need", "get", "give", "some", "can", "could", "you", "have", "has", "do", "does", "also", "just",
	"order", "orders", "show", "see", "list", "what", "which", "is", "are", "am", "there", "your", "in",
	"to", "for", "from", "thanks", "thank", "thx", "ok", "okay", "yes", "no", "more", "another", "x",
	"pcs", "piece", "pieces",
	"من", "في", "على", "الى", "لو", "سمحت", "ابي", "ابغى", "ابغا", "اريد", "بدي", "عطني", "اعطني",
	"عندكم", "وش", "ايش", "شو", "عرض", "اعرض", "طلب", "الطلب", "طلبي", "شكرا", "جدا", "كمان",
	"حبات", "قطع", "قطعة", "يا", "لي",
}

var rawSeparators = []string{"and", "or", "with", "plus", "then", "و", "او", "ثم", "مع"}

var rawRemoveWords = []string{"remove", "cancel", "drop", "حذف", "الغاء", "كنسل", "بدون", "بلاش"}

var rawAddWords = []string{"add", "اضف", "ضيف", "زود", "زيد"}

var rawSpicyWords = []string{"spicy", "حار"}

var rawRegularWords = []string{"regular", "عادي"}

// connectors allowed between a leading quantity and the noun phrase.
var rawConnectors = []string{"of", "x", "add", "give", "me", "من"}

// verbs that take "to"; a sound-alike number right after them is the particle.
var rawInfinitiveVerbs = []string{"want", "wanna", "need", "like", "love", "have", "going", "got", "wish", "try"}

// Anaphora vocabulary.
var (
	rawPronounsSingularEN = []string{"it", "this", "that", "the first one", "the item", "same", "the same", "one more", "another one"}
	rawPronounsPluralEN   = []string{"them", "those", "these", "all of them", "both"}
	rawPronounsSingularAR = []string{"هذا", "هذه", "هذي", "اياه", "هو", "هي", "الاول", "نفسه", "نفس", "واحد زياده"}
	rawPronounsPluralAR   = []string{"هم", "هؤلاء", "الكل", "جميعهم", "كلهم"}
	rawQuantityTriggersEN = []string{"make it", "make them", "change to", "change it to", "actually", "instead", "no", "i want", "only"}
	rawQuantityTriggersAR = []string{"خليهم", "خليها", "خليه", "خلي", "بدل", "تغيير", "غيرها", "غيره", "لا", "اريد", "ابغى", "ابي", "بس"}
	rawArabicRemoveStems  = []string{"شيل", "احذف", "حذف", "الغ", "نقص", "امسح"}
)

// Command detection vocabulary.
var (
	rawGreetings = []string{
		"hi", "hello", "hey", "hiya", "good morning", "good evening", "start", "restart", "start over",
		"مرحبا", "اهلا", "هلا", "السلام عليكم", "سلام", "هاي", "صباح الخير", "مساء الخير", "ابدا",
	}
	rawMenuPhrases = []string{
		"menu", "show menu", "the menu", "main menu", "categories", "home",
		"القائمة", "المنيو", "منيو", "القائمه الرئيسيه", "الاقسام", "المنيو الرئيسي",
	}
	rawFinishPhrases = []string{
		"finish", "finish order", "checkout", "check out", "done", "im done", "i am done", "thats all",
		"that is all", "pay", "bill", "complete", "complete order", "place order", "confirm order",
		"انهاء", "انهاء الطلب", "الحساب", "الفاتورة", "خلاص", "بس كذا", "اكمل الطلب", "تاكيد الطلب", "ادفع",
	}
	rawCancelPhrases = []string{
		"cancel", "cancel order", "cancel all", "cancel everything", "cancel entire order", "cancel complete order",
		"remove", "remove item", "modify", "modify order", "edit order", "change order",
		"الغاء", "الغاء الطلب", "الغاء الكل", "كنسل", "حذف", "تعديل", "تعديل الطلب", "حذف صنف",
	}
	rawIrrelevant = []string{
		"love", "marry", "girlfriend", "boyfriend", "date", "weather", "football", "soccer", "politics",
		"joke", "movie", "how are you", "who are you", "your name", "are you real", "are you a bot",
		"stupid", "idiot", "shut up", "homework", "bitcoin",
		"احبك", "تتزوجني", "حبيبتي", "الطقس", "الجو", "كوره", "مباراة", "نكته", "فلم", "اسمك",
		"مين انت", "من انت", "كيف حالك", "غبي", "اسكت", "سياسه",
	}
	rawFillers = []string{"please", "pls", "now", "the", "my", "i", "am", "im", "want", "to", "order", "lets",
		"let", "us", "go", "back", "ok", "okay", "just", "all", "لو", "سمحت", "ابي", "ابغى", "اريد", "الان", "طيب", "يا"}
	rawYes = []string{"yes", "yeah", "yep", "y", "sure", "ok", "okay", "confirm", "correct", "نعم", "اي", "ايوه", "ايوا", "اكيد", "تمام", "اوكي", "موافق", "صح"}
	rawNo  = []string{"no", "nope", "nah", "n", "not", "لا", "لاء", "مو", "مش", "كنسل"}

	rawCash   = []string{"cash", "cash on delivery", "كاش", "نقدا", "نقد", "كاش عند الاستلام"}
	rawOnline = []string{"online", "card", "credit card", "visa", "mada", "apple pay", "اونلاين", "بطاقة", "فيزا", "مدى", "شبكة"}

	rawAllWords = []string{"all", "everything", "all of them", "الكل", "كله", "كلها", "جميع"}
)

type wordSet map[string]struct{}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// phraseList is a set of folded multi- or single-token phrases.
type phraseList [][]string

// lexicon is the folded form of every word list above.
type lexicon struct {
	typos     map[string]string
	phrases   map[string]string
	maxPhrase int
	vocab     wordSet

	stop, separators, remove, add, spicy, regular, connectors wordSet
	fillers, yes, no, removeStems, noise, verbs              wordSet

	pronounsSingular, pronounsPlural, quantityTriggers phraseList
	greetings, menu, finish, cancel, irrelevant          phraseList
	cash, online, all                                    phraseList
}

var lex = buildLexicon()

func buildLexicon() *lexicon {
	l := &lexicon{
		typos:   make(map[string]string),
		phrases: make(map[string]string),
		vocab:   make(wordSet),
	}
	for _, table := range []map[string]string{rawTyposEN, rawTyposAR} {
		for k, v := range table {
			fk, fv := Fold(k), Fold(v)
			l.typos[fk] = fv
			l.addVocab(fv)
		}
	}
	for k, v := range rawPhraseTypos {
		fk, fv := Fold(k), Fold(v)
		l.phrases[fk] = fv
		if n := len(strings.Fields(fk)); n > l.maxPhrase {
			l.maxPhrase = n
		}
		l.addVocab(fv)
	}

	l.stop = l.set(rawStopwords)
	l.separators = l.set(rawSeparators)
	l.remove = l.set(rawRemoveWords)
	l.add = l.set(rawAddWords)
	l.spicy = l.set(rawSpicyWords)
	l.regular = l.set(rawRegularWords)
	l.connectors = l.set(rawConnectors)
	l.verbs = l.set(rawInfinitiveVerbs)
	l.fillers = l.set(rawFillers)
	l.yes = l.set(rawYes)
	l.no = l.set(rawNo)
	l.removeStems = make(wordSet)
	for _, w := range rawArabicRemoveStems {
		l.removeStems[Fold(w)] = struct{}{}
	}

	l.pronounsSingular = l.list(rawPronounsSingularEN, rawPronounsSingularAR)
	l.pronounsPlural = l.list(rawPronounsPluralEN, rawPronounsPluralAR)
	l.quantityTriggers = l.list(rawQuantityTriggersEN, rawQuantityTriggersAR)
	l.greetings = l.list(rawGreetings)
	l.menu = l.list(rawMenuPhrases)
	l.finish = l.list(rawFinishPhrases)
	l.cancel = l.list(rawCancelPhrases)
	l.irrelevant = l.list(rawIrrelevant)
	l.noise = make(wordSet)
	for _, p := range l.irrelevant {
		if len(p) == 1 {
			l.noise[p[0]] = struct{}{}
		}
	}
	l.cash = l.list(rawCash)
	l.online = l.list(rawOnline)
	l.all = l.list(rawAllWords)

	for w := range numberWords {
		l.vocab[w] = struct{}{}
	}
	return l
}

func (l *lexicon) addVocab(s string) {
	for _, t := range strings.Fields(s) {
		l.vocab[t] = struct{}{}
	}
}

// set folds and typo-corrects words so membership tests work on normalized
// tokens.
func (l *lexicon) set(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		for _, t := range l.correct(w) {
			s[t] = struct{}{}
		}
		l.addVocab(Fold(w))
	}
	return s
}

func (l *lexicon) list(groups ...[]string) phraseList {
	var out phraseList
	for _, g := range groups {
		for _, p := range g {
			if toks := l.correct(p); len(toks) > 0 {
				out = append(out, toks)
			}
			l.addVocab(Fold(p))
		}
	}
	return out
}

// correct applies the typo tables to a lexicon entry. It runs before the
// Normalizer exists, so it skips the vocabulary-dependent steps.
func (l *lexicon) correct(p string) []string {
	toks := strings.Fields(Fold(p))
	for i, t := range toks {
		if v, ok := l.typos[t]; ok {
			toks[i] = v
		}
	}
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); {
		if i+1 < len(toks) {
			if v, ok := l.phrases[toks[i]+" "+toks[i+1]]; ok {
				out = append(out, v)
				i += 2
				continue
			}
		}
		out = append(out, toks[i])
		i++
	}
	return out
}

// indexOf returns the first position where phrase occurs in toks, or -1.
func indexOf(toks, phrase []string) int {
	if len(phrase) == 0 || len(phrase) > len(toks) {
		return -1
	}
outer:
	for i := 0; i+len(phrase) <= len(toks); i++ {
		for j, p := range phrase {
			if toks[i+j] != p {
				continue outer
			}
		}
		return i
	}
	return -1
}

// find returns the longest phrase of pl occurring in toks.
func (pl phraseList) find(toks []string) (start, length int, ok bool) {
	for _, p := range pl {
		if i := indexOf(toks, p); i >= 0 && len(p) > length {
			start, length, ok = i, len(p), true
		}
	}
	return start, length, ok
}

func (pl phraseList) contains(toks []string) bool {
	_, _, ok := pl.find(toks)
	return ok
}
