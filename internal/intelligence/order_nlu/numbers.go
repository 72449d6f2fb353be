package order_nlu

import (
	"errors"
	"strconv"
)

// maxNumber clamps digit runs so quantity sums cannot overflow; the
// dialogue caps anything above its own limit.
const maxNumber = 1_000_000

var rawNumberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "fifteen": 15, "twenty": 20,
	"single": 1, "double": 2, "triple": 3, "couple": 2, "dozen": 12,

	"واحد": 1, "واحدة": 1, "وحدة": 1, "حبة": 1,
	"اثنين": 2, "اثنان": 2, "ثنين": 2, "اتنين": 2, "حبتين": 2, "ثنتين": 2,
	"ثلاث": 3, "ثلاثة": 3, "تلاتة": 3, "ثلاثه": 3,
	"أربع": 4, "أربعة": 4, "اربعة": 4,
	"خمس": 5, "خمسة": 5,
	"ست": 6, "ستة": 6,
	"سبع": 7, "سبعة": 7,
	"ثمان": 8, "ثمانية": 8, "ثماني": 8,
	"تسع": 9, "تسعة": 9,
	"عشر": 10, "عشرة": 10,
}

// Sound-alike words that speech-to-text commonly produces for digits. They
// are only trusted in front of a noun phrase.
var rawPhoneticNumbers = map[string]int{
	"won": 1, "to": 2, "too": 2, "tree": 3, "free": 3,
	"for": 4, "fore": 4, "hive": 5, "sticks": 6, "ate": 8,
}

var (
	numberWords     = foldNumbers(rawNumberWords)
	phoneticNumbers = foldNumbers(rawPhoneticNumbers)
)

func foldNumbers(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[Fold(k)] = v
	}
	return out
}

// TextToNumber interprets a single token as a non-negative integer: ASCII or
// Arabic-Indic digits, English and Arabic number words, and phonetic
// variants such as "won" or "tree".
func TextToNumber(tok string) (int, bool) {
	t := Fold(tok)
	if n, ok := strictNumber(t); ok {
		return n, true
	}
	n, ok := phoneticNumbers[t]
	return n, ok
}

// strictNumber parses an already folded token without phonetic guesses.
func strictNumber(t string) (int, bool) {
	if t == "" {
		return 0, false
	}
	if t[0] >= '0' && t[0] <= '9' {
		n, err := strconv.Atoi(t)
		switch {
		case errors.Is(err, strconv.ErrRange):
			return maxNumber, true
		case err != nil || n < 0:
			return 0, false
		case n > maxNumber:
			return maxNumber, true
		}
		return n, true
	}
	n, ok := numberWords[t]
	return n, ok
}
