package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLabelLength ограничение провайдера на поле AdditionalCustomerLabel.
const MaxLabelLength = 24

// blankMarkers значения, которые выгрузка таблиц подставляет вместо пустых ячеек.
var blankMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
}

// IsBlank reports whether s carries no value once trimmed.
func IsBlank(s string) bool {
	_, ok := blankMarkers[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// labelPart возвращает обрезанную строку, если v непустая строка и не "nan".
// Другие маркеры пустоты ("none", "null") здесь считаются обычным текстом.
func labelPart(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return "", false
	}
	return s, true
}

// DeriveLabel builds the customer label sent to the payment provider:
// "<initial> <surname>", the surname alone, or "". Non-strings, blank
// strings and "nan" in any case are treated as absent. The result never exceeds
// MaxLabelLength runes.
func DeriveLabel(firstName, surname any) string {
	var initial string
	if first, ok := labelPart(firstName); ok {
		r, _ := utf8.DecodeRuneInString(first)
		initial = string(unicode.ToUpper(r))
	}

	last, hasLast := labelPart(surname)
	switch {
	case initial != "" && hasLast:
		return truncateRunes(initial+" "+last, MaxLabelLength)
	case hasLast:
		return truncateRunes(last, MaxLabelLength)
	default:
		return ""
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename приводит строку к виду, безопасному для имени файла.
func SanitizeFilename(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	underscore := false
	for _, r := range folded {
		keep := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
		if !keep {
			// пробелы, слэши и прочие символы схлопываются в одно подчёркивание
			if !underscore {
				b.WriteByte('_')
			}
			underscore = true
			continue
		}
		b.WriteRune(r)
		underscore = false
	}
	return strings.Trim(b.String(), "_")
}

// LetterFilename формирует имя PDF письма: 001_<полис>_<имя>.pdf.
func LetterFilename(seq int, policyNo, name string) string {
	return fmt.Sprintf("%03d_%s_%s.pdf", seq, SanitizeFilename(policyNo), SanitizeFilename(name))
}

// BillNumber converts a policy number into the provider bill number.
// Motor policies additionally encode dashes as "..".
func BillNumber(policyNo string, dashAsDoubleDot bool) string {
	bill := strings.ReplaceAll(strings.TrimSpace(policyNo), "/", ".")
	if dashAsDoubleDot {
		bill = strings.ReplaceAll(bill, "-", "..")
	}
	return bill
}

// FormatAmount печатает сумму так, как её ожидает провайдер: 1500 -> "1500.0".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatMoney печатает сумму для письма: 1,500.00.
func FormatMoney(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
