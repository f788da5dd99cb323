// Package format turns raw backend field names and values into display text.
package format

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for null and missing values.
const Placeholder = "—"

var (
	percentKeys  = []string{"rate", "conversion"}
	currencyKeys = []string{"revenue", "value", "amount", "subtotal", "price"}

	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02",
	}
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Key turns a snake_case field name into a label: "store_id" becomes "Store Id".
func Key(key string) string {
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

// EventName turns an event name into a label: "checkout_complete" becomes "Checkout Complete".
func EventName(name string) string {
	return titleWords(strings.ReplaceAll(name, "_", " "))
}

// titleWords upper-cases the first character of every run of [A-Za-z0-9_].
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range s {
		word := isWordChar(r)
		if word && !prevWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// Value renders a field value for display. Numbers are formatted by the
// meaning their key suggests: rates as percentages, money as dollars.
func Value(key string, value any) string {
	if value == nil {
		return Placeholder
	}
	if n, ok := toFloat(value); ok {
		return numeric(key, n)
	}
	switch v := value.(type) {
	case string:
		return v
	default:
		return domain.Stringify(v)
	}
}

func numeric(key string, n float64) string {
	k := strings.ToLower(key)
	if containsAny(k, percentKeys) {
		return Percent(n)
	}
	if containsAny(k, currencyKeys) {
		return Currency(n)
	}
	return Number(n)
}

// Percent renders n with exactly one decimal and a trailing percent sign.
// Rounding looks at the exact binary value, so 0.15 (stored just below
// 0.15) becomes "0.1%" while an exact half such as 0.25 rounds up.
func Percent(n float64) string {
	return fixed(n, 1) + "%"
}

// exactDigits is enough fractional digits to tell a true half from a
// value stored just below or above it.
const exactDigits = 40

func fixed(n float64, digits int) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return strconv.FormatFloat(n, 'f', digits, 64)
	}

	abs := math.Abs(n)
	exact := strconv.FormatFloat(abs, 'f', exactDigits, 64)
	point := strings.IndexByte(exact, '.')
	kept := exact[:point+1+digits]

	v, err := strconv.ParseFloat(kept, 64)
	if err != nil {
		return strconv.FormatFloat(n, 'f', digits, 64)
	}
	if exact[point+1+digits] >= '5' {
		v += math.Pow(10, -float64(digits))
	}

	out := strconv.FormatFloat(v, 'f', digits, 64)
	if n < 0 && strings.Trim(out, "0.") != "" {
		out = "-" + out
	}
	return out
}

// Currency renders n as dollars with thousands separators and two decimals.
func Currency(n float64) string {
	return "$" + printer.Sprintf("%.2f", roundHalfAway(n, 2))
}

// Number renders n with thousands separators and at most three decimals.
func Number(n float64) string {
	return printer.Sprint(number.Decimal(roundHalfAway(n, 3), number.MaxFractionDigits(3)))
}

// Time renders an event timestamp as local wall-clock time, e.g. "3:04:05 PM UTC".
// Timestamps that cannot be parsed are returned verbatim.
func Time(ts string) string {
	return TimeIn(ts, time.Local)
}

func TimeIn(ts string, loc *time.Location) string {
	t, ok := parseTimestamp(ts, loc)
	if !ok {
		return ts
	}
	return t.In(loc).Format("3:04:05 PM MST")
}

// Clock renders a refresh time, e.g. "3:04:05 PM".
func Clock(t time.Time) string {
	return t.Format("3:04:05 PM")
}

func parseTimestamp(ts string, loc *time.Location) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Platform labels the platform an event came from.
func Platform(p string) string {
	if p == "app" {
		return "App"
	}
	return "Web"
}

// ShortID keeps the first eight characters of an identifier.
func ShortID(id string) string {
	r := []rune(id)
	if len(r) > 8 {
		r = r[:8]
	}
	return string(r) + "..."
}

// CompactJSON renders v on one line. Records keep their key order.
func CompactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// IndentedJSON renders v with two-space indentation.
func IndentedJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func roundHalfAway(n float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	r := math.Round(n*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return n
	}
	return r
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
