package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for a missing value.
const Placeholder = "-"

// FormatNumber renders a count: "2.5M", "1.5K" or a grouped number below
// one thousand. Nil renders as "-".
func FormatNumber(n *float64) string {
	if n == nil {
		return Placeholder
	}
	return FormatCount(*n)
}

// FormatCount is FormatNumber for a value that is known to be present.
func FormatCount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatCost renders "$" plus two decimals, or "-" when absent.
func FormatCost(n *float64) string {
	if n == nil {
		return Placeholder
	}
	return fmt.Sprintf("$%.2f", *n)
}

// FormatPercent renders part/total to one decimal. A zero total gives "0".
func FormatPercent(part, total float64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", part/total*100)
}

// AbbreviateModel drops the vendor segment of a model id and keeps the next
// two hyphen-delimited segments: "claude-opus-4-20250514" becomes "opus-4".
func AbbreviateModel(name string) string {
	parts := strings.Split(name, "-")
	if len(parts) <= 1 {
		return ""
	}
	end := 3
	if end > len(parts) {
		end = len(parts)
	}
	return strings.Join(parts[1:end], "-")
}

// Escape neutralises user-sourced text before it is written to the
// terminal. Control characters, including ESC and the C1 range, are replaced
// so that a project name or title cannot inject cursor movement or colour
// sequences. Line breaks and tabs become spaces.
func Escape(s string) string {
	if !needsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
			b.WriteRune(utf8.RuneError)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsEscape(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
