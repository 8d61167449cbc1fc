// Package format holds the pure display helpers used by the storefront
// renderers: currency, discount percentage and text truncation.
package format

import (
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the locale prices are rendered in. Prices are MXN.
var Locale = language.MustParse("es-MX")

const (
	currencySymbol = "$"
	ellipsis       = "..."
)

var (
	printerOnce sync.Once
	printer     *message.Printer
)

// currencyPrinter returns the process-wide es-MX printer, built on first use.
func currencyPrinter() *message.Printer {
	printerOnce.Do(func() {
		printer = message.NewPrinter(Locale)
	})
	return printer
}

// Currency formats an optional amount. A nil amount renders as zero.
func Currency(amount *float64) string {
	if amount == nil {
		return CurrencyValue(0)
	}
	return CurrencyValue(*amount)
}

// CurrencyValue formats amount as MXN with exactly two fraction digits,
// e.g. 1500 → "$1,500.00". NaN and infinities render as zero.
func CurrencyValue(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := currencyPrinter().Sprintf("%v", number.Decimal(amount, number.Scale(2)))
	return sign + currencySymbol + digits
}

// DiscountPercentage returns the whole-number discount from original to
// final, clamped to [0, 100]. A non-positive or non-finite original yields 0.
func DiscountPercentage(original, final float64) int {
	if !isFinite(original) || original <= 0 || !isFinite(final) {
		return 0
	}
	pct := math.Round((original - final) / original * 100)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return int(pct)
	}
}

// ProductTitle truncates title to at most maxRunes runes, ellipsis included.
func ProductTitle(title string, maxRunes int) string {
	title = strings.TrimSpace(title)
	if maxRunes <= 0 || utf8.RuneCountInString(title) <= maxRunes {
		return title
	}
	runes := []rune(title)
	cut := maxRunes - len(ellipsis)
	if cut <= 0 {
		return string(runes[:maxRunes])
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + ellipsis
}

// ProductDescription truncates description like ProductTitle but backs up to
// the last word boundary when one exists in the kept text.
func ProductDescription(description string, maxRunes int) string {
	description = strings.TrimSpace(description)
	if maxRunes <= 0 || utf8.RuneCountInString(description) <= maxRunes {
		return description
	}
	runes := []rune(description)
	cut := maxRunes - len(ellipsis)
	if cut <= 0 {
		return string(runes[:maxRunes])
	}
	kept := runes[:cut]
	// Break on a space only if the next rune starts a new word.
	if !unicode.IsSpace(runes[cut]) {
		for i := len(kept) - 1; i > 0; i-- {
			if unicode.IsSpace(kept[i]) {
				kept = kept[:i]
				break
			}
		}
	}
	return strings.TrimRightFunc(string(kept), unicode.IsSpace) + ellipsis
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
