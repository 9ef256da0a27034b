// Package format renders money amounts for messages and reports.
package format

import (
	"math"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// CurrencyWithSymbol returns a currency string with the given symbol and
// thousands separators (e.g., "-$1,234.56", "€1,234.56").
func CurrencyWithSymbol(amount float64, symbol string) string {
	formatted := NumericCurrency(math.Abs(amount))
	if isNegativeCents(amount) {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// WholeCurrency renders whole units only (e.g., "$12,500").
func WholeCurrency(amount float64, symbol string) string {
	rounded := decimal.NewFromFloat(math.Abs(amount)).Round(0).InexactFloat64()
	sign := ""
	if rounded > 0 && amount < 0 {
		sign = "-"
	}
	return sign + symbol + printer.Sprintf("%.0f", rounded)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	rounded := decimal.NewFromFloat(math.Abs(amount)).Round(constants.DecimalPlaces).InexactFloat64()
	sign := ""
	if isNegativeCents(amount) {
		sign = "-"
	}
	return sign + printer.Sprintf("%.2f", rounded)
}

// CompactAmount renders round thresholds the way people say them: 10k, 250k, 1M, 2.5M.
func CompactAmount(amount float64) string {
	abs := math.Abs(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1e6:
		return sign + decimal.NewFromFloat(abs/1e6).Round(1).String() + "M"
	case abs >= 1e3:
		return sign + decimal.NewFromFloat(abs/1e3).Round(1).String() + "k"
	default:
		return sign + decimal.NewFromFloat(abs).Round(0).String()
	}
}

// Percent renders a percentage with one decimal place.
func Percent(pct float64) string {
	return decimal.NewFromFloat(pct).Round(1).StringFixed(1) + "%"
}

func isNegativeCents(amount float64) bool {
	return amount < 0 && decimal.NewFromFloat(amount).Round(constants.DecimalPlaces).IsNegative()
}
