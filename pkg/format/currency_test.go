package format

import "testing"

func TestCurrencyWithSymbol(t *testing.T) {
	if got := CurrencyWithSymbol(2500, "€"); got != "€2,500.00" {
		t.Errorf("CurrencyWithSymbol() = %q, expected %q", got, "€2,500.00")
	}
	if got := WholeCurrency(-12500.4, "£"); got != "-£12,500" {
		t.Errorf("WholeCurrency() = %q, expected %q", got, "-£12,500")
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-9876543.21); got != "-9,876,543.21" {
		t.Errorf("NumericCurrency() = %q, expected %q", got, "-9,876,543.21")
	}
}

func TestCompactAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{10000, "10k"},
		{250000, "250k"},
		{1000000, "1M"},
		{2500000, "2.5M"},
		{500, "500"},
		{-25000, "-25k"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := CompactAmount(tt.amount); got != tt.expected {
				t.Errorf("CompactAmount(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(12.345); got != "12.3%" {
		t.Errorf("Percent(12.345) = %q, expected %q", got, "12.3%")
	}
	if got := Percent(20); got != "20.0%" {
		t.Errorf("Percent(20) = %q, expected %q", got, "20.0%")
	}
}
