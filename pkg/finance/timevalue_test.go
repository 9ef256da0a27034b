package finance

import (
	"math"
	"testing"
)

func TestCompoundMonthly(t *testing.T) {
	tests := []struct {
		name             string
		principal        float64
		contribution     float64
		rate             float64
		months           int
		expectedBalance  float64
		expectedInterest float64
	}{
		{"Single month growth", 1000, 0, 12, 1, 1010, 10},
		{"Contribution earns nothing in first month", 0, 100, 12, 2, 201, 1},
		{"Zero rate", 1000, 100, 0, 12, 2200, 0},
		{"Zero months", 500, 100, 7, 0, 500, 0},
		{"Negative principal shrinks", -1000, 0, 12, 1, -1010, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, interest := CompoundMonthly(tt.principal, tt.contribution, tt.rate, tt.months)
			if math.Abs(balance-tt.expectedBalance) > 1e-9 {
				t.Errorf("CompoundMonthly() balance = %v, expected %v", balance, tt.expectedBalance)
			}
			if math.Abs(interest-tt.expectedInterest) > 1e-9 {
				t.Errorf("CompoundMonthly() interest = %v, expected %v", interest, tt.expectedInterest)
			}
		})
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name      string
		nominal   float64
		inflation float64
		years     int
		expected  float64
	}{
		{"No inflation", 1000, 0, 10, 1000},
		{"One year at ten percent", 1100, 10, 1, 1000},
		{"Year zero", 1234, 3, 0, 1234},
		{"Negative nominal", -1100, 10, 1, -1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Discount(tt.nominal, tt.inflation, tt.years)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Discount() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShareOf(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		percentage float64
		expected   float64
	}{
		{"Thirty percent", 5000, 30, 1500},
		{"Zero percent", 5000, 0, 0},
		{"Negative total clamps", -100, 10, 0},
		{"Negative percentage passes through", 100, -10, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ShareOf(tt.total, tt.percentage)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ShareOf(%v, %v) = %v, expected %v", tt.total, tt.percentage, result, tt.expected)
			}
		})
	}
}

func TestAccumulate(t *testing.T) {
	t.Run("Zero growth is a plain sum", func(t *testing.T) {
		acc := Accumulate(1000, 100, 0, 0, 2)
		if math.Abs(acc.Balance-3400) > 1e-9 {
			t.Errorf("Accumulate() balance = %v, expected 3400", acc.Balance)
		}
		if math.Abs(acc.Contributed-2400) > 1e-9 {
			t.Errorf("Accumulate() contributed = %v, expected 2400", acc.Contributed)
		}
		if math.Abs(acc.Interest) > 1e-9 {
			t.Errorf("Accumulate() interest = %v, expected 0", acc.Interest)
		}
	})

	t.Run("Raises grow the contribution stream", func(t *testing.T) {
		acc := Accumulate(1000, 100, 10, 0, 2)
		// 1000 + 12*100 + 12*110
		if math.Abs(acc.Balance-3520) > 1e-9 {
			t.Errorf("Accumulate() balance = %v, expected 3520", acc.Balance)
		}
	})

	t.Run("Matches CompoundMonthly without raises", func(t *testing.T) {
		acc := Accumulate(5000, 250, 0, 6, 3)
		expected, _ := CompoundMonthly(5000, 250, 6, 36)
		if math.Abs(acc.Balance-expected) > 1e-6 {
			t.Errorf("Accumulate() balance = %v, expected %v", acc.Balance, expected)
		}
		if math.Abs(acc.Balance-(5000+acc.Contributed+acc.Interest)) > 1e-6 {
			t.Errorf("Accumulate() components do not add up: %+v", acc)
		}
	})

	t.Run("Higher return never lowers the balance", func(t *testing.T) {
		previous := math.Inf(-1)
		for _, rate := range []float64{-5, 0, 3, 7, 12} {
			acc := Accumulate(10000, 500, 2, rate, 20)
			if acc.Balance < previous {
				t.Errorf("Accumulate() at %v%% = %v, lower than %v", rate, acc.Balance, previous)
			}
			previous = acc.Balance
		}
	})
}

func TestGrowthFactor(t *testing.T) {
	if got := GrowthFactor(10, 2); math.Abs(got-1.21) > 1e-12 {
		t.Errorf("GrowthFactor(10, 2) = %v, expected 1.21", got)
	}
	if got := GrowthFactor(7, 0); got != 1 {
		t.Errorf("GrowthFactor(7, 0) = %v, expected 1", got)
	}
}
