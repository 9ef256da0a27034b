package finance

import (
	"math"

	"github.com/iwvelando/finance-planner/pkg/constants"
)

const percentDivisor = constants.PercentageMultiplier

func percentToDecimal(percent float64) float64 {
	return percent / percentDivisor
}

// MonthlyRate converts an annual percentage into the nominal monthly rate.
func MonthlyRate(annualRatePct float64) float64 {
	return percentToDecimal(annualRatePct) / constants.MonthsPerYear
}

// CompoundMonthly runs the given number of months. Each month the balance
// grows first and the contribution lands afterwards, so a contribution earns
// nothing in the month it is made. Interest is the ending balance minus the
// starting balance and all contributions.
func CompoundMonthly(principal, monthlyContribution, annualRatePct float64, months int) (float64, float64) {
	rate := MonthlyRate(annualRatePct)
	balance := principal
	for m := 0; m < months; m++ {
		balance *= 1 + rate
		balance += monthlyContribution
	}
	contributed := monthlyContribution * float64(max(months, 0))
	return balance, balance - (principal + contributed)
}

// Discount converts a nominal value into today's money.
func Discount(nominal, annualInflationPct float64, years int) float64 {
	return nominal / math.Pow(1+percentToDecimal(annualInflationPct), float64(years))
}

// ShareOf returns percentage of total. Non-negative percentages never yield
// a negative share; negative percentages pass through.
func ShareOf(total, percentage float64) float64 {
	share := total * percentToDecimal(percentage)
	if percentage >= 0 && share < 0 {
		return 0
	}
	return share
}

// GrowthFactor returns (1 + pct/100)^years.
func GrowthFactor(annualPct float64, years int) float64 {
	return math.Pow(1+percentToDecimal(annualPct), float64(years))
}

// Accumulation is the outcome of running a contribution stream forward.
type Accumulation struct {
	Balance     float64
	Contributed float64
	Interest    float64
}

// Accumulate runs start forward for the given number of years. The monthly
// contribution in year y is monthlyContribution grown by annualRaisePct for
// y-1 years, and each year is twelve CompoundMonthly steps.
func Accumulate(start, monthlyContribution, annualRaisePct, annualReturnPct float64, years int) Accumulation {
	acc := Accumulation{Balance: start}
	for y := 1; y <= years; y++ {
		contribution := monthlyContribution * GrowthFactor(annualRaisePct, y-1)
		ending, interest := CompoundMonthly(acc.Balance, contribution, annualReturnPct, constants.MonthsPerYear)
		acc.Balance = ending
		acc.Contributed += contribution * constants.MonthsPerYear
		acc.Interest += interest
	}
	return acc
}
