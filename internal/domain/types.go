// Package domain defines the value types shared by the planning engine
// components and the error taxonomy they report.
package domain

import (
	"strings"

	"github.com/iwvelando/finance-planner/pkg/constants"
)

// IncomeSource is a recurring monthly income.
type IncomeSource struct {
	Name     string  `json:"name" yaml:"name"`
	Amount   float64 `json:"amount" yaml:"amount"`
	PersonID string  `json:"personId,omitempty" yaml:"personId,omitempty"`
}

// ExpenseAllocation is a share of total income assigned to a category.
type ExpenseAllocation struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	IsFixed    bool    `json:"isFixed,omitempty" yaml:"isFixed,omitempty"`
}

// IsSavings reports whether the allocation is the savings bucket rather
// than spend.
func (e ExpenseAllocation) IsSavings() bool {
	return strings.EqualFold(strings.TrimSpace(e.ID), constants.SavingsExpenseID)
}

// LifeEvent is a one-off or recurring annual cash injection (positive) or
// withdrawal (negative).
type LifeEvent struct {
	Name        string  `json:"name" yaml:"name"`
	Year        int     `json:"year" yaml:"year"`
	Amount      float64 `json:"amount" yaml:"amount"`
	IsRecurring bool    `json:"isRecurring,omitempty" yaml:"isRecurring,omitempty"`
	Duration    int     `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// SimulationParams are the market and household assumptions for a run.
type SimulationParams struct {
	Years           int     `json:"years" yaml:"years"`
	AnnualRaisePct  float64 `json:"annualRaisePct" yaml:"annualRaisePct"`
	MarketReturnPct float64 `json:"marketReturnPct" yaml:"marketReturnPct"`
	InflationPct    float64 `json:"inflationPct" yaml:"inflationPct"`
	CurrentAge      int     `json:"currentAge" yaml:"currentAge"`
	CurrentSavings  float64 `json:"currentSavings" yaml:"currentSavings"`
}

// YearProjection is one row of a projection series.
type YearProjection struct {
	Year           int     `json:"year"`
	Age            int     `json:"age"`
	NetWorth       float64 `json:"netWorth"`
	Contribution   float64 `json:"contribution"`
	InterestEarned float64 `json:"interestEarned"`
	BuyingPower    float64 `json:"buyingPower"`
	EventsValue    float64 `json:"eventsValue"`
}

// Milestone marks the first year net worth reaches a threshold.
type Milestone struct {
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	NetWorth float64 `json:"netWorth"`
	Message  string  `json:"message"`
}

// BalanceSample is a dated net-worth observation.
type BalanceSample struct {
	Date     string  `json:"date" yaml:"date"`
	NetWorth float64 `json:"netWorth" yaml:"netWorth"`
}

// Nudge is a single piece of advice.
type Nudge struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// TotalIncome sums the monthly amounts of all income sources.
func TotalIncome(incomes []IncomeSource) float64 {
	total := 0.0
	for _, income := range incomes {
		total += income.Amount
	}
	return total
}

// SpendPercentage sums the percentages of all non-savings allocations.
func SpendPercentage(expenses []ExpenseAllocation) float64 {
	total := 0.0
	for _, expense := range expenses {
		if expense.IsSavings() {
			continue
		}
		total += expense.Percentage
	}
	return total
}
