// Package coach evaluates a fixed table of heuristics against a household's
// plan and returns advice nudges.
package coach

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/datetime"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/iwvelando/finance-planner/pkg/format"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Target is an optional net-worth goal.
type Target struct {
	TargetNetWorth float64 `json:"targetNetWorth" yaml:"targetNetWorth"`
	Years          int     `json:"years" yaml:"years"`
}

// Request is the financial state the rules look at.
type Request struct {
	domain.SimulationParams `yaml:",inline"`
	Incomes                 []domain.IncomeSource      `json:"incomes" yaml:"incomes"`
	Expenses                []domain.ExpenseAllocation `json:"expenses" yaml:"expenses"`
	Currency                string                     `json:"currency,omitempty" yaml:"currency,omitempty"`
	ActualExpenses          map[string]float64         `json:"actualExpenses,omitempty" yaml:"actualExpenses,omitempty"`
	Target                  *Target                    `json:"target,omitempty" yaml:"target,omitempty"`
	LastUpdated             string                     `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
	AsOf                    string                     `json:"asOf,omitempty" yaml:"asOf,omitempty"`
}

// Validate checks the request before any rule runs.
func (req Request) Validate() error {
	if err := domain.ValidateYears("years", req.Years, constants.MinYears); err != nil {
		return err
	}
	rates := []struct {
		field string
		value float64
	}{
		{"annualRaisePct", req.AnnualRaisePct},
		{"marketReturnPct", req.MarketReturnPct},
		{"inflationPct", req.InflationPct},
	}
	for _, rate := range rates {
		if err := domain.ValidateRate(rate.field, rate.value); err != nil {
			return err
		}
	}
	if err := domain.ValidateIncomes(req.Incomes); err != nil {
		return err
	}
	if err := domain.ValidateExpenses(req.Expenses); err != nil {
		return err
	}
	for _, id := range slices.Sorted(maps.Keys(req.ActualExpenses)) {
		if amount := req.ActualExpenses[id]; amount < 0 {
			return &domain.InvalidParameterError{Field: "actualExpenses." + id, Value: amount, Reason: "must not be negative"}
		}
	}
	if req.Target != nil {
		if err := domain.ValidateYears("target.years", req.Target.Years, constants.MinYears); err != nil {
			return err
		}
	}
	return nil
}

// analysis holds the figures derived once per request and shared by rules.
type analysis struct {
	req                 Request
	currency            string
	income              float64
	spendPct            float64
	plannedSavingsRate  float64
	monthlyContribution float64
	spendCategories     []domain.ExpenseAllocation
	staleDays           int
	hasStaleDates       bool
}

type rule struct {
	name     string
	evaluate func(a *analysis) (domain.Nudge, bool)
}

// rules run in this order; none reads another's output.
var rules = []rule{
	{"extra-savings", extraSavingsRule},
	{"savings-rate", savingsRateRule},
	{"allocation-skew", allocationSkewRule},
	{"overspend", overspendRule},
	{"on-track", onTrackRule},
	{"goal-gap", goalGapRule},
	{"stale-data", staleDataRule},
}

// Engine evaluates the rule table.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Analyze returns every nudge whose rule fires, in rule order.
func (e *Engine) Analyze(req Request) ([]domain.Nudge, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &analysis{req: req, currency: req.Currency}
	if a.currency == "" {
		a.currency = constants.DefaultCurrencySymbol
	}
	a.income = domain.TotalIncome(req.Incomes)
	for _, expense := range req.Expenses {
		if expense.IsSavings() {
			continue
		}
		a.spendCategories = append(a.spendCategories, expense)
	}
	a.spendPct = domain.SpendPercentage(a.spendCategories)
	// Unallocated income counts as saved, same as the forward projection.
	a.plannedSavingsRate = constants.PercentageMultiplier - a.spendPct
	a.monthlyContribution = finance.ShareOf(a.income, a.plannedSavingsRate)

	if req.LastUpdated != "" && req.AsOf != "" {
		updated, err := datetime.ParseDate(req.LastUpdated)
		if err != nil {
			return nil, &domain.InvalidParameterError{Field: "lastUpdated", Value: req.LastUpdated, Reason: err.Error()}
		}
		asOf, err := datetime.ParseDate(req.AsOf)
		if err != nil {
			return nil, &domain.InvalidParameterError{Field: "asOf", Value: req.AsOf, Reason: err.Error()}
		}
		a.staleDays = datetime.DaysBetween(updated, asOf)
		a.hasStaleDates = true
	}

	e.logger.Debug("evaluating advice rules",
		zap.String("op", "coach.Analyze"),
		zap.Float64("monthlyIncome", a.income),
		zap.Float64("plannedSavingsRate", a.plannedSavingsRate),
		zap.Bool("unallocatedCountedAsSaved", true),
	)

	nudges := []domain.Nudge{}
	for _, r := range rules {
		if nudge, ok := r.evaluate(a); ok {
			e.logger.Debug("rule fired",
				zap.String("op", "coach.Analyze"),
				zap.String("rule", r.name),
			)
			nudges = append(nudges, nudge)
		}
	}
	return nudges, nil
}

func (a *analysis) money(amount float64) string {
	return format.WholeCurrency(amount, a.currency)
}

func extraSavingsRule(a *analysis) (domain.Nudge, bool) {
	if !mathutil.IsPositive(a.income) {
		return domain.Nudge{}, false
	}
	extra, _ := finance.CompoundMonthly(0, constants.ExtraSavingsNudgeAmount, a.req.MarketReturnPct, a.req.Years*constants.MonthsPerYear)
	return domain.Nudge{
		Title: fmt.Sprintf("The Power of %s", a.money(constants.ExtraSavingsNudgeAmount)),
		Message: fmt.Sprintf("If you save just %s more per month, you could have an extra %s in %d years.",
			a.money(constants.ExtraSavingsNudgeAmount), a.money(extra), a.req.Years),
		Icon: "🚀",
	}, true
}

func savingsRateRule(a *analysis) (domain.Nudge, bool) {
	if !mathutil.IsPositive(a.income) {
		return domain.Nudge{}, false
	}
	switch {
	case a.plannedSavingsRate < constants.TargetSavingsRatePct:
		gap := constants.TargetSavingsRatePct - a.plannedSavingsRate
		return domain.Nudge{
			Title: "Savings Boost",
			Message: fmt.Sprintf("Your savings rate is %s, counting unallocated income as saved. Shift %s of income (about %s a month) out of spending to reach the recommended %s.",
				format.Percent(a.plannedSavingsRate), format.Percent(gap), a.money(finance.ShareOf(a.income, gap)),
				format.Percent(constants.TargetSavingsRatePct)),
			Icon: "⚠️",
		}, true
	case a.plannedSavingsRate > constants.SuperSaverRatePct:
		return domain.Nudge{
			Title:   "Super Saver",
			Message: fmt.Sprintf("You are saving %s of your income! You are on the fast track to FIRE.", format.Percent(a.plannedSavingsRate)),
			Icon:    "🔥",
		}, true
	}
	return domain.Nudge{}, false
}

func isHousing(expense domain.ExpenseAllocation) bool {
	key := strings.ToLower(expense.ID + " " + expense.Name)
	for _, marker := range []string{"hous", "rent", "mortgage"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

func allocationSkewRule(a *analysis) (domain.Nudge, bool) {
	if !mathutil.IsPositive(a.income) {
		return domain.Nudge{}, false
	}
	var largest *domain.ExpenseAllocation
	for i := range a.spendCategories {
		expense := &a.spendCategories[i]
		if isHousing(*expense) {
			continue
		}
		if largest == nil || expense.Percentage > largest.Percentage {
			largest = expense
		}
	}
	if largest == nil || largest.Percentage <= constants.CategorySkewPct {
		return domain.Nudge{}, false
	}
	name := largest.Name
	if name == "" {
		name = largest.ID
	}
	return domain.Nudge{
		Title: "Rebalance Spending",
		Message: fmt.Sprintf("%s takes %s of your income, above the %s guideline for a single category. Trimming it to %s frees up %s a month.",
			name, format.Percent(largest.Percentage), format.Percent(constants.CategorySkewPct),
			format.Percent(constants.CategorySkewPct), a.money(finance.ShareOf(a.income, largest.Percentage-constants.CategorySkewPct))),
		Icon: "⚖️",
	}, true
}

// actualSpend sums the reported actuals, skipping the savings bucket.
func (a *analysis) actualSpend() (float64, bool) {
	if len(a.req.ActualExpenses) == 0 {
		return 0, false
	}
	total := 0.0
	for id, amount := range a.req.ActualExpenses {
		if (domain.ExpenseAllocation{ID: id}).IsSavings() {
			continue
		}
		total += amount
	}
	return total, true
}

func overspendRule(a *analysis) (domain.Nudge, bool) {
	actual, ok := a.actualSpend()
	if !ok || !mathutil.IsPositive(a.income) {
		return domain.Nudge{}, false
	}
	planned := finance.ShareOf(a.income, a.spendPct)
	limit := planned + mathutil.ApplyPercentage(planned, constants.OverspendTolerancePct)
	if actual <= limit {
		return domain.Nudge{}, false
	}
	delta := actual - planned
	message := fmt.Sprintf("You spent %s against a plan of %s, %s more than planned.",
		a.money(actual), a.money(planned), a.money(delta))
	if planned > 0 {
		message = fmt.Sprintf("You spent %s against a plan of %s, %s (%s) more than planned.",
			a.money(actual), a.money(planned), a.money(delta), format.Percent(mathutil.CalculatePercentage(delta, planned)))
	}
	return domain.Nudge{Title: "Overspending", Message: message, Icon: "💸"}, true
}

func onTrackRule(a *analysis) (domain.Nudge, bool) {
	actual, ok := a.actualSpend()
	if !ok || !mathutil.IsPositive(a.income) {
		return domain.Nudge{}, false
	}
	actualRate := mathutil.CalculatePercentage(a.income-actual, a.income)
	if actualRate < a.plannedSavingsRate {
		return domain.Nudge{}, false
	}
	return domain.Nudge{
		Title: "On Track",
		Message: fmt.Sprintf("Your actual savings rate of %s meets or beats your planned %s. Keep it up!",
			format.Percent(actualRate), format.Percent(a.plannedSavingsRate)),
		Icon: "✅",
	}, true
}

func goalGapRule(a *analysis) (domain.Nudge, bool) {
	target := a.req.Target
	if target == nil || target.TargetNetWorth <= 0 {
		return domain.Nudge{}, false
	}
	accumulate := func(start, contribution float64, years int) float64 {
		return finance.Accumulate(start, contribution, a.req.AnnualRaisePct, a.req.MarketReturnPct, years).Balance
	}

	projected := accumulate(a.req.CurrentSavings, a.monthlyContribution, target.Years)
	if projected >= target.TargetNetWorth {
		return domain.Nudge{}, false
	}
	shortfall := target.TargetNetWorth - projected

	message := fmt.Sprintf("At your current pace you will have %s in %d years, %s short of your %s goal.",
		a.money(projected), target.Years, a.money(shortfall), a.money(target.TargetNetWorth))

	reached := 0
	for years := target.Years + 1; years <= constants.MaxYears; years++ {
		if accumulate(a.req.CurrentSavings, a.monthlyContribution, years) >= target.TargetNetWorth {
			reached = years
			break
		}
	}

	// Balance is linear in the contribution, so one unit's effect scales.
	if perUnit := accumulate(0, 1, target.Years); perUnit > 0 {
		message += fmt.Sprintf(" Adding about %s a month closes the gap.", a.money(math.Ceil(shortfall/perUnit)))
	}
	if reached > 0 {
		message += fmt.Sprintf(" Keeping your current plan, you get there in %d years.", reached)
	} else {
		message += fmt.Sprintf(" Your current plan does not get there within %d years.", constants.MaxYears)
	}

	return domain.Nudge{Title: "Goal Gap", Message: message, Icon: "🎯"}, true
}

func staleDataRule(a *analysis) (domain.Nudge, bool) {
	if !a.hasStaleDates || a.staleDays <= constants.StaleDataDays {
		return domain.Nudge{}, false
	}
	return domain.Nudge{
		Title:   "Stale Data",
		Message: fmt.Sprintf("Your balances were last updated %d days ago. Update them so forecasts stay accurate.", a.staleDays),
		Icon:    "🕰️",
	}, true
}
