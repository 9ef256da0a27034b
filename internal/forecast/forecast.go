// Package forecast defines the data structures related to a forward
// projection and includes functions for computing it.
package forecast

import (
	"fmt"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/adapters"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// ProjectionRequest holds everything a forward projection needs.
type ProjectionRequest struct {
	domain.SimulationParams `yaml:",inline"`
	Incomes                 []domain.IncomeSource      `json:"incomes" yaml:"incomes"`
	Expenses                []domain.ExpenseAllocation `json:"expenses" yaml:"expenses"`
	Events                  []domain.LifeEvent         `json:"events,omitempty" yaml:"events,omitempty"`
	Currency                string                     `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// ProjectionResult is the year-by-year outcome of a forward projection.
type ProjectionResult struct {
	Data             []domain.YearProjection `json:"data"`
	Milestones       []domain.Milestone      `json:"milestones"`
	GoalMilestones   []domain.Milestone      `json:"goalMilestones"`
	FinalNetWorth    float64                 `json:"finalNetWorth"`
	FinalBuyingPower float64                 `json:"finalBuyingPower"`
	Warnings         []string                `json:"warnings,omitempty"`
}

// Projector simulates net worth forward one year at a time.
type Projector struct {
	logger *zap.Logger
	engine *finance.ForecastEngine
}

// NewProjector creates a Projector. A nil logger is replaced by a no-op logger.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger, engine: finance.NewForecastEngine(logger)}
}

// Validate checks the request before any computation happens.
func (req ProjectionRequest) Validate() error {
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
	return domain.ValidateEvents(req.Events)
}

// Project runs the forward simulation. Year 0 is the starting state; each
// following year grows income by the raise, compounds twelve months of
// contributions, then applies that year's life events.
func (p *Projector) Project(req ProjectionRequest) (*ProjectionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	scheduled, warnings, err := adapters.ScheduleLifeEvents(req.Events, req.Years)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule life events: %w", err)
	}
	for _, warning := range warnings {
		p.logger.Warn(warning, zap.String("op", "forecast.Project"))
	}

	totalIncome := domain.TotalIncome(req.Incomes)
	spendPct := domain.SpendPercentage(req.Expenses)
	retainedPct := constants.PercentageMultiplier - spendPct

	// Anything not allocated to spend is saved, including the unallocated remainder.
	p.logger.Debug("treating unallocated income as saved",
		zap.String("op", "forecast.Project"),
		zap.Float64("monthlyIncome", totalIncome),
		zap.Float64("spendPct", spendPct),
		zap.Float64("retainedPct", retainedPct),
	)

	currency := currencyOrDefault(req.Currency)
	tracker := newMilestoneTracker(req.CurrentSavings, currency)
	annualSpend := finance.ShareOf(totalIncome, spendPct) * constants.MonthsPerYear
	goals := newGoalTracker(annualSpend, req.InflationPct, currency)

	result := &ProjectionResult{
		Data:           make([]domain.YearProjection, 0, req.Years+1),
		Milestones:     []domain.Milestone{},
		GoalMilestones: []domain.Milestone{},
		Warnings:       warnings,
	}
	result.Data = append(result.Data, domain.YearProjection{
		Year:        0,
		Age:         req.CurrentAge,
		NetWorth:    mathutil.Round(req.CurrentSavings),
		BuyingPower: mathutil.Round(req.CurrentSavings),
	})

	netWorth := req.CurrentSavings
	for year := 1; year <= req.Years; year++ {
		monthlyIncome := totalIncome * finance.GrowthFactor(req.AnnualRaisePct, year-1)
		monthlyContribution := finance.ShareOf(monthlyIncome, retainedPct)

		change, err := p.engine.ProcessYear(year, netWorth, monthlyContribution, req.MarketReturnPct, scheduled)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate year %d: %w", year, err)
		}
		netWorth = change.EndBalance

		record := domain.YearProjection{
			Year:           year,
			Age:            req.CurrentAge + year,
			NetWorth:       mathutil.Round(netWorth),
			Contribution:   mathutil.Round(change.Contribution),
			InterestEarned: mathutil.Round(change.Interest),
			BuyingPower:    mathutil.Round(finance.Discount(netWorth, req.InflationPct, year)),
			EventsValue:    mathutil.Round(change.Events),
		}
		result.Data = append(result.Data, record)

		if milestone, ok := tracker.check(netWorth, year, record.Age); ok {
			p.logger.Debug("milestone reached",
				zap.String("op", "forecast.Project"),
				zap.String("milestone", milestone.Name),
				zap.Int("year", year),
			)
			result.Milestones = append(result.Milestones, milestone)
		}
		for _, goal := range goals.check(change, year, record.Age) {
			p.logger.Debug("goal reached",
				zap.String("op", "forecast.Project"),
				zap.String("goal", goal.Name),
				zap.Int("year", year),
			)
			result.GoalMilestones = append(result.GoalMilestones, goal)
		}
	}

	final := result.Data[len(result.Data)-1]
	result.FinalNetWorth = final.NetWorth
	result.FinalBuyingPower = final.BuyingPower

	p.logger.Debug("projection complete",
		zap.String("op", "forecast.Project"),
		zap.Int("years", req.Years),
		zap.Float64("finalNetWorth", result.FinalNetWorth),
		zap.Int("milestones", len(result.Milestones)),
		zap.Int("goalMilestones", len(result.GoalMilestones)),
	)

	return result, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return constants.DefaultCurrencySymbol
	}
	return currency
}
