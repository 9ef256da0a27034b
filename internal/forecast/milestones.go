package forecast

import (
	"fmt"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/iwvelando/finance-planner/pkg/format"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
)

// MilestoneThresholds are the round net-worth levels reported by a projection.
var MilestoneThresholds = []float64{
	10_000, 25_000, 50_000, 100_000, 250_000, 500_000,
	1_000_000, 2_000_000, 5_000_000,
}

const (
	debtFreeName              = "Debt Free"
	financialIndependenceName = "Financial Independence"
	moneyMachineName          = "Money Machine"
)

type milestoneTracker struct {
	currency   string
	thresholds []float64
	passed     []bool
}

// newMilestoneTracker marks every threshold at or below the starting net
// worth as already passed. Debt Free is tracked only when the run starts
// underwater.
func newMilestoneTracker(initial float64, currency string) *milestoneTracker {
	thresholds := MilestoneThresholds
	if initial < 0 {
		thresholds = append([]float64{0}, MilestoneThresholds...)
	}
	passed := make([]bool, len(thresholds))
	for i, threshold := range thresholds {
		passed[i] = initial >= threshold
	}
	return &milestoneTracker{currency: currency, thresholds: thresholds, passed: passed}
}

// check returns at most one milestone per year: the highest threshold newly
// crossed. Lower thresholds crossed in the same year are consumed silently,
// which keeps milestones strictly increasing in both year and net worth.
func (mt *milestoneTracker) check(netWorth float64, year, age int) (domain.Milestone, bool) {
	highest := -1
	for i, threshold := range mt.thresholds {
		if mt.passed[i] || netWorth < threshold {
			continue
		}
		mt.passed[i] = true
		highest = i
	}
	if highest < 0 {
		return domain.Milestone{}, false
	}

	threshold := mt.thresholds[highest]
	milestone := domain.Milestone{
		Year:     year,
		NetWorth: mathutil.Round(netWorth),
	}
	if threshold == 0 {
		milestone.Name = debtFreeName
		milestone.Message = fmt.Sprintf("Net worth turns positive at age %d (year %d).", age, year)
		return milestone, true
	}

	milestone.Name = fmt.Sprintf("%s%s Club", mt.currency, format.CompactAmount(threshold))
	milestone.Message = fmt.Sprintf("You reach %s at age %d (year %d).",
		format.WholeCurrency(threshold, mt.currency), age, year)
	return milestone, true
}

// goalTracker reports the two non-threshold goals, each at most once and in
// year order. They are kept apart from the threshold milestones, which must
// strictly increase in net worth.
type goalTracker struct {
	currency     string
	annualSpend  float64
	inflationPct float64
	independent  bool
	moneyMachine bool
}

// newGoalTracker takes the planned annual spend in today's money. Financial
// Independence is only tracked when that spend is positive.
func newGoalTracker(annualSpend, inflationPct float64, currency string) *goalTracker {
	return &goalTracker{
		currency:     currency,
		annualSpend:  annualSpend,
		inflationPct: inflationPct,
		independent:  annualSpend <= 0,
	}
}

// check evaluates one simulated year. Financial Independence needs net worth
// of 25 times the spend inflated to that year; Money Machine needs the year's
// interest to exceed a positive contribution.
func (gt *goalTracker) check(change finance.YearChange, year, age int) []domain.Milestone {
	var reached []domain.Milestone

	if !gt.independent {
		spend := gt.annualSpend * finance.GrowthFactor(gt.inflationPct, year)
		fiNumber := spend * constants.FinancialIndependenceMultiple
		if change.EndBalance >= fiNumber {
			gt.independent = true
			reached = append(reached, domain.Milestone{
				Name:     financialIndependenceName,
				Year:     year,
				NetWorth: mathutil.Round(change.EndBalance),
				Message: fmt.Sprintf("Net worth covers %.0f years of spend (%s a year) at age %d (year %d).",
					constants.FinancialIndependenceMultiple, format.WholeCurrency(spend, gt.currency), age, year),
			})
		}
	}

	if !gt.moneyMachine && change.Contribution > 0 && change.Interest > change.Contribution {
		gt.moneyMachine = true
		reached = append(reached, domain.Milestone{
			Name:     moneyMachineName,
			Year:     year,
			NetWorth: mathutil.Round(change.EndBalance),
			Message: fmt.Sprintf("Investment returns of %s now exceed your contributions of %s at age %d (year %d).",
				format.WholeCurrency(change.Interest, gt.currency), format.WholeCurrency(change.Contribution, gt.currency), age, year),
		})
	}

	return reached
}
