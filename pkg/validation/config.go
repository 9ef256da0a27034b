// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/datetime"
)

// ValidateEventHorizon checks if an event is scheduled inside the projection horizon.
func ValidateEventHorizon(eventName string, year, duration int, recurring bool, horizon int) []string {
	var warnings []string

	if year == 0 {
		warnings = append(warnings, fmt.Sprintf("Event '%s' is scheduled for year 0, which is never applied", eventName))
	}

	if year > horizon {
		warnings = append(warnings, fmt.Sprintf("Event '%s' starts after the %d-year horizon (year %d)",
			eventName, horizon, year))
		return warnings
	}

	// Compare remaining years rather than the last year so huge durations
	// cannot overflow.
	if recurring && duration > 0 && duration-1 > horizon-year {
		outside := duration - 1 - (horizon - year)
		warnings = append(warnings, fmt.Sprintf("Event '%s' ends after the %d-year horizon (%d of %d years fall outside it)",
			eventName, horizon, outside, duration))
	}

	return warnings
}

// ValidateAllocationTotal checks if spend allocations leave anything to save.
func ValidateAllocationTotal(spendPct float64) string {
	if spendPct > constants.PercentageMultiplier {
		return fmt.Sprintf("Expense allocations total %.1f%% of income - monthly contributions will be negative", spendPct)
	}
	return ""
}

// PlanValidator collects the plan fields that warnings are derived from.
type PlanValidator struct {
	Years          int
	Events         []EventConfig
	Expenses       []ExpenseConfig
	SampleDates    []string
	ActualExpenses []string
}

type EventConfig struct {
	Name      string
	Year      int
	Duration  int
	Recurring bool
}

type ExpenseConfig struct {
	ID         string
	Percentage float64
}

// ValidateAll validates the entire plan and returns warnings
func (pv *PlanValidator) ValidateAll() []string {
	var warnings []string

	for _, event := range pv.Events {
		warnings = append(warnings, ValidateEventHorizon(event.Name, event.Year, event.Duration, event.Recurring, pv.Years)...)
	}

	if len(pv.Expenses) > 0 {
		spend := 0.0
		hasSavings := false
		known := make(map[string]bool, len(pv.Expenses))
		for _, expense := range pv.Expenses {
			id := strings.ToLower(strings.TrimSpace(expense.ID))
			known[id] = true
			if id == constants.SavingsExpenseID {
				hasSavings = true
				continue
			}
			spend += expense.Percentage
		}
		if warning := ValidateAllocationTotal(spend); warning != "" {
			warnings = append(warnings, warning)
		}
		if !hasSavings {
			warnings = append(warnings, fmt.Sprintf("No '%s' expense allocation - unallocated income is treated as saved",
				constants.SavingsExpenseID))
		}
		for _, id := range pv.ActualExpenses {
			if !known[strings.ToLower(strings.TrimSpace(id))] {
				warnings = append(warnings, fmt.Sprintf("Actual expense '%s' does not match any expense allocation", id))
			}
		}
	}

	warnings = append(warnings, ValidateSampleDates(pv.SampleDates)...)

	return warnings
}

// ValidateSampleDates checks that history dates parse and strictly ascend.
func ValidateSampleDates(dates []string) []string {
	var warnings []string
	previous := ""
	for i, date := range dates {
		if _, err := datetime.ParseDate(date); err != nil {
			warnings = append(warnings, fmt.Sprintf("History sample %d has invalid date %q", i, date))
			previous = ""
			continue
		}
		normalized := strings.TrimSpace(date)
		if len(normalized) > len(constants.DateLayout) {
			normalized = normalized[:len(constants.DateLayout)]
		}
		if previous != "" && normalized <= previous {
			warnings = append(warnings, fmt.Sprintf("History sample %d (%s) is not after the previous sample (%s) - trend forecasts need ascending dates",
				i, normalized, previous))
		}
		previous = normalized
	}
	return warnings
}
