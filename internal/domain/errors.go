package domain

import (
	"errors"
	"fmt"

	"github.com/iwvelando/finance-planner/pkg/constants"
)

// InvalidParameterError reports an input outside its documented domain.
// It is returned before any computation starts.
type InvalidParameterError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// InsufficientDataError reports a regression attempted with too few samples.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d samples provided, at least %d required", e.Have, e.Need)
}

// NonConvergenceError reports a numeric search that did not reach tolerance.
type NonConvergenceError struct {
	Iterations int
	Residual   float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("solver did not converge after %d iterations (residual %.2f)", e.Iterations, e.Residual)
}

// IsInvalidParameter reports whether err wraps an InvalidParameterError.
func IsInvalidParameter(err error) bool {
	var target *InvalidParameterError
	return errors.As(err, &target)
}

// ValidateYears checks a horizon against [min, MaxYears].
func ValidateYears(field string, years, min int) error {
	if years < min || years > constants.MaxYears {
		return &InvalidParameterError{
			Field:  field,
			Value:  years,
			Reason: fmt.Sprintf("must be between %d and %d", min, constants.MaxYears),
		}
	}
	return nil
}

// ValidateRate checks that an annual percentage lies in (-100, 100].
func ValidateRate(field string, pct float64) error {
	if pct <= constants.MinRatePct || pct > constants.MaxRatePct {
		return &InvalidParameterError{
			Field:  field,
			Value:  pct,
			Reason: fmt.Sprintf("must be greater than %.0f and at most %.0f", constants.MinRatePct, constants.MaxRatePct),
		}
	}
	return nil
}

// ValidateIncomes rejects negative income amounts.
func ValidateIncomes(incomes []IncomeSource) error {
	for i, income := range incomes {
		if income.Amount < 0 {
			return &InvalidParameterError{
				Field:  fmt.Sprintf("incomes[%d].amount", i),
				Value:  income.Amount,
				Reason: "must not be negative",
			}
		}
	}
	return nil
}

// ValidateExpenses checks that each allocation is a percentage of income.
func ValidateExpenses(expenses []ExpenseAllocation) error {
	for i, expense := range expenses {
		if expense.Percentage < 0 || expense.Percentage > constants.PercentageMultiplier {
			return &InvalidParameterError{
				Field:  fmt.Sprintf("expenses[%d].percentage", i),
				Value:  expense.Percentage,
				Reason: "must be between 0 and 100",
			}
		}
	}
	return nil
}

// ValidateEvents checks event years and durations.
func ValidateEvents(events []LifeEvent) error {
	for i, event := range events {
		if event.Year < 0 {
			return &InvalidParameterError{
				Field:  fmt.Sprintf("events[%d].year", i),
				Value:  event.Year,
				Reason: "must not be negative",
			}
		}
		if event.IsRecurring && event.Duration < 1 {
			return &InvalidParameterError{
				Field:  fmt.Sprintf("events[%d].duration", i),
				Value:  event.Duration,
				Reason: "recurring events must last at least one year",
			}
		}
	}
	return nil
}
