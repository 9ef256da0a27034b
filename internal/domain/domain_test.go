package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseAllocationIsSavings(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"savings", true},
		{"Savings", true},
		{" SAVINGS ", true},
		{"house", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpenseAllocation{ID: tt.id}.IsSavings())
		})
	}
}

func TestTotalsExcludeSavings(t *testing.T) {
	incomes := []IncomeSource{{Name: "Salary", Amount: 4000}, {Name: "Side", Amount: 1000}}
	expenses := []ExpenseAllocation{
		{ID: "house", Percentage: 30},
		{ID: "food", Percentage: 15},
		{ID: "savings", Percentage: 20},
	}

	assert.InDelta(t, 5000, TotalIncome(incomes), 1e-9)
	assert.InDelta(t, 45, SpendPercentage(expenses), 1e-9)
}

func TestValidationErrors(t *testing.T) {
	require.NoError(t, ValidateYears("years", 1, 1))
	require.NoError(t, ValidateYears("years", 50, 1))
	assert.True(t, IsInvalidParameter(ValidateYears("years", 0, 1)))
	assert.True(t, IsInvalidParameter(ValidateYears("years", 51, 0)))

	require.NoError(t, ValidateRate("marketReturnPct", 100))
	require.NoError(t, ValidateRate("marketReturnPct", -99.9))
	assert.True(t, IsInvalidParameter(ValidateRate("marketReturnPct", -100)))
	assert.True(t, IsInvalidParameter(ValidateRate("marketReturnPct", 100.1)))

	assert.True(t, IsInvalidParameter(ValidateIncomes([]IncomeSource{{Amount: -1}})))
	assert.True(t, IsInvalidParameter(ValidateExpenses([]ExpenseAllocation{{ID: "x", Percentage: 101}})))
	assert.True(t, IsInvalidParameter(ValidateEvents([]LifeEvent{{Year: -1}})))
	assert.True(t, IsInvalidParameter(ValidateEvents([]LifeEvent{{Year: 2, IsRecurring: true}})))
	require.NoError(t, ValidateEvents([]LifeEvent{{Year: 0, Amount: 10}}))
}

func TestIsInvalidParameterWrapped(t *testing.T) {
	err := fmt.Errorf("projection failed: %w", &InvalidParameterError{Field: "years", Value: 0, Reason: "too small"})
	assert.True(t, IsInvalidParameter(err))
	assert.False(t, IsInvalidParameter(&InsufficientDataError{Have: 2, Need: 3}))
	assert.Contains(t, err.Error(), "invalid years (0): too small")
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "insufficient data: 2 samples provided, at least 3 required",
		(&InsufficientDataError{Have: 2, Need: 3}).Error())
	assert.Equal(t, "solver did not converge after 100 iterations (residual 12.50)",
		(&NonConvergenceError{Iterations: 100, Residual: 12.5}).Error())
}
