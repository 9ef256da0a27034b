package validation

import (
	"math"
	"strings"
	"testing"
)

func TestValidateEventHorizon(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		duration  int
		recurring bool
		horizon   int
		want      []string
	}{
		{
			name:    "One-time event inside horizon",
			year:    5,
			horizon: 10,
		},
		{
			name:    "One-time event on last year",
			year:    10,
			horizon: 10,
		},
		{
			name:    "Event after horizon",
			year:    12,
			horizon: 10,
			want:    []string{"starts after the 10-year horizon (year 12)"},
		},
		{
			name:    "Year zero",
			year:    0,
			horizon: 10,
			want:    []string{"year 0, which is never applied"},
		},
		{
			name:      "Recurring event runs past horizon",
			year:      8,
			duration:  5,
			recurring: true,
			horizon:   10,
			want:      []string{"ends after the 10-year horizon (2 of 5 years fall outside it)"},
		},
		{
			name:      "Recurring event with an enormous duration",
			year:      8,
			duration:  math.MaxInt,
			recurring: true,
			horizon:   10,
			want:      []string{"ends after the 10-year horizon"},
		},
		{
			name:      "Recurring event ends on horizon",
			year:      6,
			duration:  5,
			recurring: true,
			horizon:   10,
		},
		{
			name:     "Duration ignored for one-time events",
			year:     8,
			duration: 5,
			horizon:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateEventHorizon("Bonus", tt.year, tt.duration, tt.recurring, tt.horizon)
			if len(warnings) != len(tt.want) {
				t.Fatalf("ValidateEventHorizon() = %v, want %d warnings", warnings, len(tt.want))
			}
			for i, want := range tt.want {
				if !strings.Contains(warnings[i], want) {
					t.Errorf("warning %q does not contain %q", warnings[i], want)
				}
				if !strings.Contains(warnings[i], "'Bonus'") {
					t.Errorf("warning %q does not name the event", warnings[i])
				}
			}
		})
	}
}

func TestValidateAllocationTotal(t *testing.T) {
	if warning := ValidateAllocationTotal(100); warning != "" {
		t.Errorf("ValidateAllocationTotal(100) = %q, want no warning", warning)
	}
	warning := ValidateAllocationTotal(110)
	if !strings.Contains(warning, "110.0%") {
		t.Errorf("ValidateAllocationTotal(110) = %q, want total in warning", warning)
	}
}

func TestValidateSampleDates(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"Ascending", []string{"2024-01-31", "2024-02-29", "2024-03-31"}, 0},
		{"RFC 3339 timestamps", []string{"2024-01-31T10:00:00Z", "2024-02-29T10:00:00Z"}, 0},
		{"Duplicate", []string{"2024-01-31", "2024-01-31"}, 1},
		{"Descending", []string{"2024-03-31", "2024-02-29", "2024-01-31"}, 2},
		{"Invalid", []string{"2024-01-31", "31/01/2024"}, 1},
		{"Empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateSampleDates(tt.dates)
			if len(warnings) != tt.want {
				t.Errorf("ValidateSampleDates() = %v, want %d warnings", warnings, tt.want)
			}
		})
	}
}

func TestPlanValidatorValidateAll(t *testing.T) {
	validator := PlanValidator{
		Years: 10,
		Events: []EventConfig{
			{Name: "Inheritance", Year: 4},
			{Name: "Sabbatical", Year: 15},
		},
		Expenses: []ExpenseConfig{
			{ID: "housing", Percentage: 70},
			{ID: "food", Percentage: 40},
		},
		SampleDates:    []string{"2024-02-01", "2024-01-01"},
		ActualExpenses: []string{"housing", "travel"},
	}

	warnings := validator.ValidateAll()

	expected := []string{
		"Event 'Sabbatical' starts after the 10-year horizon",
		"Expense allocations total 110.0%",
		"No 'savings' expense allocation",
		"Actual expense 'travel' does not match",
		"History sample 1 (2024-01-01) is not after",
	}
	if len(warnings) != len(expected) {
		t.Fatalf("ValidateAll() = %v, want %d warnings", warnings, len(expected))
	}
	for i, want := range expected {
		if !strings.Contains(warnings[i], want) {
			t.Errorf("warning %d = %q, want it to contain %q", i, warnings[i], want)
		}
	}
}

func TestPlanValidatorSavingsAllocationIsNotSpend(t *testing.T) {
	validator := PlanValidator{
		Years: 10,
		Expenses: []ExpenseConfig{
			{ID: "housing", Percentage: 60},
			{ID: "Savings", Percentage: 50},
		},
		ActualExpenses: []string{"savings"},
	}

	if warnings := validator.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() = %v, want no warnings", warnings)
	}
}

func TestPlanValidatorEmpty(t *testing.T) {
	validator := PlanValidator{Years: 30}
	if warnings := validator.ValidateAll(); len(warnings) != 0 {
		t.Errorf("ValidateAll() = %v, want no warnings", warnings)
	}
}
