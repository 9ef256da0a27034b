// Package config defines the plan file structure and includes functions for
// loading it and turning it into requests for each planning component.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/finance-planner/internal/coach"
	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/internal/fire"
	"github.com/iwvelando/finance-planner/internal/forecast"
	"github.com/iwvelando/finance-planner/internal/optimizer"
	"github.com/iwvelando/finance-planner/internal/trend"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/iwvelando/finance-planner/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FINANCE_PLANNER_ASSUMPTIONS_YEARS.
const EnvPrefix = "FINANCE_PLANNER"

// Configuration holds a household plan and the settings used to run it.
type Configuration struct {
	Currency       string             `yaml:"currency,omitempty"`
	Household      Household          `yaml:"household"`
	Assumptions    Assumptions        `yaml:"assumptions"`
	Goals          Goals              `yaml:"goals,omitempty"`
	History        History            `yaml:"history,omitempty"`
	ActualExpenses map[string]float64 `yaml:"actualExpenses,omitempty"`
	Solver         SolverConfig       `yaml:"solver,omitempty"`
	Logging        LoggingConfig      `yaml:"logging,omitempty"`
	Output         OutputConfig       `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Household is the current financial state.
type Household struct {
	CurrentSavings float64
	CurrentAge     int
	Incomes        []domain.IncomeSource
	Expenses       []domain.ExpenseAllocation
	Events         []domain.LifeEvent
}

// Assumptions are the market and career assumptions for every run.
type Assumptions struct {
	Years           int
	AnnualRaisePct  float64
	MarketReturnPct float64
	InflationPct    float64
}

// Goals are the targets used by the reverse solver, FIRE calculator and coach.
type Goals struct {
	TargetNetWorth        float64
	TargetYears           int
	AnnualSpend           float64
	SafeWithdrawalRatePct float64
}

// History is the observed net worth series.
type History struct {
	Samples     []domain.BalanceSample
	LastUpdated string
	AsOf        string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("currency", constants.DefaultCurrencySymbol)
	v.SetDefault("household.currentAge", constants.DefaultCurrentAge)
	v.SetDefault("assumptions.years", constants.DefaultYears)
	v.SetDefault("assumptions.annualRaisePct", constants.DefaultAnnualRaisePct)
	v.SetDefault("assumptions.marketReturnPct", constants.DefaultMarketReturnPct)
	v.SetDefault("assumptions.inflationPct", constants.DefaultInflationPct)
	v.SetDefault("goals.safeWithdrawalRatePct", constants.DefaultSafeWithdrawal)
	v.SetDefault("output.format", constants.OutputFormatPretty)
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// plan there. Unset assumptions take their defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.Solver.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solver configuration: %w", err)
	}

	return &configuration, nil
}

// Params returns the simulation parameters shared by every component.
func (c *Configuration) Params() domain.SimulationParams {
	return domain.SimulationParams{
		Years:           c.Assumptions.Years,
		AnnualRaisePct:  c.Assumptions.AnnualRaisePct,
		MarketReturnPct: c.Assumptions.MarketReturnPct,
		InflationPct:    c.Assumptions.InflationPct,
		CurrentAge:      c.Household.CurrentAge,
		CurrentSavings:  c.Household.CurrentSavings,
	}
}

// goalYears is the target horizon, falling back to the projection horizon.
func (c *Configuration) goalYears() int {
	if c.Goals.TargetYears > 0 {
		return c.Goals.TargetYears
	}
	return c.Assumptions.Years
}

// PlannedAnnualSpend is a year of the household's planned non-savings spend.
func (c *Configuration) PlannedAnnualSpend() float64 {
	monthly := finance.ShareOf(domain.TotalIncome(c.Household.Incomes), domain.SpendPercentage(c.Household.Expenses))
	return monthly * constants.MonthsPerYear
}

// ProjectionRequest builds the forward projection input.
func (c *Configuration) ProjectionRequest() forecast.ProjectionRequest {
	return forecast.ProjectionRequest{
		SimulationParams: c.Params(),
		Incomes:          c.Household.Incomes,
		Expenses:         c.Household.Expenses,
		Events:           c.Household.Events,
		Currency:         c.Currency,
	}
}

// ReverseRequest builds the reverse solver input from the goals.
func (c *Configuration) ReverseRequest() optimizer.ReverseRequest {
	return optimizer.ReverseRequest{
		CurrentSavings:  c.Household.CurrentSavings,
		TargetNetWorth:  c.Goals.TargetNetWorth,
		Years:           c.goalYears(),
		AnnualRaisePct:  c.Assumptions.AnnualRaisePct,
		MarketReturnPct: c.Assumptions.MarketReturnPct,
		Currency:        c.Currency,
	}
}

// FireRequest builds the FIRE calculator input. Without an explicit annual
// spend the planned spend is used.
func (c *Configuration) FireRequest() fire.Request {
	spend := c.Goals.AnnualSpend
	if spend == 0 {
		spend = c.PlannedAnnualSpend()
	}
	return fire.Request{
		CurrentNetWorth:       c.Household.CurrentSavings,
		AnnualSpend:           spend,
		SafeWithdrawalRatePct: c.Goals.SafeWithdrawalRatePct,
		ReturnRatePct:         c.Assumptions.MarketReturnPct,
		InflationPct:          c.Assumptions.InflationPct,
		Currency:              c.Currency,
	}
}

// TrendRequest builds the trend forecaster input from the history.
func (c *Configuration) TrendRequest() trend.Request {
	return trend.Request{
		Samples:      c.History.Samples,
		Years:        c.Assumptions.Years,
		CurrentAge:   c.Household.CurrentAge,
		InflationPct: c.Assumptions.InflationPct,
	}
}

// CoachRequest builds the advisory engine input as of today.
func (c *Configuration) CoachRequest() coach.Request {
	return c.CoachRequestWithFixedTime(time.Now())
}

// CoachRequestWithFixedTime builds the advisory engine input with an
// injectable reference date for the staleness check.
func (c *Configuration) CoachRequestWithFixedTime(fixedTime time.Time) coach.Request {
	req := coach.Request{
		SimulationParams: c.Params(),
		Incomes:          c.Household.Incomes,
		Expenses:         c.Household.Expenses,
		Currency:         c.Currency,
		ActualExpenses:   c.ActualExpenses,
		LastUpdated:      c.History.LastUpdated,
		AsOf:             c.History.AsOf,
	}
	if req.LastUpdated != "" && req.AsOf == "" {
		req.AsOf = fixedTime.Format(constants.DateLayout)
	}
	if c.Goals.TargetNetWorth > 0 {
		req.Target = &coach.Target{TargetNetWorth: c.Goals.TargetNetWorth, Years: c.goalYears()}
	}
	return req
}

// ValidateConfiguration performs general validation of the plan and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var events []validation.EventConfig
	for _, event := range c.Household.Events {
		events = append(events, validation.EventConfig{
			Name:      event.Name,
			Year:      event.Year,
			Duration:  event.Duration,
			Recurring: event.IsRecurring,
		})
	}

	var expenses []validation.ExpenseConfig
	for _, expense := range c.Household.Expenses {
		expenses = append(expenses, validation.ExpenseConfig{
			ID:         expense.ID,
			Percentage: expense.Percentage,
		})
	}

	var sampleDates []string
	for _, sample := range c.History.Samples {
		sampleDates = append(sampleDates, sample.Date)
	}

	actualIDs := make([]string, 0, len(c.ActualExpenses))
	for id := range c.ActualExpenses {
		actualIDs = append(actualIDs, id)
	}
	sort.Strings(actualIDs)

	validator := validation.PlanValidator{
		Years:          c.Assumptions.Years,
		Events:         events,
		Expenses:       expenses,
		SampleDates:    sampleDates,
		ActualExpenses: actualIDs,
	}
	return validator.ValidateAll()
}
