// Package fire computes the financial-independence number and how long the
// current portfolio needs to coast, without new contributions, to reach it.
package fire

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/format"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Request carries the inputs of a FIRE calculation.
type Request struct {
	CurrentNetWorth       float64 `json:"currentNetWorth" yaml:"currentNetWorth"`
	AnnualSpend           float64 `json:"annualSpend" yaml:"annualSpend"`
	SafeWithdrawalRatePct float64 `json:"safeWithdrawalRatePct" yaml:"safeWithdrawalRatePct"`
	ReturnRatePct         float64 `json:"returnRatePct" yaml:"returnRatePct"`
	InflationPct          float64 `json:"inflationPct" yaml:"inflationPct"`
	Currency              string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Result is the outcome of a FIRE calculation. Pointer fields are nil when
// the quantity is undefined.
type Result struct {
	FireNumber      float64  `json:"fireNumber"`
	CurrentSWR      *float64 `json:"currentSwr"`
	YearsToFire     *int     `json:"yearsToFire"`
	YearsToFireReal *int     `json:"yearsToFireReal"`
	Message         string   `json:"message"`
}

// Calculator evaluates FIRE requests.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a Calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Validate checks the request before any computation happens.
func (req Request) Validate() error {
	if req.AnnualSpend < 0 {
		return &domain.InvalidParameterError{Field: "annualSpend", Value: req.AnnualSpend, Reason: "must not be negative"}
	}
	if req.SafeWithdrawalRatePct <= 0 || req.SafeWithdrawalRatePct > constants.MaxRatePct {
		return &domain.InvalidParameterError{
			Field:  "safeWithdrawalRatePct",
			Value:  req.SafeWithdrawalRatePct,
			Reason: "must be greater than 0 and at most 100",
		}
	}
	if err := domain.ValidateRate("returnRatePct", req.ReturnRatePct); err != nil {
		return err
	}
	return domain.ValidateRate("inflationPct", req.InflationPct)
}

// Calculate computes the FIRE number, the current withdrawal rate and the
// coast years in nominal and inflation-adjusted terms.
func (c *Calculator) Calculate(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = constants.DefaultCurrencySymbol
	}

	fireNumber := req.AnnualSpend * constants.PercentageMultiplier / req.SafeWithdrawalRatePct
	result := &Result{FireNumber: mathutil.Round(fireNumber)}

	if req.CurrentNetWorth > 0 {
		swr := mathutil.Round(mathutil.CalculatePercentage(req.AnnualSpend, req.CurrentNetWorth))
		result.CurrentSWR = &swr
	}

	nominal := req.ReturnRatePct / constants.PercentageMultiplier
	realRate := (1+nominal)/(1+req.InflationPct/constants.PercentageMultiplier) - 1

	years, reason := CoastYears(req.CurrentNetWorth, fireNumber, nominal)
	result.YearsToFire = years
	result.YearsToFireReal, _ = CoastYears(req.CurrentNetWorth, fireNumber, realRate)

	target := format.WholeCurrency(fireNumber, currency)
	switch {
	case years == nil:
		result.Message = fmt.Sprintf("Your FIRE number is %s. %s", target, reason)
	case *years == 0:
		result.Message = fmt.Sprintf("Your FIRE number is %s and your net worth already covers it. You are financially independent.", target)
	default:
		result.Message = fmt.Sprintf("Your FIRE number is %s. Without adding another cent, growth alone gets you there in %d years.", target, *years)
		if result.YearsToFireReal != nil && *result.YearsToFireReal != *years {
			result.Message += fmt.Sprintf(" In today's money that takes %d years.", *result.YearsToFireReal)
		}
	}

	c.logger.Debug("fire calculation complete",
		zap.String("op", "fire.Calculate"),
		zap.Float64("fireNumber", result.FireNumber),
		zap.Bool("reachable", years != nil),
	)
	return result, nil
}

// CoastYears returns the smallest n ≥ 0 with netWorth × (1+rate)^n ≥ target,
// or nil and the reason when growth alone never gets there within
// MaxCoastYears. rate is a fraction, not a percentage.
func CoastYears(netWorth, target, rate float64) (*int, string) {
	if netWorth >= target {
		zero := 0
		return &zero, ""
	}
	if netWorth <= 0 {
		return nil, "It is unreachable by coasting alone: with no positive net worth to grow, only new contributions can get you there."
	}
	if rate <= 0 {
		return nil, "It is unreachable by coasting alone: without a positive return your net worth never grows into it."
	}

	growth := math.Log1p(rate)
	estimate := math.Ceil(math.Log(target/netWorth) / growth)
	if growth <= 0 || math.IsNaN(estimate) || estimate > constants.MaxCoastYears {
		return nil, fmt.Sprintf("It is unreachable by coasting alone: growth is too small to reach it within %d years.", constants.MaxCoastYears)
	}

	grown := func(years int) float64 {
		return netWorth * math.Pow(1+rate, float64(years))
	}
	n := max(int(estimate), 0)
	// Correct for floating point error around exact powers.
	for step := 0; step < 2 && n > 0 && grown(n-1) >= target; step++ {
		n--
	}
	for step := 0; step < 2 && grown(n) < target; step++ {
		n++
	}
	return &n, ""
}
