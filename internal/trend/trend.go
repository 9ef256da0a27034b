// Package trend fits a straight line through historical net worth and
// extends it forward.
package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/datetime"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Request carries the balance history and forecast horizon.
type Request struct {
	Samples      []domain.BalanceSample `json:"samples" yaml:"samples"`
	Years        int                    `json:"years" yaml:"years"`
	CurrentAge   int                    `json:"currentAge" yaml:"currentAge"`
	InflationPct float64                `json:"inflationPct" yaml:"inflationPct"`
}

// Result is the fitted trend and its extrapolation.
//
// AnnualGrowthRate is 12 × slope / lastFitted × 100: a year of linear growth
// as a percentage of the last fitted value. It is an additive trend restated
// as a rate, not a compounding return.
type Result struct {
	MonthlyGrowth    float64                 `json:"monthlyGrowth"`
	AnnualGrowthRate float64                 `json:"annualGrowthRate"`
	RSquared         float64                 `json:"rSquared"`
	ForecastData     []domain.YearProjection `json:"forecastData"`
	Message          string                  `json:"message"`
	InsufficientData bool                    `json:"insufficientData,omitempty"`
	SampleCount      int                     `json:"sampleCount"`
}

// Fit is an ordinary least-squares line y = Intercept + Slope·x.
type Fit struct {
	Intercept float64
	Slope     float64
	RSquared  float64
}

// At evaluates the fitted line.
func (f Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// Forecaster runs trend forecasts.
type Forecaster struct {
	logger *zap.Logger
}

// NewForecaster creates a Forecaster.
func NewForecaster(logger *zap.Logger) *Forecaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forecaster{logger: logger}
}

// Forecast fits the samples and projects the trend forward. Too few samples
// is not an error: the result is empty and says why.
func (f *Forecaster) Forecast(req Request) (*Result, error) {
	if err := domain.ValidateYears("years", req.Years, constants.MinYears); err != nil {
		return nil, err
	}
	if err := domain.ValidateRate("inflationPct", req.InflationPct); err != nil {
		return nil, err
	}

	// Too few samples is reported before the samples themselves are checked.
	result := &Result{ForecastData: []domain.YearProjection{}, SampleCount: len(req.Samples)}
	if len(req.Samples) < constants.MinTrendSamples {
		insufficient := &domain.InsufficientDataError{Have: len(req.Samples), Need: constants.MinTrendSamples}
		f.logger.Info("skipping trend forecast",
			zap.String("op", "trend.Forecast"),
			zap.Error(insufficient),
		)
		result.InsufficientData = true
		result.Message = fmt.Sprintf("Not enough history to forecast: %s.", insufficient.Error())
		return result, nil
	}

	dates, err := parseSamples(req.Samples)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(dates))
	ys := make([]float64, len(dates))
	for i, date := range dates {
		xs[i] = datetime.MonthsBetween(dates[0], date)
		ys[i] = req.Samples[i].NetWorth
	}
	fit := LinearFit(xs, ys)

	result.MonthlyGrowth = mathutil.Round(fit.Slope)
	result.RSquared = mathutil.RoundTo(fit.RSquared, constants.RSquaredPlaces)

	message := fmt.Sprintf("Based on %d historical data points.", len(req.Samples))
	lastFitted := fit.At(xs[len(xs)-1])
	if lastFitted > 0 {
		result.AnnualGrowthRate = mathutil.Round(fit.Slope * constants.MonthsPerYear / lastFitted * constants.PercentageMultiplier)
	} else {
		message += " Annual growth rate is undefined because the fitted net worth is not positive."
	}
	result.Message = message

	lastActual := ys[len(ys)-1]
	for year := 0; year <= req.Years; year++ {
		netWorth := lastActual + fit.Slope*constants.MonthsPerYear*float64(year)
		result.ForecastData = append(result.ForecastData, domain.YearProjection{
			Year:        year,
			Age:         req.CurrentAge + year,
			NetWorth:    mathutil.Round(netWorth),
			BuyingPower: mathutil.Round(finance.Discount(netWorth, req.InflationPct, year)),
		})
	}

	f.logger.Debug("trend forecast complete",
		zap.String("op", "trend.Forecast"),
		zap.Int("samples", len(req.Samples)),
		zap.Float64("monthlyGrowth", result.MonthlyGrowth),
		zap.Float64("rSquared", result.RSquared),
	)
	return result, nil
}

// LinearFit computes the least-squares line through (xs, ys). The slices must
// have equal length and at least two distinct x values.
func LinearFit(xs, ys []float64) Fit {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	slope := 0.0
	if sxx != 0 {
		slope = sxy / sxx
	}
	fit := Fit{Intercept: meanY - slope*meanX, Slope: slope}

	var ssRes, ssTot float64
	for i := range xs {
		residual := ys[i] - fit.At(xs[i])
		ssRes += residual * residual
		deviation := ys[i] - meanY
		ssTot += deviation * deviation
	}
	if ssTot == 0 {
		fit.RSquared = 1
	} else {
		fit.RSquared = mathutil.Clamp(1-ssRes/ssTot, 0, 1)
	}
	return fit
}

func parseSamples(samples []domain.BalanceSample) ([]time.Time, error) {
	dates := make([]time.Time, len(samples))
	for i, sample := range samples {
		date, err := datetime.ParseDate(sample.Date)
		if err != nil {
			return nil, &domain.InvalidParameterError{
				Field:  fmt.Sprintf("samples[%d].date", i),
				Value:  sample.Date,
				Reason: err.Error(),
			}
		}
		if i > 0 && !date.After(dates[i-1]) {
			return nil, &domain.InvalidParameterError{
				Field:  fmt.Sprintf("samples[%d].date", i),
				Value:  sample.Date,
				Reason: "samples must be in strictly ascending date order",
			}
		}
		if math.IsNaN(sample.NetWorth) || math.IsInf(sample.NetWorth, 0) {
			return nil, &domain.InvalidParameterError{
				Field:  fmt.Sprintf("samples[%d].netWorth", i),
				Value:  sample.NetWorth,
				Reason: "must be a finite number",
			}
		}
		dates[i] = date
	}
	return dates, nil
}
