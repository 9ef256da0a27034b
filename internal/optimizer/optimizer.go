// Package optimizer solves for the monthly contribution that reaches a
// target net worth.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-planner/internal/domain"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/finance"
	"github.com/iwvelando/finance-planner/pkg/format"
	"github.com/iwvelando/finance-planner/pkg/mathutil"
	"github.com/iwvelando/finance-planner/pkg/optimization"
	"go.uber.org/zap"
)

// Options bound the numeric search.
type Options struct {
	Tolerance         float64
	RelativeTolerance float64
	MaxIterations     int
}

// DefaultOptions returns the standard search bounds.
func DefaultOptions() Options {
	return Options{
		Tolerance:         constants.DefaultSolverTolerance,
		RelativeTolerance: constants.DefaultSolverRelativeTolerance,
		MaxIterations:     constants.DefaultSolverMaxIterations,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = defaults.Tolerance
	}
	if o.RelativeTolerance <= 0 {
		o.RelativeTolerance = defaults.RelativeTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaults.MaxIterations
	}
	return o
}

// ReverseRequest describes the goal to solve for.
type ReverseRequest struct {
	CurrentSavings  float64 `json:"currentSavings" yaml:"currentSavings"`
	TargetNetWorth  float64 `json:"targetNetWorth" yaml:"targetNetWorth"`
	Years           int     `json:"years" yaml:"years"`
	AnnualRaisePct  float64 `json:"annualRaisePct" yaml:"annualRaisePct"`
	MarketReturnPct float64 `json:"marketReturnPct" yaml:"marketReturnPct"`
	Currency        string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// ReverseResult is the solved contribution. RequiredMonthlyContribution is
// nil when no answer exists; Message always says why.
type ReverseResult struct {
	RequiredMonthlyContribution *float64             `json:"requiredMonthlyContribution"`
	IsPossible                  bool                 `json:"isPossible"`
	AlreadyMet                  bool                 `json:"alreadyMet"`
	Message                     string               `json:"message"`
	Summary                     optimization.Summary `json:"summary"`
}

// Solver finds the initial monthly contribution that, growing with raises
// and compounded monthly, reaches the target.
type Solver struct {
	logger *zap.Logger
	opts   Options
}

type evaluation struct {
	value   float64
	balance float64
	target  float64
}

func (e evaluation) feasible() bool {
	return e.balance >= e.target
}

func (e evaluation) residual() float64 {
	return e.balance - e.target
}

// NewSolver constructs a Solver. Zero-valued options fall back to defaults.
func NewSolver(logger *zap.Logger, opts Options) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{logger: logger, opts: opts.withDefaults()}
}

// Validate checks the request before any computation happens.
func (req ReverseRequest) Validate() error {
	if err := domain.ValidateYears("years", req.Years, 0); err != nil {
		return err
	}
	if err := domain.ValidateRate("annualRaisePct", req.AnnualRaisePct); err != nil {
		return err
	}
	return domain.ValidateRate("marketReturnPct", req.MarketReturnPct)
}

// Solve runs the search. Failure to converge is reported in the result, not
// as an error; only invalid input returns an error.
func (s *Solver) Solve(req ReverseRequest) (*ReverseResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = constants.DefaultCurrencySymbol
	}

	evaluate := func(contribution float64) evaluation {
		acc := finance.Accumulate(req.CurrentSavings, contribution, req.AnnualRaisePct, req.MarketReturnPct, req.Years)
		return evaluation{value: contribution, balance: acc.Balance, target: req.TargetNetWorth}
	}

	summary := optimization.Summary{Target: req.TargetNetWorth, Method: optimization.MethodNone}

	if req.Years == 0 {
		summary.Achieved = req.CurrentSavings
		summary.Residual = req.CurrentSavings - req.TargetNetWorth
		if mathutil.IsZero(summary.Residual) {
			summary.Converged = true
			return s.answer(0, summary, true, "The target equals your current net worth; no contribution is needed."), nil
		}
		summary.AddNote("zero-year horizon")
		return &ReverseResult{
			Message: "No contribution can change net worth over a zero-year horizon.",
			Summary: summary,
		}, nil
	}

	base := evaluate(0)
	summary.Achieved = base.balance
	summary.Residual = base.residual()
	if base.feasible() {
		summary.Converged = true
		msg := fmt.Sprintf("Your current savings grow to %s in %d years without further contributions, which already meets the target of %s.",
			format.CurrencyWithSymbol(base.balance, currency), req.Years, format.CurrencyWithSymbol(req.TargetNetWorth, currency))
		return s.answer(0, summary, true, msg), nil
	}

	var contribution float64
	var converged bool
	if req.MarketReturnPct == 0 && req.AnnualRaisePct == 0 {
		summary.Method = optimization.MethodAnalytic
		contribution = (req.TargetNetWorth - req.CurrentSavings) / float64(req.Years*constants.MonthsPerYear)
		final := evaluate(contribution)
		summary.Achieved = final.balance
		summary.Residual = final.residual()
		summary.Lower, summary.Upper = contribution, contribution
		converged = true
	} else {
		summary.Method = optimization.MethodBisection
		contribution, converged = s.bisect(evaluate, base, &summary)
	}
	summary.Converged = converged

	if !converged {
		err := &domain.NonConvergenceError{Iterations: summary.Iterations, Residual: summary.Residual}
		s.logger.Warn("reverse solve did not converge",
			zap.String("op", "optimizer.Solve"),
			zap.Float64("target", req.TargetNetWorth),
			zap.Int("iterations", summary.Iterations),
			zap.Float64("residual", summary.Residual),
		)
		summary.AddNote(err.Error())
		return &ReverseResult{Message: err.Error(), Summary: summary}, nil
	}

	msg := fmt.Sprintf("Save %s per month (growing %s a year with raises) to reach %s in %d years.",
		format.CurrencyWithSymbol(contribution, currency), format.Percent(req.AnnualRaisePct),
		format.CurrencyWithSymbol(req.TargetNetWorth, currency), req.Years)
	if req.AnnualRaisePct == 0 {
		msg = fmt.Sprintf("Save %s per month to reach %s in %d years.",
			format.CurrencyWithSymbol(contribution, currency), format.CurrencyWithSymbol(req.TargetNetWorth, currency), req.Years)
	}
	result := s.answer(contribution, summary, false, msg)

	s.logger.Debug("reverse solve complete",
		zap.String("op", "optimizer.Solve"),
		zap.String("method", summary.Method),
		zap.Float64("contribution", contribution),
		zap.Int("iterations", summary.Iterations),
	)
	return result, nil
}

// bisect brackets the answer between zero and a doubling upper bound, then
// halves the bracket until the upper end lands within tolerance of the target.
func (s *Solver) bisect(evaluate func(float64) evaluation, base evaluation, summary *optimization.Summary) (float64, bool) {
	target := base.target
	shortfall := target - base.balance

	lowerEval := base
	upper := math.Max(shortfall/constants.MonthsPerYear, 1)
	upperEval := evaluate(upper)
	for expansions := 0; !upperEval.feasible(); expansions++ {
		if expansions >= constants.MaxBracketExpansions || math.IsInf(upper, 0) {
			summary.Lower, summary.Upper = lowerEval.value, upper
			summary.Residual = upperEval.residual()
			summary.AddNote("unable to bracket the target contribution")
			return 0, false
		}
		lowerEval = upperEval
		upper *= 2
		upperEval = evaluate(upper)
	}

	withinTolerance := func(e evaluation) bool {
		if mathutil.WithinTolerance(e.balance, target, s.opts.Tolerance) {
			return true
		}
		return target != 0 && math.Abs(e.residual())/math.Abs(target) < s.opts.RelativeTolerance
	}

	iterations := 0
	for iterations < s.opts.MaxIterations && !withinTolerance(upperEval) {
		mid := lowerEval.value + (upperEval.value-lowerEval.value)/2
		if mid == lowerEval.value || mid == upperEval.value {
			break
		}
		evalMid := evaluate(mid)
		iterations++
		if evalMid.feasible() {
			upperEval = evalMid
		} else {
			lowerEval = evalMid
		}
	}

	summary.Iterations = iterations
	summary.Lower, summary.Upper = lowerEval.value, upperEval.value
	summary.Achieved = upperEval.balance
	summary.Residual = upperEval.residual()
	return upperEval.value, withinTolerance(upperEval)
}

func (s *Solver) answer(contribution float64, summary optimization.Summary, alreadyMet bool, msg string) *ReverseResult {
	contribution = math.Max(contribution, 0)
	summary.Value = contribution
	summary.ValueDisplay = format.NumericCurrency(contribution)
	return &ReverseResult{
		RequiredMonthlyContribution: &contribution,
		IsPossible:                  true,
		AlreadyMet:                  alreadyMet,
		Message:                     msg,
		Summary:                     summary,
	}
}
