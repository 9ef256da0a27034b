// Package constants provides shared constants for the finance-planner application.
package constants

// DateLayout is the format expected for balance sample dates in plan files
// and API payloads.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is the mean Gregorian year length used for elapsed-time math
	DaysPerYear = 365.25

	// DecimalPlaces is the precision for currency rounding (2 decimal places)
	DecimalPlaces = 2

	// RSquaredPlaces is the reported precision of regression fit quality
	RSquaredPlaces = 4

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Simulation bounds and defaults
const (
	// MinYears and MaxYears bound every simulation horizon
	MinYears = 1
	MaxYears = 50

	// MinRatePct is the exclusive lower bound for any annual percentage rate
	MinRatePct = -100.0

	// MaxRatePct is the inclusive upper bound for any annual percentage rate
	MaxRatePct = 100.0

	DefaultYears           = 30
	DefaultAnnualRaisePct  = 2.0
	DefaultMarketReturnPct = 7.0
	DefaultInflationPct    = 2.5
	DefaultSafeWithdrawal  = 4.0
	DefaultCurrentAge      = 30
	DefaultCurrencySymbol  = "$"
)

// SavingsExpenseID identifies the allocation that represents money saved.
const SavingsExpenseID = "savings"

// Solver defaults
const (
	// DefaultSolverTolerance is the absolute currency tolerance on the target
	DefaultSolverTolerance = 0.5

	// DefaultSolverRelativeTolerance stops the search once the residual is
	// negligible relative to the target
	DefaultSolverRelativeTolerance = 1e-6

	// DefaultSolverMaxIterations bounds the bisection loop
	DefaultSolverMaxIterations = 100

	// MaxBracketExpansions bounds upper-bound doubling
	MaxBracketExpansions = 64
)

// FIRE and milestone goals
const (
	// FinancialIndependenceMultiple is the rule of 25: net worth that covers
	// this many years of spend funds a 4% withdrawal indefinitely
	FinancialIndependenceMultiple = 25.0

	// MaxCoastYears caps the coast-time search; longer answers are reported
	// as unreachable
	MaxCoastYears = 1000
)

// Trend forecasting
const (
	// MinTrendSamples is the minimum number of balance samples required to fit
	MinTrendSamples = 3
)

// Advisory thresholds
const (
	TargetSavingsRatePct    = 20.0
	SuperSaverRatePct       = 50.0
	CategorySkewPct         = 40.0
	OverspendTolerancePct   = 10.0
	StaleDataDays           = 60
	ExtraSavingsNudgeAmount = 50.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default plan file name
	DefaultConfigFile = "plan.yaml"

	// ExampleConfigFile is the example plan file name
	ExampleConfigFile = "plan.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// RequestIDHeader carries the per-request correlation id
	RequestIDHeader = "X-Request-ID"
)
