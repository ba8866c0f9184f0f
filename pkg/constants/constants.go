// Package constants provides shared constants for the lender marketplace.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for display rounding of ratios and rates (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// BasisPointsPerUnit converts basis points to a fraction
	BasisPointsPerUnit = 10000.0
)

// Affordability defaults applied to lender products that leave a bound unset.
const (
	// DefaultMaxDTI is the debt-to-income ceiling used when a lender omits maxDTI
	DefaultMaxDTI = 0.5

	// DefaultMaxLTV is the loan-to-value ceiling used when a lender omits maxLTV
	DefaultMaxLTV = 1.25

	// DefaultMinIncomeMonthly is the income floor used when a lender omits minIncomeMonthly
	DefaultMinIncomeMonthly = 0.0

	// DefaultReferenceAPR is the annual rate, in percent, used to estimate the
	// loan payment folded into the DTI pre-qualification gate.
	DefaultReferenceAPR = 8.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the raw JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "marketplace.yaml"

	// DefaultCatalogFile is the default lender catalog file name
	DefaultCatalogFile = "lenders.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "MARKETPLACE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":3002"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultVersion is reported when no build version is configured
	DefaultVersion = "dev"
)

// Scoring client defaults
const (
	// DefaultScoringTimeoutSeconds bounds a single scoring request
	DefaultScoringTimeoutSeconds = 5

	// DefaultScoringMaxAttempts is the total number of scoring attempts including the first
	DefaultScoringMaxAttempts = 3
)

// Recorder drivers
const (
	// RecorderDriverNoop disables decision recording
	RecorderDriverNoop = "noop"

	// RecorderDriverSQLite records decisions to a SQLite database
	RecorderDriverSQLite = "sqlite"
)
