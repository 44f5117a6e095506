package usecase

import "github.com/shopspring/decimal"

// PeriodQueryLimit caps the transactions pulled for one analytics period.
const PeriodQueryLimit = 1000

// Analytics thresholds
var (
	LowBalanceThreshold     = decimal.NewFromInt(100)
	HighAverageExpenseLimit = decimal.NewFromInt(200)

	// Savings rate bands, in percent.
	SavingsRateGood    = decimal.NewFromInt(20)
	SavingsRateWarning = decimal.NewFromInt(10)

	// Trend threshold, in percent.
	TrendThreshold = decimal.NewFromInt(5)
)

// Health score tuning
const (
	HealthScoreMax          = 100
	HealthScoreNeutral      = 50
	VolatilityMinSamples    = 5
	VolatilityHighPenalty   = 20
	VolatilityMediumPenalty = 10
	DiversificationPenalty  = 10
	MinDiversifiedAccounts  = 2
)
