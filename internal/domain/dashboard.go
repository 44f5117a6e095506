package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the spacing of balance evolution points.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// IsValid checks if the granularity is known.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// Step returns the fixed spacing between two evolution points.
func (g Granularity) Step() time.Duration {
	switch g {
	case GranularityDaily:
		return 24 * time.Hour
	case GranularityWeekly:
		return 7 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Trend classifies the direction of a balance series.
type Trend string

const (
	TrendGrowing   Trend = "growing"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Filter bounds
const (
	DefaultCategoryLimit = 10
	MinCategoryLimit     = 5
	MaxCategoryLimit     = 20
	DefaultMonthsBack    = 12
	MinMonthsBack        = 1
	MaxMonthsBack        = 36
	RecentActivityLimit  = 10
)

// PeriodFilter is a closed [StartDate, EndDate] window.
type PeriodFilter struct {
	StartDate time.Time
	EndDate   time.Time
}

// Days returns the inclusive calendar-day count of the period, at least 1.
func (p PeriodFilter) Days() int {
	start := truncateDay(p.StartDate)
	end := truncateDay(p.EndDate)
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Previous returns the window of equal length that ends right before p.
func (p PeriodFilter) Previous() PeriodFilter {
	length := p.EndDate.Sub(p.StartDate)
	end := p.StartDate.Add(-time.Nanosecond)
	return PeriodFilter{StartDate: end.Add(-length), EndDate: end}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CategoryFilter narrows the expense breakdown.
type CategoryFilter struct {
	Period        *PeriodFilter
	Limit         int
	IncludeOthers bool
}

// EvolutionFilter shapes the balance evolution series. A nil Period means
// the trailing MonthsBack window ending now.
type EvolutionFilter struct {
	Period      *PeriodFilter
	Granularity Granularity
	MonthsBack  int
}

// AccountSummary is one account row of the balance snapshot.
type AccountSummary struct {
	ID        string
	Name      string
	Kind      AccountKind
	Balance   decimal.Decimal
	IsPrimary bool
}

// BalanceSnapshot is the consolidated balance across the owner's accounts.
type BalanceSnapshot struct {
	TotalBalance  decimal.Decimal
	BalanceByKind map[AccountKind]decimal.Decimal
	Accounts      []AccountSummary
	UpdatedAt     time.Time
}

// Comparison relates a period value to the preceding period.
type Comparison struct {
	Current      decimal.Decimal
	Previous     decimal.Decimal
	Variation    decimal.Decimal
	VariationPct decimal.Decimal
}

// NewComparison builds a Comparison. VariationPct is 0 when previous is 0.
func NewComparison(current, previous decimal.Decimal) *Comparison {
	variation := current.Sub(previous)
	pct := decimal.Zero
	if !previous.IsZero() {
		pct = variation.Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &Comparison{
		Current:      current,
		Previous:     previous,
		Variation:    variation,
		VariationPct: pct,
	}
}

// PeriodSummary aggregates the owner's transactions over a period.
type PeriodSummary struct {
	StartDate           time.Time
	EndDate             time.Time
	TotalIncome         decimal.Decimal
	TotalExpenses       decimal.Decimal
	NetBalance          decimal.Decimal
	HighestIncome       decimal.Decimal
	HighestExpense      decimal.Decimal
	DailyAverageIncome  decimal.Decimal
	DailyAverageExpense decimal.Decimal
	TotalTransactions   int
	IncomeTransactions  int
	ExpenseTransactions int
	IncomeComparison    *Comparison
	ExpensesComparison  *Comparison
}

// CategoryExpense is one ranked row of the category breakdown.
type CategoryExpense struct {
	CategoryID       string
	CategoryName     string
	Amount           decimal.Decimal
	Percentage       decimal.Decimal
	TransactionCount int
}

// CategoryBreakdown splits a period's expenses by category.
type CategoryBreakdown struct {
	StartDate        time.Time
	EndDate          time.Time
	TotalExpenses    decimal.Decimal
	Categories       []CategoryExpense
	OthersAmount     decimal.Decimal
	OthersPercentage decimal.Decimal
}

// BalancePoint is one point of the balance evolution series.
type BalancePoint struct {
	Date               time.Time
	Balance            decimal.Decimal
	CumulativeIncome   decimal.Decimal
	CumulativeExpenses decimal.Decimal
}

// BalanceEvolution is a balance series with its trend classification.
type BalanceEvolution struct {
	StartDate       time.Time
	EndDate         time.Time
	Granularity     Granularity
	Points          []BalancePoint
	Trend           Trend
	TrendPercentage decimal.Decimal
}

// RecentTransaction is a transaction resolved to display names.
type RecentTransaction struct {
	ID           string
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	Kind         TransactionKind
	AccountName  string
	CategoryName string
}

// RecentActivity lists the most recent transactions and their sum.
type RecentActivity struct {
	Transactions []RecentTransaction
	TotalAmount  decimal.Decimal
}

// Indicator statuses
const (
	IndicatorGood     = "good"
	IndicatorWarning  = "warning"
	IndicatorCritical = "critical"
)

// Indicator is a named financial metric.
type Indicator struct {
	Name        string
	Value       decimal.Decimal
	Unit        string
	Status      string
	Description string
}

// Alert is a condition the owner should look at.
type Alert struct {
	ID        string
	Type      string
	Severity  string
	Title     string
	Message   string
	CreatedAt time.Time
}

// Suggestion is a personalised recommendation.
type Suggestion struct {
	ID              string
	Category        string
	Title           string
	Description     string
	PotentialImpact string
}

// HealthReport bundles the analytics outputs for the indicators view.
type HealthReport struct {
	Score       int
	Indicators  []Indicator
	Alerts      []Alert
	Suggestions []Suggestion
}
