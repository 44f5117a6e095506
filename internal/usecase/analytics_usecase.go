package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
)

var hundred = decimal.NewFromInt(100)

// AnalyticsUseCase computes the financial-health heuristics for the current
// month. Its operations never fail: faults yield a neutral Degraded value.
type AnalyticsUseCase struct {
	transactions TransactionReader
	accounts     AccountReader
	recorder     degradationRecorder
	now          func() time.Time
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase. m may be nil.
func NewAnalyticsUseCase(
	transactions TransactionReader,
	accounts AccountReader,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		transactions: transactions,
		accounts:     accounts,
		recorder:     degradationRecorder{logger: logger, metrics: m},
		now:          time.Now,
	}
}

// WithClock replaces the time source.
func (uc *AnalyticsUseCase) WithClock(now func() time.Time) *AnalyticsUseCase {
	uc.now = now
	return uc
}

// currentMonth returns [first day of the month 00:00, now].
func (uc *AnalyticsUseCase) currentMonth() (time.Time, time.Time) {
	now := uc.now().UTC()
	return domain.MonthStart(now), now
}

func (uc *AnalyticsUseCase) monthTransactions(ctx context.Context, ownerID string) ([]*domain.Transaction, time.Time, error) {
	start, end := uc.currentMonth()
	txs, err := uc.transactions.ListByPeriod(ctx, ownerID, start, end)
	if err != nil {
		return nil, end, fmt.Errorf("list current month transactions: %w", err)
	}
	return txs, end, nil
}

// HealthScore returns a 0-100 score; 50 when the month has no transactions.
func (uc *AnalyticsUseCase) HealthScore(ctx context.Context, ownerID string) Degraded[int] {
	return guard(uc.recorder, "health_score", ownerID, HealthScoreNeutral, func() (int, error) {
		return uc.healthScore(ctx, ownerID)
	})
}

func (uc *AnalyticsUseCase) healthScore(ctx context.Context, ownerID string) (int, error) {
	txs, _, err := uc.monthTransactions(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if len(txs) == 0 {
		return HealthScoreNeutral, nil
	}

	score := HealthScoreMax
	income, expenses := sumByKind(txs)

	if income.IsPositive() {
		rate := income.Sub(expenses).Div(income).Mul(hundred)
		switch {
		case rate.GreaterThanOrEqual(SavingsRateGood):
		case rate.GreaterThanOrEqual(SavingsRateWarning):
			score -= 10
		case !rate.IsNegative():
			score -= 20
		default:
			score -= 30
		}
	}

	if len(txs) >= VolatilityMinSamples {
		score -= volatilityPenalty(txs)
	}

	accounts, err := uc.accounts.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) < MinDiversifiedAccounts {
		score -= DiversificationPenalty
	}

	return clampScore(score), nil
}

// volatilityPenalty compares the population variance of per-day expense
// totals with their mean.
func volatilityPenalty(txs []*domain.Transaction) int {
	daily := make(map[time.Time]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind != domain.TransactionKindExpense {
			continue
		}
		y, m, d := tx.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, tx.Date.Location())
		daily[day] = daily[day].Add(tx.Amount)
	}
	if len(daily) == 0 {
		return 0
	}

	n := decimal.NewFromInt(int64(len(daily)))
	sum := decimal.Zero
	for _, v := range daily {
		sum = sum.Add(v)
	}
	mean := sum.Div(n)

	squares := decimal.Zero
	for _, v := range daily {
		diff := v.Sub(mean)
		squares = squares.Add(diff.Mul(diff))
	}
	variance := squares.Div(n)

	switch {
	case variance.GreaterThan(mean):
		return VolatilityHighPenalty
	case variance.GreaterThan(mean.Div(decimal.NewFromInt(2))):
		return VolatilityMediumPenalty
	}
	return 0
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > HealthScoreMax {
		return HealthScoreMax
	}
	return score
}

// Indicators returns the savings-rate and daily-average-expense indicators.
func (uc *AnalyticsUseCase) Indicators(ctx context.Context, ownerID string) Degraded[[]domain.Indicator] {
	return guard(uc.recorder, "indicators", ownerID, []domain.Indicator{}, func() ([]domain.Indicator, error) {
		return uc.indicators(ctx, ownerID)
	})
}

func (uc *AnalyticsUseCase) indicators(ctx context.Context, ownerID string) ([]domain.Indicator, error) {
	txs, now, err := uc.monthTransactions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	indicators := []domain.Indicator{}
	if len(txs) == 0 {
		return indicators, nil
	}

	income, expenses := sumByKind(txs)

	if income.IsPositive() {
		exact := income.Sub(expenses).Div(income).Mul(hundred)
		status := domain.IndicatorCritical
		switch {
		case exact.GreaterThanOrEqual(SavingsRateGood):
			status = domain.IndicatorGood
		case exact.GreaterThanOrEqual(SavingsRateWarning):
			status = domain.IndicatorWarning
		}
		rate := exact.Round(2)
		indicators = append(indicators, domain.Indicator{
			Name:        "Savings rate",
			Value:       rate,
			Unit:        "%",
			Status:      status,
			Description: fmt.Sprintf("You are saving %s%% of your income", rate.StringFixed(1)),
		})
	}

	daysInMonth := domain.MonthEnd(now).Day()
	dailyAvg := expenses.Div(decimal.NewFromInt(int64(daysInMonth))).Round(2)
	indicators = append(indicators, domain.Indicator{
		Name:        "Daily average expense",
		Value:       dailyAvg,
		Unit:        "currency",
		Status:      domain.IndicatorGood,
		Description: fmt.Sprintf("Average of %s per day", dailyAvg.StringFixed(2)),
	})

	return indicators, nil
}

// Alerts emits one low-balance alert per active account below the threshold.
func (uc *AnalyticsUseCase) Alerts(ctx context.Context, ownerID string) Degraded[[]domain.Alert] {
	return guard(uc.recorder, "alerts", ownerID, []domain.Alert{}, func() ([]domain.Alert, error) {
		accounts, err := uc.accounts.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}

		now := uc.now().UTC()
		alerts := []domain.Alert{}
		for _, account := range accounts {
			if !account.IsActive || !account.Balance.LessThan(LowBalanceThreshold) {
				continue
			}
			alerts = append(alerts, domain.Alert{
				ID:        "low_balance_" + account.ID,
				Type:      "low_balance",
				Severity:  "medium",
				Title:     "Low balance",
				Message:   fmt.Sprintf("Account %s has a low balance: %s", account.Name, account.Balance.StringFixed(2)),
				CreatedAt: now,
			})
		}
		return alerts, nil
	})
}

// Suggestions proposes reviewing expenses when the month's mean expense is high.
func (uc *AnalyticsUseCase) Suggestions(ctx context.Context, ownerID string) Degraded[[]domain.Suggestion] {
	return guard(uc.recorder, "suggestions", ownerID, []domain.Suggestion{}, func() ([]domain.Suggestion, error) {
		txs, _, err := uc.monthTransactions(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		suggestions := []domain.Suggestion{}
		total := decimal.Zero
		count := 0
		for _, tx := range txs {
			if tx.Kind == domain.TransactionKindExpense {
				total = total.Add(tx.Amount)
				count++
			}
		}
		if count == 0 {
			return suggestions, nil
		}

		if total.Div(decimal.NewFromInt(int64(count))).GreaterThan(HighAverageExpenseLimit) {
			suggestions = append(suggestions, domain.Suggestion{
				ID:              "reduce_expenses",
				Category:        "spending",
				Title:           "Review your spending",
				Description:     "Consider reviewing your largest expenses to optimise your budget",
				PotentialImpact: "Savings of up to 15% on monthly spending",
			})
		}
		return suggestions, nil
	})
}

// sumByKind totals income and expense amounts.
func sumByKind(txs []*domain.Transaction) (income, expenses decimal.Decimal) {
	for _, tx := range txs {
		switch tx.Kind {
		case domain.TransactionKindIncome:
			income = income.Add(tx.Amount)
		case domain.TransactionKindExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return income, expenses
}
