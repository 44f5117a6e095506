package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
)

// HealthAnalyzer is the analytics surface the indicators view is built from.
type HealthAnalyzer interface {
	HealthScore(ctx context.Context, ownerID string) Degraded[int]
	Indicators(ctx context.Context, ownerID string) Degraded[[]domain.Indicator]
	Alerts(ctx context.Context, ownerID string) Degraded[[]domain.Alert]
	Suggestions(ctx context.Context, ownerID string) Degraded[[]domain.Suggestion]
}

// DashboardUseCase builds the dashboard read models.
type DashboardUseCase struct {
	transactions TransactionReader
	accounts     AccountReader
	categories   CategoryReader
	analytics    HealthAnalyzer
	series       BalanceSeriesBuilder
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewDashboardUseCase creates a new DashboardUseCase. m may be nil.
func NewDashboardUseCase(
	transactions TransactionReader,
	accounts AccountReader,
	categories CategoryReader,
	analytics HealthAnalyzer,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *DashboardUseCase {
	return &DashboardUseCase{
		transactions: transactions,
		accounts:     accounts,
		categories:   categories,
		analytics:    analytics,
		series:       NewReplayBalanceSeries(transactions),
		logger:       logger,
		metrics:      m,
		now:          time.Now,
	}
}

// WithClock replaces the time source.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// WithSeriesBuilder replaces the balance evolution strategy.
func (uc *DashboardUseCase) WithSeriesBuilder(b BalanceSeriesBuilder) *DashboardUseCase {
	uc.series = b
	return uc
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, op, err)
}

func (uc *DashboardUseCase) observe(view string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.DashboardDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}
}

func (uc *DashboardUseCase) currentMonth() domain.PeriodFilter {
	now := uc.now().UTC()
	return domain.PeriodFilter{StartDate: domain.MonthStart(now), EndDate: now}
}

// GetBalance returns the consolidated balance of the owner's active accounts.
func (uc *DashboardUseCase) GetBalance(ctx context.Context, ownerID string) (*domain.BalanceSnapshot, error) {
	defer uc.observe("balance", time.Now())

	accounts, err := uc.accounts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, unavailable("list accounts", err)
	}

	snapshot := &domain.BalanceSnapshot{
		TotalBalance:  decimal.Zero,
		BalanceByKind: make(map[domain.AccountKind]decimal.Decimal),
		Accounts:      make([]domain.AccountSummary, 0, len(accounts)),
		UpdatedAt:     uc.now().UTC(),
	}

	for _, account := range accounts {
		snapshot.TotalBalance = snapshot.TotalBalance.Add(account.Balance)
		snapshot.BalanceByKind[account.Kind] = snapshot.BalanceByKind[account.Kind].Add(account.Balance)
		snapshot.Accounts = append(snapshot.Accounts, domain.AccountSummary{
			ID:        account.ID,
			Name:      account.Name,
			Kind:      account.Kind,
			Balance:   account.Balance,
			IsPrimary: account.IsPrimary,
		})
	}

	return snapshot, nil
}

// GetSummary aggregates income and expenses over the period, defaulting to
// the current month so far.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, ownerID string, filter *domain.PeriodFilter) (*domain.PeriodSummary, error) {
	defer uc.observe("summary", time.Now())

	period := uc.currentMonth()
	if filter != nil {
		period = *filter
	}

	txs, err := uc.transactions.ListByPeriod(ctx, ownerID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, unavailable("list period transactions", err)
	}

	summary := &domain.PeriodSummary{
		StartDate:      period.StartDate,
		EndDate:        period.EndDate,
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		HighestIncome:  decimal.Zero,
		HighestExpense: decimal.Zero,
	}

	for _, tx := range txs {
		switch tx.Kind {
		case domain.TransactionKindIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			summary.HighestIncome = decimal.Max(summary.HighestIncome, tx.Amount)
			summary.IncomeTransactions++
		case domain.TransactionKindExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
			summary.HighestExpense = decimal.Max(summary.HighestExpense, tx.Amount)
			summary.ExpenseTransactions++
		}
	}

	days := decimal.NewFromInt(int64(period.Days()))
	summary.NetBalance = summary.TotalIncome.Sub(summary.TotalExpenses)
	summary.DailyAverageIncome = summary.TotalIncome.Div(days).Round(2)
	summary.DailyAverageExpense = summary.TotalExpenses.Div(days).Round(2)
	summary.TotalTransactions = len(txs)

	previous := period.Previous()
	prevTxs, err := uc.transactions.ListByPeriod(ctx, ownerID, previous.StartDate, previous.EndDate)
	if err != nil {
		return nil, unavailable("list previous period transactions", err)
	}
	prevIncome, prevExpenses := sumByKind(prevTxs)
	summary.IncomeComparison = domain.NewComparison(summary.TotalIncome, prevIncome)
	summary.ExpensesComparison = domain.NewComparison(summary.TotalExpenses, prevExpenses)

	return summary, nil
}

type categoryTotal struct {
	id     string
	amount decimal.Decimal
	count  int
}

// GetExpensesByCategory ranks the period's expenses by category. Entries past
// the limit and categories that fail to resolve are folded into "others".
func (uc *DashboardUseCase) GetExpensesByCategory(ctx context.Context, ownerID string, filter *domain.CategoryFilter) (*domain.CategoryBreakdown, error) {
	defer uc.observe("expenses_by_category", time.Now())

	f := domain.CategoryFilter{Limit: domain.DefaultCategoryLimit, IncludeOthers: true}
	if filter != nil {
		f = *filter
	}
	if f.Limit <= 0 {
		f.Limit = domain.DefaultCategoryLimit
	}
	period := uc.currentMonth()
	if f.Period != nil {
		period = *f.Period
	}

	txs, err := uc.transactions.ListByPeriod(ctx, ownerID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, unavailable("list period transactions", err)
	}

	total := decimal.Zero
	index := make(map[string]int)
	var groups []*categoryTotal
	for _, tx := range txs {
		if tx.Kind != domain.TransactionKindExpense {
			continue
		}
		total = total.Add(tx.Amount)

		i, ok := index[tx.CategoryID]
		if !ok {
			i = len(groups)
			index[tx.CategoryID] = i
			groups = append(groups, &categoryTotal{id: tx.CategoryID, amount: decimal.Zero})
		}
		groups[i].amount = groups[i].amount.Add(tx.Amount)
		groups[i].count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].amount.GreaterThan(groups[j].amount)
	})

	breakdown := &domain.CategoryBreakdown{
		StartDate:     period.StartDate,
		EndDate:       period.EndDate,
		TotalExpenses: total,
		Categories:    []domain.CategoryExpense{},
	}
	others := decimal.Zero

	for i, g := range groups {
		if i >= f.Limit {
			others = others.Add(g.amount)
			continue
		}

		category, err := uc.categories.GetByID(ctx, g.id, ownerID)
		if err != nil {
			uc.logResolution(err, "category", g.id, ownerID)
			others = others.Add(g.amount)
			continue
		}

		breakdown.Categories = append(breakdown.Categories, domain.CategoryExpense{
			CategoryID:       g.id,
			CategoryName:     category.Name,
			Amount:           g.amount,
			Percentage:       percentOf(g.amount, total),
			TransactionCount: g.count,
		})
	}

	if f.IncludeOthers {
		breakdown.OthersAmount = others
		breakdown.OthersPercentage = percentOf(others, total)
	} else {
		breakdown.OthersAmount = decimal.Zero
		breakdown.OthersPercentage = decimal.Zero
	}

	return breakdown, nil
}

// percentOf returns part/total*100 rounded to 2 places, 0 when total is 0.
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// GetBalanceEvolution returns the balance series, defaulting to the trailing
// twelve 30-day months.
func (uc *DashboardUseCase) GetBalanceEvolution(ctx context.Context, ownerID string, filter *domain.EvolutionFilter) (*domain.BalanceEvolution, error) {
	defer uc.observe("balance_evolution", time.Now())

	f := domain.EvolutionFilter{Granularity: domain.GranularityMonthly, MonthsBack: domain.DefaultMonthsBack}
	if filter != nil {
		f = *filter
	}
	if !f.Granularity.IsValid() {
		f.Granularity = domain.GranularityMonthly
	}
	if f.MonthsBack <= 0 {
		f.MonthsBack = domain.DefaultMonthsBack
	}

	var start, end time.Time
	if f.Period != nil {
		start, end = f.Period.StartDate, f.Period.EndDate
	} else {
		end = uc.now().UTC()
		start = end.AddDate(0, 0, -30*f.MonthsBack)
	}

	accounts, err := uc.accounts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, unavailable("list accounts", err)
	}

	points, err := uc.series.Build(ctx, ownerID, accounts, seriesDates(start, end, f.Granularity))
	if err != nil {
		return nil, unavailable("build balance series", err)
	}

	trend, pct := classifyTrend(points)

	return &domain.BalanceEvolution{
		StartDate:       start,
		EndDate:         end,
		Granularity:     f.Granularity,
		Points:          points,
		Trend:           trend,
		TrendPercentage: pct,
	}, nil
}

// GetRecentTransactions returns the latest transactions resolved to account
// and category names. Rows that fail to resolve are skipped.
func (uc *DashboardUseCase) GetRecentTransactions(ctx context.Context, ownerID string) (*domain.RecentActivity, error) {
	defer uc.observe("recent_transactions", time.Now())

	txs, err := uc.transactions.Recent(ctx, ownerID, domain.RecentActivityLimit)
	if err != nil {
		return nil, unavailable("list recent transactions", err)
	}

	activity := &domain.RecentActivity{
		Transactions: make([]domain.RecentTransaction, 0, len(txs)),
		TotalAmount:  decimal.Zero,
	}

	for _, tx := range txs {
		account, err := uc.accounts.GetByID(ctx, ownerID, tx.AccountID)
		if err != nil {
			uc.logResolution(err, "account", tx.AccountID, ownerID)
			continue
		}
		category, err := uc.categories.GetByID(ctx, tx.CategoryID, ownerID)
		if err != nil {
			uc.logResolution(err, "category", tx.CategoryID, ownerID)
			continue
		}

		activity.Transactions = append(activity.Transactions, domain.RecentTransaction{
			ID:           tx.ID,
			Date:         tx.Date,
			Description:  tx.Description,
			Amount:       tx.Amount,
			Kind:         tx.Kind,
			AccountName:  account.Name,
			CategoryName: category.Name,
		})
		activity.TotalAmount = activity.TotalAmount.Add(tx.Amount)
	}

	return activity, nil
}

// GetIndicators assembles the health report from the analytics engine.
func (uc *DashboardUseCase) GetIndicators(ctx context.Context, ownerID string) (*domain.HealthReport, error) {
	defer uc.observe("indicators", time.Now())

	return &domain.HealthReport{
		Score:       uc.analytics.HealthScore(ctx, ownerID).Value,
		Indicators:  uc.analytics.Indicators(ctx, ownerID).Value,
		Alerts:      uc.analytics.Alerts(ctx, ownerID).Value,
		Suggestions: uc.analytics.Suggestions(ctx, ownerID).Value,
	}, nil
}

func (uc *DashboardUseCase) logResolution(err error, entity, id, ownerID string) {
	event := uc.logger.Warn()
	if errors.Is(err, domain.ErrCategoryNotFound) || errors.Is(err, domain.ErrAccountNotFound) {
		event = uc.logger.Debug()
	}
	event.Err(err).
		Str("entity", entity).
		Str("entity_id", id).
		Str("owner_id", ownerID).
		Msg("dashboard row degraded: entity not resolved")
}
