package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
)

// BalanceSeriesBuilder produces the balance evolution points for the given dates.
type BalanceSeriesBuilder interface {
	Build(ctx context.Context, ownerID string, accounts []*domain.Account, dates []time.Time) ([]domain.BalancePoint, error)
}

// ReplayBalanceSeries reconstructs historical balances by replaying the
// owner's transactions backwards from the current account balances.
type ReplayBalanceSeries struct {
	transactions TransactionReader
}

// NewReplayBalanceSeries creates a ReplayBalanceSeries.
func NewReplayBalanceSeries(transactions TransactionReader) *ReplayBalanceSeries {
	return &ReplayBalanceSeries{transactions: transactions}
}

// Build returns one point per date. A point's balance is the current total
// minus the net flow dated after it; cumulative income and expenses run from
// the first date.
func (b *ReplayBalanceSeries) Build(
	ctx context.Context,
	ownerID string,
	accounts []*domain.Account,
	dates []time.Time,
) ([]domain.BalancePoint, error) {
	points := make([]domain.BalancePoint, 0, len(dates))
	if len(dates) == 0 {
		return points, nil
	}

	tracked := make(map[string]bool, len(accounts))
	current := decimal.Zero
	for _, account := range accounts {
		tracked[account.ID] = true
		current = current.Add(account.Balance)
	}

	start := dates[0]
	txs, err := b.transactions.Query(ctx, domain.TransactionQuery{OwnerID: ownerID, StartDate: &start})
	if err != nil {
		return nil, fmt.Errorf("query transactions since %s: %w", start.Format(time.RFC3339), err)
	}

	// Replay oldest first; cursor advances as dates progress.
	replay := make([]*domain.Transaction, 0, len(txs))
	totalNet := decimal.Zero
	for _, tx := range txs {
		if !tracked[tx.AccountID] {
			continue
		}
		replay = append(replay, tx)
		totalNet = totalNet.Add(tx.SignedAmount())
	}
	sort.SliceStable(replay, func(i, j int) bool {
		return replay[i].Date.Before(replay[j].Date)
	})

	var (
		cursor      int
		cumIncome   = decimal.Zero
		cumExpenses = decimal.Zero
		cumNet      = decimal.Zero
	)
	for _, date := range dates {
		for cursor < len(replay) && !replay[cursor].Date.After(date) {
			tx := replay[cursor]
			if tx.Kind == domain.TransactionKindIncome {
				cumIncome = cumIncome.Add(tx.Amount)
			} else {
				cumExpenses = cumExpenses.Add(tx.Amount)
			}
			cumNet = cumNet.Add(tx.SignedAmount())
			cursor++
		}

		points = append(points, domain.BalancePoint{
			Date:               date,
			Balance:            current.Sub(totalNet.Sub(cumNet)),
			CumulativeIncome:   cumIncome,
			CumulativeExpenses: cumExpenses,
		})
	}

	return points, nil
}

// seriesDates spaces points by the granularity step starting at start.
func seriesDates(start, end time.Time, granularity domain.Granularity) []time.Time {
	step := granularity.Step()
	count := int(end.Sub(start) / step)
	if count < 1 {
		count = 1
	}

	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = start.Add(time.Duration(i) * step)
	}
	return dates
}

// classifyTrend compares the first and last balances of a series.
func classifyTrend(points []domain.BalancePoint) (domain.Trend, decimal.Decimal) {
	if len(points) < 2 {
		return domain.TrendStable, decimal.Zero
	}

	first := points[0].Balance
	last := points[len(points)-1].Balance
	if !first.IsPositive() {
		return domain.TrendStable, decimal.Zero
	}

	pct := last.Sub(first).Div(first).Mul(hundred)
	switch {
	case pct.GreaterThan(TrendThreshold):
		return domain.TrendGrowing, pct.Round(2)
	case pct.LessThan(TrendThreshold.Neg()):
		return domain.TrendDeclining, pct.Round(2)
	}
	return domain.TrendStable, pct.Round(2)
}
