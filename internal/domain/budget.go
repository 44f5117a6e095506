package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending in an expense category for one calendar month.
type Budget struct {
	ID         string
	OwnerID    string
	CategoryID string
	Amount     decimal.Decimal
	Month      time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BudgetStatus is a budget together with what has been spent against it.
type BudgetStatus struct {
	Budget    *Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	UsedPct   decimal.Decimal
}

// MonthStart truncates t to the first instant of its month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last nanosecond of t's month in UTC.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}
