package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target with a deadline.
type Goal struct {
	ID            string
	OwnerID       string
	Name          string
	Description   string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCompleted reports whether the target has been reached.
func (g *Goal) IsCompleted() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Progress returns the completion percentage, rounded to 2 places.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
}

// AddContribution adds amount to the goal.
func (g *Goal) AddContribution(amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.IsCompleted() {
		return ErrGoalCompleted
	}
	if g.CurrentAmount.Add(amount).GreaterThan(g.TargetAmount) {
		return ErrContributionExceedsTarget
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.UpdatedAt = at
	return nil
}
