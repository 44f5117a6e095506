package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind is the type of a financial account.
type AccountKind string

const (
	AccountKindChecking   AccountKind = "checking"
	AccountKindSavings    AccountKind = "savings"
	AccountKindCreditCard AccountKind = "credit_card"
	AccountKindInvestment AccountKind = "investment"
)

var validAccountKinds = map[AccountKind]bool{
	AccountKindChecking:   true,
	AccountKindSavings:    true,
	AccountKindCreditCard: true,
	AccountKindInvestment: true,
}

// IsValid checks if the kind is a known account kind.
func (k AccountKind) IsValid() bool {
	return validAccountKinds[k]
}

// Account represents a financial account owned by a user.
//
// Balance is a cache: it always equals OpeningBalance plus the net of the
// account's active transactions, and is refreshed on every transaction write.
type Account struct {
	ID             string
	OwnerID        string
	Name           string
	Kind           AccountKind
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	IsPrimary      bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanHaveNegativeBalance reports whether the account may go below zero.
func (a *Account) CanHaveNegativeBalance() bool {
	return a.Kind == AccountKindCreditCard
}

// ValidateBalance checks if the account can hold the given balance.
func (a *Account) ValidateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() && !a.CanHaveNegativeBalance() {
		return ErrNegativeBalanceNotAllowed
	}
	return nil
}

// ApplyNetFlow returns the balance after adding the transaction net flow to
// the opening balance.
func (a *Account) ApplyNetFlow(net decimal.Decimal) decimal.Decimal {
	return a.OpeningBalance.Add(net)
}
