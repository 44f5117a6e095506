package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// IsValid checks if the kind is income or expense.
func (k TransactionKind) IsValid() bool {
	return k == TransactionKindIncome || k == TransactionKindExpense
}

// RecurrenceFrequency is how often a recurring transaction repeats.
type RecurrenceFrequency string

const (
	RecurrenceWeekly    RecurrenceFrequency = "weekly"
	RecurrenceMonthly   RecurrenceFrequency = "monthly"
	RecurrenceQuarterly RecurrenceFrequency = "quarterly"
	RecurrenceYearly    RecurrenceFrequency = "yearly"
)

// IsValid checks if the frequency is a known value.
func (f RecurrenceFrequency) IsValid() bool {
	switch f {
	case RecurrenceWeekly, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// Transaction is a single income or expense booked against an account.
type Transaction struct {
	ID                  string
	OwnerID             string
	AccountID           string
	CategoryID          string
	Kind                TransactionKind
	Amount              decimal.Decimal
	Description         string
	Date                time.Time
	IsRecurring         bool
	RecurrenceFrequency RecurrenceFrequency
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SignedAmount returns the amount as a balance delta: positive for income,
// negative for expenses.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TransactionKindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the transaction invariants.
func (t *Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidTransactionKind
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	return ValidateRecurrence(t.IsRecurring, t.RecurrenceFrequency)
}

// TransactionQuery filters a transaction listing. Zero values mean "no filter";
// a Limit of 0 returns every match.
type TransactionQuery struct {
	OwnerID    string
	AccountID  string
	CategoryID string
	Kind       TransactionKind
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// Matches reports whether an active transaction passes the query filters.
func (q TransactionQuery) Matches(t *Transaction) bool {
	if !t.IsActive || t.OwnerID != q.OwnerID {
		return false
	}
	if q.AccountID != "" && t.AccountID != q.AccountID {
		return false
	}
	if q.CategoryID != "" && t.CategoryID != q.CategoryID {
		return false
	}
	if q.Kind != "" && t.Kind != q.Kind {
		return false
	}
	if q.StartDate != nil && t.Date.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && t.Date.After(*q.EndDate) {
		return false
	}
	return true
}
