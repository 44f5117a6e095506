package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateBalance(t *testing.T) {
	tests := []struct {
		name        string
		kind        AccountKind
		balance     decimal.Decimal
		expectError bool
	}{
		{
			name:        "checking - positive balance",
			kind:        AccountKindChecking,
			balance:     decimal.NewFromInt(100),
			expectError: false,
		},
		{
			name:        "checking - zero balance",
			kind:        AccountKindChecking,
			balance:     decimal.Zero,
			expectError: false,
		},
		{
			name:        "savings - negative balance",
			kind:        AccountKindSavings,
			balance:     decimal.NewFromInt(-1),
			expectError: true,
		},
		{
			name:        "credit card - negative balance",
			kind:        AccountKindCreditCard,
			balance:     decimal.NewFromInt(-500),
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Kind: tt.kind}

			err := acc.ValidateBalance(tt.balance)

			if tt.expectError && !errors.Is(err, ErrNegativeBalanceNotAllowed) {
				t.Errorf("expected ErrNegativeBalanceNotAllowed, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccountKind_IsValid(t *testing.T) {
	for _, kind := range []AccountKind{AccountKindChecking, AccountKindSavings, AccountKindCreditCard, AccountKindInvestment} {
		if !kind.IsValid() {
			t.Errorf("expected %q to be valid", kind)
		}
	}
	if AccountKind("brokerage").IsValid() {
		t.Error("expected unknown kind to be invalid")
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	income := &Transaction{Kind: TransactionKindIncome, Amount: decimal.NewFromInt(30)}
	expense := &Transaction{Kind: TransactionKindExpense, Amount: decimal.NewFromInt(30)}

	if !income.SignedAmount().Equal(decimal.NewFromInt(30)) {
		t.Errorf("income signed amount = %s", income.SignedAmount())
	}
	if !expense.SignedAmount().Equal(decimal.NewFromInt(-30)) {
		t.Errorf("expense signed amount = %s", expense.SignedAmount())
	}
}

func TestTransactionQuery_Matches(t *testing.T) {
	day := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	before := day.Add(-48 * time.Hour)
	after := day.Add(48 * time.Hour)
	tx := &Transaction{
		OwnerID:    "u1",
		AccountID:  "a1",
		CategoryID: "c1",
		Kind:       TransactionKindExpense,
		Date:       day,
		IsActive:   true,
	}

	tests := []struct {
		name  string
		query TransactionQuery
		want  bool
	}{
		{name: "owner only", query: TransactionQuery{OwnerID: "u1"}, want: true},
		{name: "other owner", query: TransactionQuery{OwnerID: "u2"}, want: false},
		{name: "account match", query: TransactionQuery{OwnerID: "u1", AccountID: "a1"}, want: true},
		{name: "account mismatch", query: TransactionQuery{OwnerID: "u1", AccountID: "a2"}, want: false},
		{name: "kind mismatch", query: TransactionQuery{OwnerID: "u1", Kind: TransactionKindIncome}, want: false},
		{name: "inside range", query: TransactionQuery{OwnerID: "u1", StartDate: &before, EndDate: &after}, want: true},
		{name: "range bounds inclusive", query: TransactionQuery{OwnerID: "u1", StartDate: &day, EndDate: &day}, want: true},
		{name: "before range", query: TransactionQuery{OwnerID: "u1", StartDate: &after}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(tx); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	inactive := *tx
	inactive.IsActive = false
	if (TransactionQuery{OwnerID: "u1"}).Matches(&inactive) {
		t.Error("inactive transactions must never match")
	}
}

func TestGoal_AddContribution(t *testing.T) {
	now := time.Now()
	goal := &Goal{TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(900)}

	if err := goal.AddContribution(decimal.NewFromInt(200), now); !errors.Is(err, ErrContributionExceedsTarget) {
		t.Fatalf("expected ErrContributionExceedsTarget, got %v", err)
	}
	if err := goal.AddContribution(decimal.NewFromInt(100), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !goal.IsCompleted() {
		t.Fatal("expected goal to be completed")
	}
	if !goal.Progress().Equal(decimal.NewFromInt(100)) {
		t.Errorf("progress = %s, want 100", goal.Progress())
	}
	if err := goal.AddContribution(decimal.NewFromInt(1), now); !errors.Is(err, ErrGoalCompleted) {
		t.Fatalf("expected ErrGoalCompleted, got %v", err)
	}
}

func TestCategory_VisibleTo(t *testing.T) {
	system := &Category{IsSystem: true, IsActive: true}
	own := &Category{OwnerID: "u1", IsActive: true}
	deleted := &Category{OwnerID: "u1"}

	if !system.VisibleTo("anyone") {
		t.Error("system categories are visible to every owner")
	}
	if !own.VisibleTo("u1") || own.VisibleTo("u2") {
		t.Error("user categories are visible to their owner only")
	}
	if deleted.VisibleTo("u1") {
		t.Error("inactive categories are not visible")
	}
}
