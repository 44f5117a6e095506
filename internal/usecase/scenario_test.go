package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

func TestDashboard_MonthOfActivity(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	account := s.account(t, "Main", domain.AccountKindChecking, "0")

	book := func(kind domain.TransactionKind, category, amount, description string) {
		t.Helper()
		_, err := s.transactions.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OwnerID:     owner,
			AccountID:   account.ID,
			CategoryID:  s.category(t, category, kind),
			Kind:        kind,
			Amount:      dec(amount),
			Description: description,
		})
		require.NoError(t, err)
	}
	book(domain.TransactionKindIncome, "Salary", "3000", "Salary")
	book(domain.TransactionKindExpense, "Food", "150", "Groceries")
	book(domain.TransactionKindExpense, "Transport", "80", "Fuel")
	book(domain.TransactionKindExpense, "Leisure", "200", "Concert")

	balance, err := s.dashboard.GetBalance(ctx, owner)
	require.NoError(t, err)
	assert.True(t, balance.TotalBalance.Equal(dec("2570")), balance.TotalBalance.String())

	summary, err := s.dashboard.GetSummary(ctx, owner, nil)
	require.NoError(t, err)
	assert.True(t, summary.TotalIncome.Equal(dec("3000")))
	assert.True(t, summary.TotalExpenses.Equal(dec("430")))
	assert.True(t, summary.NetBalance.Equal(dec("2570")))
	assert.Equal(t, 4, summary.TotalTransactions)
	assert.Equal(t, 1, summary.IncomeTransactions)
	assert.Equal(t, 3, summary.ExpenseTransactions)

	breakdown, err := s.dashboard.GetExpensesByCategory(ctx, owner, nil)
	require.NoError(t, err)
	require.Len(t, breakdown.Categories, 3)
	assert.Equal(t, "Leisure", breakdown.Categories[0].CategoryName)
	assert.Equal(t, "Food", breakdown.Categories[1].CategoryName)
	assert.Equal(t, "Transport", breakdown.Categories[2].CategoryName)
	sum := breakdown.OthersPercentage
	for _, c := range breakdown.Categories {
		sum = sum.Add(c.Percentage)
	}
	assert.True(t, sum.Sub(dec("100")).Abs().LessThanOrEqual(dec("0.05")), sum.String())

	recent, err := s.dashboard.GetRecentTransactions(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, recent.Transactions, 4)
	assert.True(t, recent.TotalAmount.Equal(dec("3430")))

	evolution, err := s.dashboard.GetBalanceEvolution(ctx, owner, &domain.EvolutionFilter{
		Granularity: domain.GranularityDaily,
		MonthsBack:  1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, evolution.Points)
	assert.True(t, evolution.Points[0].Balance.IsZero(), evolution.Points[0].Balance.String())

	report, err := s.dashboard.GetIndicators(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 90, report.Score)
	assert.Empty(t, report.Alerts)
}

func TestDashboard_EmptyOwner(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	balance, err := s.dashboard.GetBalance(ctx, owner)
	require.NoError(t, err)
	assert.True(t, balance.TotalBalance.IsZero())
	assert.Empty(t, balance.Accounts)

	summary, err := s.dashboard.GetSummary(ctx, owner, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalTransactions)

	report, err := s.dashboard.GetIndicators(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, usecase.HealthScoreNeutral, report.Score)
	assert.Empty(t, report.Indicators)
	assert.Empty(t, report.Suggestions)
}

func TestBudgetUseCase_TracksSpending(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	account := s.account(t, "Main", domain.AccountKindChecking, "1000")
	food := s.category(t, "Food", domain.TransactionKindExpense)
	month := time.Now().UTC()

	_, err := s.transactions.CreateTransaction(ctx, usecase.CreateTransactionInput{
		OwnerID: owner, AccountID: account.ID, CategoryID: food,
		Kind: domain.TransactionKindExpense, Amount: dec("150"), Description: "Groceries", Date: month,
	})
	require.NoError(t, err)

	_, err = s.budgets.SetBudget(ctx, usecase.SetBudgetInput{OwnerID: owner, CategoryID: food, Amount: dec("50"), Month: month})
	require.NoError(t, err)
	budget, err := s.budgets.SetBudget(ctx, usecase.SetBudgetInput{OwnerID: owner, CategoryID: food, Amount: dec("100"), Month: month})
	require.NoError(t, err)

	statuses, err := s.budgets.ListBudgets(ctx, owner, month)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, budget.ID, statuses[0].Budget.ID)
	assert.True(t, statuses[0].Budget.Amount.Equal(dec("100")))
	assert.True(t, statuses[0].Spent.Equal(dec("150")))
	assert.True(t, statuses[0].Remaining.Equal(dec("-50")))
	assert.True(t, statuses[0].UsedPct.Equal(dec("150")))

	_, err = s.budgets.SetBudget(ctx, usecase.SetBudgetInput{
		OwnerID: owner, CategoryID: s.category(t, "Salary", domain.TransactionKindIncome), Amount: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryKindMismatch)

	require.NoError(t, s.budgets.DeleteBudget(ctx, owner, budget.ID))
	statuses, err = s.budgets.ListBudgets(ctx, owner, month)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
