package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
)

func TestMoneySerializesAsString(t *testing.T) {
	resp := AccountFromDomain(&domain.Account{
		ID:      "acc-1",
		Name:    "Wallet",
		Kind:    domain.AccountKindChecking,
		Balance: decimal.RequireFromString("1234.50"),
	})

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"balance":"1234.5"`) {
		t.Fatalf("expected balance as a decimal string, got %s", body)
	}
}

func TestNewListResponseNeverNull(t *testing.T) {
	body, err := json.Marshal(NewListResponse[*GoalResponse](nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `{"items":[],"total":0}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestBudgetStatusFromDomain(t *testing.T) {
	budget := &domain.Budget{
		ID:         "b-1",
		CategoryID: "cat-food",
		Amount:     decimal.NewFromInt(100),
		Month:      time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	resp := BudgetStatusFromDomain(domain.BudgetStatus{
		Budget:    budget,
		Spent:     decimal.NewFromInt(150),
		Remaining: decimal.NewFromInt(-50),
		UsedPct:   decimal.NewFromInt(150),
	})
	if !resp.Exceeded || resp.Month != "2025-03" {
		t.Fatalf("unexpected response %+v", resp)
	}

	fresh := BudgetFromDomain(budget)
	if fresh.Exceeded || !fresh.Remaining.Equal(budget.Amount) || !fresh.Spent.IsZero() {
		t.Fatalf("unexpected fresh budget %+v", fresh)
	}
}

func TestGoalFromDomain(t *testing.T) {
	resp := GoalFromDomain(&domain.Goal{
		TargetAmount:  decimal.NewFromInt(200),
		CurrentAmount: decimal.NewFromInt(50),
	})
	if !resp.Progress.Equal(decimal.NewFromInt(25)) || resp.IsCompleted {
		t.Fatalf("unexpected goal response %+v", resp)
	}
}

func TestBalanceFromDomain(t *testing.T) {
	resp := BalanceFromDomain(&domain.BalanceSnapshot{
		TotalBalance: decimal.NewFromInt(700),
		BalanceByKind: map[domain.AccountKind]decimal.Decimal{
			domain.AccountKindSavings:  decimal.NewFromInt(500),
			domain.AccountKindChecking: decimal.NewFromInt(200),
		},
		Accounts: []domain.AccountSummary{{ID: "a", Name: "Main", Kind: domain.AccountKindChecking, IsPrimary: true}},
	})

	kinds := resp.Kinds()
	if len(kinds) != 2 || kinds[0] != "checking" || kinds[1] != "savings" {
		t.Fatalf("unexpected kinds %v", kinds)
	}
	if len(resp.Accounts) != 1 || !resp.Accounts[0].IsPrimary {
		t.Fatalf("unexpected accounts %+v", resp.Accounts)
	}
}

func TestIndicatorsFromDomainEmptySlices(t *testing.T) {
	body, err := json.Marshal(IndicatorsFromDomain(&domain.HealthReport{Score: 50}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"indicators":[]`, `"alerts":[]`, `"suggestions":[]`, `"health_score":50`} {
		if !strings.Contains(string(body), field) {
			t.Fatalf("expected %s in %s", field, body)
		}
	}
}
