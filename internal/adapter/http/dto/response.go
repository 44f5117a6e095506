package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse wraps items, never serializing a null array.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

func mapSlice[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to response. The password hash
// is never exposed.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresIn int64         `json:"expires_in"`
	User      *UserResponse `json:"user"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	IsPrimary      bool            `json:"is_primary"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Kind:           string(a.Kind),
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		IsPrimary:      a.IsPrimary,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	return mapSlice(accounts, AccountFromDomain)
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                  string          `json:"id"`
	AccountID           string          `json:"account_id"`
	CategoryID          string          `json:"category_id"`
	Kind                string          `json:"kind"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Date                time.Time       `json:"date"`
	IsRecurring         bool            `json:"is_recurring"`
	RecurrenceFrequency string          `json:"recurrence_frequency,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                  t.ID,
		AccountID:           t.AccountID,
		CategoryID:          t.CategoryID,
		Kind:                string(t.Kind),
		Amount:              t.Amount,
		Description:         t.Description,
		Date:                t.Date,
		IsRecurring:         t.IsRecurring,
		RecurrenceFrequency: string(t.RecurrenceFrequency),
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	return mapSlice(txs, TransactionFromDomain)
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	IsSystem bool   `json:"is_system"`
}

// CategoryFromDomain converts domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:       c.ID,
		Name:     c.Name,
		Kind:     string(c.Kind),
		IsSystem: c.IsSystem,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	return mapSlice(categories, CategoryFromDomain)
}

// GoalResponse represents a savings goal in API responses.
type GoalResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Progress      decimal.Decimal `json:"progress"`
	IsCompleted   bool            `json:"is_completed"`
	Deadline      time.Time       `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// GoalFromDomain converts domain goal to response.
func GoalFromDomain(g *domain.Goal) *GoalResponse {
	return &GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress(),
		IsCompleted:   g.IsCompleted(),
		Deadline:      g.Deadline,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// GoalsFromDomain converts domain goals to responses.
func GoalsFromDomain(goals []*domain.Goal) []*GoalResponse {
	return mapSlice(goals, GoalFromDomain)
}

// BudgetResponse represents a budget and its consumption.
type BudgetResponse struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id"`
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	UsedPct    decimal.Decimal `json:"used_pct"`
	Exceeded   bool            `json:"exceeded"`
}

// BudgetFromDomain converts a budget with nothing spent yet.
func BudgetFromDomain(b *domain.Budget) *BudgetResponse {
	return BudgetStatusFromDomain(domain.BudgetStatus{Budget: b, Remaining: b.Amount})
}

// BudgetStatusFromDomain converts a budget status to response.
func BudgetStatusFromDomain(s domain.BudgetStatus) *BudgetResponse {
	return &BudgetResponse{
		ID:         s.Budget.ID,
		CategoryID: s.Budget.CategoryID,
		Month:      s.Budget.Month.Format(monthLayout),
		Amount:     s.Budget.Amount,
		Spent:      s.Spent,
		Remaining:  s.Remaining,
		UsedPct:    s.UsedPct,
		Exceeded:   s.Remaining.IsNegative(),
	}
}

// BudgetStatusesFromDomain converts budget statuses to responses.
func BudgetStatusesFromDomain(statuses []domain.BudgetStatus) []*BudgetResponse {
	return mapSlice(statuses, BudgetStatusFromDomain)
}

// AccountSummaryResponse is one account row of the balance view.
type AccountSummaryResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Balance   decimal.Decimal `json:"balance"`
	IsPrimary bool            `json:"is_primary"`
}

// BalanceResponse is the consolidated balance view.
type BalanceResponse struct {
	TotalBalance  decimal.Decimal            `json:"total_balance"`
	BalanceByKind map[string]decimal.Decimal `json:"balance_by_kind"`
	Accounts      []AccountSummaryResponse   `json:"accounts"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// BalanceFromDomain converts a balance snapshot to response.
func BalanceFromDomain(b *domain.BalanceSnapshot) *BalanceResponse {
	byKind := make(map[string]decimal.Decimal, len(b.BalanceByKind))
	for kind, amount := range b.BalanceByKind {
		byKind[string(kind)] = amount
	}
	return &BalanceResponse{
		TotalBalance:  b.TotalBalance,
		BalanceByKind: byKind,
		Accounts: mapSlice(b.Accounts, func(a domain.AccountSummary) AccountSummaryResponse {
			return AccountSummaryResponse{
				ID:        a.ID,
				Name:      a.Name,
				Kind:      string(a.Kind),
				Balance:   a.Balance,
				IsPrimary: a.IsPrimary,
			}
		}),
		UpdatedAt: b.UpdatedAt,
	}
}

// ComparisonResponse relates a value to the previous period.
type ComparisonResponse struct {
	Current      decimal.Decimal `json:"current"`
	Previous     decimal.Decimal `json:"previous"`
	Variation    decimal.Decimal `json:"variation"`
	VariationPct decimal.Decimal `json:"variation_pct"`
}

func comparisonFromDomain(c *domain.Comparison) *ComparisonResponse {
	if c == nil {
		return nil
	}
	return &ComparisonResponse{
		Current:      c.Current,
		Previous:     c.Previous,
		Variation:    c.Variation,
		VariationPct: c.VariationPct,
	}
}

// SummaryResponse is the period summary view.
type SummaryResponse struct {
	StartDate           time.Time           `json:"start_date"`
	EndDate             time.Time           `json:"end_date"`
	TotalIncome         decimal.Decimal     `json:"total_income"`
	TotalExpenses       decimal.Decimal     `json:"total_expenses"`
	NetBalance          decimal.Decimal     `json:"net_balance"`
	HighestIncome       decimal.Decimal     `json:"highest_income"`
	HighestExpense      decimal.Decimal     `json:"highest_expense"`
	DailyAverageIncome  decimal.Decimal     `json:"daily_average_income"`
	DailyAverageExpense decimal.Decimal     `json:"daily_average_expense"`
	TotalTransactions   int                 `json:"total_transactions"`
	IncomeTransactions  int                 `json:"income_transactions"`
	ExpenseTransactions int                 `json:"expense_transactions"`
	IncomeComparison    *ComparisonResponse `json:"income_comparison,omitempty"`
	ExpensesComparison  *ComparisonResponse `json:"expenses_comparison,omitempty"`
}

// SummaryFromDomain converts a period summary to response.
func SummaryFromDomain(s *domain.PeriodSummary) *SummaryResponse {
	return &SummaryResponse{
		StartDate:           s.StartDate,
		EndDate:             s.EndDate,
		TotalIncome:         s.TotalIncome,
		TotalExpenses:       s.TotalExpenses,
		NetBalance:          s.NetBalance,
		HighestIncome:       s.HighestIncome,
		HighestExpense:      s.HighestExpense,
		DailyAverageIncome:  s.DailyAverageIncome,
		DailyAverageExpense: s.DailyAverageExpense,
		TotalTransactions:   s.TotalTransactions,
		IncomeTransactions:  s.IncomeTransactions,
		ExpenseTransactions: s.ExpenseTransactions,
		IncomeComparison:    comparisonFromDomain(s.IncomeComparison),
		ExpensesComparison:  comparisonFromDomain(s.ExpensesComparison),
	}
}

// CategoryExpenseResponse is one row of the category breakdown.
type CategoryExpenseResponse struct {
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	Amount           decimal.Decimal `json:"amount"`
	Percentage       decimal.Decimal `json:"percentage"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryBreakdownResponse is the expenses-by-category view.
type CategoryBreakdownResponse struct {
	StartDate        time.Time                 `json:"start_date"`
	EndDate          time.Time                 `json:"end_date"`
	TotalExpenses    decimal.Decimal           `json:"total_expenses"`
	Categories       []CategoryExpenseResponse `json:"categories"`
	OthersAmount     decimal.Decimal           `json:"others_amount"`
	OthersPercentage decimal.Decimal           `json:"others_percentage"`
}

// CategoryBreakdownFromDomain converts a category breakdown to response.
func CategoryBreakdownFromDomain(b *domain.CategoryBreakdown) *CategoryBreakdownResponse {
	return &CategoryBreakdownResponse{
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		TotalExpenses: b.TotalExpenses,
		Categories: mapSlice(b.Categories, func(c domain.CategoryExpense) CategoryExpenseResponse {
			return CategoryExpenseResponse{
				CategoryID:       c.CategoryID,
				CategoryName:     c.CategoryName,
				Amount:           c.Amount,
				Percentage:       c.Percentage,
				TransactionCount: c.TransactionCount,
			}
		}),
		OthersAmount:     b.OthersAmount,
		OthersPercentage: b.OthersPercentage,
	}
}

// BalancePointResponse is one point of the evolution series.
type BalancePointResponse struct {
	Date               time.Time       `json:"date"`
	Balance            decimal.Decimal `json:"balance"`
	CumulativeIncome   decimal.Decimal `json:"cumulative_income"`
	CumulativeExpenses decimal.Decimal `json:"cumulative_expenses"`
}

// EvolutionResponse is the balance evolution view.
type EvolutionResponse struct {
	StartDate       time.Time              `json:"start_date"`
	EndDate         time.Time              `json:"end_date"`
	Granularity     string                 `json:"granularity"`
	Points          []BalancePointResponse `json:"points"`
	Trend           string                 `json:"trend"`
	TrendPercentage decimal.Decimal        `json:"trend_percentage"`
}

// EvolutionFromDomain converts a balance evolution to response.
func EvolutionFromDomain(e *domain.BalanceEvolution) *EvolutionResponse {
	return &EvolutionResponse{
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Granularity: string(e.Granularity),
		Points: mapSlice(e.Points, func(p domain.BalancePoint) BalancePointResponse {
			return BalancePointResponse{
				Date:               p.Date,
				Balance:            p.Balance,
				CumulativeIncome:   p.CumulativeIncome,
				CumulativeExpenses: p.CumulativeExpenses,
			}
		}),
		Trend:           string(e.Trend),
		TrendPercentage: e.TrendPercentage,
	}
}

// RecentTransactionResponse is a transaction resolved to display names.
type RecentTransactionResponse struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Kind         string          `json:"kind"`
	AccountName  string          `json:"account_name"`
	CategoryName string          `json:"category_name"`
}

// RecentActivityResponse is the recent transactions view.
type RecentActivityResponse struct {
	Transactions []RecentTransactionResponse `json:"transactions"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
}

// RecentActivityFromDomain converts recent activity to response.
func RecentActivityFromDomain(a *domain.RecentActivity) *RecentActivityResponse {
	return &RecentActivityResponse{
		Transactions: mapSlice(a.Transactions, func(t domain.RecentTransaction) RecentTransactionResponse {
			return RecentTransactionResponse{
				ID:           t.ID,
				Date:         t.Date,
				Description:  t.Description,
				Amount:       t.Amount,
				Kind:         string(t.Kind),
				AccountName:  t.AccountName,
				CategoryName: t.CategoryName,
			}
		}),
		TotalAmount: a.TotalAmount,
	}
}

// IndicatorResponse is a named financial metric.
type IndicatorResponse struct {
	Name        string          `json:"name"`
	Value       decimal.Decimal `json:"value"`
	Unit        string          `json:"unit"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
}

// AlertResponse is a condition the owner should look at.
type AlertResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// SuggestionResponse is a personalised recommendation.
type SuggestionResponse struct {
	ID              string `json:"id"`
	Category        string `json:"category"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PotentialImpact string `json:"potential_impact"`
}

// IndicatorsResponse is the financial health view.
type IndicatorsResponse struct {
	HealthScore int                  `json:"health_score"`
	Indicators  []IndicatorResponse  `json:"indicators"`
	Alerts      []AlertResponse      `json:"alerts"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// IndicatorsFromDomain converts a health report to response.
func IndicatorsFromDomain(h *domain.HealthReport) *IndicatorsResponse {
	return &IndicatorsResponse{
		HealthScore: h.Score,
		Indicators: mapSlice(h.Indicators, func(i domain.Indicator) IndicatorResponse {
			return IndicatorResponse{
				Name:        i.Name,
				Value:       i.Value,
				Unit:        i.Unit,
				Status:      i.Status,
				Description: i.Description,
			}
		}),
		Alerts: mapSlice(h.Alerts, func(a domain.Alert) AlertResponse {
			return AlertResponse{
				ID:        a.ID,
				Type:      a.Type,
				Severity:  a.Severity,
				Title:     a.Title,
				Message:   a.Message,
				CreatedAt: a.CreatedAt,
			}
		}),
		Suggestions: mapSlice(h.Suggestions, func(s domain.Suggestion) SuggestionResponse {
			return SuggestionResponse{
				ID:              s.ID,
				Category:        s.Category,
				Title:           s.Title,
				Description:     s.Description,
				PotentialImpact: s.PotentialImpact,
			}
		}),
	}
}

// Kinds returns the account kinds present in BalanceByKind, sorted.
func (b *BalanceResponse) Kinds() []string {
	kinds := make([]string, 0, len(b.BalanceByKind))
	for k := range b.BalanceByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
