package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
)

// BudgetUseCase handles monthly category budgets.
type BudgetUseCase struct {
	budgetRepo   BudgetRepository
	categoryRepo CategoryReader
	txReader     TransactionReader
	idGen        IDGenerator
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(budgetRepo BudgetRepository, categoryRepo CategoryReader, txReader TransactionReader, idGen IDGenerator) *BudgetUseCase {
	return &BudgetUseCase{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		txReader:     txReader,
		idGen:        idGen,
	}
}

// SetBudgetInput represents input for setting a budget.
type SetBudgetInput struct {
	OwnerID    string
	CategoryID string
	Amount     decimal.Decimal
	Month      time.Time
}

// SetBudget creates or replaces the budget of an expense category for a month.
func (uc *BudgetUseCase) SetBudget(ctx context.Context, input SetBudgetInput) (*domain.Budget, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, input.CategoryID, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if category.Kind != domain.TransactionKindExpense {
		return nil, domain.ErrCategoryKindMismatch
	}

	now := time.Now().UTC()
	month := input.Month
	if month.IsZero() {
		month = now
	}

	return uc.budgetRepo.Save(ctx, &domain.Budget{
		ID:         uc.idGen.Generate(),
		OwnerID:    input.OwnerID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Month:      domain.MonthStart(month),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// ListBudgets returns the month's budgets with what was spent against each.
func (uc *BudgetUseCase) ListBudgets(ctx context.Context, ownerID string, month time.Time) ([]domain.BudgetStatus, error) {
	if month.IsZero() {
		month = time.Now().UTC()
	}

	budgets, err := uc.budgetRepo.ListByMonth(ctx, ownerID, month)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []domain.BudgetStatus{}, nil
	}

	txs, err := uc.txReader.ListByPeriod(ctx, ownerID, domain.MonthStart(month), domain.MonthEnd(month))
	if err != nil {
		return nil, err
	}
	spent := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind == domain.TransactionKindExpense {
			spent[tx.CategoryID] = spent[tx.CategoryID].Add(tx.Amount)
		}
	}

	statuses := make([]domain.BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		used := spent[budget.CategoryID].Add(decimal.Zero)
		statuses = append(statuses, domain.BudgetStatus{
			Budget:    budget,
			Spent:     used,
			Remaining: budget.Amount.Sub(used),
			UsedPct:   percentOf(used, budget.Amount),
		})
	}
	return statuses, nil
}

// DeleteBudget removes a budget.
func (uc *BudgetUseCase) DeleteBudget(ctx context.Context, ownerID, id string) error {
	return uc.budgetRepo.Delete(ctx, ownerID, id)
}
