package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

var _ usecase.BudgetRepository = (*BudgetRepository)(nil)

// BudgetRepository implements usecase.BudgetRepository in memory.
type BudgetRepository struct {
	mu      sync.RWMutex
	budgets map[string]*domain.Budget
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository() *BudgetRepository {
	return &BudgetRepository{budgets: make(map[string]*domain.Budget)}
}

// Save inserts the budget, or overwrites the amount of the one already set
// for the same owner, category and month.
func (r *BudgetRepository) Save(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	month := domain.MonthStart(budget.Month)
	for _, existing := range r.budgets {
		if existing.OwnerID == budget.OwnerID &&
			existing.CategoryID == budget.CategoryID &&
			existing.Month.Equal(month) {
			existing.Amount = budget.Amount
			existing.UpdatedAt = budget.UpdatedAt
			c := *existing
			return &c, nil
		}
	}

	c := *budget
	c.Month = month
	r.budgets[c.ID] = &c
	out := c
	return &out, nil
}

// GetByID retrieves a budget of the owner.
func (r *BudgetRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Budget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	budget, ok := r.budgets[id]
	if !ok || budget.OwnerID != ownerID {
		return nil, domain.ErrBudgetNotFound
	}
	c := *budget
	return &c, nil
}

// ListByMonth lists the owner's budgets for the month containing month.
func (r *BudgetRepository) ListByMonth(ctx context.Context, ownerID string, month time.Time) ([]*domain.Budget, error) {
	start := domain.MonthStart(month)

	r.mu.RLock()
	budgets := make([]*domain.Budget, 0)
	for _, budget := range r.budgets {
		if budget.OwnerID == ownerID && budget.Month.Equal(start) {
			c := *budget
			budgets = append(budgets, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].CreatedAt.Before(budgets[j].CreatedAt)
	})
	return budgets, nil
}

// Delete removes a budget.
func (r *BudgetRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	budget, ok := r.budgets[id]
	if !ok || budget.OwnerID != ownerID {
		return domain.ErrBudgetNotFound
	}
	delete(r.budgets, id)
	return nil
}
