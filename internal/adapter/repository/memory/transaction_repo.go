package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

var _ usecase.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements usecase.TransactionRepository in memory.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func copyTransaction(tx *domain.Transaction) *domain.Transaction {
	c := *tx
	return &c
}

// Create stores a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

// GetByID retrieves an active transaction of the owner.
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok || !tx.IsActive || tx.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}
	return copyTransaction(tx), nil
}

// Update replaces a stored transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.transactions[tx.ID]
	if !ok || !existing.IsActive || existing.OwnerID != tx.OwnerID {
		return domain.ErrTransactionNotFound
	}
	r.transactions[tx.ID] = copyTransaction(tx)
	return nil
}

// Delete soft-deletes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok || !tx.IsActive || tx.OwnerID != ownerID {
		return domain.ErrTransactionNotFound
	}
	tx.IsActive = false
	tx.UpdatedAt = deletedAt
	return nil
}

// Query returns matching active transactions, newest first, paginated.
func (r *TransactionRepository) Query(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error) {
	r.mu.RLock()
	result := make([]*domain.Transaction, 0)
	for _, tx := range r.transactions {
		if q.Matches(tx) {
			result = append(result, copyTransaction(tx))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Date.After(result[j].Date)
	})

	if q.Offset > 0 {
		if q.Offset >= len(result) {
			return []*domain.Transaction{}, nil
		}
		result = result[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result, nil
}

// ListByPeriod returns the owner's transactions dated within [start, end].
func (r *TransactionRepository) ListByPeriod(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Transaction, error) {
	return r.Query(ctx, domain.TransactionQuery{
		OwnerID:   ownerID,
		StartDate: &start,
		EndDate:   &end,
		Limit:     usecase.PeriodQueryLimit,
	})
}

// Recent returns the owner's most recent transactions.
func (r *TransactionRepository) Recent(ctx context.Context, ownerID string, limit int) ([]*domain.Transaction, error) {
	return r.Query(ctx, domain.TransactionQuery{OwnerID: ownerID, Limit: limit})
}

// BalanceForAccount sums incomes minus expenses of the account.
func (r *TransactionRepository) BalanceForAccount(ctx context.Context, ownerID, accountID string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	balance := decimal.Zero
	for _, tx := range r.transactions {
		if tx.IsActive && tx.OwnerID == ownerID && tx.AccountID == accountID {
			balance = balance.Add(tx.SignedAmount())
		}
	}
	return balance, nil
}

// CountByCategory counts the owner's active transactions in a category.
func (r *TransactionRepository) CountByCategory(ctx context.Context, ownerID, categoryID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, tx := range r.transactions {
		if tx.IsActive && tx.OwnerID == ownerID && tx.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}
