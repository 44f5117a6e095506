package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

var _ usecase.AccountRepository = (*AccountRepository)(nil)

// AccountRepository implements usecase.AccountRepository in memory.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

// Create stores a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[account.ID] = copyAccount(account)
	return nil
}

// GetByID retrieves an active account of the owner.
func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok || !account.IsActive || account.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// GetByName retrieves an active account by case-insensitive name.
func (r *AccountRepository) GetByName(ctx context.Context, ownerID, name string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, account := range r.accounts {
		if account.IsActive && account.OwnerID == ownerID && strings.EqualFold(account.Name, name) {
			return copyAccount(account), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// ListByOwner returns active accounts, primary first then by name.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	r.mu.RLock()
	accounts := make([]*domain.Account, 0)
	for _, account := range r.accounts {
		if account.IsActive && account.OwnerID == ownerID {
			accounts = append(accounts, copyAccount(account))
		}
	}
	r.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].IsPrimary != accounts[j].IsPrimary {
			return accounts[i].IsPrimary
		}
		li, lj := strings.ToLower(accounts[i].Name), strings.ToLower(accounts[j].Name)
		if li != lj {
			return li < lj
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

// Update replaces a stored account.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok || !existing.IsActive || existing.OwnerID != account.OwnerID {
		return domain.ErrAccountNotFound
	}
	r.accounts[account.ID] = copyAccount(account)
	return nil
}

// UpdateBalance refreshes the cached balance.
func (r *AccountRepository) UpdateBalance(ctx context.Context, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || !account.IsActive || account.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	account.UpdatedAt = updatedAt
	return nil
}

// Delete soft-deletes an account and clears its primary flag.
func (r *AccountRepository) Delete(ctx context.Context, ownerID, id string, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || !account.IsActive || account.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}
	account.IsActive = false
	account.IsPrimary = false
	account.UpdatedAt = deletedAt
	return nil
}
