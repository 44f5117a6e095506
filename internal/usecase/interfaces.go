package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
)

// TransactionReader is the read contract the dashboard and analytics depend on.
type TransactionReader interface {
	// Query returns active transactions matching q, date descending,
	// paginated after filtering and sorting.
	Query(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error)
	ListByPeriod(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Transaction, error)
	Recent(ctx context.Context, ownerID string, limit int) ([]*domain.Transaction, error)
	// BalanceForAccount sums incomes minus expenses over the account's active transactions.
	BalanceForAccount(ctx context.Context, ownerID, accountID string) (decimal.Decimal, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	TransactionReader
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, ownerID, id string, deletedAt time.Time) error
	CountByCategory(ctx context.Context, ownerID, categoryID string) (int, error)
}

// AccountReader is the account read contract.
type AccountReader interface {
	// ListByOwner returns active accounts, primary first then by name.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	AccountReader
	GetByName(ctx context.Context, ownerID, name string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	UpdateBalance(ctx context.Context, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, ownerID, id string, deletedAt time.Time) error
}

// CategoryReader resolves categories. System categories resolve for every
// owner; user categories only for their owner.
type CategoryReader interface {
	GetByID(ctx context.Context, id, ownerID string) (*domain.Category, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	CategoryReader
	ListForOwner(ctx context.Context, ownerID string, kind domain.TransactionKind, includeSystem bool) ([]*domain.Category, error)
	GetByName(ctx context.Context, ownerID, name string, kind domain.TransactionKind) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, ownerID, id string, deletedAt time.Time) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// GoalRepository defines data access for goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Goal, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, ownerID, id string) error
}

// BudgetRepository defines data access for budgets.
type BudgetRepository interface {
	// Save inserts the budget or replaces the one already set for the same
	// owner, category and month, returning the stored budget.
	Save(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Budget, error)
	ListByMonth(ctx context.Context, ownerID string, month time.Time) ([]*domain.Budget, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// OwnerLocker serializes writes per owner.
type OwnerLocker interface {
	// Lock blocks until the owner's lock is held and returns the release func.
	Lock(ownerID string) (unlock func())
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID, email string) (string, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes a key whose request failed, so it can be retried.
	Release(ctx context.Context, key string) error
}
