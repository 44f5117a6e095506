package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	txReader    TransactionReader
	locker      OwnerLocker
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. m may be nil.
func NewAccountUseCase(
	accountRepo AccountRepository,
	txReader TransactionReader,
	locker OwnerLocker,
	idGen IDGenerator,
	m *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		txReader:    txReader,
		locker:      locker,
		idGen:       idGen,
		metrics:     m,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID        string
	Name           string
	Kind           domain.AccountKind
	OpeningBalance decimal.Decimal
	IsPrimary      bool
}

// CreateAccount creates a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidAccountKind
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		Name:           strings.TrimSpace(input.Name),
		Kind:           input.Kind,
		OpeningBalance: input.OpeningBalance,
		Balance:        input.OpeningBalance,
		IsPrimary:      input.IsPrimary,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := account.ValidateBalance(account.Balance); err != nil {
		return nil, err
	}

	unlock := uc.locker.Lock(input.OwnerID)
	defer unlock()

	if err := uc.ensureNameFree(ctx, input.OwnerID, account.Name, ""); err != nil {
		return nil, err
	}

	if input.IsPrimary {
		if err := uc.clearPrimary(ctx, input.OwnerID, now); err != nil {
			return nil, err
		}
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, ownerID, id)
}

// ListAccounts lists the owner's active accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return uc.accountRepo.ListByOwner(ctx, ownerID)
}

// UpdateAccountInput represents input for updating an account.
type UpdateAccountInput struct {
	OwnerID        string
	ID             string
	Name           *string
	Kind           *domain.AccountKind
	OpeningBalance *decimal.Decimal
}

// UpdateAccount updates name, kind or opening balance. The cached balance
// is re-derived from the transactions.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	unlock := uc.locker.Lock(input.OwnerID)
	defer unlock()

	account, err := uc.accountRepo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateAccountName(*input.Name); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*input.Name)
		if err := uc.ensureNameFree(ctx, input.OwnerID, name, account.ID); err != nil {
			return nil, err
		}
		account.Name = name
	}

	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, domain.ErrInvalidAccountKind
		}
		account.Kind = *input.Kind
	}

	if input.OpeningBalance != nil {
		account.OpeningBalance = *input.OpeningBalance
	}

	net, err := uc.txReader.BalanceForAccount(ctx, input.OwnerID, account.ID)
	if err != nil {
		return nil, err
	}
	account.Balance = account.ApplyNetFlow(net)
	if err := account.ValidateBalance(account.Balance); err != nil {
		return nil, err
	}

	account.UpdatedAt = time.Now().UTC()
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.countOperation("update")
	return account, nil
}

// DeleteAccount soft-deletes an account. The last account cannot be
// deleted; a deleted primary hands the flag to the first remaining account.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, ownerID, id string) error {
	unlock := uc.locker.Lock(ownerID)
	defer unlock()

	account, err := uc.accountRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	accounts, err := uc.accountRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if len(accounts) <= 1 {
		return domain.ErrLastAccount
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.Delete(ctx, ownerID, id, now); err != nil {
		return err
	}

	if account.IsPrimary {
		remaining, err := uc.accountRepo.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			first := remaining[0]
			first.IsPrimary = true
			first.UpdatedAt = now
			if err := uc.accountRepo.Update(ctx, first); err != nil {
				return err
			}
		}
	}

	uc.countOperation("delete")
	return nil
}

// SetPrimary marks the account as the owner's primary account.
func (uc *AccountUseCase) SetPrimary(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	unlock := uc.locker.Lock(ownerID)
	defer unlock()

	account, err := uc.accountRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.clearPrimary(ctx, ownerID, now); err != nil {
		return nil, err
	}

	account.IsPrimary = true
	account.UpdatedAt = now
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.countOperation("set_primary")
	return account, nil
}

func (uc *AccountUseCase) ensureNameFree(ctx context.Context, ownerID, name, selfID string) error {
	existing, err := uc.accountRepo.GetByName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrAccountNameTaken
	}
	return nil
}

func (uc *AccountUseCase) clearPrimary(ctx context.Context, ownerID string, at time.Time) error {
	accounts, err := uc.accountRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if !account.IsPrimary {
			continue
		}
		account.IsPrimary = false
		account.UpdatedAt = at
		if err := uc.accountRepo.Update(ctx, account); err != nil {
			return err
		}
	}
	return nil
}

func (uc *AccountUseCase) countOperation(op string) {
	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues(op).Inc()
	}
}
