package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
)

// TransactionUseCase handles transaction business logic. Every write
// refreshes the cached balance of each account it touches.
type TransactionUseCase struct {
	txRepo       TransactionRepository
	accountRepo  AccountRepository
	categoryRepo CategoryReader
	locker       OwnerLocker
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. m may be nil.
func NewTransactionUseCase(
	txRepo TransactionRepository,
	accountRepo AccountRepository,
	categoryRepo CategoryReader,
	locker OwnerLocker,
	idGen IDGenerator,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRepo:       txRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		locker:       locker,
		idGen:        idGen,
		metrics:      m,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	OwnerID             string
	AccountID           string
	CategoryID          string
	Kind                domain.TransactionKind
	Amount              decimal.Decimal
	Description         string
	Date                time.Time
	IsRecurring         bool
	RecurrenceFrequency domain.RecurrenceFrequency
}

// CreateTransaction books a new transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	tx := &domain.Transaction{
		ID:                  uc.idGen.Generate(),
		OwnerID:             input.OwnerID,
		AccountID:           input.AccountID,
		CategoryID:          input.CategoryID,
		Kind:                input.Kind,
		Amount:              input.Amount,
		Description:         strings.TrimSpace(input.Description),
		Date:                date,
		IsRecurring:         input.IsRecurring,
		RecurrenceFrequency: input.RecurrenceFrequency,
		IsActive:            true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	unlock := uc.locker.Lock(input.OwnerID)
	defer unlock()

	account, err := uc.accountRepo.GetByID(ctx, tx.OwnerID, tx.AccountID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, tx); err != nil {
		return nil, err
	}
	if err := uc.checkProjectedBalance(ctx, account, tx.SignedAmount()); err != nil {
		return nil, err
	}

	if err := uc.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	if err := uc.refreshBalances(ctx, tx.OwnerID, now, tx.AccountID); err != nil {
		return nil, err
	}

	uc.countWrite("create", tx)
	return tx, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, ownerID, id)
}

// ListTransactions lists transactions matching the query.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error) {
	q.Limit, q.Offset = domain.NormalizePagination(q.Limit, q.Offset)
	if q.Kind != "" && !q.Kind.IsValid() {
		return nil, domain.ErrInvalidTransactionKind
	}
	return uc.txRepo.Query(ctx, q)
}

// UpdateTransactionInput represents input for updating a transaction.
type UpdateTransactionInput struct {
	OwnerID             string
	ID                  string
	AccountID           *string
	CategoryID          *string
	Kind                *domain.TransactionKind
	Amount              *decimal.Decimal
	Description         *string
	Date                *time.Time
	IsRecurring         *bool
	RecurrenceFrequency *domain.RecurrenceFrequency
}

// UpdateTransaction applies the given changes to a transaction.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	unlock := uc.locker.Lock(input.OwnerID)
	defer unlock()

	old, err := uc.txRepo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if input.AccountID != nil {
		updated.AccountID = *input.AccountID
	}
	if input.CategoryID != nil {
		updated.CategoryID = *input.CategoryID
	}
	if input.Kind != nil {
		updated.Kind = *input.Kind
	}
	if input.Amount != nil {
		updated.Amount = *input.Amount
	}
	if input.Description != nil {
		updated.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		updated.Date = *input.Date
	}
	if input.IsRecurring != nil {
		updated.IsRecurring = *input.IsRecurring
		if !updated.IsRecurring {
			updated.RecurrenceFrequency = ""
		}
	}
	if input.RecurrenceFrequency != nil {
		updated.RecurrenceFrequency = *input.RecurrenceFrequency
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, updated.OwnerID, updated.AccountID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, &updated); err != nil {
		return nil, err
	}

	if updated.AccountID == old.AccountID {
		if err := uc.checkProjectedBalance(ctx, account, updated.SignedAmount().Sub(old.SignedAmount())); err != nil {
			return nil, err
		}
	} else {
		if err := uc.checkProjectedBalance(ctx, account, updated.SignedAmount()); err != nil {
			return nil, err
		}
		if previous, err := uc.accountRepo.GetByID(ctx, old.OwnerID, old.AccountID); err == nil {
			if err := uc.checkProjectedBalance(ctx, previous, old.SignedAmount().Neg()); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now().UTC()
	updated.UpdatedAt = now
	if err := uc.txRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	if err := uc.refreshBalances(ctx, updated.OwnerID, now, old.AccountID, updated.AccountID); err != nil {
		return nil, err
	}

	uc.countWrite("update", &updated)
	return &updated, nil
}

// DeleteTransaction soft-deletes a transaction.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	unlock := uc.locker.Lock(ownerID)
	defer unlock()

	tx, err := uc.txRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if account, err := uc.accountRepo.GetByID(ctx, ownerID, tx.AccountID); err == nil {
		if err := uc.checkProjectedBalance(ctx, account, tx.SignedAmount().Neg()); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	if err := uc.txRepo.Delete(ctx, ownerID, id, now); err != nil {
		return err
	}
	if err := uc.refreshBalances(ctx, ownerID, now, tx.AccountID); err != nil {
		return err
	}

	uc.countWrite("delete", tx)
	return nil
}

// DuplicateTransaction copies a transaction to a new date, now by default.
func (uc *TransactionUseCase) DuplicateTransaction(ctx context.Context, ownerID, id string, date *time.Time) (*domain.Transaction, error) {
	original, err := uc.txRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	input := CreateTransactionInput{
		OwnerID:             ownerID,
		AccountID:           original.AccountID,
		CategoryID:          original.CategoryID,
		Kind:                original.Kind,
		Amount:              original.Amount,
		Description:         copyDescription(original.Description),
		IsRecurring:         original.IsRecurring,
		RecurrenceFrequency: original.RecurrenceFrequency,
	}
	if date != nil {
		input.Date = *date
	}
	return uc.CreateTransaction(ctx, input)
}

func copyDescription(description string) string {
	const suffix = " (copy)"
	runes := []rune(description)
	if limit := domain.MaxDescriptionLength - len(suffix); len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + suffix
}

// checkCategory requires a resolvable category of the transaction's kind.
func (uc *TransactionUseCase) checkCategory(ctx context.Context, tx *domain.Transaction) error {
	category, err := uc.categoryRepo.GetByID(ctx, tx.CategoryID, tx.OwnerID)
	if err != nil {
		return err
	}
	if category.Kind != tx.Kind {
		return domain.ErrCategoryKindMismatch
	}
	return nil
}

// checkProjectedBalance rejects a write that would leave a non-credit-card
// account negative.
func (uc *TransactionUseCase) checkProjectedBalance(ctx context.Context, account *domain.Account, delta decimal.Decimal) error {
	net, err := uc.txRepo.BalanceForAccount(ctx, account.OwnerID, account.ID)
	if err != nil {
		return err
	}
	return account.ValidateBalance(account.ApplyNetFlow(net.Add(delta)))
}

// refreshBalances recomputes the cached balance of each account.
func (uc *TransactionUseCase) refreshBalances(ctx context.Context, ownerID string, at time.Time, accountIDs ...string) error {
	seen := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		account, err := uc.accountRepo.GetByID(ctx, ownerID, id)
		if err != nil {
			// Deleted accounts keep their last cached balance.
			continue
		}
		net, err := uc.txRepo.BalanceForAccount(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if err := uc.accountRepo.UpdateBalance(ctx, ownerID, id, account.ApplyNetFlow(net), at); err != nil {
			return err
		}
	}
	return nil
}

func (uc *TransactionUseCase) countWrite(op string, tx *domain.Transaction) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.TransactionsWritten.WithLabelValues(op).Inc()
	if op == "create" {
		uc.metrics.TransactionAmount.WithLabelValues(string(tx.Kind)).Observe(tx.Amount.InexactFloat64())
	}
}
