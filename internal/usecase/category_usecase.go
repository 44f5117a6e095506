package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iho/fincontrol/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	txRepo       TransactionRepository
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository, txRepo TransactionRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		idGen:        idGen,
	}
}

// SeedSystemCategories creates the default system categories that are not
// present yet and returns how many were added.
func (uc *CategoryUseCase) SeedSystemCategories(ctx context.Context) (int, error) {
	seeds := map[domain.TransactionKind][]string{
		domain.TransactionKindIncome:  domain.SystemIncomeCategories,
		domain.TransactionKindExpense: domain.SystemExpenseCategories,
	}

	now := time.Now().UTC()
	created := 0
	for _, kind := range []domain.TransactionKind{domain.TransactionKindIncome, domain.TransactionKindExpense} {
		for _, name := range seeds[kind] {
			_, err := uc.categoryRepo.GetByName(ctx, "", name, kind)
			if err == nil {
				continue
			}
			if !errors.Is(err, domain.ErrCategoryNotFound) {
				return created, err
			}

			category := &domain.Category{
				ID:        uc.idGen.Generate(),
				Name:      name,
				Kind:      kind,
				IsSystem:  true,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := uc.categoryRepo.Create(ctx, category); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// ListCategories lists the owner's categories plus the system ones.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, ownerID string, kind domain.TransactionKind) ([]*domain.Category, error) {
	if kind != "" && !kind.IsValid() {
		return nil, domain.ErrInvalidTransactionKind
	}
	return uc.categoryRepo.ListForOwner(ctx, ownerID, kind, true)
}

// GetCategory resolves a category visible to the owner.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id, ownerID)
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	OwnerID string
	Name    string
	Kind    domain.TransactionKind
}

// CreateCategory creates a user category with a name unique per kind.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := domain.ValidateName(input.Name, domain.ErrInvalidCategoryName); err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidTransactionKind
	}

	name := strings.TrimSpace(input.Name)
	if err := uc.ensureNameFree(ctx, input.OwnerID, name, input.Kind, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		Name:      name,
		Kind:      input.Kind,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a user category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, ownerID, id, name string) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if category.IsSystem {
		return nil, domain.ErrSystemCategory
	}

	if err := domain.ValidateName(name, domain.ErrInvalidCategoryName); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := uc.ensureNameFree(ctx, ownerID, name, category.Kind, category.ID); err != nil {
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = time.Now().UTC()
	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory soft-deletes a user category that no transaction uses.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, ownerID, id string) error {
	category, err := uc.categoryRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return domain.ErrSystemCategory
	}

	inUse, err := uc.txRepo.CountByCategory(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.ErrCategoryInUse
	}

	return uc.categoryRepo.Delete(ctx, ownerID, id, time.Now().UTC())
}

func (uc *CategoryUseCase) ensureNameFree(ctx context.Context, ownerID, name string, kind domain.TransactionKind, selfID string) error {
	existing, err := uc.categoryRepo.GetByName(ctx, ownerID, name, kind)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return domain.ErrCategoryNameTaken
	}
	return nil
}
