package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

var _ usecase.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implements usecase.CategoryRepository in memory.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[string]*domain.Category),
	}
}

func copyCategory(c *domain.Category) *domain.Category {
	cp := *c
	return &cp
}

// Create stores a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[category.ID] = copyCategory(category)
	return nil
}

// GetByID resolves a system category for anyone and a user category for its owner only.
func (r *CategoryRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok || !category.VisibleTo(ownerID) {
		return nil, domain.ErrCategoryNotFound
	}
	return copyCategory(category), nil
}

// GetByName finds a visible category by case-insensitive name and kind.
func (r *CategoryRepository) GetByName(ctx context.Context, ownerID, name string, kind domain.TransactionKind) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, category := range r.categories {
		if category.Kind == kind && category.VisibleTo(ownerID) && strings.EqualFold(category.Name, name) {
			return copyCategory(category), nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// ListForOwner lists the owner's categories, optionally with system ones,
// system first then by name. An empty kind lists both kinds.
func (r *CategoryRepository) ListForOwner(ctx context.Context, ownerID string, kind domain.TransactionKind, includeSystem bool) ([]*domain.Category, error) {
	r.mu.RLock()
	categories := make([]*domain.Category, 0)
	for _, category := range r.categories {
		if !category.VisibleTo(ownerID) {
			continue
		}
		if category.IsSystem && !includeSystem {
			continue
		}
		if kind != "" && category.Kind != kind {
			continue
		}
		categories = append(categories, copyCategory(category))
	}
	r.mu.RUnlock()

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].IsSystem != categories[j].IsSystem {
			return categories[i].IsSystem
		}
		if categories[i].Kind != categories[j].Kind {
			return categories[i].Kind < categories[j].Kind
		}
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

// Update replaces a stored user category.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.categories[category.ID]
	if !ok || !existing.IsActive || existing.IsSystem || existing.OwnerID != category.OwnerID {
		return domain.ErrCategoryNotFound
	}
	r.categories[category.ID] = copyCategory(category)
	return nil
}

// Delete soft-deletes a user category.
func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id string, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok || !category.IsActive || category.IsSystem || category.OwnerID != ownerID {
		return domain.ErrCategoryNotFound
	}
	category.IsActive = false
	category.UpdatedAt = deletedAt
	return nil
}
