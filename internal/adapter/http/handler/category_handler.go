package handler

import (
	"context"
	"net/http"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	ListCategories(ctx context.Context, ownerID string, kind domain.TransactionKind) ([]*domain.Category, error)
	GetCategory(ctx context.Context, ownerID, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// List lists system categories plus the owner's, optionally by kind.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := domain.TransactionKind(r.URL.Query().Get("kind"))

	categories, err := h.categoryUC.ListCategories(r.Context(), ownerID(r), kind)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.CategoriesFromDomain(categories)))
}

// Get retrieves a category visible to the owner.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryUC.GetCategory(r.Context(), ownerID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// Create creates a user category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryUC.CreateCategory(r.Context(), req.ToUseCaseInput(ownerID(r)))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// Update renames a user category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryUC.UpdateCategory(r.Context(), ownerID(r), id, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// Delete removes an unused user category.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.categoryUC.DeleteCategory(r.Context(), ownerID(r), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
