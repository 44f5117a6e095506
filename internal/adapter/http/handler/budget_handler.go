package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	SetBudget(ctx context.Context, input usecase.SetBudgetInput) (*domain.Budget, error)
	ListBudgets(ctx context.Context, ownerID string, month time.Time) ([]domain.BudgetStatus, error)
	DeleteBudget(ctx context.Context, ownerID, id string) error
}

// BudgetHandler handles monthly budget HTTP requests.
type BudgetHandler struct {
	budgetUC BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC}
}

// Set creates or replaces the budget of a category for a month.
func (h *BudgetHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.SetBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.ToUseCaseInput(ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	budget, err := h.budgetUC.SetBudget(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BudgetFromDomain(budget))
}

// List returns the month's budgets with what was spent against each.
// ?month=YYYY-MM selects the month, the current one by default.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	var month time.Time
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := dto.ParseMonth(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		month = parsed
	}

	statuses, err := h.budgetUC.ListBudgets(r.Context(), ownerID(r), month)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.BudgetStatusesFromDomain(statuses)))
}

// Delete removes a budget.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.budgetUC.DeleteBudget(r.Context(), ownerID(r), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
