package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

// GoalService defines the behavior needed by GoalHandler.
type GoalService interface {
	CreateGoal(ctx context.Context, input usecase.CreateGoalInput) (*domain.Goal, error)
	GetGoal(ctx context.Context, ownerID, id string) (*domain.Goal, error)
	ListGoals(ctx context.Context, ownerID string) ([]*domain.Goal, error)
	UpdateGoal(ctx context.Context, input usecase.UpdateGoalInput) (*domain.Goal, error)
	Contribute(ctx context.Context, ownerID, id string, amount decimal.Decimal) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, ownerID, id string) error
}

// GoalHandler handles savings goal HTTP requests.
type GoalHandler struct {
	goalUC GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalUC GoalService) *GoalHandler {
	return &GoalHandler{goalUC: goalUC}
}

// Create creates a goal.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.ToUseCaseInput(ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	goal, err := h.goalUC.CreateGoal(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GoalFromDomain(goal))
}

// Get retrieves a goal.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	goal, err := h.goalUC.GetGoal(r.Context(), ownerID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GoalFromDomain(goal))
}

// List lists the owner's goals.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalUC.ListGoals(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.GoalsFromDomain(goals)))
}

// Update changes an open goal.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.ToUseCaseInput(ownerID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}

	goal, err := h.goalUC.UpdateGoal(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GoalFromDomain(goal))
}

// Contribute adds money to a goal.
func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.ContributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.goalUC.Contribute(r.Context(), ownerID(r), id, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GoalFromDomain(goal))
}

// Delete removes a goal.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.goalUC.DeleteGoal(r.Context(), ownerID(r), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
