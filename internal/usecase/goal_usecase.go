package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
)

// GoalUseCase handles savings goals.
type GoalUseCase struct {
	goalRepo GoalRepository
	idGen    IDGenerator
	now      func() time.Time
}

// NewGoalUseCase creates a new GoalUseCase.
func NewGoalUseCase(goalRepo GoalRepository, idGen IDGenerator) *GoalUseCase {
	return &GoalUseCase{
		goalRepo: goalRepo,
		idGen:    idGen,
		now:      time.Now,
	}
}

// CreateGoalInput represents input for creating a goal.
type CreateGoalInput struct {
	OwnerID       string
	Name          string
	Description   string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
}

// CreateGoal creates a goal with a positive target and a future deadline.
func (uc *GoalUseCase) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	if err := domain.ValidateName(input.Name, domain.ErrInvalidGoal); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.TargetAmount); err != nil {
		return nil, err
	}
	if input.CurrentAmount.IsNegative() || input.CurrentAmount.GreaterThan(input.TargetAmount) {
		return nil, domain.ErrContributionExceedsTarget
	}

	now := uc.now().UTC()
	if err := domain.ValidateDeadline(input.Deadline, now); err != nil {
		return nil, err
	}

	goal := &domain.Goal{
		ID:            uc.idGen.Generate(),
		OwnerID:       input.OwnerID,
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		Deadline:      input.Deadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.goalRepo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoal retrieves a goal.
func (uc *GoalUseCase) GetGoal(ctx context.Context, ownerID, id string) (*domain.Goal, error) {
	return uc.goalRepo.GetByID(ctx, ownerID, id)
}

// ListGoals lists the owner's goals.
func (uc *GoalUseCase) ListGoals(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	return uc.goalRepo.ListByOwner(ctx, ownerID)
}

// UpdateGoalInput represents input for updating a goal.
type UpdateGoalInput struct {
	OwnerID      string
	ID           string
	Name         *string
	Description  *string
	TargetAmount *decimal.Decimal
	Deadline     *time.Time
}

// UpdateGoal changes an open goal. Completed goals are frozen.
func (uc *GoalUseCase) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := uc.goalRepo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}
	if goal.IsCompleted() {
		return nil, domain.ErrGoalCompleted
	}

	now := uc.now().UTC()
	if input.Name != nil {
		if err := domain.ValidateName(*input.Name, domain.ErrInvalidGoal); err != nil {
			return nil, err
		}
		goal.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		goal.Description = strings.TrimSpace(*input.Description)
	}
	if input.TargetAmount != nil {
		if err := domain.ValidateAmount(*input.TargetAmount); err != nil {
			return nil, err
		}
		if goal.CurrentAmount.GreaterThan(*input.TargetAmount) {
			return nil, domain.ErrContributionExceedsTarget
		}
		goal.TargetAmount = *input.TargetAmount
	}
	if input.Deadline != nil {
		if err := domain.ValidateDeadline(*input.Deadline, now); err != nil {
			return nil, err
		}
		goal.Deadline = *input.Deadline
	}

	goal.UpdatedAt = now
	if err := uc.goalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Contribute adds an amount to a goal without exceeding its target.
func (uc *GoalUseCase) Contribute(ctx context.Context, ownerID, id string, amount decimal.Decimal) (*domain.Goal, error) {
	goal, err := uc.goalRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := goal.AddContribution(amount, uc.now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.goalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (uc *GoalUseCase) DeleteGoal(ctx context.Context, ownerID, id string) error {
	return uc.goalRepo.Delete(ctx, ownerID, id)
}
