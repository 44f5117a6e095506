package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

var _ usecase.GoalRepository = (*GoalRepository)(nil)

// GoalRepository implements usecase.GoalRepository in memory.
type GoalRepository struct {
	mu    sync.RWMutex
	goals map[string]*domain.Goal
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository() *GoalRepository {
	return &GoalRepository{goals: make(map[string]*domain.Goal)}
}

// Create stores a new goal.
func (r *GoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *goal
	r.goals[goal.ID] = &c
	return nil
}

// GetByID retrieves a goal of the owner.
func (r *GoalRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goal, ok := r.goals[id]
	if !ok || goal.OwnerID != ownerID {
		return nil, domain.ErrGoalNotFound
	}
	c := *goal
	return &c, nil
}

// ListByOwner lists the owner's goals by nearest deadline.
func (r *GoalRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Goal, error) {
	r.mu.RLock()
	goals := make([]*domain.Goal, 0)
	for _, goal := range r.goals {
		if goal.OwnerID == ownerID {
			c := *goal
			goals = append(goals, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(goals, func(i, j int) bool {
		if goals[i].Deadline.Equal(goals[j].Deadline) {
			return goals[i].ID < goals[j].ID
		}
		return goals[i].Deadline.Before(goals[j].Deadline)
	})
	return goals, nil
}

// Update replaces a stored goal.
func (r *GoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.goals[goal.ID]
	if !ok || existing.OwnerID != goal.OwnerID {
		return domain.ErrGoalNotFound
	}
	c := *goal
	r.goals[goal.ID] = &c
	return nil
}

// Delete removes a goal.
func (r *GoalRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal, ok := r.goals[id]
	if !ok || goal.OwnerID != ownerID {
		return domain.ErrGoalNotFound
	}
	delete(r.goals, id)
	return nil
}
