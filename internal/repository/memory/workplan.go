package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
	"github.com/google/uuid"
)

// WorkPlanRepository is an in-memory workplan.Repository. Batch status
// updates are all-or-nothing, matching the document store contract.
type WorkPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]workplan.WorkPlan
}

func NewWorkPlanRepository() *WorkPlanRepository {
	return &WorkPlanRepository{plans: make(map[string]workplan.WorkPlan)}
}

func (r *WorkPlanRepository) Create(ctx context.Context, plan workplan.WorkPlan) (workplan.WorkPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan.ID = uuid.NewString()
	r.plans[plan.ID] = plan
	return plan, nil
}

func (r *WorkPlanRepository) GetByID(ctx context.Context, id string) (workplan.WorkPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok {
		return workplan.WorkPlan{}, workplan.ErrPlanNotFound
	}
	return plan, nil
}

func (r *WorkPlanRepository) Update(ctx context.Context, plan workplan.WorkPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.plans[plan.ID]
	if !ok {
		return workplan.ErrPlanNotFound
	}
	// Status is owned by the transition operations.
	plan.Status = existing.Status
	r.plans[plan.ID] = plan
	return nil
}

func (r *WorkPlanRepository) UpdateStatus(ctx context.Context, id string, status workplan.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[id]
	if !ok {
		return workplan.ErrPlanNotFound
	}
	plan.Status = status
	r.plans[id] = plan
	return nil
}

func (r *WorkPlanRepository) UpdateStatusBatch(ctx context.Context, ids []string, status workplan.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate first so a missing id transitions nothing.
	for _, id := range ids {
		if _, ok := r.plans[id]; !ok {
			return workplan.ErrPlanNotFound
		}
	}
	for _, id := range ids {
		plan := r.plans[id]
		plan.Status = status
		r.plans[id] = plan
	}
	return nil
}

func (r *WorkPlanRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[id]; !ok {
		return workplan.ErrPlanNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *WorkPlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]workplan.WorkPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []workplan.WorkPlan
	for _, plan := range r.plans {
		if plan.OwnerID == ownerID {
			out = append(out, plan)
		}
	}
	sortPlans(out)
	return out, nil
}

func (r *WorkPlanRepository) ListByStatus(ctx context.Context, status workplan.Status) ([]workplan.WorkPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []workplan.WorkPlan
	for _, plan := range r.plans {
		if plan.Status == status {
			out = append(out, plan)
		}
	}
	sortPlans(out)
	return out, nil
}

func sortPlans(plans []workplan.WorkPlan) {
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Date != plans[j].Date {
			return plans[i].Date > plans[j].Date
		}
		return plans[i].ID < plans[j].ID
	})
}
