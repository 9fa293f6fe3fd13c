package workplan

import "context"

// Repository defines data access for the flat work plan collection.
type Repository interface {
	// Create persists a new plan and returns it with an assigned id.
	Create(ctx context.Context, plan WorkPlan) (WorkPlan, error)

	// GetByID retrieves a plan. Missing ids yield ErrPlanNotFound.
	GetByID(ctx context.Context, id string) (WorkPlan, error)

	// Update overwrites the plan's mutable fields (title, content,
	// itinerary, date, created_at). Status is not touched.
	Update(ctx context.Context, plan WorkPlan) error

	// UpdateStatus sets the lifecycle status of one plan.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// UpdateStatusBatch sets the status of every id atomically; if any id
	// is missing, no plan is transitioned and ErrPlanNotFound is returned.
	UpdateStatusBatch(ctx context.Context, ids []string, status Status) error

	// Delete hard-deletes a plan regardless of state.
	Delete(ctx context.Context, id string) error

	// ListByOwner returns all plans owned by ownerID.
	ListByOwner(ctx context.Context, ownerID string) ([]WorkPlan, error)

	// ListByStatus returns all plans in the given state.
	ListByStatus(ctx context.Context, status Status) ([]WorkPlan, error)
}
