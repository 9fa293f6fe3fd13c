package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const workPlansCollection = "work_plans"

// WorkPlanRepository stores work plans as a flat collection queryable by
// owner and status. Batch status writes are transactional.
type WorkPlanRepository struct {
	store *database.DocStore
}

func NewWorkPlanRepository(store *database.DocStore) *WorkPlanRepository {
	return &WorkPlanRepository{store: store}
}

func (r *WorkPlanRepository) plans() *firestore.CollectionRef {
	return r.store.Client.Collection(workPlansCollection)
}

func (r *WorkPlanRepository) Create(ctx context.Context, plan workplan.WorkPlan) (workplan.WorkPlan, error) {
	ref := r.plans().NewDoc()
	plan.ID = ref.ID
	if _, err := ref.Set(ctx, plan); err != nil {
		return workplan.WorkPlan{}, fmt.Errorf("creating work plan: %w", err)
	}
	return plan, nil
}

func (r *WorkPlanRepository) GetByID(ctx context.Context, id string) (workplan.WorkPlan, error) {
	snap, err := r.plans().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return workplan.WorkPlan{}, workplan.ErrPlanNotFound
	}
	if err != nil {
		return workplan.WorkPlan{}, fmt.Errorf("getting work plan: %w", err)
	}

	var plan workplan.WorkPlan
	if err := snap.DataTo(&plan); err != nil {
		return workplan.WorkPlan{}, fmt.Errorf("decoding work plan: %w", err)
	}
	plan.ID = snap.Ref.ID
	return plan, nil
}

// Update overwrites the plan's mutable fields. Status is never written
// here; it belongs to the transition operations.
func (r *WorkPlanRepository) Update(ctx context.Context, plan workplan.WorkPlan) error {
	_, err := r.plans().Doc(plan.ID).Update(ctx, []firestore.Update{
		{Path: "date", Value: plan.Date},
		{Path: "title", Value: plan.Title},
		{Path: "content", Value: plan.Content},
		{Path: "itinerary", Value: plan.Itinerary},
		{Path: "created_at", Value: plan.CreatedAt},
	})
	if status.Code(err) == codes.NotFound {
		return workplan.ErrPlanNotFound
	}
	if err != nil {
		return fmt.Errorf("updating work plan: %w", err)
	}
	return nil
}

func (r *WorkPlanRepository) UpdateStatus(ctx context.Context, id string, s workplan.Status) error {
	_, err := r.plans().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: s},
	})
	if status.Code(err) == codes.NotFound {
		return workplan.ErrPlanNotFound
	}
	if err != nil {
		return fmt.Errorf("updating work plan status: %w", err)
	}
	return nil
}

// UpdateStatusBatch applies the status to every id atomically: all reads
// happen first, so one missing plan fails the whole batch and nothing is
// written.
func (r *WorkPlanRepository) UpdateStatusBatch(ctx context.Context, ids []string, s workplan.Status) error {
	err := r.store.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		refs := make([]*firestore.DocumentRef, 0, len(ids))
		for _, id := range ids {
			ref := r.plans().Doc(id)
			if _, err := tx.Get(ref); err != nil {
				if status.Code(err) == codes.NotFound {
					return workplan.ErrPlanNotFound
				}
				return err
			}
			refs = append(refs, ref)
		}
		for _, ref := range refs {
			if err := tx.Update(ref, []firestore.Update{{Path: "status", Value: s}}); err != nil {
				return err
			}
		}
		return nil
	})
	if err == workplan.ErrPlanNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("batch updating work plan status: %w", err)
	}
	return nil
}

func (r *WorkPlanRepository) Delete(ctx context.Context, id string) error {
	// Existence check first: Firestore deletes are no-ops on missing docs.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := r.plans().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting work plan: %w", err)
	}
	return nil
}

func (r *WorkPlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]workplan.WorkPlan, error) {
	return r.list(r.plans().Where("owner_id", "==", ownerID).Documents(ctx))
}

func (r *WorkPlanRepository) ListByStatus(ctx context.Context, s workplan.Status) ([]workplan.WorkPlan, error) {
	return r.list(r.plans().Where("status", "==", s).Documents(ctx))
}

func (r *WorkPlanRepository) list(iter *firestore.DocumentIterator) ([]workplan.WorkPlan, error) {
	defer iter.Stop()

	var out []workplan.WorkPlan
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating work plans: %w", err)
		}
		var plan workplan.WorkPlan
		if err := snap.DataTo(&plan); err != nil {
			return nil, fmt.Errorf("decoding work plan: %w", err)
		}
		plan.ID = snap.Ref.ID
		out = append(out, plan)
	}
	return out, nil
}
