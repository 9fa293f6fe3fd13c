package workplan

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
	activityService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/activity"
)

// Service is the approval engine: it owns every work plan lifecycle
// transition and consults the authorizer on every operation.
type Service struct {
	plans    workplan.Repository
	profiles profile.Repository
	activity *activityService.Service
	authz    Authorizer
	now      func() time.Time
}

func NewWorkPlanService(
	plans workplan.Repository,
	profiles profile.Repository,
	activitySvc *activityService.Service,
	authz Authorizer,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		plans:    plans,
		profiles: profiles,
		activity: activitySvc,
		authz:    authz,
		now:      now,
	}
}

// Save creates a new draft when the request carries no id, or overwrites
// the title, content, itinerary and date of an existing plan. Status is
// never changed by a save; the created timestamp is reset to now (last
// write wins). Returns the plan id.
func (s *Service) Save(ctx context.Context, actor user.Actor, req workplan.SavePlanRequest) (string, error) {
	itinerary := make([]workplan.ItineraryStop, 0, len(req.Itinerary))
	for _, stop := range req.Itinerary {
		itinerary = append(itinerary, workplan.ItineraryStop{
			Location:  stop.Location,
			Objective: stop.Objective,
		})
	}

	if req.ID == "" {
		created, err := s.plans.Create(ctx, workplan.WorkPlan{
			OwnerID:   actor.ID,
			OwnerName: actor.Name,
			Date:      req.Date,
			Title:     req.Title,
			Content:   req.Content,
			Itinerary: itinerary,
			Status:    workplan.StatusDraft,
			CreatedAt: s.now(),
		})
		if err != nil {
			return "", fmt.Errorf("failed to create work plan: %w", err)
		}
		return created.ID, nil
	}

	plan, err := s.plans.GetByID(ctx, req.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get work plan: %w", err)
	}
	if err := s.authz.CanModify(ctx, actor, plan); err != nil {
		return "", err
	}

	plan.Date = req.Date
	plan.Title = req.Title
	plan.Content = req.Content
	plan.Itinerary = itinerary
	plan.CreatedAt = s.now()

	if err := s.plans.Update(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to update work plan: %w", err)
	}
	return plan.ID, nil
}

// SubmitOne transitions a single plan to pending and appends a
// work-plan-submitted activity entry. Serves both owner submission and
// reviewer reopen-to-pending.
func (s *Service) SubmitOne(ctx context.Context, actor user.Actor, planID string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to get work plan: %w", err)
	}
	if err := s.authz.CanModify(ctx, actor, plan); err != nil {
		return err
	}

	next, err := workplan.Transition(plan.Status, workplan.ActionSubmit)
	if err != nil {
		return err
	}
	if err := s.plans.UpdateStatus(ctx, planID, next); err != nil {
		return fmt.Errorf("failed to update work plan status: %w", err)
	}

	if _, err := s.activity.Append(ctx, activity.Entry{
		UserID:    plan.OwnerID,
		UserName:  plan.OwnerName,
		Type:      activity.TypeWorkPlanSubmitted,
		Detail:    plan.Title,
		Timestamp: s.now(),
	}, s.notifyTargets(ctx, plan.OwnerID)...); err != nil {
		return err
	}
	return nil
}

// SubmitBatch transitions every listed plan to pending in one atomic
// write. The first plan sources the owner and display name for a single
// aggregated activity entry. An empty list is a no-op with no log entry;
// any missing id fails the whole batch.
func (s *Service) SubmitBatch(ctx context.Context, actor user.Actor, planIDs []string) error {
	if len(planIDs) == 0 {
		return nil
	}

	plans := make([]workplan.WorkPlan, 0, len(planIDs))
	for _, id := range planIDs {
		plan, err := s.plans.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get work plan %s: %w", id, err)
		}
		if err := s.authz.CanModify(ctx, actor, plan); err != nil {
			return err
		}
		if _, err := workplan.Transition(plan.Status, workplan.ActionSubmit); err != nil {
			return err
		}
		plans = append(plans, plan)
	}

	if err := s.plans.UpdateStatusBatch(ctx, planIDs, workplan.StatusPending); err != nil {
		return fmt.Errorf("failed to batch-submit work plans: %w", err)
	}

	first := plans[0]
	if _, err := s.activity.Append(ctx, activity.Entry{
		UserID:    first.OwnerID,
		UserName:  first.OwnerName,
		Type:      activity.TypeWorkPlanSubmitted,
		Detail:    fmt.Sprintf("submitted %d plans", len(planIDs)),
		Timestamp: s.now(),
	}, s.notifyTargets(ctx, first.OwnerID)...); err != nil {
		return err
	}
	return nil
}

// Decide moves a pending plan to approved or rejected. Re-applying the
// same outcome is a no-op. Deliberately emits no activity entry: only
// submissions are logged.
func (s *Service) Decide(ctx context.Context, actor user.Actor, planID string, outcome workplan.Status) error {
	var action workplan.Action
	switch outcome {
	case workplan.StatusApproved:
		action = workplan.ActionApprove
	case workplan.StatusRejected:
		action = workplan.ActionReject
	default:
		return workplan.ErrInvalidOutcome
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to get work plan: %w", err)
	}
	if err := s.authz.CanDecide(ctx, actor, plan); err != nil {
		return err
	}

	next, err := workplan.Transition(plan.Status, action)
	if err != nil {
		return err
	}
	if next == plan.Status {
		return nil
	}
	if err := s.plans.UpdateStatus(ctx, planID, next); err != nil {
		return fmt.Errorf("failed to update work plan status: %w", err)
	}
	return nil
}

// Reopen returns a decided or pending plan to draft so its owner can edit
// it again. Reviewer-only.
func (s *Service) Reopen(ctx context.Context, actor user.Actor, planID string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to get work plan: %w", err)
	}
	if err := s.authz.CanDecide(ctx, actor, plan); err != nil {
		return err
	}

	next, err := workplan.Transition(plan.Status, workplan.ActionReopen)
	if err != nil {
		return err
	}
	if err := s.plans.UpdateStatus(ctx, planID, next); err != nil {
		return fmt.Errorf("failed to update work plan status: %w", err)
	}
	return nil
}

// UpdateStatus maps a requested target state onto a lifecycle action and
// applies it. This is the external surface consumed by the shell; the
// transition table decides legality.
func (s *Service) UpdateStatus(ctx context.Context, actor user.Actor, planID string, target workplan.Status) error {
	action, err := workplan.ActionForTarget(target)
	if err != nil {
		return err
	}

	switch action {
	case workplan.ActionSubmit:
		return s.SubmitOne(ctx, actor, planID)
	case workplan.ActionApprove, workplan.ActionReject:
		return s.Decide(ctx, actor, planID, target)
	case workplan.ActionReopen:
		return s.Reopen(ctx, actor, planID)
	}
	return workplan.ErrIllegalTransition
}

// Delete hard-deletes a plan regardless of state. No cascade.
func (s *Service) Delete(ctx context.Context, actor user.Actor, planID string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to get work plan: %w", err)
	}
	if err := s.authz.CanModify(ctx, actor, plan); err != nil {
		return err
	}
	if err := s.plans.Delete(ctx, planID); err != nil {
		return fmt.Errorf("failed to delete work plan: %w", err)
	}
	return nil
}

// ListForReview returns the pending queue visible to the viewer: all
// pending plans for admins, the reporting line's pending plans for
// managers, nothing for regular users.
func (s *Service) ListForReview(ctx context.Context, actor user.Actor) ([]workplan.WorkPlan, error) {
	if !actor.IsReviewer() {
		return nil, nil
	}

	pending, err := s.plans.ListByStatus(ctx, workplan.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending work plans: %w", err)
	}
	if actor.IsAdmin() {
		return pending, nil
	}

	reports, err := s.profiles.ListDirectReports(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}
	team := make(map[string]struct{}, len(reports))
	for _, r := range reports {
		team[r.ID] = struct{}{}
	}

	var out []workplan.WorkPlan
	for _, plan := range pending {
		if _, ok := team[plan.OwnerID]; ok {
			out = append(out, plan)
		}
	}
	return out, nil
}

// ListOwn returns the caller's plans partitioned into editable
// (draft/rejected) and history (pending/approved).
func (s *Service) ListOwn(ctx context.Context, userID string) (workplan.OwnPlans, error) {
	plans, err := s.plans.ListByOwner(ctx, userID)
	if err != nil {
		return workplan.OwnPlans{}, fmt.Errorf("failed to list own work plans: %w", err)
	}

	var own workplan.OwnPlans
	for _, plan := range plans {
		switch plan.Status {
		case workplan.StatusDraft, workplan.StatusRejected:
			own.Editable = append(own.Editable, plan)
		default:
			own.History = append(own.History, plan)
		}
	}
	return own, nil
}

func (s *Service) notifyTargets(ctx context.Context, ownerID string) []string {
	targets := []string{ownerID}
	owner, err := s.profiles.GetByID(ctx, ownerID)
	if err == nil && owner.ReportsTo != "" {
		targets = append(targets, owner.ReportsTo)
	}
	return targets
}
