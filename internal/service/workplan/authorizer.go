package workplan

import (
	"context"
	"fmt"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
)

// Authorizer is consulted by the engine on every operation. Callers are
// never trusted to have pre-checked ownership.
type Authorizer interface {
	// CanModify authorizes Save, SubmitOne/SubmitBatch and Delete.
	CanModify(ctx context.Context, actor user.Actor, plan workplan.WorkPlan) error

	// CanDecide authorizes Decide and Reopen.
	CanDecide(ctx context.Context, actor user.Actor, plan workplan.WorkPlan) error
}

// RoleAuthorizer implements the role policy: owners modify their own plans;
// admins act on anything; managers act on plans owned by their direct
// reports (matched by reports_to).
type RoleAuthorizer struct {
	profiles profile.Repository
}

func NewRoleAuthorizer(profiles profile.Repository) *RoleAuthorizer {
	return &RoleAuthorizer{profiles: profiles}
}

func (a *RoleAuthorizer) CanModify(ctx context.Context, actor user.Actor, plan workplan.WorkPlan) error {
	if actor.ID == plan.OwnerID {
		return nil
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == user.RoleManager {
		ok, err := a.inReportingLine(ctx, actor.ID, plan.OwnerID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return workplan.ErrNotPlanOwner
}

func (a *RoleAuthorizer) CanDecide(ctx context.Context, actor user.Actor, plan workplan.WorkPlan) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleManager:
		ok, err := a.inReportingLine(ctx, actor.ID, plan.OwnerID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return workplan.ErrReviewNotAllowed
}

func (a *RoleAuthorizer) inReportingLine(ctx context.Context, managerID string, ownerID string) (bool, error) {
	owner, err := a.profiles.GetByID(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to get plan owner profile: %w", err)
	}
	return owner.ReportsTo == managerID, nil
}
