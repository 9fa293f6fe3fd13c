package workplan

import (
	"context"
	"testing"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/repository/memory"
	activityService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	plans    *memory.WorkPlanRepository
	activity *memory.ActivityRepository
}

var (
	rep      = user.Actor{ID: "rep-1", Name: "Dewi", Role: user.RoleUser}
	otherRep = user.Actor{ID: "rep-2", Name: "Budi", Role: user.RoleUser}
	manager  = user.Actor{ID: "mgr-1", Name: "Sari", Role: user.RoleManager}
	admin    = user.Actor{ID: "adm-1", Name: "Root", Role: user.RoleAdmin}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	profiles := memory.NewProfileRepository()
	for _, p := range []profile.UserProfile{
		{ID: rep.ID, Email: "dewi@fieldpulse.io", Name: rep.Name, Role: user.RoleUser, Approved: true, ReportsTo: manager.ID},
		{ID: otherRep.ID, Email: "budi@fieldpulse.io", Name: otherRep.Name, Role: user.RoleUser, Approved: true},
		{ID: manager.ID, Email: "sari@fieldpulse.io", Name: manager.Name, Role: user.RoleManager, Approved: true},
		{ID: admin.ID, Email: "root@fieldpulse.io", Name: admin.Name, Role: user.RoleAdmin, Approved: true},
	} {
		_, err := profiles.Create(ctx, p)
		require.NoError(t, err)
	}

	plans := memory.NewWorkPlanRepository()
	activityRepo := memory.NewActivityRepository()
	activitySvc := activityService.NewActivityService(activityRepo, nil)

	now := func() time.Time { return time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC) }
	svc := NewWorkPlanService(plans, profiles, activitySvc, NewRoleAuthorizer(profiles), now)
	return &fixture{svc: svc, plans: plans, activity: activityRepo}
}

func (f *fixture) createPlan(t *testing.T, actor user.Actor, title string) string {
	t.Helper()
	id, err := f.svc.Save(context.Background(), actor, workplan.SavePlanRequest{
		Date:    "2025-06-17",
		Title:   title,
		Content: "visit rounds",
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) status(t *testing.T, id string) workplan.Status {
	t.Helper()
	plan, err := f.plans.GetByID(context.Background(), id)
	require.NoError(t, err)
	return plan.Status
}

func TestSaveCreatesDraft(t *testing.T) {
	f := newFixture(t)
	id := f.createPlan(t, rep, "Hospital rounds")

	plan, err := f.plans.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, workplan.StatusDraft, plan.Status)
	assert.Equal(t, rep.ID, plan.OwnerID)
	assert.Equal(t, rep.Name, plan.OwnerName)
}

func TestSavePreservesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))

	_, err := f.svc.Save(ctx, rep, workplan.SavePlanRequest{
		ID:      id,
		Date:    "2025-06-18",
		Title:   "Hospital rounds v2",
		Content: "revised",
	})
	require.NoError(t, err)

	plan, err := f.plans.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, workplan.StatusPending, plan.Status)
	assert.Equal(t, "Hospital rounds v2", plan.Title)
}

func TestSaveForeignPlanForbidden(t *testing.T) {
	f := newFixture(t)
	id := f.createPlan(t, rep, "Hospital rounds")

	_, err := f.svc.Save(context.Background(), otherRep, workplan.SavePlanRequest{
		ID:      id,
		Date:    "2025-06-17",
		Title:   "hijacked",
		Content: "nope",
	})
	assert.ErrorIs(t, err, workplan.ErrNotPlanOwner)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    workplan.Status
		action  workplan.Action
		want    workplan.Status
		illegal bool
	}{
		{from: workplan.StatusDraft, action: workplan.ActionSubmit, want: workplan.StatusPending},
		{from: workplan.StatusDraft, action: workplan.ActionApprove, illegal: true},
		{from: workplan.StatusDraft, action: workplan.ActionReject, illegal: true},
		{from: workplan.StatusDraft, action: workplan.ActionReopen, illegal: true},
		{from: workplan.StatusPending, action: workplan.ActionSubmit, want: workplan.StatusPending},
		{from: workplan.StatusPending, action: workplan.ActionApprove, want: workplan.StatusApproved},
		{from: workplan.StatusPending, action: workplan.ActionReject, want: workplan.StatusRejected},
		{from: workplan.StatusPending, action: workplan.ActionReopen, want: workplan.StatusDraft},
		{from: workplan.StatusApproved, action: workplan.ActionSubmit, want: workplan.StatusPending},
		{from: workplan.StatusApproved, action: workplan.ActionApprove, want: workplan.StatusApproved},
		{from: workplan.StatusApproved, action: workplan.ActionReject, illegal: true},
		{from: workplan.StatusApproved, action: workplan.ActionReopen, want: workplan.StatusDraft},
		{from: workplan.StatusRejected, action: workplan.ActionSubmit, want: workplan.StatusPending},
		{from: workplan.StatusRejected, action: workplan.ActionApprove, illegal: true},
		{from: workplan.StatusRejected, action: workplan.ActionReject, want: workplan.StatusRejected},
		{from: workplan.StatusRejected, action: workplan.ActionReopen, want: workplan.StatusDraft},
	}

	for _, tc := range cases {
		next, err := workplan.Transition(tc.from, tc.action)
		if tc.illegal {
			assert.ErrorIs(t, err, workplan.ErrIllegalTransition, "%s from %s", tc.action, tc.from)
			continue
		}
		require.NoError(t, err, "%s from %s", tc.action, tc.from)
		assert.Equal(t, tc.want, next, "%s from %s", tc.action, tc.from)
	}
}

func TestSubmitOneLogsActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")

	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))
	assert.Equal(t, workplan.StatusPending, f.status(t, id))

	entries, err := f.activity.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.TypeWorkPlanSubmitted, entries[0].Type)
	assert.Equal(t, "Hospital rounds", entries[0].Detail)
}

func TestSubmitBatchIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createPlan(t, rep, "Plan A")
	b := f.createPlan(t, rep, "Plan B")

	err := f.svc.SubmitBatch(ctx, rep, []string{a, b, "missing"})
	assert.ErrorIs(t, err, workplan.ErrPlanNotFound)

	// Nothing moved and nothing was logged.
	assert.Equal(t, workplan.StatusDraft, f.status(t, a))
	assert.Equal(t, workplan.StatusDraft, f.status(t, b))
	entries, err := f.activity.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitBatchAggregatesOneEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createPlan(t, rep, "Plan A")
	b := f.createPlan(t, rep, "Plan B")
	c := f.createPlan(t, rep, "Plan C")

	require.NoError(t, f.svc.SubmitBatch(ctx, rep, []string{a, b, c}))

	assert.Equal(t, workplan.StatusPending, f.status(t, a))
	assert.Equal(t, workplan.StatusPending, f.status(t, b))
	assert.Equal(t, workplan.StatusPending, f.status(t, c))

	entries, err := f.activity.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rep.ID, entries[0].UserID)
	assert.Contains(t, entries[0].Detail, "3")
}

func TestSubmitBatchEmptyIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SubmitBatch(ctx, rep, nil))

	entries, err := f.activity.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecideApproveAndIdempotence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))

	require.NoError(t, f.svc.Decide(ctx, manager, id, workplan.StatusApproved))
	assert.Equal(t, workplan.StatusApproved, f.status(t, id))

	// Re-applying the same outcome is a no-op.
	require.NoError(t, f.svc.Decide(ctx, manager, id, workplan.StatusApproved))
	assert.Equal(t, workplan.StatusApproved, f.status(t, id))

	// The opposite outcome is illegal once decided.
	err := f.svc.Decide(ctx, manager, id, workplan.StatusRejected)
	assert.ErrorIs(t, err, workplan.ErrIllegalTransition)
}

func TestDecideEmitsNoActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))

	require.NoError(t, f.svc.Decide(ctx, manager, id, workplan.StatusRejected))

	entries, err := f.activity.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1) // only the submission
	assert.Equal(t, activity.TypeWorkPlanSubmitted, entries[0].Type)
}

func TestDecideRejectsInvalidOutcome(t *testing.T) {
	f := newFixture(t)
	id := f.createPlan(t, rep, "Hospital rounds")

	err := f.svc.Decide(context.Background(), admin, id, workplan.StatusDraft)
	assert.ErrorIs(t, err, workplan.ErrInvalidOutcome)
}

func TestDecideAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// rep reports to manager; otherRep reports to nobody.
	mine := f.createPlan(t, rep, "Mine")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, mine))
	foreign := f.createPlan(t, otherRep, "Foreign")
	require.NoError(t, f.svc.SubmitOne(ctx, otherRep, foreign))

	// Owners never decide their own plans.
	assert.ErrorIs(t, f.svc.Decide(ctx, rep, mine, workplan.StatusApproved), workplan.ErrReviewNotAllowed)

	// Managers decide only within their reporting line.
	assert.ErrorIs(t, f.svc.Decide(ctx, manager, foreign, workplan.StatusApproved), workplan.ErrReviewNotAllowed)
	assert.NoError(t, f.svc.Decide(ctx, manager, mine, workplan.StatusApproved))

	// Admins decide anything.
	assert.NoError(t, f.svc.Decide(ctx, admin, foreign, workplan.StatusRejected))
}

func TestReopenReturnsPlanToDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))
	require.NoError(t, f.svc.Decide(ctx, manager, id, workplan.StatusApproved))

	require.NoError(t, f.svc.Reopen(ctx, manager, id))
	assert.Equal(t, workplan.StatusDraft, f.status(t, id))

	// Owners cannot reopen; that is a review action.
	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))
	assert.ErrorIs(t, f.svc.Reopen(ctx, rep, id), workplan.ErrReviewNotAllowed)
}

func TestUpdateStatusMapsTargetsOntoActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")

	require.NoError(t, f.svc.UpdateStatus(ctx, rep, id, workplan.StatusPending))
	assert.Equal(t, workplan.StatusPending, f.status(t, id))

	require.NoError(t, f.svc.UpdateStatus(ctx, manager, id, workplan.StatusApproved))
	assert.Equal(t, workplan.StatusApproved, f.status(t, id))

	require.NoError(t, f.svc.UpdateStatus(ctx, manager, id, workplan.StatusDraft))
	assert.Equal(t, workplan.StatusDraft, f.status(t, id))

	err := f.svc.UpdateStatus(ctx, manager, id, workplan.Status("archived"))
	assert.ErrorIs(t, err, workplan.ErrIllegalTransition)
}

func TestDeleteRemovesPlanInAnyState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.createPlan(t, rep, "Hospital rounds")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, id))
	require.NoError(t, f.svc.Decide(ctx, manager, id, workplan.StatusApproved))

	require.NoError(t, f.svc.Delete(ctx, rep, id))
	_, err := f.plans.GetByID(ctx, id)
	assert.ErrorIs(t, err, workplan.ErrPlanNotFound)
}

func TestListForReviewScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.createPlan(t, rep, "Mine")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, mine))
	foreign := f.createPlan(t, otherRep, "Foreign")
	require.NoError(t, f.svc.SubmitOne(ctx, otherRep, foreign))
	f.createPlan(t, rep, "Still a draft")

	// Managers see only their reporting line's pending plans.
	plans, err := f.svc.ListForReview(ctx, manager)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, mine, plans[0].ID)

	// Admins see every pending plan.
	plans, err = f.svc.ListForReview(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, plans, 2)

	// Regular users see nothing.
	plans, err = f.svc.ListForReview(ctx, rep)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestListOwnPartitionsByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.createPlan(t, rep, "Draft")
	pending := f.createPlan(t, rep, "Pending")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, pending))
	rejected := f.createPlan(t, rep, "Rejected")
	require.NoError(t, f.svc.SubmitOne(ctx, rep, rejected))
	require.NoError(t, f.svc.Decide(ctx, manager, rejected, workplan.StatusRejected))

	own, err := f.svc.ListOwn(ctx, rep.ID)
	require.NoError(t, err)

	editable := make(map[string]bool)
	for _, p := range own.Editable {
		editable[p.ID] = true
	}
	assert.True(t, editable[draft])
	assert.True(t, editable[rejected])
	require.Len(t, own.History, 1)
	assert.Equal(t, pending, own.History[0].ID)
}
