package profile

import (
	"context"
	"testing"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rep     = user.Actor{ID: "rep-1", Name: "Dewi", Role: user.RoleUser}
	manager = user.Actor{ID: "mgr-1", Name: "Sari", Role: user.RoleManager}
	admin   = user.Actor{ID: "adm-1", Name: "Root", Role: user.RoleAdmin}
)

func newService(t *testing.T) (*Service, *memory.ProfileRepository) {
	t.Helper()
	ctx := context.Background()

	profiles := memory.NewProfileRepository()
	for _, p := range []profile.UserProfile{
		{ID: rep.ID, Email: "dewi@fieldpulse.io", Name: rep.Name, Role: user.RoleUser, Approved: true, ReportsTo: manager.ID},
		{ID: manager.ID, Email: "sari@fieldpulse.io", Name: manager.Name, Role: user.RoleManager, Approved: true},
		{ID: admin.ID, Email: "root@fieldpulse.io", Name: admin.Name, Role: user.RoleAdmin, Approved: true},
	} {
		_, err := profiles.Create(ctx, p)
		require.NoError(t, err)
	}

	now := func() time.Time { return time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC) }
	return NewProfileService(profiles, now), profiles
}

func TestGetOwnAndCrossProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Get(ctx, rep, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dewi", p.Name)

	// Reps cannot read other profiles; reviewers can.
	_, err = svc.Get(ctx, rep, manager.ID)
	assert.ErrorIs(t, err, user.ErrForbidden)

	_, err = svc.Get(ctx, manager, rep.ID)
	require.NoError(t, err)
}

func TestAddHospitalIsUnionAppend(t *testing.T) {
	svc, profiles := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddHospital(ctx, rep.ID, profile.AddHospitalRequest{Name: "RS Harapan"}))
	require.NoError(t, svc.AddHospital(ctx, rep.ID, profile.AddHospitalRequest{Name: "RS Harapan"}))

	p, err := profiles.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"RS Harapan"}, p.Hospitals)
}

func TestUpsertDealAssignsAndReplaces(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	deal, err := svc.UpsertDeal(ctx, rep.ID, profile.UpsertDealRequest{
		Product:     "Infusion pumps",
		Stage:       string(profile.StageProspecting),
		Value:       100000,
		Probability: 20,
	})
	require.NoError(t, err)
	require.NotEmpty(t, deal.ID)

	// Same id replaces the snapshot wholesale.
	_, err = svc.UpsertDeal(ctx, rep.ID, profile.UpsertDealRequest{
		ID:          deal.ID,
		Product:     "Infusion pumps",
		Stage:       string(profile.StageNegotiation),
		Value:       90000,
		Probability: 70,
	})
	require.NoError(t, err)

	pipeline, err := svc.Pipeline(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, pipeline, 1)
	assert.Equal(t, profile.StageNegotiation, pipeline[0].Stage)
	assert.Equal(t, 90000.0, pipeline[0].Value)
}

func TestApproveIsAdminOnly(t *testing.T) {
	svc, profiles := newService(t)
	ctx := context.Background()

	pending, err := profiles.Create(ctx, profile.UserProfile{
		ID: "rep-2", Email: "budi@fieldpulse.io", Name: "Budi", Role: user.RoleUser,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Approve(ctx, manager, pending.ID), user.ErrForbidden)

	require.NoError(t, svc.Approve(ctx, admin, pending.ID))
	p, err := profiles.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.True(t, p.Approved)
}

func TestSetRoleValidation(t *testing.T) {
	svc, profiles := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetRole(ctx, rep, rep.ID, user.RoleAdmin), user.ErrForbidden)
	assert.Error(t, svc.SetRole(ctx, admin, rep.ID, user.Role("superuser")))

	require.NoError(t, svc.SetRole(ctx, admin, rep.ID, user.RoleManager))
	p, err := profiles.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, p.Role)
}

func TestSetManagerChecksTarget(t *testing.T) {
	svc, profiles := newService(t)
	ctx := context.Background()

	assert.Error(t, svc.SetManager(ctx, admin, rep.ID, "nobody"))

	require.NoError(t, svc.SetManager(ctx, admin, rep.ID, admin.ID))
	p, err := profiles.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, p.ReportsTo)

	// Empty id clears the reporting line.
	require.NoError(t, svc.SetManager(ctx, admin, rep.ID, ""))
	p, err = profiles.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Empty(t, p.ReportsTo)
}

func TestTeamScopes(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	team, err := svc.Team(ctx, manager)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, rep.ID, team[0].ID)

	team, err = svc.Team(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, team, 3)

	team, err = svc.Team(ctx, rep)
	require.NoError(t, err)
	assert.Empty(t, team)
}
