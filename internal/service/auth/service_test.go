package auth

import (
	"context"
	"testing"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/auth"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/jwt"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthServiceImpl, *memory.ProfileRepository) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")
	return NewAuthService(profiles, jwtService, nil), profiles
}

func register(t *testing.T, svc *AuthServiceImpl) profile.UserProfile {
	t.Helper()
	p, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "dewi@fieldpulse.io",
		Password: "hunter2hunter2",
		Name:     "Dewi",
		Area:     "Jakarta Selatan",
	})
	require.NoError(t, err)
	return p
}

func approve(t *testing.T, profiles *memory.ProfileRepository, p profile.UserProfile) {
	t.Helper()
	p.Approved = true
	require.NoError(t, profiles.Update(context.Background(), p))
}

func TestRegisterCreatesUnapprovedRep(t *testing.T) {
	svc, _ := newAuthService(t)
	p := register(t, svc)

	assert.False(t, p.Approved)
	assert.Equal(t, user.RoleUser, p.Role)
	assert.Equal(t, 1, p.Level)
	assert.NotEmpty(t, p.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", p.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "dewi@fieldpulse.io",
		Password: "different-pass",
		Name:     "Impostor",
	})
	assert.ErrorIs(t, err, profile.ErrEmailExists)
}

func TestLoginBeforeApprovalIsRejected(t *testing.T) {
	svc, profiles := newAuthService(t)
	p := register(t, svc)
	ctx := context.Background()

	_, err := svc.Login(ctx, auth.LoginRequest{Email: p.Email, Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, auth.ErrAccountNotApproved)

	approve(t, profiles, p)
	resp, err := svc.Login(ctx, auth.LoginRequest{Email: p.Email, Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, profiles := newAuthService(t)
	p := register(t, svc)
	approve(t, profiles, p)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: p.Email, Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	// Unknown accounts and bad passwords are indistinguishable.
	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ghost@fieldpulse.io", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, profiles := newAuthService(t)
	p := register(t, svc)
	approve(t, profiles, p)
	ctx := context.Background()

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: p.Email, Password: "hunter2hunter2"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The spent token is dead.
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, profiles := newAuthService(t)
	p := register(t, svc)
	approve(t, profiles, p)
	ctx := context.Background()

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: p.Email, Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, profiles := newAuthService(t)
	p := register(t, svc)
	approve(t, profiles, p)
	ctx := context.Background()

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: p.Email, Password: "hunter2hunter2"})
	require.NoError(t, err)

	svc.Logout(ctx, resp.RefreshToken)
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
