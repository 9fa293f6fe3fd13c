package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/auth"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/jwt"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/oauth"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	profiles profile.Repository
	jwt.Service
	google oauth.GoogleService
}

func NewAuthService(profiles profile.Repository, jwtService jwt.Service, googleService oauth.GoogleService) *AuthServiceImpl {
	return &AuthServiceImpl{
		profiles: profiles,
		Service:  jwtService,
		google:   googleService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates an unapproved rep profile. An admin flips Approved
// before the account can log in.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (profile.UserProfile, error) {
	if _, err := a.profiles.GetByEmail(ctx, req.Email); err == nil {
		return profile.UserProfile{}, profile.ErrEmailExists
	} else if !errors.Is(err, profile.ErrProfileNotFound) {
		return profile.UserProfile{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	created, err := a.profiles.Create(ctx, profile.UserProfile{
		Email:        req.Email,
		Name:         req.Name,
		Area:         req.Area,
		PasswordHash: hash,
		Role:         user.RoleUser,
		Approved:     false,
		Hospitals:    []string{},
		Customers:    []profile.Customer{},
		Level:        1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

// Login verifies credentials and the approval gate, then issues tokens.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	p, err := a.profiles.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get profile by email: %w", err)
	}

	if p.PasswordHash == "" {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !p.Approved {
		return auth.LoginResponse{}, auth.ErrAccountNotApproved
	}

	return a.issueTokens(p)
}

// LoginWithGoogle exchanges the OAuth2 code, then finds or creates the
// profile for the verified Google identity. New accounts still start
// unapproved.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string) (auth.LoginResponse, error) {
	token, err := a.google.VerifyToken(ctx, code)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	info, err := a.google.VerifyUser(ctx, token)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to fetch google user: %w", err)
	}
	if !info.VerifiedEmail {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	p, err := a.profiles.GetByEmail(ctx, info.Email)
	if errors.Is(err, profile.ErrProfileNotFound) {
		now := time.Now()
		p, err = a.profiles.Create(ctx, profile.UserProfile{
			Email:     info.Email,
			Name:      info.Name,
			Role:      user.RoleUser,
			Approved:  false,
			Hospitals: []string{},
			Customers: []profile.Customer{},
			Level:     1,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return auth.LoginResponse{}, fmt.Errorf("failed to create profile: %w", err)
		}
	} else if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to get profile by email: %w", err)
	}

	if !p.Approved {
		return auth.LoginResponse{}, auth.ErrAccountNotApproved
	}

	return a.issueTokens(p)
}

// GoogleRedirectURL builds the consent-screen URL for the OAuth2 flow.
func (a *AuthServiceImpl) GoogleRedirectURL(userAgent string) string {
	return a.google.RedirectURL(a.google.GenerateState(userAgent))
}

// Refresh validates a refresh token and issues a fresh token pair.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	if a.IsTokenRevoked(refreshToken) {
		return auth.LoginResponse{}, auth.ErrRefreshTokenRevoked
	}

	decoded, err := a.JWTAuth().Decode(refreshToken)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	tokenType, ok := decoded.Get("type")
	if !ok || tokenType != "refresh" {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	userIDVal, ok := decoded.Get("user_id")
	if !ok {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}

	p, err := a.profiles.GetByID(ctx, userID)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidToken
	}
	if !p.Approved {
		return auth.LoginResponse{}, auth.ErrAccountNotApproved
	}

	// Rotate: the old refresh token is dead once used.
	a.RevokeToken(refreshToken)

	return a.issueTokens(p)
}

// Logout revokes the presented refresh token.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) {
	if refreshToken != "" {
		a.RevokeToken(refreshToken)
	}
}

func (a *AuthServiceImpl) issueTokens(p profile.UserProfile) (auth.LoginResponse, error) {
	var resp auth.LoginResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.GenerateAccessToken(p.ID, p.Email, p.Name, p.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.GenerateRefreshToken(p.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return resp, nil
}
