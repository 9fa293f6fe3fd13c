package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// Service owns the per-user hub document: roster, pipeline memory and the
// admin-only account controls.
type Service struct {
	profiles profile.Repository
	now      func() time.Time
}

func NewProfileService(profiles profile.Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{profiles: profiles, now: now}
}

// Get returns the caller's own profile, or any profile when the actor is
// privileged.
func (s *Service) Get(ctx context.Context, actor user.Actor, userID string) (profile.UserProfile, error) {
	if userID != actor.ID && !actor.IsPrivileged() {
		return profile.UserProfile{}, user.ErrForbidden
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// AddHospital union-appends a hospital to the caller's roster. Adding a
// name that is already present is a no-op, not an error.
func (s *Service) AddHospital(ctx context.Context, userID string, req profile.AddHospitalRequest) error {
	if err := s.profiles.AddHospital(ctx, userID, req.Name); err != nil {
		return fmt.Errorf("failed to add hospital: %w", err)
	}
	return nil
}

// AddCustomer union-appends a customer contact to the caller's roster.
func (s *Service) AddCustomer(ctx context.Context, userID string, req profile.AddCustomerRequest) error {
	c := profile.Customer{
		Name:       req.Name,
		Hospital:   req.Hospital,
		Department: req.Department,
		Phone:      req.Phone,
	}
	if err := s.profiles.AddCustomer(ctx, userID, c); err != nil {
		return fmt.Errorf("failed to add customer: %w", err)
	}
	return nil
}

// UpsertDeal inserts or replaces a pipeline deal. A request without an id
// creates a new deal; with an id it replaces the snapshot wholesale.
func (s *Service) UpsertDeal(ctx context.Context, userID string, req profile.UpsertDealRequest) (profile.PipelineDeal, error) {
	deal := profile.PipelineDeal{
		ID:          req.ID,
		Product:     req.Product,
		Stage:       profile.DealStage(req.Stage),
		Value:       req.Value,
		Probability: req.Probability,
		UpdatedAt:   s.now(),
	}
	if deal.ID == "" {
		deal.ID = uuid.NewString()
	}
	if err := s.profiles.UpsertDeal(ctx, userID, deal); err != nil {
		return profile.PipelineDeal{}, fmt.Errorf("failed to upsert deal: %w", err)
	}
	return deal, nil
}

// Pipeline returns the caller's deal snapshots.
func (s *Service) Pipeline(ctx context.Context, userID string) ([]profile.PipelineDeal, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p.ActivePipeline, nil
}

// Approve flips the approval gate on an account. Admin only.
func (s *Service) Approve(ctx context.Context, actor user.Actor, userID string) error {
	if !actor.IsAdmin() {
		return user.ErrForbidden
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	p.Approved = true
	p.UpdatedAt = s.now()
	if err := s.profiles.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to approve profile: %w", err)
	}
	return nil
}

// SetRole changes an account's role. Admin only.
func (s *Service) SetRole(ctx context.Context, actor user.Actor, userID string, role user.Role) error {
	if !actor.IsAdmin() {
		return user.ErrForbidden
	}
	if role != user.RoleUser && role != user.RoleManager && role != user.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	p.Role = role
	p.UpdatedAt = s.now()
	if err := s.profiles.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// SetManager assigns the reporting line for an account. Admin only.
func (s *Service) SetManager(ctx context.Context, actor user.Actor, userID string, managerID string) error {
	if !actor.IsAdmin() {
		return user.ErrForbidden
	}
	if managerID != "" {
		if _, err := s.profiles.GetByID(ctx, managerID); err != nil {
			return fmt.Errorf("failed to get manager profile: %w", err)
		}
	}
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	p.ReportsTo = managerID
	p.UpdatedAt = s.now()
	if err := s.profiles.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to set manager: %w", err)
	}
	return nil
}

// SetVoiceAPIKey stores the caller's per-user speech credential override.
func (s *Service) SetVoiceAPIKey(ctx context.Context, userID string, key string) error {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	p.VoiceAPIKey = key
	p.UpdatedAt = s.now()
	if err := s.profiles.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to set voice api key: %w", err)
	}
	return nil
}

// Team returns the profiles an actor may supervise: direct reports for a
// manager, everyone for an admin.
func (s *Service) Team(ctx context.Context, actor user.Actor) ([]profile.UserProfile, error) {
	switch {
	case actor.IsAdmin():
		team, err := s.profiles.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list profiles: %w", err)
		}
		return team, nil
	case actor.IsReviewer():
		team, err := s.profiles.ListDirectReports(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list direct reports: %w", err)
		}
		return team, nil
	default:
		return nil, nil
	}
}
