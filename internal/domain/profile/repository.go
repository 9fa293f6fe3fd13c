package profile

import (
	"context"
)

// GamificationUpdate is the partial-field update applied after a check-in.
type GamificationUpdate struct {
	XP             int
	Level          int
	Streak         int
	LastActiveDate string
}

// Repository defines data access for user profile documents.
type Repository interface {
	// Create persists a new profile document keyed by profile.ID.
	Create(ctx context.Context, p UserProfile) (UserProfile, error)

	// GetByID retrieves a profile by user id.
	GetByID(ctx context.Context, id string) (UserProfile, error)

	// GetByEmail retrieves a profile by its email identity.
	GetByEmail(ctx context.Context, email string) (UserProfile, error)

	// Update overwrites mutable profile fields (merge semantics).
	Update(ctx context.Context, p UserProfile) error

	// AddHospital union-appends a hospital name to the roster.
	AddHospital(ctx context.Context, userID string, name string) error

	// AddCustomer union-appends a customer contact to the roster.
	AddCustomer(ctx context.Context, userID string, c Customer) error

	// UpsertDeal inserts or replaces the pipeline deal with deal.ID.
	UpsertDeal(ctx context.Context, userID string, deal PipelineDeal) error

	// ApplyGamification merges the gamification counters into the document.
	ApplyGamification(ctx context.Context, userID string, upd GamificationUpdate) error

	// ListDirectReports returns profiles whose reports_to equals managerID.
	ListDirectReports(ctx context.Context, managerID string) ([]UserProfile, error)

	// ListAll returns every profile. Used by the sales intelligence rollup.
	ListAll(ctx context.Context) ([]UserProfile, error)
}
