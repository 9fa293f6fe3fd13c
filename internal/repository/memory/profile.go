package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/google/uuid"
)

// ProfileRepository is an in-memory profile.Repository used by tests and
// local development.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.UserProfile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]profile.UserProfile)}
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.UserProfile) (profile.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return profile.UserProfile{}, profile.ErrEmailExists
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.profiles[p.ID] = p
	return p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (profile.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return profile.UserProfile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (profile.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return profile.UserProfile{}, profile.ErrProfileNotFound
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; !ok {
		return profile.ErrProfileNotFound
	}
	p.UpdatedAt = time.Now()
	r.profiles[p.ID] = p
	return nil
}

func (r *ProfileRepository) AddHospital(ctx context.Context, userID string, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	for _, h := range p.Hospitals {
		if h == name {
			return nil // union-append: no duplicates
		}
	}
	p.Hospitals = append(p.Hospitals, name)
	r.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) AddCustomer(ctx context.Context, userID string, c profile.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	for _, existing := range p.Customers {
		if existing == c {
			return nil
		}
	}
	p.Customers = append(p.Customers, c)
	r.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) UpsertDeal(ctx context.Context, userID string, deal profile.PipelineDeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	for i := range p.ActivePipeline {
		if p.ActivePipeline[i].ID == deal.ID {
			p.ActivePipeline[i] = deal
			r.profiles[userID] = p
			return nil
		}
	}
	p.ActivePipeline = append(p.ActivePipeline, deal)
	r.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) ApplyGamification(ctx context.Context, userID string, upd profile.GamificationUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	p.XP = upd.XP
	p.Level = upd.Level
	p.Streak = upd.Streak
	p.LastActiveDate = upd.LastActiveDate
	p.UpdatedAt = time.Now()
	r.profiles[userID] = p
	return nil
}

func (r *ProfileRepository) ListDirectReports(ctx context.Context, managerID string) ([]profile.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []profile.UserProfile
	for _, p := range r.profiles {
		if p.ReportsTo == managerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]profile.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.UserProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}
