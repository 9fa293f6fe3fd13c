package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// ProfileRepository stores profile hub documents in Firestore, one per
// user, keyed by user id.
type ProfileRepository struct {
	store *database.DocStore
}

func NewProfileRepository(store *database.DocStore) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) users() *firestore.CollectionRef {
	return r.store.Client.Collection(usersCollection)
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.UserProfile) (profile.UserProfile, error) {
	if _, err := r.GetByEmail(ctx, p.Email); err == nil {
		return profile.UserProfile{}, profile.ErrEmailExists
	} else if err != profile.ErrProfileNotFound {
		return profile.UserProfile{}, err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, err := r.users().Doc(p.ID).Set(ctx, p); err != nil {
		return profile.UserProfile{}, fmt.Errorf("creating profile document: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (profile.UserProfile, error) {
	snap, err := r.users().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return profile.UserProfile{}, profile.ErrProfileNotFound
	}
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("getting profile document: %w", err)
	}

	var p profile.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return profile.UserProfile{}, fmt.Errorf("decoding profile document: %w", err)
	}
	p.ID = snap.Ref.ID
	return p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (profile.UserProfile, error) {
	iter := r.users().Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return profile.UserProfile{}, profile.ErrProfileNotFound
	}
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("querying profile by email: %w", err)
	}

	var p profile.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return profile.UserProfile{}, fmt.Errorf("decoding profile document: %w", err)
	}
	p.ID = snap.Ref.ID
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p profile.UserProfile) error {
	p.UpdatedAt = time.Now()
	_, err := r.users().Doc(p.ID).Set(ctx, p)
	if status.Code(err) == codes.NotFound {
		return profile.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("updating profile document: %w", err)
	}
	return nil
}

func (r *ProfileRepository) AddHospital(ctx context.Context, userID string, name string) error {
	_, err := r.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "hospitals", Value: firestore.ArrayUnion(name)},
		{Path: "updated_at", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return profile.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("adding hospital: %w", err)
	}
	return nil
}

func (r *ProfileRepository) AddCustomer(ctx context.Context, userID string, c profile.Customer) error {
	_, err := r.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "customers", Value: firestore.ArrayUnion(c)},
		{Path: "updated_at", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return profile.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("adding customer: %w", err)
	}
	return nil
}

// UpsertDeal replaces the pipeline entry with deal.ID, or appends it. The
// read-modify-write runs in a transaction so concurrent upserts cannot
// drop each other's deals.
func (r *ProfileRepository) UpsertDeal(ctx context.Context, userID string, deal profile.PipelineDeal) error {
	ref := r.users().Doc(userID)
	err := r.store.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return profile.ErrProfileNotFound
		}
		if err != nil {
			return err
		}

		var p profile.UserProfile
		if err := snap.DataTo(&p); err != nil {
			return err
		}

		replaced := false
		for i := range p.ActivePipeline {
			if p.ActivePipeline[i].ID == deal.ID {
				p.ActivePipeline[i] = deal
				replaced = true
				break
			}
		}
		if !replaced {
			p.ActivePipeline = append(p.ActivePipeline, deal)
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "active_pipeline", Value: p.ActivePipeline},
			{Path: "updated_at", Value: time.Now()},
		})
	})
	if err == profile.ErrProfileNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("upserting pipeline deal: %w", err)
	}
	return nil
}

func (r *ProfileRepository) ApplyGamification(ctx context.Context, userID string, upd profile.GamificationUpdate) error {
	_, err := r.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "xp", Value: upd.XP},
		{Path: "level", Value: upd.Level},
		{Path: "streak", Value: upd.Streak},
		{Path: "last_active_date", Value: upd.LastActiveDate},
		{Path: "updated_at", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return profile.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("applying gamification update: %w", err)
	}
	return nil
}

func (r *ProfileRepository) ListDirectReports(ctx context.Context, managerID string) ([]profile.UserProfile, error) {
	return r.list(r.users().Where("reports_to", "==", managerID).Documents(ctx))
}

func (r *ProfileRepository) ListAll(ctx context.Context) ([]profile.UserProfile, error) {
	return r.list(r.users().Documents(ctx))
}

func (r *ProfileRepository) list(iter *firestore.DocumentIterator) ([]profile.UserProfile, error) {
	defer iter.Stop()

	var out []profile.UserProfile
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating profiles: %w", err)
		}
		var p profile.UserProfile
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decoding profile document: %w", err)
		}
		p.ID = snap.Ref.ID
		out = append(out, p)
	}
	return out, nil
}
