package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
)

// ActivityRepository is an in-memory append-only activity.Repository.
type ActivityRepository struct {
	mu      sync.RWMutex
	entries []activity.Entry
	nextID  int64
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{nextID: 1}
}

func (r *ActivityRepository) Append(ctx context.Context, e activity.Entry) (activity.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextID
	r.nextID++
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *ActivityRepository) List(ctx context.Context, limit int) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activity.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activity.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}
