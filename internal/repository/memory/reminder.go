package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/google/uuid"
)

// ReminderRepository is an in-memory reminder.Repository.
type ReminderRepository struct {
	mu        sync.RWMutex
	reminders map[string]reminder.Reminder
}

func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{reminders: make(map[string]reminder.Reminder)}
}

func (r *ReminderRepository) Create(ctx context.Context, rem reminder.Reminder) (reminder.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem.ID = uuid.NewString()
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = time.Now()
	}
	r.reminders[rem.ID] = rem
	return rem, nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID string) ([]reminder.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []reminder.Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueTime.Before(out[j].DueTime) })
	return out, nil
}

func (r *ReminderRepository) ListPending(ctx context.Context, userID string, before time.Time) ([]reminder.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []reminder.Reminder
	for _, rem := range r.reminders {
		if rem.UserID == userID && !rem.Done && rem.DueTime.Before(before) {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueTime.Before(out[j].DueTime) })
	return out, nil
}

func (r *ReminderRepository) MarkDone(ctx context.Context, userID string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[id]
	if !ok || rem.UserID != userID {
		return reminder.ErrReminderNotFound
	}
	rem.Done = true
	r.reminders[id] = rem
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, userID string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[id]
	if !ok || rem.UserID != userID {
		return reminder.ErrReminderNotFound
	}
	delete(r.reminders, id)
	return nil
}
