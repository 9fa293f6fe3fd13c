package reminder

import (
	"context"
	"time"
)

// Repository defines data access for reminders.
type Repository interface {
	// Create persists a reminder and returns it with an assigned id.
	Create(ctx context.Context, r Reminder) (Reminder, error)

	// ListByUser returns all reminders for a user, soonest due first.
	ListByUser(ctx context.Context, userID string) ([]Reminder, error)

	// ListPending returns not-done reminders due before the cutoff.
	ListPending(ctx context.Context, userID string, before time.Time) ([]Reminder, error)

	// MarkDone flags a reminder as completed.
	MarkDone(ctx context.Context, userID string, id string) error

	// Delete removes a reminder.
	Delete(ctx context.Context, userID string, id string) error
}
