package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
)

// Service manages per-user follow-up reminders.
type Service struct {
	reminders reminder.Repository
	now       func() time.Time
}

func NewReminderService(reminders reminder.Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{reminders: reminders, now: now}
}

// Create persists a reminder for the caller.
func (s *Service) Create(ctx context.Context, userID string, req reminder.CreateRequest) (reminder.Reminder, error) {
	due, err := time.Parse(time.RFC3339, req.DueTime)
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("failed to parse due time: %w", err)
	}

	created, err := s.reminders.Create(ctx, reminder.Reminder{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		DueTime:     due,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return reminder.Reminder{}, fmt.Errorf("failed to create reminder: %w", err)
	}
	return created, nil
}

// List returns all of the caller's reminders, soonest due first.
func (s *Service) List(ctx context.Context, userID string) ([]reminder.Reminder, error) {
	out, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return out, nil
}

// ListPending returns the caller's not-done reminders due before the cutoff.
func (s *Service) ListPending(ctx context.Context, userID string, before time.Time) ([]reminder.Reminder, error) {
	out, err := s.reminders.ListPending(ctx, userID, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}
	return out, nil
}

// CountPending satisfies the attendance service's ReminderCounter.
func (s *Service) CountPending(ctx context.Context, userID string, before time.Time) (int, error) {
	out, err := s.reminders.ListPending(ctx, userID, before)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reminders: %w", err)
	}
	return len(out), nil
}

// MarkDone flags a reminder as completed.
func (s *Service) MarkDone(ctx context.Context, userID string, id string) error {
	if err := s.reminders.MarkDone(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to mark reminder done: %w", err)
	}
	return nil
}

// Delete removes a reminder.
func (s *Service) Delete(ctx context.Context, userID string, id string) error {
	if err := s.reminders.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}
