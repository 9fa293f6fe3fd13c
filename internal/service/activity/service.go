package activity

import (
	"context"
	"fmt"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/sse"
)

// Service appends activity entries and fans them out to SSE subscribers.
// The log is write-only from the perspective of the mutating components.
type Service struct {
	repo activity.Repository
	hub  *sse.Hub
}

func NewActivityService(repo activity.Repository, hub *sse.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Append inserts the entry and notifies the given user ids (the actor and,
// typically, their manager).
func (s *Service) Append(ctx context.Context, e activity.Entry, notify ...string) (activity.Entry, error) {
	created, err := s.repo.Append(ctx, e)
	if err != nil {
		return activity.Entry{}, fmt.Errorf("failed to append activity entry: %w", err)
	}

	if s.hub != nil {
		s.hub.PublishToMany(notify, sse.Event{
			Event: string(created.Type),
			Data:  created,
		})
	}

	return created, nil
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]activity.Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	return entries, nil
}

// ListByUser returns the most recent entries for one user.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]activity.Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	return entries, nil
}
