package activity

import "context"

// Repository is insert-only from the perspective of the other components.
type Repository interface {
	// Append inserts a new entry and returns it with an assigned id and
	// server timestamp.
	Append(ctx context.Context, e Entry) (Entry, error)

	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)

	// ListByUser returns the most recent entries for one user.
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
