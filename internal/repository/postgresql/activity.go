package postgresql

import (
	"context"
	"fmt"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type activityRepository struct {
	db *database.DB
}

// NewActivityRepository creates the append-only activity log backed by
// Postgres.
func NewActivityRepository(db *database.DB) activity.Repository {
	return &activityRepository{db: db}
}

// Append inserts one log entry. Entries are never updated or deleted.
func (r *activityRepository) Append(ctx context.Context, e activity.Entry) (activity.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO activity_entries (user_id, user_name, type, detail, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		e.UserID,
		e.UserName,
		string(e.Type),
		e.Detail,
		e.Timestamp,
	).Scan(&e.ID)
	if err != nil {
		return activity.Entry{}, fmt.Errorf("failed to append activity entry: %w", err)
	}

	return e, nil
}

// List returns the most recent entries, newest first.
func (r *activityRepository) List(ctx context.Context, limit int) ([]activity.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, user_name, type, detail, timestamp
		FROM activity_entries
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByUser returns the user's most recent entries, newest first.
func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]activity.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, user_name, type, detail, timestamp
		FROM activity_entries
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries by user: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]activity.Entry, error) {
	var out []activity.Entry
	for rows.Next() {
		var e activity.Entry
		var entryType string
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &entryType, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		e.Type = activity.EntryType(entryType)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity entries: %w", err)
	}
	return out, nil
}
