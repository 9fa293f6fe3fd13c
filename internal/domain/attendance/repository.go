package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance day documents. Documents
// are keyed by (userID, date); date is YYYY-MM-DD.
type Repository interface {
	// GetDay retrieves the day document, or nil when no check-in happened.
	GetDay(ctx context.Context, userID string, date string) (*AttendanceDay, error)

	// AppendCheckIn appends a check-in record, creating the day document
	// on first check-in.
	AppendCheckIn(ctx context.Context, userID string, date string, c CheckIn) error

	// SetCheckout stamps the day's checkout time.
	SetCheckout(ctx context.Context, userID string, date string, at time.Time) error

	// ClearCheckout removes the checkout stamp (undo).
	ClearCheckout(ctx context.Context, userID string, date string) error

	// SaveDayReport overwrites the day's narrative report.
	SaveDayReport(ctx context.Context, userID string, date string, r DayReport) error
}
