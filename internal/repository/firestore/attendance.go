package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const attendanceDaysCollection = "attendance_days"

// AttendanceRepository stores day ledgers as a subcollection under each
// user, one document per date.
type AttendanceRepository struct {
	store *database.DocStore
}

func NewAttendanceRepository(store *database.DocStore) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

func (r *AttendanceRepository) day(userID, date string) *firestore.DocumentRef {
	return r.store.Client.Collection(usersCollection).Doc(userID).
		Collection(attendanceDaysCollection).Doc(date)
}

func (r *AttendanceRepository) GetDay(ctx context.Context, userID string, date string) (*attendance.AttendanceDay, error) {
	snap, err := r.day(userID, date).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting attendance day: %w", err)
	}

	var day attendance.AttendanceDay
	if err := snap.DataTo(&day); err != nil {
		return nil, fmt.Errorf("decoding attendance day: %w", err)
	}
	day.UserID = userID
	return &day, nil
}

func (r *AttendanceRepository) AppendCheckIn(ctx context.Context, userID string, date string, c attendance.CheckIn) error {
	_, err := r.day(userID, date).Set(ctx, map[string]interface{}{
		"date":      date,
		"check_ins": firestore.ArrayUnion(c),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("appending check-in: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) SetCheckout(ctx context.Context, userID string, date string, at time.Time) error {
	_, err := r.day(userID, date).Update(ctx, []firestore.Update{
		{Path: "check_out", Value: at},
	})
	if status.Code(err) == codes.NotFound {
		return attendance.ErrDayNotFound
	}
	if err != nil {
		return fmt.Errorf("setting checkout: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) ClearCheckout(ctx context.Context, userID string, date string) error {
	_, err := r.day(userID, date).Update(ctx, []firestore.Update{
		{Path: "check_out", Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return attendance.ErrDayNotFound
	}
	if err != nil {
		return fmt.Errorf("clearing checkout: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) SaveDayReport(ctx context.Context, userID string, date string, rep attendance.DayReport) error {
	_, err := r.day(userID, date).Set(ctx, map[string]interface{}{
		"date":   date,
		"report": rep,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("saving day report: %w", err)
	}
	return nil
}
