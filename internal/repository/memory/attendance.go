package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
)

type dayKey struct {
	userID string
	date   string
}

// AttendanceRepository is an in-memory attendance.Repository.
type AttendanceRepository struct {
	mu   sync.RWMutex
	days map[dayKey]attendance.AttendanceDay
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{days: make(map[dayKey]attendance.AttendanceDay)}
}

func (r *AttendanceRepository) GetDay(ctx context.Context, userID string, date string) (*attendance.AttendanceDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day, ok := r.days[dayKey{userID, date}]
	if !ok {
		return nil, nil
	}
	copied := day
	return &copied, nil
}

func (r *AttendanceRepository) AppendCheckIn(ctx context.Context, userID string, date string, c attendance.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{userID, date}
	day, ok := r.days[key]
	if !ok {
		day = attendance.AttendanceDay{UserID: userID, Date: date}
	}
	day.CheckIns = append(day.CheckIns, c)
	r.days[key] = day
	return nil
}

func (r *AttendanceRepository) SetCheckout(ctx context.Context, userID string, date string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{userID, date}
	day, ok := r.days[key]
	if !ok {
		return attendance.ErrDayNotFound
	}
	day.CheckOut = &at
	r.days[key] = day
	return nil
}

func (r *AttendanceRepository) ClearCheckout(ctx context.Context, userID string, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{userID, date}
	day, ok := r.days[key]
	if !ok {
		return attendance.ErrDayNotFound
	}
	day.CheckOut = nil
	r.days[key] = day
	return nil
}

func (r *AttendanceRepository) SaveDayReport(ctx context.Context, userID string, date string, rep attendance.DayReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{userID, date}
	day, ok := r.days[key]
	if !ok {
		day = attendance.AttendanceDay{UserID: userID, Date: date}
	}
	day.Report = &rep
	r.days[key] = day
	return nil
}
