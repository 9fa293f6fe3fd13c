package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	activityService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/service/gamification"
)

const dateLayout = "2006-01-02"

// ReminderCounter reports how many not-done reminders are due before a
// cutoff. Satisfied by the reminder service.
type ReminderCounter interface {
	CountPending(ctx context.Context, userID string, before time.Time) (int, error)
}

// Service is the attendance ledger: check-ins, checkout, day reports and
// the gamification side effects they carry.
type Service struct {
	days      attendance.Repository
	profiles  profile.Repository
	activity  *activityService.Service
	reminders ReminderCounter
	now       func() time.Time
}

func NewAttendanceService(
	days attendance.Repository,
	profiles profile.Repository,
	activitySvc *activityService.Service,
	reminders ReminderCounter,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		days:      days,
		profiles:  profiles,
		activity:  activitySvc,
		reminders: reminders,
		now:       now,
	}
}

// CheckIn appends a check-in record for today. The first check-in of a day
// advances the streak and awards XP; later check-ins of the same day earn a
// small flat award and never touch the streak.
func (s *Service) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest) (attendance.CheckInResult, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("failed to get profile: %w", err)
	}

	at := s.now()
	today := at.Format(dateLayout)

	day, err := s.days.GetDay(ctx, userID, today)
	if err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	checkIn := attendance.CheckIn{
		Location:  req.Location,
		Timestamp: at,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := s.days.AppendCheckIn(ctx, userID, today, checkIn); err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("failed to append check-in: %w", err)
	}

	firstOfDay := day == nil || len(day.CheckIns) == 0

	var earned int
	streak := p.Streak
	if firstOfDay {
		streak = gamification.NextStreak(p.Streak, p.LastActiveDate, today)
		earned = gamification.CheckInXP(streak, at)
	} else {
		earned = gamification.ExtraCheckInXP()
	}

	xp := p.XP + earned
	level := gamification.Level(xp)
	upd := profile.GamificationUpdate{
		XP:             xp,
		Level:          level,
		Streak:         streak,
		LastActiveDate: today,
	}
	if err := s.profiles.ApplyGamification(ctx, userID, upd); err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("failed to apply gamification update: %w", err)
	}

	if _, err := s.activity.Append(ctx, activity.Entry{
		UserID:    userID,
		UserName:  p.Name,
		Type:      activity.TypeCheckIn,
		Detail:    req.Location,
		Timestamp: at,
	}, s.notifyTargets(p)...); err != nil {
		return attendance.CheckInResult{}, err
	}

	updated, err := s.days.GetDay(ctx, userID, today)
	if err != nil {
		return attendance.CheckInResult{}, fmt.Errorf("failed to reload attendance day: %w", err)
	}

	return attendance.CheckInResult{
		Day:      *updated,
		EarnedXP: earned,
		XP:       xp,
		Level:    level,
		Streak:   streak,
	}, nil
}

// FinalizeCheckout stamps today's checkout time. It is set at most once;
// a second call fails with ErrAlreadyCheckedOut.
func (s *Service) FinalizeCheckout(ctx context.Context, userID string) (attendance.AttendanceDay, error) {
	at := s.now()
	today := at.Format(dateLayout)

	day, err := s.days.GetDay(ctx, userID, today)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil || len(day.CheckIns) == 0 {
		return attendance.AttendanceDay{}, attendance.ErrNotCheckedIn
	}
	if day.CheckedOut() {
		return attendance.AttendanceDay{}, attendance.ErrAlreadyCheckedOut
	}

	if err := s.days.SetCheckout(ctx, userID, today, at); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to set checkout: %w", err)
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if _, err := s.activity.Append(ctx, activity.Entry{
		UserID:    userID,
		UserName:  p.Name,
		Type:      activity.TypeCheckOut,
		Detail:    day.CheckIns[len(day.CheckIns)-1].Location,
		Timestamp: at,
	}, s.notifyTargets(p)...); err != nil {
		return attendance.AttendanceDay{}, err
	}

	day.CheckOut = &at
	return *day, nil
}

// UndoCheckout clears today's checkout stamp.
func (s *Service) UndoCheckout(ctx context.Context, userID string) error {
	today := s.now().Format(dateLayout)

	day, err := s.days.GetDay(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.ErrDayNotFound
	}
	if !day.CheckedOut() {
		return attendance.ErrNotCheckedOut
	}

	if err := s.days.ClearCheckout(ctx, userID, today); err != nil {
		return fmt.Errorf("failed to clear checkout: %w", err)
	}
	return nil
}

// SaveDayReport overwrites the day's narrative report. Deal snapshots are
// not embedded; visits reference deal ids whose single source of truth is
// the profile pipeline (see SaveVisitDeal).
func (s *Service) SaveDayReport(ctx context.Context, userID string, req attendance.SaveDayReportRequest) error {
	visits := make([]attendance.VisitReport, 0, len(req.Visits))
	for _, v := range req.Visits {
		checkInTime, err := time.Parse(time.RFC3339, v.CheckInTime)
		if err != nil {
			return fmt.Errorf("failed to parse visit check-in time: %w", err)
		}
		visits = append(visits, attendance.VisitReport{
			Location:    v.Location,
			CheckInTime: checkInTime,
			Summary:     v.Summary,
			ContactsMet: v.ContactsMet,
			DealIDs:     v.DealIDs,
		})
	}

	if err := s.days.SaveDayReport(ctx, userID, req.Date, attendance.DayReport{Visits: visits}); err != nil {
		return fmt.Errorf("failed to save day report: %w", err)
	}
	return nil
}

// SaveVisitDeal upserts a deal snapshot on the profile pipeline and links
// its id into the visit report for the given date and location. The two
// writes are explicit: pipeline first, then the day-report reference.
func (s *Service) SaveVisitDeal(ctx context.Context, userID string, date string, location string, deal profile.PipelineDeal) (profile.PipelineDeal, error) {
	if deal.ID == "" {
		return profile.PipelineDeal{}, fmt.Errorf("deal id must be assigned before linking: %w", profile.ErrDealNotFound)
	}

	if err := s.profiles.UpsertDeal(ctx, userID, deal); err != nil {
		return profile.PipelineDeal{}, fmt.Errorf("failed to upsert pipeline deal: %w", err)
	}

	day, err := s.days.GetDay(ctx, userID, date)
	if err != nil {
		return profile.PipelineDeal{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return profile.PipelineDeal{}, attendance.ErrDayNotFound
	}

	report := attendance.DayReport{}
	if day.Report != nil {
		report = *day.Report
	}

	linked := false
	for i := range report.Visits {
		if report.Visits[i].Location != location {
			continue
		}
		if !containsString(report.Visits[i].DealIDs, deal.ID) {
			report.Visits[i].DealIDs = append(report.Visits[i].DealIDs, deal.ID)
		}
		linked = true
		break
	}
	if !linked {
		report.Visits = append(report.Visits, attendance.VisitReport{
			Location:    location,
			CheckInTime: s.now(),
			DealIDs:     []string{deal.ID},
		})
	}

	if err := s.days.SaveDayReport(ctx, userID, date, report); err != nil {
		return profile.PipelineDeal{}, fmt.Errorf("failed to link deal into day report: %w", err)
	}

	return deal, nil
}

// AddInteraction records a customer conversation at a location in today's
// day report, creating the visit if the location has none yet. Used by the
// assistant's add_interaction tool.
func (s *Service) AddInteraction(ctx context.Context, userID string, location string, customerName string, summary string) error {
	at := s.now()
	today := at.Format(dateLayout)

	day, err := s.days.GetDay(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("failed to get attendance day: %w", err)
	}

	report := attendance.DayReport{}
	if day != nil && day.Report != nil {
		report = *day.Report
	}

	merged := false
	for i := range report.Visits {
		if report.Visits[i].Location != location {
			continue
		}
		if !containsString(report.Visits[i].ContactsMet, customerName) {
			report.Visits[i].ContactsMet = append(report.Visits[i].ContactsMet, customerName)
		}
		if summary != "" {
			if report.Visits[i].Summary != "" {
				report.Visits[i].Summary += "\n"
			}
			report.Visits[i].Summary += summary
		}
		merged = true
		break
	}
	if !merged {
		report.Visits = append(report.Visits, attendance.VisitReport{
			Location:    location,
			CheckInTime: at,
			Summary:     summary,
			ContactsMet: []string{customerName},
		})
	}

	if err := s.days.SaveDayReport(ctx, userID, today, report); err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}
	return nil
}

// Day returns the ledger document for a date, or ErrDayNotFound.
func (s *Service) Day(ctx context.Context, userID string, date string) (attendance.AttendanceDay, error) {
	day, err := s.days.GetDay(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	if day == nil {
		return attendance.AttendanceDay{}, attendance.ErrDayNotFound
	}
	return *day, nil
}

// TodayContext summarizes the caller's day for the assistant and the
// dashboard.
func (s *Service) TodayContext(ctx context.Context, userID string) (attendance.TodayContext, error) {
	at := s.now()
	today := at.Format(dateLayout)

	day, err := s.days.GetDay(ctx, userID, today)
	if err != nil {
		return attendance.TodayContext{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	tc := attendance.TodayContext{Date: today}
	if day != nil {
		tc.CheckedIn = len(day.CheckIns) > 0
		tc.CheckedOut = day.CheckedOut()
		tc.VisitedLocations = day.Locations()
	}

	if s.reminders != nil {
		pending, err := s.reminders.CountPending(ctx, userID, at.Add(24*time.Hour))
		if err != nil {
			return attendance.TodayContext{}, fmt.Errorf("failed to count pending reminders: %w", err)
		}
		tc.PendingReminders = pending
	}

	return tc, nil
}

func (s *Service) notifyTargets(p profile.UserProfile) []string {
	targets := []string{p.ID}
	if p.ReportsTo != "" {
		targets = append(targets, p.ReportsTo)
	}
	return targets
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
