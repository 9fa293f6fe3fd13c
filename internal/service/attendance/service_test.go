package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/activity"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/repository/memory"
	activityService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/activity"
	reminderService "github.com/fieldpulse/fieldcrm-backend-go/internal/service/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "rep-1"

type fixture struct {
	svc       *Service
	profiles  *memory.ProfileRepository
	days      *memory.AttendanceRepository
	activity  *memory.ActivityRepository
	reminders *memory.ReminderRepository
	clock     *time.Time
}

// newFixture seeds one approved rep and pins the clock to mid-morning on
// 2025-06-16. Tests move the clock through *f.clock.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	profiles := memory.NewProfileRepository()
	_, err := profiles.Create(context.Background(), profile.UserProfile{
		ID:       userID,
		Email:    "dewi@fieldpulse.io",
		Name:     "Dewi",
		Role:     user.RoleUser,
		Approved: true,
		Level:    1,
	})
	require.NoError(t, err)

	days := memory.NewAttendanceRepository()
	activityRepo := memory.NewActivityRepository()
	activitySvc := activityService.NewActivityService(activityRepo, nil)
	reminderRepo := memory.NewReminderRepository()

	clock := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	reminderSvc := reminderService.NewReminderService(reminderRepo, now)
	svc := NewAttendanceService(days, profiles, activitySvc, reminderSvc, now)
	return &fixture{
		svc:       svc,
		profiles:  profiles,
		days:      days,
		activity:  activityRepo,
		reminders: reminderRepo,
		clock:     &clock,
	}
}

func (f *fixture) profile(t *testing.T) profile.UserProfile {
	t.Helper()
	p, err := f.profiles.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return p
}

func TestCheckInFirstOfDayStartsStreak(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CheckIn(context.Background(), userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	assert.Equal(t, 20, res.EarnedXP)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, res.Level)
	require.Len(t, res.Day.CheckIns, 1)
	assert.Equal(t, "RS Harapan", res.Day.CheckIns[0].Location)

	p := f.profile(t)
	assert.Equal(t, 20, p.XP)
	assert.Equal(t, "2025-06-16", p.LastActiveDate)
}

func TestCheckInEarlyBirdBonus(t *testing.T) {
	f := newFixture(t)
	*f.clock = time.Date(2025, 6, 16, 8, 30, 0, 0, time.UTC)

	res, err := f.svc.CheckIn(context.Background(), userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)
	assert.Equal(t, 50, res.EarnedXP)
}

func TestCheckInExtraSameDayIsFlat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	second, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "Klinik Melati"})
	require.NoError(t, err)

	assert.Equal(t, 10, second.EarnedXP)
	assert.Equal(t, first.Streak, second.Streak, "extra check-ins never touch the streak")
	assert.Len(t, second.Day.CheckIns, 2)
}

func TestCheckInConsecutiveDayAdvancesStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	*f.clock = f.clock.AddDate(0, 0, 1)
	res, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, 25, res.EarnedXP) // base 15 + streak bonus 10
}

func TestCheckInGapDayResetsStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	*f.clock = f.clock.AddDate(0, 0, 3)
	res, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
}

func TestCheckInLogsActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	entries, err := f.activity.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, activity.TypeCheckIn, entries[0].Type)
	assert.Equal(t, "RS Harapan", entries[0].Detail)
	assert.Equal(t, "Dewi", entries[0].UserName)
}

func TestFinalizeCheckoutRequiresCheckIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FinalizeCheckout(context.Background(), userID)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestFinalizeCheckoutIsSetOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	day, err := f.svc.FinalizeCheckout(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, day.CheckOut)
	assert.Equal(t, *f.clock, *day.CheckOut)

	_, err = f.svc.FinalizeCheckout(ctx, userID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestUndoCheckoutReopensDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.UndoCheckout(ctx, userID), attendance.ErrNotCheckedOut)

	_, err = f.svc.FinalizeCheckout(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, f.svc.UndoCheckout(ctx, userID))

	// Checkout works again after the undo.
	_, err = f.svc.FinalizeCheckout(ctx, userID)
	require.NoError(t, err)
}

func TestSaveDayReportOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := attendance.SaveDayReportRequest{
		Date: "2025-06-16",
		Visits: []attendance.VisitReportRequest{
			{Location: "RS Harapan", CheckInTime: "2025-06-16T10:00:00Z", Summary: "intro meeting", ContactsMet: []string{"dr. Putri"}},
		},
	}
	require.NoError(t, f.svc.SaveDayReport(ctx, userID, req))

	req.Visits[0].Summary = "followup agreed"
	require.NoError(t, f.svc.SaveDayReport(ctx, userID, req))

	day, err := f.svc.Day(ctx, userID, "2025-06-16")
	require.NoError(t, err)
	require.NotNil(t, day.Report)
	require.Len(t, day.Report.Visits, 1)
	assert.Equal(t, "followup agreed", day.Report.Visits[0].Summary)
}

func TestSaveVisitDealLinksPipelineIntoReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)

	deal := profile.PipelineDeal{
		ID:          "deal-1",
		Product:     "Infusion pumps",
		Stage:       profile.StageProposal,
		Value:       120000,
		Probability: 60,
	}
	_, err = f.svc.SaveVisitDeal(ctx, userID, "2025-06-16", "RS Harapan", deal)
	require.NoError(t, err)

	// The pipeline holds the snapshot; the report holds only the id.
	p := f.profile(t)
	require.Len(t, p.ActivePipeline, 1)
	assert.Equal(t, profile.StageProposal, p.ActivePipeline[0].Stage)

	day, err := f.svc.Day(ctx, userID, "2025-06-16")
	require.NoError(t, err)
	require.NotNil(t, day.Report)
	require.Len(t, day.Report.Visits, 1)
	assert.Equal(t, []string{"deal-1"}, day.Report.Visits[0].DealIDs)

	// Linking the same deal again does not duplicate the reference.
	deal.Stage = profile.StageNegotiation
	_, err = f.svc.SaveVisitDeal(ctx, userID, "2025-06-16", "RS Harapan", deal)
	require.NoError(t, err)

	day, err = f.svc.Day(ctx, userID, "2025-06-16")
	require.NoError(t, err)
	assert.Equal(t, []string{"deal-1"}, day.Report.Visits[0].DealIDs)
	p = f.profile(t)
	require.Len(t, p.ActivePipeline, 1)
	assert.Equal(t, profile.StageNegotiation, p.ActivePipeline[0].Stage)
}

func TestSaveVisitDealRejectsUnassignedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SaveVisitDeal(context.Background(), userID, "2025-06-16", "RS Harapan", profile.PipelineDeal{})
	assert.ErrorIs(t, err, profile.ErrDealNotFound)
}

func TestAddInteractionMergesByLocation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddInteraction(ctx, userID, "RS Harapan", "dr. Putri", "discussed pricing"))
	require.NoError(t, f.svc.AddInteraction(ctx, userID, "RS Harapan", "dr. Putri", "left samples"))
	require.NoError(t, f.svc.AddInteraction(ctx, userID, "Klinik Melati", "dr. Andi", ""))

	day, err := f.svc.Day(ctx, userID, "2025-06-16")
	require.NoError(t, err)
	require.NotNil(t, day.Report)
	require.Len(t, day.Report.Visits, 2)

	first := day.Report.Visits[0]
	assert.Equal(t, []string{"dr. Putri"}, first.ContactsMet)
	assert.Equal(t, "discussed pricing\nleft samples", first.Summary)

	second := day.Report.Visits[1]
	assert.Equal(t, "Klinik Melati", second.Location)
	assert.Equal(t, []string{"dr. Andi"}, second.ContactsMet)
}

func TestTodayContextSummarizesDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tc, err := f.svc.TodayContext(ctx, userID)
	require.NoError(t, err)
	assert.False(t, tc.CheckedIn)
	assert.Equal(t, "2025-06-16", tc.Date)

	_, err = f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "RS Harapan"})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, userID, attendance.CheckInRequest{Location: "Klinik Melati"})
	require.NoError(t, err)

	// One reminder due tomorrow, one far out and one already done.
	_, err = f.reminders.Create(ctx, reminder.Reminder{UserID: userID, Title: "call back", DueTime: f.clock.Add(3 * time.Hour)})
	require.NoError(t, err)
	_, err = f.reminders.Create(ctx, reminder.Reminder{UserID: userID, Title: "next month", DueTime: f.clock.AddDate(0, 1, 0)})
	require.NoError(t, err)
	done, err := f.reminders.Create(ctx, reminder.Reminder{UserID: userID, Title: "already handled", DueTime: f.clock.Add(time.Hour)})
	require.NoError(t, err)
	require.NoError(t, f.reminders.MarkDone(ctx, userID, done.ID))

	tc, err = f.svc.TodayContext(ctx, userID)
	require.NoError(t, err)
	assert.True(t, tc.CheckedIn)
	assert.False(t, tc.CheckedOut)
	assert.Equal(t, []string{"RS Harapan", "Klinik Melati"}, tc.VisitedLocations)
	assert.Equal(t, 1, tc.PendingReminders)
}
