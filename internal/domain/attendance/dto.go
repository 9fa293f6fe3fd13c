package attendance

import "github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/validator"

type CheckInRequest struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VisitReportRequest struct {
	Location    string   `json:"location"`
	CheckInTime string   `json:"check_in_time"` // RFC3339
	Summary     string   `json:"summary"`
	ContactsMet []string `json:"contacts_met,omitempty"`
	DealIDs     []string `json:"deal_ids,omitempty"`
}

type SaveDayReportRequest struct {
	Date   string               `json:"date"` // YYYY-MM-DD
	Visits []VisitReportRequest `json:"visits"`
}

func (r *SaveDayReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	for _, v := range r.Visits {
		if validator.IsEmpty(v.Location) {
			errs = append(errs, validator.ValidationError{
				Field:   "visits.location",
				Message: "visit location is required",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CheckInResult reports the gamification outcome of a check-in.
type CheckInResult struct {
	Day      AttendanceDay `json:"day"`
	EarnedXP int           `json:"earned_xp"`
	XP       int           `json:"xp"`
	Level    int           `json:"level"`
	Streak   int           `json:"streak"`
}

// TodayContext summarizes the caller's day for the assistant and the
// dashboard.
type TodayContext struct {
	Date             string   `json:"date"`
	CheckedIn        bool     `json:"checked_in"`
	CheckedOut       bool     `json:"checked_out"`
	VisitedLocations []string `json:"visited_locations"`
	PendingReminders int      `json:"pending_reminders"`
}
