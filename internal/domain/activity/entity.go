package activity

import "time"

// EntryType tags the discrete event an entry records.
type EntryType string

const (
	TypeCheckIn           EntryType = "check_in"
	TypeCheckOut          EntryType = "check_out"
	TypeWorkPlanSubmitted EntryType = "work_plan_submitted"
)

// Entry is one append-only activity log record. Entries are never updated
// or deleted.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Type      EntryType `json:"type"`
	Detail    string    `json:"detail"` // location or title string
	Timestamp time.Time `json:"timestamp"`
}
