package attendance

import (
	"time"
)

// CheckIn is one location check-in within a day. Ordering within the day
// follows the server-assigned timestamp.
type CheckIn struct {
	Location  string    `firestore:"location" json:"location"`
	Timestamp time.Time `firestore:"timestamp" json:"timestamp"`
	Latitude  float64   `firestore:"latitude" json:"latitude"`
	Longitude float64   `firestore:"longitude" json:"longitude"`
}

// VisitReport narrates one location visit. Deal snapshots live on the
// owning profile; only their ids are referenced here.
type VisitReport struct {
	Location    string    `firestore:"location" json:"location"`
	CheckInTime time.Time `firestore:"check_in_time" json:"check_in_time"`
	Summary     string    `firestore:"summary" json:"summary"`
	ContactsMet []string  `firestore:"contacts_met" json:"contacts_met"`
	DealIDs     []string  `firestore:"deal_ids" json:"deal_ids"`
}

// DayReport is the day's narrative report.
type DayReport struct {
	Visits []VisitReport `firestore:"visits" json:"visits"`
}

// AttendanceDay is the per-user, per-day ledger document. At most one
// exists per (user, date).
type AttendanceDay struct {
	UserID   string     `firestore:"-" json:"user_id"`
	Date     string     `firestore:"date" json:"date"` // YYYY-MM-DD, document id
	CheckIns []CheckIn  `firestore:"check_ins" json:"check_ins"`
	CheckOut *time.Time `firestore:"check_out,omitempty" json:"check_out,omitempty"`
	Report   *DayReport `firestore:"report,omitempty" json:"report,omitempty"`
}

// CheckedOut reports whether the day has been finalized.
func (d *AttendanceDay) CheckedOut() bool {
	return d.CheckOut != nil
}

// Locations returns the distinct visited location names in check-in order.
func (d *AttendanceDay) Locations() []string {
	seen := make(map[string]struct{}, len(d.CheckIns))
	var out []string
	for _, c := range d.CheckIns {
		if _, ok := seen[c.Location]; ok {
			continue
		}
		seen[c.Location] = struct{}{}
		out = append(out, c.Location)
	}
	return out
}
