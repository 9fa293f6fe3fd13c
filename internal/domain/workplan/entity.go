package workplan

import (
	"time"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValidStatus reports whether s is one of the four lifecycle states.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ItineraryStop is one proposed stop. Stops have no identity beyond their
// position in the list.
type ItineraryStop struct {
	Location  string `firestore:"location" json:"location"`
	Objective string `firestore:"objective" json:"objective"`
}

// WorkPlan is a single day's proposed itinerary for one user.
type WorkPlan struct {
	ID        string          `firestore:"-" json:"id"`
	OwnerID   string          `firestore:"owner_id" json:"owner_id"`
	OwnerName string          `firestore:"owner_name" json:"owner_name"` // denormalized for listing
	Date      string          `firestore:"date" json:"date"`             // YYYY-MM-DD
	Title     string          `firestore:"title" json:"title"`
	Content   string          `firestore:"content" json:"content"`
	Itinerary []ItineraryStop `firestore:"itinerary" json:"itinerary"`
	Status    Status          `firestore:"status" json:"status"`

	// Overwritten on every save; last write wins.
	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
}
