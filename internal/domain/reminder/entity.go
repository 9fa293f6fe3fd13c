package reminder

import "time"

// Reminder is a user-scoped follow-up, creatable from the UI or through
// the assistant's add_reminder tool.
type Reminder struct {
	ID          string    `firestore:"-" json:"id"`
	UserID      string    `firestore:"user_id" json:"user_id"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description,omitempty" json:"description,omitempty"`
	Type        string    `firestore:"type,omitempty" json:"type,omitempty"`
	DueTime     time.Time `firestore:"due_time" json:"due_time"`
	Done        bool      `firestore:"done" json:"done"`
	CreatedAt   time.Time `firestore:"created_at" json:"created_at"`
}
