package reminder

import (
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	DueTime     string `json:"due_time"` // RFC3339
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if _, err := time.Parse(time.RFC3339, r.DueTime); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "due_time",
			Message: "due_time must be an RFC3339 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
