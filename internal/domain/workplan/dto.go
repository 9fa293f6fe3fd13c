package workplan

import "github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/validator"

type ItineraryStopRequest struct {
	Location  string `json:"location"`
	Objective string `json:"objective"`
}

type SavePlanRequest struct {
	ID        string                 `json:"plan_id,omitempty"`
	Date      string                 `json:"date"` // YYYY-MM-DD
	Title     string                 `json:"title"`
	Content   string                 `json:"content"`
	Itinerary []ItineraryStopRequest `json:"itinerary,omitempty"`
}

func (r *SavePlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}
	if validator.IsEmpty(r.Content) {
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitBatchRequest struct {
	PlanIDs []string `json:"plan_ids"`
}

type DecideRequest struct {
	PlanID  string `json:"plan_id"`
	Outcome string `json:"outcome"` // approved | rejected
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PlanID) {
		errs = append(errs, validator.ValidationError{
			Field:   "plan_id",
			Message: "plan_id is required",
		})
	}
	if r.Outcome != string(StatusApproved) && r.Outcome != string(StatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "outcome",
			Message: "outcome must be approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	PlanID string `json:"plan_id"`
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PlanID) {
		errs = append(errs, validator.ValidationError{
			Field:   "plan_id",
			Message: "plan_id is required",
		})
	}
	if !IsValidStatus(Status(r.Status)) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of draft, pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// OwnPlans partitions a user's plans for the mobile screens.
type OwnPlans struct {
	Editable []WorkPlan `json:"editable"` // draft + rejected, awaiting submission
	History  []WorkPlan `json:"history"`  // pending + approved
}
