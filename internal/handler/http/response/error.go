package response

import (
	"errors"
	"net/http"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/auth"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/workplan"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountNotApproved):
		Forbidden(w, "Account is awaiting approval")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, profile.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, profile.ErrDealNotFound):
		NotFound(w, "Pipeline deal not found")
	case errors.Is(err, profile.ErrInvalidStage):
		BadRequest(w, "Invalid pipeline stage", nil)
	case errors.Is(err, profile.ErrNotApproved):
		Forbidden(w, "Account is awaiting approval")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance day not found")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "Not checked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedOut):
		BadRequest(w, "Not checked out yet", nil)

	// Work plan domain errors
	case errors.Is(err, workplan.ErrPlanNotFound):
		NotFound(w, "Work plan not found")
	case errors.Is(err, workplan.ErrIllegalTransition):
		Conflict(w, "Illegal work plan transition")
	case errors.Is(err, workplan.ErrInvalidOutcome):
		BadRequest(w, "Outcome must be approved or rejected", nil)
	case errors.Is(err, workplan.ErrNotPlanOwner),
		errors.Is(err, workplan.ErrReviewNotAllowed),
		errors.Is(err, user.ErrForbidden):
		Forbidden(w, "Operation not allowed for this role")

	// Reminder domain errors
	case errors.Is(err, reminder.ErrReminderNotFound):
		NotFound(w, "Reminder not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
