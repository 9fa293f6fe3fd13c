package workplan

import "errors"

// Work plan domain errors
var (
	ErrPlanNotFound      = errors.New("work plan not found")
	ErrIllegalTransition = errors.New("illegal work plan transition")
	ErrNotPlanOwner      = errors.New("not the owner of this work plan")
	ErrReviewNotAllowed  = errors.New("not allowed to review this work plan")
	ErrInvalidOutcome    = errors.New("decision outcome must be approved or rejected")
)
