package profile

import "errors"

// Profile domain errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrDealNotFound    = errors.New("pipeline deal not found")
	ErrInvalidStage    = errors.New("invalid pipeline stage")
	ErrNotApproved     = errors.New("account is awaiting approval")
)
