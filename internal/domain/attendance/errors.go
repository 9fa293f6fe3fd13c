package attendance

import "errors"

// Attendance domain errors
var (
	ErrDayNotFound       = errors.New("attendance day not found")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrNotCheckedOut     = errors.New("day has not been checked out")
)
