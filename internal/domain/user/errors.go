package user

import "errors"

// ErrForbidden is returned when an actor's role does not allow an
// operation.
var ErrForbidden = errors.New("operation not allowed for this role")
