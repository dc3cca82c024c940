// Package status defines the sentinel errors shared across services and
// handlers. Check-in scan outcomes are not errors (see models.CheckInResult);
// everything here aborts the operation with no partial writes.
package status

import "errors"

var (
	ErrUnauthenticated       = errors.New("auth: not authenticated")
	ErrNotFound              = errors.New("record: not found")
	ErrForbidden             = errors.New("auth: caller is not the resource owner")
	ErrQuotaExceeded         = errors.New("quota: free event limit reached")
	ErrCapacityExceeded      = errors.New("capacity: event is full")
	ErrDuplicateRegistration = errors.New("registration: attendee already registered")
	ErrAlreadyCheckedIn      = errors.New("registration: ticket already checked in")
)
