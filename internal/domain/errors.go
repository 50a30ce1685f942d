package domain

import "errors"

var (
	ErrSpaceNotFound       = errors.New("space not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: start must be before end")
	ErrNotOwner         = errors.New("reservation belongs to another user")
	ErrSpaceBusy        = errors.New("space is locked by another operation")

	// ErrOverlapConstraint is returned by the reservation repository when the
	// database exclusion constraint rejects an insert or update. The service
	// re-runs the policy evaluation and surfaces a TIME_CONFLICT decision.
	ErrOverlapConstraint = errors.New("overlapping reservation rejected by constraint")
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
