package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateRange: checkout not after checkin, or checkin in the past.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrCapacityExceeded: no occupants, or more occupants than the room seats.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrRoomUnavailable: the room is flagged for cleaning or repair.
	ErrRoomUnavailable = errors.New("room unavailable")
	// ErrRoomConflict: the dates intersect an existing reservation.
	ErrRoomConflict = errors.New("room already reserved for these dates")
	// ErrAllOccupantsBlacklisted: nobody is left to book after the blacklist check.
	ErrAllOccupantsBlacklisted = errors.New("all occupants are blacklisted")
)

// ValidationError reports which input failed a check. It wraps one of the
// sentinel errors above.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, sentinel error, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...), Err: sentinel}
}
