package domain

import "errors"

var (
	// ErrCapacityExceeded is returned when the allocator cannot place every booking
	ErrCapacityExceeded = errors.New("not available")

	// ErrDatesUnavailable is returned when a reschedule conflicts with an occupying booking
	ErrDatesUnavailable = errors.New("dates not available")

	// ErrInvalidTopology is returned for cyclic part_of_room links or units referenced
	// through a room they do not belong to
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrInconsistentSnapshot is returned when bookings reference units missing from the
	// topology read in the same computation
	ErrInconsistentSnapshot = errors.New("inconsistent snapshot")

	// ErrInvalidDateRange is returned when a range ends before or on its start
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidTransition is returned when a status change is not allowed
	ErrInvalidTransition = errors.New("invalid status transition")
)
