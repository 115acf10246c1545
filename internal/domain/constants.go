package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxSummaryLength     = 255
	MaxDescriptionLength = 2000
)

// OccupyingStatuses statuses that hold a unit for their date range.
// Used by conflict checks and by the allocator's fixed occupancy.
var OccupyingStatuses = []BookingStatus{
	StatusConfirmed,
	StatusBlocked,
}

// AvailabilityStatuses statuses counted by the availability calculator
var AvailabilityStatuses = []BookingStatus{
	StatusConfirmed,
}

// AllStatuses every known booking status
var AllStatuses = []BookingStatus{
	StatusUnallocated,
	StatusConfirmed,
	StatusBlocked,
	StatusOverlap,
	StatusCancelled,
}
