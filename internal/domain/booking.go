package domain

import (
	"time"

	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusUnallocated BookingStatus = "unallocated"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusBlocked     BookingStatus = "blocked"
	StatusOverlap     BookingStatus = "overlap"
	StatusCancelled   BookingStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// transitions allowed for root bookings. Child bookings follow their parent.
var transitions = map[BookingStatus][]BookingStatus{
	StatusUnallocated: {StatusConfirmed, StatusOverlap, StatusCancelled},
	StatusConfirmed:   {StatusCancelled, StatusOverlap},
	StatusBlocked:     {StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ChildStatus status a propagated child booking takes for its parent's status
func ChildStatus(parent BookingStatus) BookingStatus {
	if parent == StatusConfirmed {
		return StatusBlocked
	}
	return parent
}

// Booking represents a date-ranged stay in a house
type Booking struct {
	ID              int64
	HouseID         int64
	RoomTypeID      *int64 // Set for bookings waiting for allocation
	RoomID          *int64 // Nil until allocated
	RoomUnitID      *int64 // Concrete unit, optional
	UserID          int64
	ParentBookingID *int64 // Set for bookings propagated from a parent unit booking
	Status          BookingStatus
	DtStart         types.Date
	DtEnd           types.Date // Exclusive checkout day

	Summary     *string
	Description *string

	// Children propagated bookings, filled by tree lookups only
	Children []*Booking

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the occupied half-open interval
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.DtStart, End: b.DtEnd}
}

// Nights returns the number of occupied days
func (b *Booking) Nights() int {
	return b.DtStart.DaysUntil(b.DtEnd)
}

// IsAssigned returns true if the booking is pinned to a concrete unit
func (b *Booking) IsAssigned() bool {
	return b.RoomUnitID != nil
}

// IsAllocated returns true if the booking has a room
func (b *Booking) IsAllocated() bool {
	return b.RoomID != nil
}

// IsChild returns true if the booking was propagated from a parent booking
func (b *Booking) IsChild() bool {
	return b.ParentBookingID != nil
}

// IsOccupying returns true if the booking holds its unit
func (b *Booking) IsOccupying() bool {
	return b.Status == StatusConfirmed || b.Status == StatusBlocked
}

// IsTerminal returns true if no further status change is possible
func (b *Booking) IsTerminal() bool {
	return len(transitions[b.Status]) == 0
}

// Walk visits the booking and its loaded children depth first, parents before children
func (b *Booking) Walk(fn func(*Booking)) {
	fn(b)
	for _, child := range b.Children {
		child.Walk(fn)
	}
}

// BookingAssignment filters bookings by unit assignment
type BookingAssignment int

const (
	AssignmentAny BookingAssignment = iota
	AssignmentAssigned
	AssignmentUnassigned
)

// Matches reports whether the booking satisfies the assignment filter
func (a BookingAssignment) Matches(b *Booking) bool {
	switch a {
	case AssignmentAssigned:
		return b.IsAssigned()
	case AssignmentUnassigned:
		return !b.IsAssigned()
	default:
		return true
	}
}

// BookingRangeFilter selects bookings touching an inclusive date window
// (dtstart <= End AND dtend > Start)
type BookingRangeFilter struct {
	HouseID    *int64
	RoomIDs    []int64 // empty - any room
	Start      types.Date
	End        types.Date
	Statuses   []BookingStatus // empty - any status
	Assignment BookingAssignment
}

// Matches applies the filter to a single booking
func (f BookingRangeFilter) Matches(b *Booking) bool {
	if f.HouseID != nil && b.HouseID != *f.HouseID {
		return false
	}
	if len(f.RoomIDs) > 0 && (b.RoomID == nil || !containsID(f.RoomIDs, *b.RoomID)) {
		return false
	}
	if b.DtStart.After(f.End) || !b.DtEnd.After(f.Start) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
		return false
	}
	return f.Assignment.Matches(b)
}

// BookingConflictFilter selects occupying bookings on given units overlapping a range
type BookingConflictFilter struct {
	UnitIDs    []int64
	Range      DateRange
	Statuses   []BookingStatus
	ExcludeIDs []int64
}

// Matches applies the filter to a single booking
func (f BookingConflictFilter) Matches(b *Booking) bool {
	if b.RoomUnitID == nil || !containsID(f.UnitIDs, *b.RoomUnitID) {
		return false
	}
	if containsID(f.ExcludeIDs, b.ID) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
		return false
	}
	return b.Range().Overlaps(f.Range)
}

// HouseBookingsFilter filter for house booking listings
type HouseBookingsFilter struct {
	HouseID   int64
	StartDate *types.Date
	EndDate   *types.Date
	Status    *BookingStatus
	RootsOnly bool
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []BookingStatus, s BookingStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
