package domain

import (
	"fmt"

	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// DateRange is a half-open interval of days [Start, End)
type DateRange struct {
	Start types.Date
	End   types.Date
}

// NewDateRange validates that the range holds at least one night
func NewDateRange(start, end types.Date) (DateRange, error) {
	if !start.Before(end) {
		return DateRange{}, fmt.Errorf("%w: %s - %s", ErrInvalidDateRange, start, end)
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open ranges share a day.
// Adjacent ranges (checkout on the other's checkin) do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Contains reports whether the day is occupied by the range
func (r DateRange) Contains(d types.Date) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}

// Nights number of occupied days
func (r DateRange) Nights() int {
	return r.Start.DaysUntil(r.End)
}

// Days enumerates occupied days, checkout day excluded
func (r DateRange) Days() []types.Date {
	if r.Nights() <= 0 {
		return nil
	}
	days := make([]types.Date, 0, r.Nights())
	for d := r.Start; d.Before(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Clip returns the occupied days that fall into the inclusive window [from, to]
func (r DateRange) Clip(from, to types.Date) []types.Date {
	start := types.MaxDate(r.Start, from)
	last := types.MinDate(r.End.AddDays(-1), to)
	if last.Before(start) {
		return nil
	}
	days := make([]types.Date, 0, start.DaysUntil(last)+1)
	for d := start; !d.After(last); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}
