package allocate_bookings

import (
	"fmt"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.HouseID <= 0 {
		return fmt.Errorf("%w: houseID must be positive", ErrInvalidInput)
	}

	for i, c := range req.Candidates {
		if c.UserID <= 0 {
			return fmt.Errorf("%w: candidate #%d: userID must be positive", ErrInvalidInput, i)
		}
		if c.RoomTypeID <= 0 {
			return fmt.Errorf("%w: candidate #%d: roomTypeID must be positive", ErrInvalidInput, i)
		}
		if _, err := domain.NewDateRange(c.DtStart, c.DtEnd); err != nil {
			return fmt.Errorf("%w: candidate #%d: %v", ErrInvalidInput, i, err)
		}
		if c.Summary != nil && len(*c.Summary) > domain.MaxSummaryLength {
			return fmt.Errorf("%w: candidate #%d: summary exceeds %d characters", ErrInvalidInput, i, domain.MaxSummaryLength)
		}
	}

	return nil
}

// bookingsWindow включительное окно дат, занятых бронированиями
func bookingsWindow(bookings []*domain.Booking) (types.Date, types.Date) {
	start, end := bookings[0].DtStart, bookings[0].DtEnd
	for _, b := range bookings[1:] {
		start = types.MinDate(start, b.DtStart)
		end = types.MaxDate(end, b.DtEnd)
	}
	return start, end.AddDays(-1)
}
