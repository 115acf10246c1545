package get_availability

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDays int) error {
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end_date %s is before start_date %s", ErrInvalidInput, req.EndDate, req.StartDate)
	}

	// maxDays = 0 - без ограничений
	if maxDays > 0 && req.StartDate.DaysUntil(req.EndDate)+1 > maxDays {
		return fmt.Errorf("%w: at most %d days per request", ErrWindowTooLarge, maxDays)
	}

	return nil
}
