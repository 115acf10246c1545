package availability

import "errors"

var (
	// ErrRoomNotFound возвращается, когда номера нет в топологии дома
	ErrRoomNotFound = errors.New("availability: room not found in topology")

	// ErrInvalidWindow возвращается, когда конец окна раньше начала
	ErrInvalidWindow = errors.New("availability: end date is before start date")
)
