package get_availability

import "github.com/m04kA/SMC-AllotmentService/pkg/types"

// Request модель запроса доступности номера
type Request struct {
	RoomID    int64
	StartDate types.Date
	EndDate   types.Date // Включительно
}

// DayAllotment число свободных мест на дату
type DayAllotment struct {
	Date      types.Date
	Allotment int
}

// Response доступность номера по дням окна
type Response struct {
	RoomID     int64
	TotalRooms int
	StartDate  types.Date
	EndDate    types.Date
	Payload    []DayAllotment
}
