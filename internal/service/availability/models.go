package availability

import "github.com/m04kA/SMC-AllotmentService/pkg/types"

// DayAllotment доступность номера на дату
type DayAllotment struct {
	Date      types.Date
	Allotment int
}

// Result доступность номера на включительном окне дат
type Result struct {
	TotalRooms int
	StartDate  types.Date
	EndDate    types.Date
	Payload    []DayAllotment
}
