package get_availability

import (
	getAvailability "github.com/m04kA/SMC-AllotmentService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TotalRooms int            `json:"total_rooms"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Payload    []DayAllotment `json:"payload"`
}

// DayAllotment свободные места на дату
type DayAllotment struct {
	Date      string `json:"date"`
	Allotment int    `json:"allotment"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(roomID int64, startStr, endStr string) (*getAvailability.Request, error) {
	start, err := types.ParseDate(startStr)
	if err != nil {
		return nil, err
	}

	end, err := types.ParseDate(endStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		RoomID:    roomID,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	payload := make([]DayAllotment, len(resp.Payload))
	for i, p := range resp.Payload {
		payload[i] = DayAllotment{
			Date:      p.Date.String(),
			Allotment: p.Allotment,
		}
	}

	return &AvailabilityResponse{
		TotalRooms: resp.TotalRooms,
		StartDate:  resp.StartDate.String(),
		EndDate:    resp.EndDate.String(),
		Payload:    payload,
	}
}
