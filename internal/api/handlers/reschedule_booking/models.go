package reschedule_booking

import (
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	DtStart string `json:"dtstart" validate:"required"` // "2019-10-11"
	DtEnd   string `json:"dtend" validate:"required"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *RescheduleBookingRequest) ToServiceRequest() (*models.RescheduleRequest, error) {
	dtStart, err := types.ParseDate(r.DtStart)
	if err != nil {
		return nil, err
	}

	dtEnd, err := types.ParseDate(r.DtEnd)
	if err != nil {
		return nil, err
	}

	return &models.RescheduleRequest{DtStart: dtStart, DtEnd: dtEnd}, nil
}
