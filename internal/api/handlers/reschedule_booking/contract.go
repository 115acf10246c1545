package reschedule_booking

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
)

type BookingService interface {
	Reschedule(ctx context.Context, id int64, req *models.RescheduleRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
