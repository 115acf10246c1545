package get_house_bookings

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
)

type BookingService interface {
	ListHouseBookings(ctx context.Context, req *models.ListHouseBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
