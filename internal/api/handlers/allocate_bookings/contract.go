package allocate_bookings

import (
	"context"

	allocateBookings "github.com/m04kA/SMC-AllotmentService/internal/usecase/allocate_bookings"
)

type AllocateBookingsUseCase interface {
	Execute(ctx context.Context, req *allocateBookings.Request) (*allocateBookings.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
