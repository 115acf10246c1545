package list_house_rooms

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/service/rooms/models"
)

type RoomService interface {
	ListHouseRooms(ctx context.Context, houseID int64) (*models.RoomListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
