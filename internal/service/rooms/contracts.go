package rooms

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
)

// TopologyRepository интерфейс репозитория топологии дома
type TopologyRepository interface {
	GetHouse(ctx context.Context, houseID int64) (*domain.House, error)
	GetHouseTopology(ctx context.Context, houseID int64) (*domain.Topology, error)
	GetRoomDetails(ctx context.Context, roomID int64) (*domain.RoomDetails, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
