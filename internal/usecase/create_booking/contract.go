package create_booking

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindConflicting(ctx context.Context, filter domain.BookingConflictFilter) ([]*domain.Booking, error)
}

// TopologyRepository интерфейс репозитория топологии дома
type TopologyRepository interface {
	GetHouse(ctx context.Context, houseID int64) (*domain.House, error)
	GetHouseTopology(ctx context.Context, houseID int64) (*domain.Topology, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
