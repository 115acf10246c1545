package bookings

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetChildren(ctx context.Context, parentID int64) ([]*domain.Booking, error)
	GetByHouse(ctx context.Context, filter domain.HouseBookingsFilter) ([]*domain.Booking, error)
	FindConflicting(ctx context.Context, filter domain.BookingConflictFilter) ([]*domain.Booking, error)
	UpdateDates(ctx context.Context, id int64, dtStart, dtEnd types.Date, status domain.BookingStatus) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// TopologyRepository интерфейс репозитория топологии дома
type TopologyRepository interface {
	GetHouseTopology(ctx context.Context, houseID int64) (*domain.Topology, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
