package allocate_bookings

import (
	"context"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindByStatus(ctx context.Context, houseID int64, statuses []domain.BookingStatus, assignment domain.BookingAssignment) ([]*domain.Booking, error)
	FindInRange(ctx context.Context, filter domain.BookingRangeFilter) ([]*domain.Booking, error)
	AssignRoom(ctx context.Context, id int64, roomID int64, status domain.BookingStatus) error
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

// HouseLocker блокировка, пропускающая один прогон размещения на дом
type HouseLocker interface {
	Lock(ctx context.Context, houseID int64) (func(), error)
}

// Metrics метрики прогонов аллокатора
type Metrics interface {
	RecordAllocation(result string, allocated int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
