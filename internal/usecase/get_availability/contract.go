package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// FindInRange получает бронирования, задевающие включительное окно дат
	FindInRange(ctx context.Context, filter domain.BookingRangeFilter) ([]*domain.Booking, error)
}

// TopologyRepository интерфейс репозитория топологии дома
type TopologyRepository interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	GetHouseTopology(ctx context.Context, houseID int64) (*domain.Topology, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics метрики расчёта доступности
type Metrics interface {
	ObserveAvailability(days int, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
