package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AllotmentService/internal/config"
	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AllotmentService/internal/infra/storage/memory"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
	"github.com/m04kA/SMC-AllotmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllotmentService/pkg/houselock"
	"github.com/m04kA/SMC-AllotmentService/pkg/logger"
	"github.com/m04kA/SMC-AllotmentService/pkg/metrics"
	"github.com/m04kA/SMC-AllotmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// bookingStore общий набор методов PostgreSQL и in-memory репозиториев бронирований
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetChildren(ctx context.Context, parentID int64) ([]*domain.Booking, error)
	GetByHouse(ctx context.Context, filter domain.HouseBookingsFilter) ([]*domain.Booking, error)
	FindByStatus(ctx context.Context, houseID int64, statuses []domain.BookingStatus, assignment domain.BookingAssignment) ([]*domain.Booking, error)
	FindInRange(ctx context.Context, filter domain.BookingRangeFilter) ([]*domain.Booking, error)
	FindConflicting(ctx context.Context, filter domain.BookingConflictFilter) ([]*domain.Booking, error)
	UpdateDates(ctx context.Context, id int64, dtStart, dtEnd types.Date, status domain.BookingStatus) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	AssignRoom(ctx context.Context, id int64, roomID int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// topologyStore общий набор методов репозиториев топологии
type topologyStore interface {
	GetHouse(ctx context.Context, houseID int64) (*domain.House, error)
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
	GetUnit(ctx context.Context, unitID int64) (*domain.RoomUnit, error)
	GetHouseTopology(ctx context.Context, houseID int64) (*domain.Topology, error)
	GetRoomDetails(ctx context.Context, roomID int64) (*domain.RoomDetails, error)
}

// txManager общий набор методов менеджеров транзакций
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	bookings  bookingStore
	topology  topologyStore
	txManager txManager
	close     func() error
}

// openStorage поднимает хранилище по [storage] driver
func openStorage(cfg *config.Config, m *metrics.Metrics, log *logger.Logger, stopCh <-chan struct{}) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.New()
		log.Warn("Using in-memory storage: data is lost on restart")
		return &storage{
			bookings:  store.Bookings(),
			topology:  store.Topology(),
			txManager: store.TxManager(),
			close:     func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrapped := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &storage{
		bookings:  bookingRepo.NewRepository(wrapped),
		topology:  topologyRepo.NewRepository(wrapped),
		txManager: txmanager.New(wrapped),
		close:     db.Close,
	}, nil
}

// openLocker блокировка домов: Redis для нескольких инстансов, иначе в памяти процесса
func openLocker(cfg *config.Config, log *logger.Logger) (houselock.Locker, func() error, error) {
	if !cfg.Redis.Enabled {
		log.Info("House lock: in-process")
		return houselock.NewLocal(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("House lock: redis at %s (ttl=%ds)", cfg.Redis.Addr, cfg.Redis.LockTTL)

	locker := houselock.NewRedis(client, cfg.Redis.KeyPrefix, cfg.Redis.LockTTLDuration(), cfg.Redis.RetryIntervalDuration(), log)
	return locker, client.Close, nil
}
