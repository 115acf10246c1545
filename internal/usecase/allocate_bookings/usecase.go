package allocate_bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
	"github.com/m04kA/SMC-AllotmentService/internal/service/allocator"
	"github.com/m04kA/SMC-AllotmentService/pkg/houselock"
	"github.com/m04kA/SMC-AllotmentService/pkg/ptr"
)

const (
	resultSuccess          = "success"
	resultCapacityExceeded = "capacity_exceeded"
	resultError            = "error"
)

// UseCase use case для размещения бронирований по номерам
type UseCase struct {
	bookingRepo  BookingRepository
	topologyRepo TopologyRepository
	txManager    TransactionManager
	locker       HouseLocker
	lockTimeout  time.Duration
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	topologyRepo TopologyRepository,
	txManager TransactionManager,
	locker HouseLocker,
	lockTimeout time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		topologyRepo: topologyRepo,
		txManager:    txManager,
		locker:       locker,
		lockTimeout:  lockTimeout,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute размещает сохранённые бронирования без номера и кандидатов из запроса.
// Для одного дома одновременно выполняется не больше одного размещения.
// Если места хватает не всем, ничего не сохраняется и возвращается domain.ErrCapacityExceeded.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AllocateBookings: house=%d, candidates=%d, commit=%t",
		req.HouseID, len(req.Candidates), req.Commit)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AllocateBookings: validation failed: %v", err)
		return nil, err
	}

	// 2. Блокировка дома
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockTimeout)
	defer cancel()

	unlock, err := uc.locker.Lock(lockCtx, req.HouseID)
	if err != nil {
		if errors.Is(err, houselock.ErrNotAcquired) {
			uc.logger.Warn("AllocateBookings: house id=%d is busy", req.HouseID)
			return nil, ErrHouseBusy
		}
		uc.logger.Error("AllocateBookings: failed to lock house id=%d: %v", req.HouseID, err)
		return nil, fmt.Errorf("%w: failed to lock house: %v", ErrInternal, err)
	}
	defer unlock()

	// 3. Размещение в сериализуемой транзакции, несогласованный снимок повторяется один раз
	var resp *Response
	for attempt := 1; ; attempt++ {
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			var err error
			resp, err = uc.allocate(txCtx, req)
			return err
		})
		if err == nil || !errors.Is(err, domain.ErrInconsistentSnapshot) || attempt == 2 {
			break
		}
		uc.logger.Warn("AllocateBookings: inconsistent snapshot for house id=%d, retrying: %v", req.HouseID, err)
	}

	switch {
	case err == nil:
		uc.metrics.RecordAllocation(resultSuccess, len(resp.Allocations))
	case errors.Is(err, domain.ErrCapacityExceeded):
		uc.metrics.RecordAllocation(resultCapacityExceeded, 0)
		return nil, err
	default:
		uc.metrics.RecordAllocation(resultError, 0)
		return nil, err
	}

	uc.logger.Info("AllocateBookings: successfully allocated %d bookings in house id=%d, committed=%t",
		len(resp.Allocations), req.HouseID, resp.Committed)
	return resp, nil
}

func (uc *UseCase) allocate(ctx context.Context, req *Request) (*Response, error) {
	// 3.1. Дом и его топология
	if _, err := uc.topologyRepo.GetHouse(ctx, req.HouseID); err != nil {
		if errors.Is(err, topologyRepo.ErrHouseNotFound) {
			uc.logger.Warn("AllocateBookings: house id=%d not found", req.HouseID)
			return nil, ErrHouseNotFound
		}
		uc.logger.Error("AllocateBookings: failed to get house id=%d: %v", req.HouseID, err)
		return nil, fmt.Errorf("%w: failed to get house: %v", ErrInternal, err)
	}

	topology, err := uc.topologyRepo.GetHouseTopology(ctx, req.HouseID)
	if err != nil {
		uc.logger.Error("AllocateBookings: failed to get topology of house id=%d: %v", req.HouseID, err)
		if errors.Is(err, domain.ErrInvalidTopology) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to get topology: %v", ErrInternal, err)
	}

	// 3.2. Сохранённые бронирования без номера и кандидаты из запроса
	stored, err := uc.bookingRepo.FindByStatus(ctx, req.HouseID,
		[]domain.BookingStatus{domain.StatusUnallocated}, domain.AssignmentUnassigned)
	if err != nil {
		uc.logger.Error("AllocateBookings: failed to get unallocated bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get unallocated bookings: %v", ErrInternal, err)
	}

	var pending []*domain.Booking
	for _, b := range stored {
		if b.RoomTypeID != nil && !b.IsAllocated() {
			pending = append(pending, b)
		}
	}

	candidateIndex := make(map[*domain.Booking]int, len(req.Candidates))
	for i, c := range req.Candidates {
		b := &domain.Booking{
			HouseID:    req.HouseID,
			RoomTypeID: ptr.Ptr(c.RoomTypeID),
			UserID:     c.UserID,
			Status:     domain.StatusUnallocated,
			DtStart:    c.DtStart,
			DtEnd:      c.DtEnd,
			Summary:    c.Summary,
		}
		candidateIndex[b] = i
		pending = append(pending, b)
	}

	resp := &Response{HouseID: req.HouseID, Committed: req.Commit, Allocations: []Allocation{}}
	if len(pending) == 0 {
		uc.logger.Info("AllocateBookings: nothing to allocate in house id=%d", req.HouseID)
		return resp, nil
	}

	// 3.3. Занятость номеров на окне размещения
	start, end := bookingsWindow(pending)
	fixed, err := uc.bookingRepo.FindInRange(ctx, domain.BookingRangeFilter{
		HouseID:  ptr.Ptr(req.HouseID),
		Start:    start,
		End:      end,
		Statuses: domain.OccupyingStatuses,
	})
	if err != nil {
		uc.logger.Error("AllocateBookings: failed to get occupying bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get occupying bookings: %v", ErrInternal, err)
	}

	// 3.4. Жадное размещение
	result, err := allocator.Allocate(topology, fixed, pending)
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			uc.logger.Warn("AllocateBookings: not enough rooms in house id=%d: %v", req.HouseID, err)
			return nil, err
		}
		uc.logger.Error("AllocateBookings: allocator failed for house id=%d: %v", req.HouseID, err)
		if errors.Is(err, domain.ErrInvalidTopology) || errors.Is(err, domain.ErrInconsistentSnapshot) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: allocator failed: %v", ErrInternal, err)
	}

	// 3.5. Сохранение назначений
	for _, a := range result.Allocations {
		if req.Commit {
			if err := uc.commit(ctx, a); err != nil {
				return nil, err
			}
		}

		allocation := Allocation{
			RoomID:     a.RoomID,
			RoomTypeID: *a.Booking.RoomTypeID,
			DtStart:    a.Booking.DtStart,
			DtEnd:      a.Booking.DtEnd,
			UnitIDs:    a.UnitIDs,
		}
		if a.Booking.ID != 0 {
			allocation.BookingID = ptr.Ptr(a.Booking.ID)
		}
		if i, ok := candidateIndex[a.Booking]; ok {
			allocation.CandidateIndex = ptr.Ptr(i)
		}
		resp.Allocations = append(resp.Allocations, allocation)
	}

	return resp, nil
}

// commit закрепляет номер за сохранённым бронированием или создаёт бронирование кандидата
func (uc *UseCase) commit(ctx context.Context, a allocator.Allocation) error {
	b := a.Booking

	if b.ID != 0 {
		if err := uc.bookingRepo.AssignRoom(ctx, b.ID, a.RoomID, domain.StatusConfirmed); err != nil {
			uc.logger.Error("AllocateBookings: failed to assign room id=%d to booking id=%d: %v", a.RoomID, b.ID, err)
			return fmt.Errorf("%w: failed to assign room: %v", ErrInternal, err)
		}
		b.RoomID = ptr.Ptr(a.RoomID)
		b.Status = domain.StatusConfirmed
		return nil
	}

	b.RoomID = ptr.Ptr(a.RoomID)
	b.Status = domain.StatusConfirmed
	if _, err := uc.bookingRepo.Create(ctx, b); err != nil {
		uc.logger.Error("AllocateBookings: failed to create booking in room id=%d: %v", a.RoomID, err)
		return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}
	return nil
}
