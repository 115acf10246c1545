package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
	"github.com/m04kA/SMC-AllotmentService/internal/service/availability"
)

// UseCase use case для расчёта доступности номера по дням
type UseCase struct {
	bookingRepo  BookingRepository
	topologyRepo TopologyRepository
	txManager    TransactionManager
	maxDays      int
	timeout      time.Duration
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// maxDays и timeout равные нулю отключают соответствующие ограничения.
func NewUseCase(
	bookingRepo BookingRepository,
	topologyRepo TopologyRepository,
	txManager TransactionManager,
	maxDays int,
	timeout time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		topologyRepo: topologyRepo,
		txManager:    txManager,
		maxDays:      maxDays,
		timeout:      timeout,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности номера
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: room=%d, window=%s..%s", req.RoomID, req.StartDate, req.EndDate)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Дедлайн запроса
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	started := time.Now()

	// 3. Расчёт на согласованном снимке, несогласованный снимок повторяется один раз
	var (
		result *availability.Result
		err    error
	)
	for attempt := 1; ; attempt++ {
		err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
			var err error
			result, err = uc.calculate(txCtx, req)
			return err
		})
		if err == nil || !errors.Is(err, domain.ErrInconsistentSnapshot) || attempt == 2 {
			break
		}
		uc.logger.Warn("GetAvailability: inconsistent snapshot for room id=%d, retrying: %v", req.RoomID, err)
	}

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Warn("GetAvailability: room id=%d: deadline exceeded", req.RoomID)
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, err
	}

	uc.metrics.ObserveAvailability(len(result.Payload), time.Since(started))

	payload := make([]DayAllotment, 0, len(result.Payload))
	for _, p := range result.Payload {
		payload = append(payload, DayAllotment{Date: p.Date, Allotment: p.Allotment})
	}

	uc.logger.Info("GetAvailability: computed %d days for room id=%d, total_rooms=%d",
		len(payload), req.RoomID, result.TotalRooms)

	return &Response{
		RoomID:     req.RoomID,
		TotalRooms: result.TotalRooms,
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
		Payload:    payload,
	}, nil
}

func (uc *UseCase) calculate(ctx context.Context, req *Request) (*availability.Result, error) {
	// 3.1. Номер и топология его дома
	room, err := uc.topologyRepo.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, topologyRepo.ErrRoomNotFound) {
			uc.logger.Warn("GetAvailability: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("GetAvailability: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	topology, err := uc.topologyRepo.GetHouseTopology(ctx, room.HouseID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get topology of house id=%d: %v", room.HouseID, err)
		if errors.Is(err, domain.ErrInvalidTopology) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to get topology: %v", ErrInternal, err)
	}

	// 3.2. Подтверждённые бронирования номера, его под-номеров и над-номеров
	roomIDs := []int64{room.ID}
	roomIDs = append(roomIDs, topology.SubRoomIDs(room.ID)...)
	roomIDs = append(roomIDs, topology.SuperRoomIDs(room.ID)...)

	bookings, err := uc.bookingRepo.FindInRange(ctx, domain.BookingRangeFilter{
		RoomIDs:  roomIDs,
		Start:    req.StartDate,
		End:      req.EndDate,
		Statuses: []domain.BookingStatus{domain.StatusConfirmed},
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings for room id=%d: %v", room.ID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 3.3. Расчёт
	result, err := availability.Calculate(topology, room.ID, req.StartDate, req.EndDate, bookings)
	if err != nil {
		if errors.Is(err, domain.ErrInconsistentSnapshot) {
			return nil, err
		}
		uc.logger.Error("GetAvailability: calculation failed for room id=%d: %v", room.ID, err)
		return nil, fmt.Errorf("%w: calculation failed: %v", ErrInternal, err)
	}

	return result, nil
}
