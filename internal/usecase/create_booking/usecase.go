package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	topologyRepo TopologyRepository
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	topologyRepo TopologyRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		topologyRepo: topologyRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Бронирование юнита с вложенными юнитами создаёт дочерние бронирования
// на каждый вложенный юнит в той же транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: house=%d, user=%d, dates=%s..%s",
		req.HouseID, req.UserID, req.DtStart, req.DtEnd)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 2. Проверка пересечений и запись дерева бронирований в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Дом и его топология
		if _, err := uc.topologyRepo.GetHouse(txCtx, req.HouseID); err != nil {
			if errors.Is(err, topologyRepo.ErrHouseNotFound) {
				uc.logger.Warn("CreateBooking: house id=%d not found", req.HouseID)
				return ErrHouseNotFound
			}
			uc.logger.Error("CreateBooking: failed to get house id=%d: %v", req.HouseID, err)
			return fmt.Errorf("%w: failed to get house: %v", ErrInternal, err)
		}

		topology, err := uc.topologyRepo.GetHouseTopology(txCtx, req.HouseID)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTopology) {
				uc.logger.Error("CreateBooking: invalid topology of house id=%d: %v", req.HouseID, err)
				return err
			}
			uc.logger.Error("CreateBooking: failed to get topology of house id=%d: %v", req.HouseID, err)
			return fmt.Errorf("%w: failed to get topology: %v", ErrInternal, err)
		}

		// 2.2. Номер и юнит
		booking := &domain.Booking{
			HouseID:     req.HouseID,
			RoomTypeID:  req.RoomTypeID,
			RoomID:      req.RoomID,
			RoomUnitID:  req.RoomUnitID,
			UserID:      req.UserID,
			DtStart:     req.DtStart,
			DtEnd:       req.DtEnd,
			Summary:     req.Summary,
			Description: req.Description,
		}
		if err := resolveTarget(topology, booking); err != nil {
			uc.logger.Warn("CreateBooking: failed to resolve target: %v", err)
			return err
		}
		booking.Status = initialStatus(booking)

		// 2.3. Пересечения с занятыми датами юнита и вложенных юнитов
		if booking.Status == domain.StatusConfirmed && booking.IsAssigned() {
			conflicts, err := uc.bookingRepo.FindConflicting(txCtx, domain.BookingConflictFilter{
				UnitIDs:  topology.Closure(*booking.RoomUnitID),
				Range:    booking.Range(),
				Statuses: domain.OccupyingStatuses,
			})
			if err != nil {
				uc.logger.Error("CreateBooking: failed to find conflicting bookings: %v", err)
				return fmt.Errorf("%w: failed to find conflicting bookings: %v", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				uc.logger.Warn("CreateBooking: unit id=%d is occupied by %d bookings, marking as overlap",
					*booking.RoomUnitID, len(conflicts))
				booking.Status = domain.StatusOverlap
			}
		}

		// 2.4. Корневое бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 2.5. Дочерние бронирования на вложенные юниты
		if created.IsAssigned() {
			if err := uc.createChildren(txCtx, topology, created); err != nil {
				return err
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	resp := fromDomain(result)
	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s, bookings in tree=%d",
		resp.ID, resp.Status, resp.Count())

	return resp, nil
}

// createChildren создает по бронированию на каждый дочерний юнит, рекурсивно
func (uc *UseCase) createChildren(ctx context.Context, topology *domain.Topology, parent *domain.Booking) error {
	for _, unitID := range topology.ChildrenOf(*parent.RoomUnitID) {
		unit, _ := topology.Unit(unitID)
		room, _ := topology.Room(unit.RoomID)

		roomID, childUnitID, parentID := unit.RoomID, unit.ID, parent.ID
		child := &domain.Booking{
			HouseID:         parent.HouseID,
			RoomTypeID:      room.RoomTypeID,
			RoomID:          &roomID,
			RoomUnitID:      &childUnitID,
			UserID:          parent.UserID,
			ParentBookingID: &parentID,
			Status:          domain.ChildStatus(parent.Status),
			DtStart:         parent.DtStart,
			DtEnd:           parent.DtEnd,
			Summary:         parent.Summary,
		}

		created, err := uc.bookingRepo.Create(ctx, child)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create child booking for unit id=%d: %v", unitID, err)
			return fmt.Errorf("%w: failed to create child booking: %v", ErrInternal, err)
		}

		if err := uc.createChildren(ctx, topology, created); err != nil {
			return err
		}
		parent.Children = append(parent.Children, created)
	}

	return nil
}
