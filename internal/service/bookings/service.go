package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: перенос, смена статуса и удаление
// вместе с дочерними бронированиями
type Service struct {
	bookingRepo  BookingRepository
	topologyRepo TopologyRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	topologyRepo TopologyRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		topologyRepo: topologyRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID вместе с дочерними бронированиями
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	var booking *domain.Booking
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.get(txCtx, "GetByID", id)
		if err != nil {
			return err
		}
		return s.loadTree(txCtx, "GetByID", booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListHouseBookings получает бронирования дома с фильтрацией по периоду и статусу
func (s *Service) ListHouseBookings(ctx context.Context, req *models.ListHouseBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListHouseBookings: fetching bookings for house=%d", req.HouseID)
	if req.StartDate != nil {
		logMsg += fmt.Sprintf(", from=%s", *req.StartDate)
	}
	if req.EndDate != nil {
		logMsg += fmt.Sprintf(", to=%s", *req.EndDate)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListHouseBookings: invalid filter for house=%d: %v", req.HouseID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		s.logger.Warn("ListHouseBookings: period ends before it starts for house=%d", req.HouseID)
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByHouse(ctx, filter)
	if err != nil {
		s.logger.Error("ListHouseBookings: repository error for house=%d: %v", req.HouseID, err)
		return nil, fmt.Errorf("%w: ListHouseBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListHouseBookings: successfully fetched %d bookings for house=%d", len(bookings), req.HouseID)
	return models.FromDomainBookingList(bookings), nil
}

// Reschedule переносит бронирование и его дочерние бронирования на новые даты.
// Если новые даты заняты, ничего не меняется и возвращается domain.ErrDatesUnavailable.
func (s *Service) Reschedule(ctx context.Context, id int64, req *models.RescheduleRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reschedule: moving booking id=%d to %s..%s", id, req.DtStart, req.DtEnd)

	// 1. Валидация диапазона
	newRange, err := domain.NewDateRange(req.DtStart, req.DtEnd)
	if err != nil {
		s.logger.Warn("Reschedule: invalid range for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var booking *domain.Booking
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Корневое бронирование с деревом дочерних
		root, err := s.getRoot(txCtx, "Reschedule", id)
		if err != nil {
			return err
		}
		booking = root
		if booking.Status != domain.StatusConfirmed && booking.Status != domain.StatusUnallocated {
			s.logger.Warn("Reschedule: booking id=%d cannot be rescheduled, status=%s", id, booking.Status)
			return ErrCannotReschedule
		}
		if err := s.loadTree(txCtx, "Reschedule", booking); err != nil {
			return err
		}

		// 3. Проверка занятости новых дат
		if booking.Status == domain.StatusConfirmed {
			if err := s.checkConflicts(txCtx, "Reschedule", booking, newRange); err != nil {
				return err
			}
		}

		// 4. Перенос всего дерева
		return cascade(booking, booking.Status, func(b *domain.Booking, status domain.BookingStatus) error {
			if err := s.bookingRepo.UpdateDates(txCtx, b.ID, newRange.Start, newRange.End, status); err != nil {
				return s.repoError("Reschedule", b.ID, err)
			}
			b.DtStart, b.DtEnd, b.Status = newRange.Start, newRange.End, status
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reschedule: successfully moved booking id=%d to %s", id, newRange)
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus меняет статус бронирования по таблице переходов
// и распространяет его на дочерние бронирования
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", id, req.Status)

	// 1. Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	var booking *domain.Booking
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Корневое бронирование и проверка перехода
		root, err := s.getRoot(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}
		booking = root
		if !domain.CanTransition(booking.Status, newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
				booking.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, booking.Status, newStatus)
		}
		if err := s.loadTree(txCtx, "UpdateStatus", booking); err != nil {
			return err
		}

		// 3. Подтверждение требует номера и свободных дат
		if newStatus == domain.StatusConfirmed {
			if !booking.IsAllocated() {
				s.logger.Warn("UpdateStatus: booking id=%d has no room", id)
				return ErrNotAllocated
			}
			if err := s.checkConflicts(txCtx, "UpdateStatus", booking, booking.Range()); err != nil {
				return err
			}
		}

		// 4. Статус всего дерева
		return cascade(booking, newStatus, func(b *domain.Booking, status domain.BookingStatus) error {
			if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, status); err != nil {
				return s.repoError("UpdateStatus", b.ID, err)
			}
			b.Status = status
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", id, newStatus)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование вместе с дочерними
func (s *Service) Cancel(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.UpdateStatus(ctx, id, &models.UpdateStatusRequest{Status: string(domain.StatusCancelled)})
}

// Delete удаляет бронирование и все дочерние бронирования
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d", id)

	deleted := 0
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getRoot(txCtx, "Delete", id)
		if err != nil {
			return err
		}
		if err := s.loadTree(txCtx, "Delete", booking); err != nil {
			return err
		}
		return s.deleteTree(txCtx, booking, &deleted)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d with %d bookings in tree", id, deleted)
	return nil
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// getRoot получает бронирование, которое можно менять напрямую
func (s *Service) getRoot(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.get(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if booking.IsChild() {
		s.logger.Warn("%s: booking id=%d is a child of booking id=%d", op, id, *booking.ParentBookingID)
		return nil, ErrChildBooking
	}
	return booking, nil
}

// loadTree рекурсивно загружает дочерние бронирования
func (s *Service) loadTree(ctx context.Context, op string, booking *domain.Booking) error {
	children, err := s.bookingRepo.GetChildren(ctx, booking.ID)
	if err != nil {
		s.logger.Error("%s: failed to get children of booking id=%d: %v", op, booking.ID, err)
		return fmt.Errorf("%w: %s - failed to get children: %v", ErrInternal, op, err)
	}

	booking.Children = children
	for _, child := range children {
		if err := s.loadTree(ctx, op, child); err != nil {
			return err
		}
	}
	return nil
}

// checkConflicts проверяет, что юнит бронирования и вложенные юниты свободны в диапазоне.
// Бронирования из дерева самого бронирования не учитываются.
func (s *Service) checkConflicts(ctx context.Context, op string, booking *domain.Booking, rng domain.DateRange) error {
	if !booking.IsAssigned() {
		return nil
	}

	topology, err := s.topologyRepo.GetHouseTopology(ctx, booking.HouseID)
	if err != nil {
		s.logger.Error("%s: failed to get topology of house id=%d: %v", op, booking.HouseID, err)
		if errors.Is(err, domain.ErrInvalidTopology) {
			return err
		}
		return fmt.Errorf("%w: %s - failed to get topology: %v", ErrInternal, op, err)
	}
	if _, ok := topology.Unit(*booking.RoomUnitID); !ok {
		s.logger.Error("%s: unit id=%d of booking id=%d is missing in house id=%d",
			op, *booking.RoomUnitID, booking.ID, booking.HouseID)
		return fmt.Errorf("%w: unit id=%d", domain.ErrInconsistentSnapshot, *booking.RoomUnitID)
	}

	var own []int64
	booking.Walk(func(b *domain.Booking) { own = append(own, b.ID) })

	conflicts, err := s.bookingRepo.FindConflicting(ctx, domain.BookingConflictFilter{
		UnitIDs:    topology.Closure(*booking.RoomUnitID),
		Range:      rng,
		Statuses:   domain.OccupyingStatuses,
		ExcludeIDs: own,
	})
	if err != nil {
		s.logger.Error("%s: failed to find conflicting bookings: %v", op, err)
		return fmt.Errorf("%w: %s - failed to find conflicting bookings: %v", ErrInternal, op, err)
	}
	if len(conflicts) > 0 {
		s.logger.Warn("%s: dates %s of booking id=%d conflict with booking id=%d",
			op, rng, booking.ID, conflicts[0].ID)
		return fmt.Errorf("%w: conflicts with booking id=%d", domain.ErrDatesUnavailable, conflicts[0].ID)
	}
	return nil
}

// cascade применяет fn к бронированию и, рекурсивно, к дочерним
// со статусом, производным от статуса родителя
func cascade(
	booking *domain.Booking,
	status domain.BookingStatus,
	fn func(b *domain.Booking, status domain.BookingStatus) error,
) error {
	if err := fn(booking, status); err != nil {
		return err
	}
	for _, child := range booking.Children {
		if err := cascade(child, domain.ChildStatus(status), fn); err != nil {
			return err
		}
	}
	return nil
}

// deleteTree удаляет дочерние бронирования раньше родительского
func (s *Service) deleteTree(ctx context.Context, booking *domain.Booking, deleted *int) error {
	for _, child := range booking.Children {
		if err := s.deleteTree(ctx, child, deleted); err != nil {
			return err
		}
	}
	if err := s.bookingRepo.Delete(ctx, booking.ID); err != nil {
		return s.repoError("Delete", booking.ID, err)
	}
	*deleted++
	return nil
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found during update", op, id)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
