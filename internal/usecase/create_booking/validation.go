package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.HouseID <= 0 {
		return fmt.Errorf("%w: houseID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.RoomTypeID == nil && req.RoomID == nil && req.RoomUnitID == nil {
		return fmt.Errorf("%w: one of roomTypeID, roomID, roomUnitID is required", ErrInvalidInput)
	}

	if _, err := domain.NewDateRange(req.DtStart, req.DtEnd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Summary != nil && len(*req.Summary) > domain.MaxSummaryLength {
		return fmt.Errorf("%w: summary exceeds %d characters", ErrInvalidInput, domain.MaxSummaryLength)
	}

	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	return nil
}

// resolveTarget проверяет номер, юнит и тип номера по топологии дома
// и заполняет недостающие поля бронирования
func resolveTarget(topology *domain.Topology, booking *domain.Booking) error {
	if booking.RoomUnitID != nil {
		unit, ok := topology.Unit(*booking.RoomUnitID)
		if !ok {
			return ErrUnitNotFound
		}
		if booking.RoomID != nil && *booking.RoomID != unit.RoomID {
			return fmt.Errorf("%w: unit id=%d does not belong to room id=%d",
				domain.ErrInvalidTopology, unit.ID, *booking.RoomID)
		}
		roomID := unit.RoomID
		booking.RoomID = &roomID
	}

	if booking.RoomID != nil {
		room, ok := topology.Room(*booking.RoomID)
		if !ok {
			return ErrRoomNotFound
		}
		if booking.RoomTypeID != nil && (room.RoomTypeID == nil || *room.RoomTypeID != *booking.RoomTypeID) {
			return fmt.Errorf("%w: room id=%d is not of room type id=%d",
				domain.ErrInvalidTopology, room.ID, *booking.RoomTypeID)
		}
		booking.RoomTypeID = room.RoomTypeID
	}

	return nil
}

// initialStatus статус нового бронирования: с выбранным номером оно сразу
// подтверждается, по одному типу номера ждёт распределения
func initialStatus(booking *domain.Booking) domain.BookingStatus {
	if booking.IsAllocated() {
		return domain.StatusConfirmed
	}
	return domain.StatusUnallocated
}
