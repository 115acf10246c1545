package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// RescheduleRequest запрос на перенос бронирования
type RescheduleRequest struct {
	DtStart types.Date `json:"dtstart"`
	DtEnd   types.Date `json:"dtend"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListHouseBookingsRequest запрос на получение бронирований дома
type ListHouseBookingsRequest struct {
	HouseID   int64       `json:"houseId"`
	StartDate *types.Date `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate   *types.Date `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status    *string     `json:"status,omitempty"`
	RootsOnly bool        `json:"rootsOnly,omitempty"` // Без дочерних бронирований
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListHouseBookingsRequest) ToDomainFilter() (domain.HouseBookingsFilter, error) {
	filter := domain.HouseBookingsFilter{
		HouseID:   r.HouseID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		RootsOnly: r.RootsOnly,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	HouseID         int64   `json:"houseId"`
	RoomTypeID      *int64  `json:"roomTypeId,omitempty"`
	RoomID          *int64  `json:"roomId,omitempty"`
	RoomUnitID      *int64  `json:"roomUnitId,omitempty"`
	UserID          int64   `json:"userId"`
	ParentBookingID *int64  `json:"parentBookingId,omitempty"`
	Status          string  `json:"status"`
	DtStart         string  `json:"dtstart"` // "2019-10-11"
	DtEnd           string  `json:"dtend"`
	Summary         *string `json:"summary,omitempty"`
	Description     *string `json:"description,omitempty"`

	Children []BookingResponse `json:"children,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO вместе с загруженными дочерними
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		HouseID:         b.HouseID,
		RoomTypeID:      b.RoomTypeID,
		RoomID:          b.RoomID,
		RoomUnitID:      b.RoomUnitID,
		UserID:          b.UserID,
		ParentBookingID: b.ParentBookingID,
		Status:          string(b.Status),
		DtStart:         b.DtStart.String(),
		DtEnd:           b.DtEnd.String(),
		Summary:         b.Summary,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	for _, child := range b.Children {
		resp.Children = append(resp.Children, *FromDomainBooking(child))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
