package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// Request модель запроса на создание бронирования.
// Указывается тип номера (ожидает распределения), номер или конкретный юнит.
type Request struct {
	HouseID     int64
	UserID      int64
	RoomTypeID  *int64
	RoomID      *int64
	RoomUnitID  *int64
	DtStart     types.Date
	DtEnd       types.Date // Дата выезда, не занимается
	Summary     *string
	Description *string
}

// Response созданное бронирование вместе с распространёнными дочерними
type Response struct {
	ID              int64
	HouseID         int64
	RoomTypeID      *int64
	RoomID          *int64
	RoomUnitID      *int64
	UserID          int64
	ParentBookingID *int64
	Status          string
	DtStart         types.Date
	DtEnd           types.Date
	Summary         *string
	Description     *string
	Children        []*Response
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Count количество бронирований в дереве, включая корневое
func (r *Response) Count() int {
	n := 1
	for _, child := range r.Children {
		n += child.Count()
	}
	return n
}

func fromDomain(b *domain.Booking) *Response {
	resp := &Response{
		ID:              b.ID,
		HouseID:         b.HouseID,
		RoomTypeID:      b.RoomTypeID,
		RoomID:          b.RoomID,
		RoomUnitID:      b.RoomUnitID,
		UserID:          b.UserID,
		ParentBookingID: b.ParentBookingID,
		Status:          string(b.Status),
		DtStart:         b.DtStart,
		DtEnd:           b.DtEnd,
		Summary:         b.Summary,
		Description:     b.Description,
		Children:        make([]*Response, 0, len(b.Children)),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	for _, child := range b.Children {
		resp.Children = append(resp.Children, fromDomain(child))
	}
	return resp
}
