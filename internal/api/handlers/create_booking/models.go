package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-AllotmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// CreateBookingRequest HTTP request model.
// Нужен хотя бы один из roomTypeId, roomId, roomUnitId.
type CreateBookingRequest struct {
	HouseID     int64   `json:"houseId" validate:"required,gt=0"`
	RoomTypeID  *int64  `json:"roomTypeId,omitempty" validate:"omitempty,gt=0"`
	RoomID      *int64  `json:"roomId,omitempty" validate:"omitempty,gt=0"`
	RoomUnitID  *int64  `json:"roomUnitId,omitempty" validate:"omitempty,gt=0"`
	DtStart     string  `json:"dtstart" validate:"required"` // "2019-10-11"
	DtEnd       string  `json:"dtend" validate:"required"`   // Дата выезда
	Summary     *string `json:"summary,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64             `json:"id"`
	HouseID         int64             `json:"houseId"`
	RoomTypeID      *int64            `json:"roomTypeId,omitempty"`
	RoomID          *int64            `json:"roomId,omitempty"`
	RoomUnitID      *int64            `json:"roomUnitId,omitempty"`
	UserID          int64             `json:"userId"`
	ParentBookingID *int64            `json:"parentBookingId,omitempty"`
	Status          string            `json:"status"`
	DtStart         string            `json:"dtstart"`
	DtEnd           string            `json:"dtend"`
	Summary         *string           `json:"summary,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Children        []BookingResponse `json:"children,omitempty"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	dtStart, err := types.ParseDate(r.DtStart)
	if err != nil {
		return nil, err
	}

	dtEnd, err := types.ParseDate(r.DtEnd)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		HouseID:     r.HouseID,
		UserID:      userID,
		RoomTypeID:  r.RoomTypeID,
		RoomID:      r.RoomID,
		RoomUnitID:  r.RoomUnitID,
		DtStart:     dtStart,
		DtEnd:       dtEnd,
		Summary:     r.Summary,
		Description: r.Description,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:              resp.ID,
		HouseID:         resp.HouseID,
		RoomTypeID:      resp.RoomTypeID,
		RoomID:          resp.RoomID,
		RoomUnitID:      resp.RoomUnitID,
		UserID:          resp.UserID,
		ParentBookingID: resp.ParentBookingID,
		Status:          resp.Status,
		DtStart:         resp.DtStart.String(),
		DtEnd:           resp.DtEnd.String(),
		Summary:         resp.Summary,
		Description:     resp.Description,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
	for _, child := range resp.Children {
		out.Children = append(out.Children, *FromUseCaseResponse(child))
	}
	return out
}
