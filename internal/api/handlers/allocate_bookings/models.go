package allocate_bookings

import (
	allocateBookings "github.com/m04kA/SMC-AllotmentService/internal/usecase/allocate_bookings"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// AllocateRequest HTTP request model
type AllocateRequest struct {
	Commit     bool               `json:"commit"`
	Candidates []CandidateRequest `json:"candidates" validate:"dive"`
}

// CandidateRequest новое бронирование по типу номера
type CandidateRequest struct {
	RoomTypeID int64   `json:"roomTypeId" validate:"required,gt=0"`
	DtStart    string  `json:"dtstart" validate:"required"`
	DtEnd      string  `json:"dtend" validate:"required"`
	Summary    *string `json:"summary,omitempty" validate:"omitempty,max=255"`
}

// AllocationResponse назначение номера
type AllocationResponse struct {
	RoomID         int64   `json:"roomId"`
	BookingID      *int64  `json:"bookingId,omitempty"`
	CandidateIndex *int    `json:"candidateIndex,omitempty"`
	RoomTypeID     int64   `json:"roomTypeId"`
	DtStart        string  `json:"dtstart"`
	DtEnd          string  `json:"dtend"`
	UnitIDs        []int64 `json:"unitIds"`
}

// AllocateResponse HTTP response model
type AllocateResponse struct {
	HouseID     int64                `json:"houseId"`
	Committed   bool                 `json:"committed"`
	Allocations []AllocationResponse `json:"allocations"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AllocateRequest) ToUseCaseRequest(houseID, userID int64) (*allocateBookings.Request, error) {
	candidates := make([]allocateBookings.Candidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		dtStart, err := types.ParseDate(c.DtStart)
		if err != nil {
			return nil, err
		}

		dtEnd, err := types.ParseDate(c.DtEnd)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, allocateBookings.Candidate{
			UserID:     userID,
			RoomTypeID: c.RoomTypeID,
			DtStart:    dtStart,
			DtEnd:      dtEnd,
			Summary:    c.Summary,
		})
	}

	return &allocateBookings.Request{
		HouseID:    houseID,
		Candidates: candidates,
		Commit:     r.Commit,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *allocateBookings.Response) *AllocateResponse {
	allocations := make([]AllocationResponse, len(resp.Allocations))
	for i, a := range resp.Allocations {
		allocations[i] = AllocationResponse{
			RoomID:         a.RoomID,
			BookingID:      a.BookingID,
			CandidateIndex: a.CandidateIndex,
			RoomTypeID:     a.RoomTypeID,
			DtStart:        a.DtStart.String(),
			DtEnd:          a.DtEnd.String(),
			UnitIDs:        a.UnitIDs,
		}
	}

	return &AllocateResponse{
		HouseID:     resp.HouseID,
		Committed:   resp.Committed,
		Allocations: allocations,
	}
}
