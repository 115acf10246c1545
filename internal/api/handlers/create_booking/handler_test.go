package create_booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllotmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AllotmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AllotmentService/pkg/logger"
	"github.com/m04kA/SMC-AllotmentService/pkg/ptr"
)

type useCaseFunc func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)

func (f useCaseFunc) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	return f(ctx, req)
}

func serve(uc useCaseFunc, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()

	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

const validBody = `{"houseId":1,"roomUnitId":3,"dtstart":"2019-10-11","dtend":"2019-10-12","summary":"Ivanov"}`

func TestHandle_Created(t *testing.T) {
	var got *createBooking.Request
	uc := useCaseFunc(func(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
		got = req
		return &createBooking.Response{
			ID:         10,
			HouseID:    req.HouseID,
			RoomUnitID: req.RoomUnitID,
			UserID:     req.UserID,
			Status:     string(domain.StatusConfirmed),
			DtStart:    req.DtStart,
			DtEnd:      req.DtEnd,
			Children: []*createBooking.Response{
				{ID: 11, ParentBookingID: ptr.Ptr(int64(10)), Status: string(domain.StatusBlocked), DtStart: req.DtStart, DtEnd: req.DtEnd},
			},
		}, nil
	})

	rec := serve(uc, validBody, 7)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, int64(3), *got.RoomUnitID)
	assert.Equal(t, "2019-10-11", got.DtStart.String())
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
	assert.Contains(t, rec.Body.String(), `"parentBookingId":10`)
	assert.Contains(t, rec.Body.String(), `"status":"blocked"`)
}

func TestHandle_RequestErrors(t *testing.T) {
	uc := useCaseFunc(func(context.Context, *createBooking.Request) (*createBooking.Response, error) {
		t.Fatal("use case must not be called")
		return nil, nil
	})

	tests := []struct {
		name   string
		body   string
		userID int64
		status int
	}{
		{name: "missing user", body: validBody, status: http.StatusUnauthorized},
		{name: "broken json", body: `{`, userID: 7, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"houseId":1,"foo":1}`, userID: 7, status: http.StatusBadRequest},
		{name: "missing house", body: `{"roomUnitId":3,"dtstart":"2019-10-11","dtend":"2019-10-12"}`, userID: 7, status: http.StatusBadRequest},
		{name: "bad date", body: `{"houseId":1,"roomUnitId":3,"dtstart":"11.10.2019","dtend":"2019-10-12"}`, userID: 7, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(uc, tt.body, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: createBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{err: createBooking.ErrHouseNotFound, status: http.StatusNotFound},
		{err: createBooking.ErrRoomNotFound, status: http.StatusNotFound},
		{err: createBooking.ErrUnitNotFound, status: http.StatusNotFound},
		{err: fmt.Errorf("%w: unit 3 is not in room 2", domain.ErrInvalidTopology), status: http.StatusUnprocessableEntity},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := useCaseFunc(func(context.Context, *createBooking.Request) (*createBooking.Response, error) {
				return nil, tt.err
			})

			rec := serve(uc, validBody, 7)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
