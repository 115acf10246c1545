package update_booking_status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AllotmentService/pkg/logger"
)

type serviceFunc func(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error)

func (f serviceFunc) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	return f(ctx, id, req)
}

func serve(svc serviceFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/4/status", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": "4"})
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := serviceFunc(func(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
		return &models.BookingResponse{ID: id, Status: req.Status}, nil
	})

	rec := serve(svc, `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandle_Errors(t *testing.T) {
	const body = `{"status":"confirmed"}`

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "unknown status", body: `{"status":"archived"}`, status: http.StatusBadRequest},
		{name: "empty status", body: `{}`, status: http.StatusBadRequest},
		{name: "not found", body: body, err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "child", body: body, err: bookings.ErrChildBooking, status: http.StatusConflict},
		{name: "transition", body: body, err: fmt.Errorf("%w: cancelled -> confirmed", domain.ErrInvalidTransition), status: http.StatusConflict},
		{name: "not allocated", body: body, err: bookings.ErrNotAllocated, status: http.StatusConflict},
		{name: "dates unavailable", body: body, err: domain.ErrDatesUnavailable, status: http.StatusConflict},
		{name: "internal", body: body, err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := serviceFunc(func(context.Context, int64, *models.UpdateStatusRequest) (*models.BookingResponse, error) {
				return nil, tt.err
			})

			rec := serve(svc, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
