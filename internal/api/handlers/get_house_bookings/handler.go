package get_house_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllotmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings"
)

const (
	msgInvalidHouseID = "некорректный ID дома"
	msgInvalidParams  = "некорректные параметры запроса"
	msgInvalidStatus  = "некорректный статус бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/houses/{houseId}/bookings
// Query params: startDate, endDate, status, rootsOnly (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	houseID, err := handlers.PathID(r, "houseId")
	if err != nil {
		h.logger.Warn("GET /houses/{id}/bookings - Invalid house ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHouseID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		houseID,
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("status"),
		query.Get("rootsOnly"),
	)
	if err != nil {
		h.logger.Warn("GET /houses/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListHouseBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("GET /houses/{id}/bookings - Invalid status: house_id=%d", houseID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /houses/{id}/bookings - Invalid period: house_id=%d, %v", houseID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /houses/{id}/bookings - Failed to get bookings: house_id=%d, error=%v",
				houseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /houses/{id}/bookings - Bookings retrieved successfully: house_id=%d, count=%d",
		houseID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
