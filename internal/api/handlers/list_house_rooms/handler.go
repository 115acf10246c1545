package list_house_rooms

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllotmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AllotmentService/internal/service/rooms"
)

const (
	msgInvalidHouseID = "некорректный ID дома"
	msgNotFound       = "дом не найден"
)

type Handler struct {
	service RoomService
	logger  Logger
}

func NewHandler(service RoomService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/houses/{houseId}/rooms
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	houseID, err := handlers.PathID(r, "houseId")
	if err != nil {
		h.logger.Warn("GET /houses/{id}/rooms - Invalid house ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHouseID)
		return
	}

	result, err := h.service.ListHouseRooms(r.Context(), houseID)
	if err != nil {
		switch {
		case errors.Is(err, rooms.ErrHouseNotFound):
			h.logger.Warn("GET /houses/{id}/rooms - House not found: house_id=%d", houseID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /houses/{id}/rooms - Failed to list rooms: house_id=%d, error=%v", houseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /houses/{id}/rooms - Rooms retrieved successfully: house_id=%d, count=%d",
		houseID, len(result.Rooms))
	handlers.RespondJSON(w, http.StatusOK, result)
}
