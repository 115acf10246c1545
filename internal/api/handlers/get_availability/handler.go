package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllotmentService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-AllotmentService/internal/usecase/get_availability"
)

const (
	msgInvalidRoomID  = "некорректный ID номера"
	msgInvalidDates   = "некорректный формат дат, ожидается start_date и end_date в формате YYYY-MM-DD"
	msgInvalidWindow  = "некорректный период: end_date раньше start_date"
	msgWindowTooLarge = "запрошенный период слишком большой"
	msgRoomNotFound   = "номер не найден"
	msgTimeout        = "расчёт доступности не уложился в отведённое время"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/availability?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := handlers.PathID(r, "roomId")
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(roomID, query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /rooms/{id}/availability - Invalid window: room_id=%d, %v", roomID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, getAvailability.ErrWindowTooLarge):
			h.logger.Warn("GET /rooms/{id}/availability - Window too large: room_id=%d", roomID)
			handlers.RespondBadRequest(w, msgWindowTooLarge)

		case errors.Is(err, getAvailability.ErrRoomNotFound):
			h.logger.Warn("GET /rooms/{id}/availability - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, getAvailability.ErrTimeout):
			h.logger.Warn("GET /rooms/{id}/availability - Timeout: room_id=%d", roomID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgTimeout)

		default:
			h.logger.Error("GET /rooms/{id}/availability - Failed to calculate availability: room_id=%d, error=%v",
				roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /rooms/{id}/availability - Availability calculated: room_id=%d, days=%d",
		roomID, len(result.Payload))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
