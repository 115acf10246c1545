package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllotmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AllotmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AllotmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidBooking     = "некорректные параметры бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgHouseNotFound      = "дом не найден"
	msgRoomNotFound       = "номер не найден"
	msgUnitNotFound       = "место в номере не найдено"
	msgTopologyMismatch   = "номер или место не соответствуют дому или типу номера"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBooking)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, house_id=%d, %v", userID, req.HouseID, err)
			handlers.RespondBadRequest(w, msgInvalidBooking)

		case errors.Is(err, createBooking.ErrHouseNotFound):
			h.logger.Warn("POST /bookings - House not found: house_id=%d", req.HouseID)
			handlers.RespondNotFound(w, msgHouseNotFound)

		case errors.Is(err, createBooking.ErrRoomNotFound):
			h.logger.Warn("POST /bookings - Room not found: house_id=%d", req.HouseID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, createBooking.ErrUnitNotFound):
			h.logger.Warn("POST /bookings - Room unit not found: house_id=%d", req.HouseID)
			handlers.RespondNotFound(w, msgUnitNotFound)

		case errors.Is(err, domain.ErrInvalidTopology):
			h.logger.Warn("POST /bookings - Target does not match topology: house_id=%d, %v", req.HouseID, err)
			handlers.RespondUnprocessable(w, msgTopologyMismatch)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, house_id=%d, error=%v",
				userID, req.HouseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, status=%s, bookings_in_tree=%d",
		result.ID, result.Status, result.Count())
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
