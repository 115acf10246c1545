package allocate_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllotmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AllotmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	allocateBookings "github.com/m04kA/SMC-AllotmentService/internal/usecase/allocate_bookings"
)

const (
	msgInvalidHouseID     = "некорректный ID дома"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCandidates  = "некорректные параметры бронирований"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgHouseNotFound      = "дом не найден"
	msgHouseBusy          = "размещение для дома уже выполняется, повторите позже"
	msgNotAvailable       = "недостаточно свободных номеров"
)

type Handler struct {
	useCase AllocateBookingsUseCase
	logger  Logger
}

func NewHandler(useCase AllocateBookingsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/houses/{houseId}/allocations
// Размещает бронирования дома без номера и кандидатов из тела запроса.
// При commit=false только проверяет, что все помещаются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	houseID, err := handlers.PathID(r, "houseId")
	if err != nil {
		h.logger.Warn("POST /houses/{id}/allocations - Invalid house ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHouseID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /houses/{id}/allocations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AllocateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /houses/{id}/allocations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /houses/{id}/allocations - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCandidates)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(houseID, userID)
	if err != nil {
		h.logger.Warn("POST /houses/{id}/allocations - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, allocateBookings.ErrInvalidInput):
			h.logger.Warn("POST /houses/{id}/allocations - Invalid input: house_id=%d, %v", houseID, err)
			handlers.RespondBadRequest(w, msgInvalidCandidates)

		case errors.Is(err, allocateBookings.ErrHouseNotFound):
			h.logger.Warn("POST /houses/{id}/allocations - House not found: house_id=%d", houseID)
			handlers.RespondNotFound(w, msgHouseNotFound)

		case errors.Is(err, allocateBookings.ErrHouseBusy):
			h.logger.Warn("POST /houses/{id}/allocations - House is busy: house_id=%d", houseID)
			handlers.RespondConflict(w, msgHouseBusy)

		case errors.Is(err, domain.ErrCapacityExceeded):
			h.logger.Warn("POST /houses/{id}/allocations - Not available: house_id=%d, %v", houseID, err)
			handlers.RespondConflict(w, msgNotAvailable)

		default:
			h.logger.Error("POST /houses/{id}/allocations - Failed to allocate: house_id=%d, error=%v", houseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /houses/{id}/allocations - Allocation finished: house_id=%d, allocated=%d, committed=%t",
		houseID, len(result.Allocations), result.Committed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
