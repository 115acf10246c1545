package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllotmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDates       = "некорректные даты, ожидается YYYY-MM-DD и dtend позже dtstart"
	msgNotFound           = "бронирование не найдено"
	msgChildBooking       = "дочернее бронирование переносится вместе с родительским"
	msgCannotReschedule   = "бронирование в текущем статусе нельзя перенести"
	msgDatesUnavailable   = "даты недоступны"
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

// Handle PATCH /api/v1/bookings/{bookingId}/dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/dates - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/dates - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/dates - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	booking, err := h.service.Reschedule(r.Context(), bookingID, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/dates - Invalid dates: booking_id=%d, %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidDates)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/dates - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrChildBooking):
			h.logger.Warn("PATCH /bookings/{id}/dates - Child booking: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgChildBooking)

		case errors.Is(err, bookings.ErrCannotReschedule):
			h.logger.Warn("PATCH /bookings/{id}/dates - Cannot reschedule: booking_id=%d, %v", bookingID, err)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, domain.ErrDatesUnavailable):
			h.logger.Warn("PATCH /bookings/{id}/dates - Dates not available: booking_id=%d, %s..%s",
				bookingID, req.DtStart, req.DtEnd)
			handlers.RespondConflict(w, msgDatesUnavailable)

		default:
			h.logger.Error("PATCH /bookings/{id}/dates - Failed to reschedule booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/dates - Booking rescheduled successfully: booking_id=%d, %s..%s",
		bookingID, booking.DtStart, booking.DtEnd)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
