package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrChildBooking возвращается при попытке изменить дочернее бронирование напрямую
	ErrChildBooking = errors.New("booking is managed by its parent booking")

	// ErrCannotReschedule возвращается, когда бронирование в текущем статусе нельзя перенести
	ErrCannotReschedule = errors.New("booking cannot be rescheduled")

	// ErrNotAllocated возвращается при подтверждении бронирования без номера
	ErrNotAllocated = errors.New("booking has no room")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
