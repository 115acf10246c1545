package allocate_bookings

import "errors"

var (
	// ErrHouseNotFound возвращается, когда дом не найден
	ErrHouseNotFound = errors.New("allocate_bookings: house not found")

	// ErrHouseBusy возвращается, когда для дома уже идёт размещение
	ErrHouseBusy = errors.New("allocate_bookings: allocation for house is already running")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("allocate_bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("allocate_bookings: internal error")
)
