package create_booking

import "errors"

var (
	// ErrHouseNotFound возвращается, когда дом не найден
	ErrHouseNotFound = errors.New("create_booking: house not found")

	// ErrRoomNotFound возвращается, когда номер не найден в доме
	ErrRoomNotFound = errors.New("create_booking: room not found")

	// ErrUnitNotFound возвращается, когда юнит не найден в доме
	ErrUnitNotFound = errors.New("create_booking: room unit not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
