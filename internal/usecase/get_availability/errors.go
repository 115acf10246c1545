package get_availability

import "errors"

var (
	// ErrRoomNotFound возвращается, когда номер не найден
	ErrRoomNotFound = errors.New("get_availability: room not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrWindowTooLarge возвращается, когда окно превышает допустимое число дней
	ErrWindowTooLarge = errors.New("get_availability: date window is too large")

	// ErrTimeout возвращается, когда расчёт не уложился в дедлайн
	ErrTimeout = errors.New("get_availability: deadline exceeded")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
