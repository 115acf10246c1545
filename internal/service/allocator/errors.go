package allocator

import "errors"

var (
	// ErrMissingRoomType возвращается для кандидата без типа номера
	ErrMissingRoomType = errors.New("allocator: candidate booking has no room type")

	// ErrInvalidCandidate возвращается для кандидата с пустым диапазоном дат
	ErrInvalidCandidate = errors.New("allocator: candidate booking has invalid dates")
)
