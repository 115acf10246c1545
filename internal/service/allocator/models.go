package allocator

import "github.com/m04kA/SMC-AllotmentService/internal/domain"

// Allocation назначение номера бронированию
type Allocation struct {
	RoomID  int64
	Booking *domain.Booking
	UnitIDs []int64 // юниты номера вместе с вложенными, занятые бронированием
}

// Result результат прогона аллокатора
type Result struct {
	Allocations []Allocation // в порядке назначения
}
