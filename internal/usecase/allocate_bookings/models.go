package allocate_bookings

import "github.com/m04kA/SMC-AllotmentService/pkg/types"

// Candidate новое бронирование по типу номера, которое нужно разместить
type Candidate struct {
	UserID     int64
	RoomTypeID int64
	DtStart    types.Date
	DtEnd      types.Date // Дата выезда, не занимается
	Summary    *string
}

// Request модель запроса на размещение.
// Кроме кандидатов размещаются все сохранённые бронирования дома в статусе unallocated.
type Request struct {
	HouseID    int64
	Candidates []Candidate
	Commit     bool // false - только проверить, что всё помещается
}

// Allocation назначение номера бронированию
type Allocation struct {
	RoomID         int64
	BookingID      *int64 // Сохранённое бронирование или созданное при Commit
	CandidateIndex *int   // Индекс кандидата в запросе
	RoomTypeID     int64
	DtStart        types.Date
	DtEnd          types.Date
	UnitIDs        []int64
}

// Response результат размещения в порядке назначения
type Response struct {
	HouseID     int64
	Committed   bool
	Allocations []Allocation
}
