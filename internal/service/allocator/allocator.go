package allocator

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

// Allocate жадно назначает номера бронированиям без номера.
//
// fixed - уже размещённые бронирования; учитываются только confirmed/blocked,
// они занимают свой юнит с вложенными или, без юнита, все юниты своего номера.
// candidates - бронирования с типом номера, которым нужен номер.
//
// При нехватке мест возвращаются уже выполненные назначения и ошибка
// domain.ErrCapacityExceeded: вызывающий не должен ничего сохранять.
func Allocate(topology *domain.Topology, fixed, candidates []*domain.Booking) (*Result, error) {
	result := &Result{}
	if len(candidates) == 0 {
		return result, nil
	}

	// 1. Валидация кандидатов
	for i, c := range candidates {
		if c.RoomTypeID == nil {
			return nil, fmt.Errorf("%w: candidate #%d", ErrMissingRoomType, i)
		}
		if !c.DtStart.Before(c.DtEnd) {
			return nil, fmt.Errorf("%w: candidate #%d %s", ErrInvalidCandidate, i, c.Range())
		}
	}

	// 2. Сортировка по убыванию длительности (стабильная)
	ordered := make([]*domain.Booking, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Nights() > ordered[j].Nights()
	})

	// 3. Индекс занятости на окне [min dtstart, max dtend)
	window := candidateWindow(ordered)
	occ := newOccupancy(window.Days())

	for _, b := range fixed {
		if !b.IsOccupying() {
			continue
		}
		units, err := occupiedUnits(topology, b)
		if err != nil {
			return nil, err
		}
		occ.mark(b.Range().Clip(window.Start, window.End.AddDays(-1)), units)
	}

	// 4. Номера по типам, по возрастанию числа юнитов
	roomsByType := make(map[int64][]*domain.Room)
	constituents := make(map[int64][]int64)

	for _, b := range ordered {
		typeID := *b.RoomTypeID
		rooms, ok := roomsByType[typeID]
		if !ok {
			rooms = candidateRooms(topology, typeID)
			roomsByType[typeID] = rooms
			for _, r := range rooms {
				constituents[r.ID] = roomConstituents(topology, r.ID)
			}
		}

		// 5. Первый свободный номер на все ночи бронирования
		days := b.Range().Days()
		placed := false
		for _, r := range rooms {
			units := constituents[r.ID]
			if !occ.free(days, units) {
				continue
			}

			occ.mark(days, units)
			result.Allocations = append(result.Allocations, Allocation{
				RoomID:  r.ID,
				Booking: b,
				UnitIDs: units,
			})
			placed = true
			break
		}

		if !placed {
			return result, fmt.Errorf("%w: room type %d for %s", domain.ErrCapacityExceeded, typeID, b.Range())
		}
	}

	return result, nil
}

func candidateWindow(bookings []*domain.Booking) domain.DateRange {
	w := bookings[0].Range()
	for _, b := range bookings[1:] {
		w.Start = types.MinDate(w.Start, b.DtStart)
		w.End = types.MaxDate(w.End, b.DtEnd)
	}
	return w
}

// candidateRooms номера точного типа, у которых есть юниты.
// Сортировка по числу собственных юнитов, при равенстве по id.
func candidateRooms(topology *domain.Topology, roomTypeID int64) []*domain.Room {
	var rooms []*domain.Room
	for _, r := range topology.RoomsOfType(roomTypeID) {
		if len(topology.UnitIDsOf(r.ID)) > 0 {
			rooms = append(rooms, r)
		}
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		return len(topology.UnitIDsOf(rooms[i].ID)) < len(topology.UnitIDsOf(rooms[j].ID))
	})
	return rooms
}

// roomConstituents юниты номера вместе со всеми вложенными юнитами
func roomConstituents(topology *domain.Topology, roomID int64) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, id := range topology.UnitIDsOf(roomID) {
		for _, u := range topology.Closure(id) {
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out
}

func occupiedUnits(topology *domain.Topology, b *domain.Booking) ([]int64, error) {
	if b.RoomUnitID != nil {
		unit, ok := topology.Unit(*b.RoomUnitID)
		if !ok {
			return nil, fmt.Errorf("%w: booking %d references unit %d", domain.ErrInconsistentSnapshot, b.ID, *b.RoomUnitID)
		}
		if b.RoomID != nil && unit.RoomID != *b.RoomID {
			return nil, fmt.Errorf("%w: booking %d unit %d is not in room %d", domain.ErrInvalidTopology, b.ID, unit.ID, *b.RoomID)
		}
		return topology.Closure(unit.ID), nil
	}
	if b.RoomID != nil {
		return roomConstituents(topology, *b.RoomID), nil
	}
	return nil, nil
}
