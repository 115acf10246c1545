package availability

import (
	"fmt"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

type category int

const (
	categoryRoom category = iota
	categorySubroom
	categorySuperroom
)

type calculator struct {
	topology   *domain.Topology
	roomID     int64
	inRoom     map[int64]bool
	subRooms   map[int64]bool
	superRooms map[int64]bool
}

// Calculate считает доступность номера по дням на включительном окне [start, end].
//
// bookings - снимок бронирований номера, его под-номеров и над-номеров;
// учитываются только confirmed. Снимок должен быть прочитан вместе с topology.
func Calculate(topology *domain.Topology, roomID int64, start, end types.Date, bookings []*domain.Booking) (*Result, error) {
	// 1. Валидация
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s - %s", ErrInvalidWindow, start, end)
	}
	if _, ok := topology.Room(roomID); !ok {
		return nil, fmt.Errorf("%w: room=%d", ErrRoomNotFound, roomID)
	}

	c := &calculator{
		topology:   topology,
		roomID:     roomID,
		inRoom:     make(map[int64]bool),
		subRooms:   toSet(topology.SubRoomIDs(roomID)),
		superRooms: toSet(topology.SuperRoomIDs(roomID)),
	}

	// 2. Начальная вакантность: юниты номера и свободные дочерние юниты других номеров
	roomUnits := topology.UnitIDsOf(roomID)
	buckets := make(map[int64][]int64, len(roomUnits))
	for _, id := range roomUnits {
		c.inRoom[id] = true
	}
	for _, id := range roomUnits {
		for _, child := range topology.ChildrenOf(id) {
			if !c.inRoom[child] {
				buckets[id] = append(buckets[id], child)
			}
		}
	}

	days := start.DaysUntil(end) + 1
	vacancy := make(map[types.Date]*dayVacancy, days)
	for d := start; !d.After(end); d = d.AddDays(1) {
		vacancy[d] = newDayVacancy(roomUnits, buckets)
	}

	// 3. Разбиение бронирований по категориям
	var groups [3][]*domain.Booking
	for _, b := range bookings {
		if b.Status != domain.StatusConfirmed || b.RoomID == nil {
			continue
		}
		cat, ok := c.classify(*b.RoomID)
		if !ok {
			continue
		}
		if err := c.checkUnit(b); err != nil {
			return nil, err
		}
		groups[cat] = append(groups[cat], b)
	}

	// 4. Сначала назначенные на юнит, затем без юнита; внутри - номер, под-номера, над-номера
	for _, assigned := range []bool{true, false} {
		for cat, group := range groups {
			for _, b := range group {
				if b.IsAssigned() != assigned {
					continue
				}
				for _, d := range b.Range().Clip(start, end) {
					c.apply(vacancy[d], category(cat), b)
				}
			}
		}
	}

	// 5. Отложенные удаления и итог по дням
	result := &Result{
		TotalRooms: len(roomUnits),
		StartDate:  start,
		EndDate:    end,
		Payload:    make([]DayAllotment, 0, days),
	}
	for d := start; !d.After(end); d = d.AddDays(1) {
		result.Payload = append(result.Payload, DayAllotment{
			Date:      d,
			Allotment: vacancy[d].apply(),
		})
	}

	return result, nil
}

func (c *calculator) classify(roomID int64) (category, bool) {
	switch {
	case roomID == c.roomID:
		return categoryRoom, true
	case c.subRooms[roomID]:
		return categorySubroom, true
	case c.superRooms[roomID]:
		return categorySuperroom, true
	default:
		return 0, false
	}
}

func (c *calculator) checkUnit(b *domain.Booking) error {
	if b.RoomUnitID == nil {
		return nil
	}
	unit, ok := c.topology.Unit(*b.RoomUnitID)
	if !ok {
		return fmt.Errorf("%w: booking %d references unit %d", domain.ErrInconsistentSnapshot, b.ID, *b.RoomUnitID)
	}
	if unit.RoomID != *b.RoomID {
		return fmt.Errorf("%w: booking %d unit %d belongs to room %d, not %d",
			domain.ErrInvalidTopology, b.ID, unit.ID, unit.RoomID, *b.RoomID)
	}
	return nil
}

func (c *calculator) apply(v *dayVacancy, cat category, b *domain.Booking) {
	switch cat {
	case categoryRoom:
		if b.IsAssigned() {
			c.occupyRoomUnit(v, *b.RoomUnitID)
		} else {
			c.occupyAnyRoomUnit(v)
		}
	case categorySubroom:
		if b.IsAssigned() {
			c.occupySubroomUnit(v, *b.RoomUnitID)
		} else {
			c.occupyAnySubroomUnit(v, *b.RoomID)
		}
	case categorySuperroom:
		if b.IsAssigned() {
			c.occupySuperroomUnit(v, *b.RoomUnitID)
		} else {
			c.occupyAnySuperroomUnit(v, *b.RoomID)
		}
	}
}

// occupyRoomUnit убирает юнит номера вместе с вложенными в него юнитами этого же номера.
// Родительские юниты этого же номера тоже перестают быть свободными.
func (c *calculator) occupyRoomUnit(v *dayVacancy, unitID int64) {
	v.remove(unitID)
	for _, id := range c.topology.Descendants(unitID) {
		if c.inRoom[id] {
			v.remove(id)
		}
	}
	for _, id := range c.topology.Ancestors(unitID) {
		if c.inRoom[id] {
			v.remove(id)
		}
	}
}

// occupyAnyRoomUnit выбирает юнит с наибольшим числом свободных дочерних юнитов.
// При равенстве - юнит, занимающий меньше юнитов номера, затем меньший id.
func (c *calculator) occupyAnyRoomUnit(v *dayVacancy) {
	var (
		chosen     int64
		found      bool
		bestSize   int
		bestImpact int
	)
	for _, id := range v.keys() {
		if v.toDelete[id] {
			continue
		}
		size := len(v.units[id])
		impact := c.impact(v, id)
		if !found || size > bestSize || (size == bestSize && impact < bestImpact) {
			chosen, found, bestSize, bestImpact = id, true, size, impact
		}
	}
	if found {
		c.occupyRoomUnit(v, chosen)
	}
}

// impact число свободных юнитов номера, которые исчезнут при занятии юнита
func (c *calculator) impact(v *dayVacancy, unitID int64) int {
	n := 1
	for _, id := range c.topology.Descendants(unitID) {
		if c.inRoom[id] && v.has(id) {
			n++
		}
	}
	for _, id := range c.topology.Ancestors(unitID) {
		if c.inRoom[id] && v.has(id) {
			n++
		}
	}
	return n
}

// occupySubroomUnit убирает дочерний юнит из bucket-а родителя;
// родитель удаляется после обработки всех бронирований даты
func (c *calculator) occupySubroomUnit(v *dayVacancy, unitID int64) {
	for _, id := range v.keys() {
		if v.units[id][unitID] {
			delete(v.units[id], unitID)
			v.markToDelete(id)
			return
		}
	}
}

// occupyAnySubroomUnit выбирает bucket с наименьшим числом свободных юнитов,
// в котором есть свободный юнит номера subRoomID
func (c *calculator) occupyAnySubroomUnit(v *dayVacancy, subRoomID int64) {
	var (
		chosenParent int64
		chosenChild  int64
		bestSize     int
		found        bool
	)
	for _, id := range v.keys() {
		child, ok := c.firstChildOfRoom(v, id, subRoomID)
		if !ok {
			continue
		}
		size := len(v.units[id])
		if !found || size < bestSize {
			chosenParent, chosenChild, bestSize, found = id, child, size, true
		}
	}
	if !found {
		return
	}
	delete(v.units[chosenParent], chosenChild)
	v.markToDelete(chosenParent)
}

func (c *calculator) firstChildOfRoom(v *dayVacancy, parentID, roomID int64) (int64, bool) {
	for _, child := range v.bucketKeys(parentID) {
		if u, ok := c.topology.Unit(child); ok && u.RoomID == roomID {
			return child, true
		}
	}
	return 0, false
}

// occupySuperroomUnit убирает юниты номера, вложенные в забронированный юнит над-номера
func (c *calculator) occupySuperroomUnit(v *dayVacancy, unitID int64) {
	for _, id := range c.topology.Descendants(unitID) {
		if c.inRoom[id] {
			v.remove(id)
		}
	}
}

// occupyAnySuperroomUnit выбирает юнит над-номера с наибольшим числом свободных
// вложенных юнитов этого номера и убирает их все
func (c *calculator) occupyAnySuperroomUnit(v *dayVacancy, superRoomID int64) {
	var (
		chosen   int64
		bestFree int
		found    bool
	)
	for _, parentID := range c.topology.UnitIDsOf(superRoomID) {
		children := c.inRoomChildren(parentID)
		if len(children) == 0 {
			continue
		}
		free := 0
		for _, id := range children {
			if v.has(id) {
				free++
			}
		}
		if !found || free > bestFree {
			chosen, bestFree, found = parentID, free, true
		}
	}
	if found {
		c.occupySuperroomUnit(v, chosen)
	}
}

func (c *calculator) inRoomChildren(unitID int64) []int64 {
	var out []int64
	for _, id := range c.topology.ChildrenOf(unitID) {
		if c.inRoom[id] {
			out = append(out, id)
		}
	}
	return out
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
