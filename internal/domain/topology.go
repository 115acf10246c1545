package domain

import (
	"fmt"
	"sort"
)

// Topology is an immutable view of a house's rooms and units with the
// part_of_room forest indexed both ways
type Topology struct {
	houseID  int64
	rooms    map[int64]*Room
	roomIDs  []int64
	units    map[int64]*RoomUnit
	unitIDs  []int64
	byRoom   map[int64][]int64
	children map[int64][]int64
}

// NewTopology validates and indexes rooms and units of a house.
// Returns ErrInvalidTopology for units of unknown rooms, dangling or
// cross-house parents and part_of_room cycles.
func NewTopology(houseID int64, rooms []*Room, units []*RoomUnit) (*Topology, error) {
	t := &Topology{
		houseID:  houseID,
		rooms:    make(map[int64]*Room, len(rooms)),
		units:    make(map[int64]*RoomUnit, len(units)),
		byRoom:   make(map[int64][]int64),
		children: make(map[int64][]int64),
	}

	for _, r := range rooms {
		t.rooms[r.ID] = r
		t.roomIDs = append(t.roomIDs, r.ID)
	}
	for _, u := range units {
		if _, ok := t.rooms[u.RoomID]; !ok {
			return nil, fmt.Errorf("%w: unit %d references unknown room %d", ErrInvalidTopology, u.ID, u.RoomID)
		}
		t.units[u.ID] = u
		t.unitIDs = append(t.unitIDs, u.ID)
	}
	sortIDs(t.roomIDs)
	sortIDs(t.unitIDs)

	for _, id := range t.unitIDs {
		u := t.units[id]
		t.byRoom[u.RoomID] = append(t.byRoom[u.RoomID], id)
		if u.PartOfRoomID == nil {
			continue
		}
		if _, ok := t.units[*u.PartOfRoomID]; !ok {
			return nil, fmt.Errorf("%w: unit %d is part of unknown unit %d", ErrInvalidTopology, u.ID, *u.PartOfRoomID)
		}
		t.children[*u.PartOfRoomID] = append(t.children[*u.PartOfRoomID], id)
	}

	if err := t.checkCycles(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Topology) checkCycles() error {
	// 0 - not visited, 1 - on the current path, 2 - done
	state := make(map[int64]int, len(t.units))
	for _, start := range t.unitIDs {
		var path []int64
		id := start
		for {
			if state[id] == 2 {
				break
			}
			if state[id] == 1 {
				return fmt.Errorf("%w: part_of_room cycle through unit %d", ErrInvalidTopology, id)
			}
			state[id] = 1
			path = append(path, id)
			parent := t.units[id].PartOfRoomID
			if parent == nil {
				break
			}
			id = *parent
		}
		for _, p := range path {
			state[p] = 2
		}
	}
	return nil
}

// HouseID returns the owning house
func (t *Topology) HouseID() int64 {
	return t.houseID
}

// Room returns a room by id
func (t *Topology) Room(id int64) (*Room, bool) {
	r, ok := t.rooms[id]
	return r, ok
}

// Unit returns a unit by id
func (t *Topology) Unit(id int64) (*RoomUnit, bool) {
	u, ok := t.units[id]
	return u, ok
}

// Rooms returns all rooms ordered by id
func (t *Topology) Rooms() []*Room {
	out := make([]*Room, 0, len(t.roomIDs))
	for _, id := range t.roomIDs {
		out = append(out, t.rooms[id])
	}
	return out
}

// RoomsOfType returns rooms with exactly the given room type, ordered by id
func (t *Topology) RoomsOfType(roomTypeID int64) []*Room {
	var out []*Room
	for _, id := range t.roomIDs {
		r := t.rooms[id]
		if r.RoomTypeID != nil && *r.RoomTypeID == roomTypeID {
			out = append(out, r)
		}
	}
	return out
}

// UnitIDsOf returns ids of units directly owned by the room, ordered by id
func (t *Topology) UnitIDsOf(roomID int64) []int64 {
	return t.byRoom[roomID]
}

// UnitsOf returns units directly owned by the room, ordered by id
func (t *Topology) UnitsOf(roomID int64) []*RoomUnit {
	ids := t.byRoom[roomID]
	out := make([]*RoomUnit, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.units[id])
	}
	return out
}

// ChildrenOf returns ids of units whose part_of_room is the given unit
func (t *Topology) ChildrenOf(unitID int64) []int64 {
	return t.children[unitID]
}

// HasChildren reports whether the unit is a parent of any unit
func (t *Topology) HasChildren(unitID int64) bool {
	return len(t.children[unitID]) > 0
}

// Descendants returns all units nested in the given unit, parents before children
func (t *Topology) Descendants(unitID int64) []int64 {
	var out []int64
	queue := append([]int64(nil), t.children[unitID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)
		queue = append(queue, t.children[id]...)
	}
	return out
}

// Ancestors returns the chain of parents of the unit, nearest first
func (t *Topology) Ancestors(unitID int64) []int64 {
	var out []int64
	u, ok := t.units[unitID]
	for ok && u.PartOfRoomID != nil {
		out = append(out, *u.PartOfRoomID)
		u, ok = t.units[*u.PartOfRoomID]
	}
	return out
}

// Closure returns the unit followed by its descendants
func (t *Topology) Closure(unitID int64) []int64 {
	return append([]int64{unitID}, t.Descendants(unitID)...)
}

// ConsistOfRooms returns direct children of any of the room's units
func (t *Topology) ConsistOfRooms(roomID int64) []*RoomUnit {
	var out []*RoomUnit
	for _, id := range t.byRoom[roomID] {
		for _, child := range t.children[id] {
			out = append(out, t.units[child])
		}
	}
	return out
}

// PartOfRooms returns direct parents of any of the room's units, without duplicates
func (t *Topology) PartOfRooms(roomID int64) []*RoomUnit {
	seen := make(map[int64]bool)
	var out []*RoomUnit
	for _, id := range t.byRoom[roomID] {
		parent := t.units[id].PartOfRoomID
		if parent == nil || seen[*parent] {
			continue
		}
		seen[*parent] = true
		out = append(out, t.units[*parent])
	}
	return out
}

// SubRoomIDs returns rooms, other than the room itself, owning units nested
// directly in the room's units
func (t *Topology) SubRoomIDs(roomID int64) []int64 {
	return t.otherRooms(roomID, t.ConsistOfRooms(roomID))
}

// SuperRoomIDs returns rooms, other than the room itself, owning the units
// the room's units are nested in
func (t *Topology) SuperRoomIDs(roomID int64) []int64 {
	return t.otherRooms(roomID, t.PartOfRooms(roomID))
}

func (t *Topology) otherRooms(roomID int64, units []*RoomUnit) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, u := range units {
		if u.RoomID == roomID || seen[u.RoomID] {
			continue
		}
		seen[u.RoomID] = true
		out = append(out, u.RoomID)
	}
	sortIDs(out)
	return out
}

// Details builds the room view with units, child units and parent units
func (t *Topology) Details(roomID int64) (*RoomDetails, bool) {
	r, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}
	return &RoomDetails{
		Room:        r,
		Units:       t.UnitsOf(roomID),
		ChildUnits:  t.ConsistOfRooms(roomID),
		ParentUnits: t.PartOfRooms(roomID),
	}, true
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
