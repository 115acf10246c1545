package domain

import "time"

// House is the tenant scope owning rooms and bookings
type House struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomType groups interchangeable rooms for allocation
type RoomType struct {
	ID      int64
	HouseID int64
	Name    string
}

// Room is a bookable category owning room units
type Room struct {
	ID         int64
	HouseID    int64
	RoomTypeID *int64
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RoomUnit is the atomic allocatable resource.
// PartOfRoomID points to the parent unit the unit is physically nested in.
type RoomUnit struct {
	ID           int64
	HouseID      int64
	RoomID       int64
	PartOfRoomID *int64
	Virtual      bool
	RoomNo       string
}

// RoomDetails is a room with its units and the units it is linked to
// through part_of_room relations
type RoomDetails struct {
	Room        *Room
	Units       []*RoomUnit
	ChildUnits  []*RoomUnit // consist_of_rooms: direct children of the room's units
	ParentUnits []*RoomUnit // part_of_rooms: direct parents of the room's units
}
