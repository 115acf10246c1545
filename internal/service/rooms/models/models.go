package models

import (
	"sort"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
)

// UnitResponse юнит номера
type UnitResponse struct {
	ID           int64  `json:"id"`
	RoomID       int64  `json:"roomId"`
	PartOfRoomID *int64 `json:"partOfRoomId,omitempty"`
	Virtual      bool   `json:"virtual"`
	RoomNo       string `json:"roomNo"`
}

// RoomResponse номер с юнитами и связанными через part_of_room юнитами
type RoomResponse struct {
	ID         int64  `json:"id"`
	HouseID    int64  `json:"houseId"`
	RoomTypeID *int64 `json:"roomTypeId,omitempty"`
	Name       string `json:"name"`
	TotalRooms int    `json:"totalRooms"`

	Units       []UnitResponse `json:"units"`
	ChildUnits  []UnitResponse `json:"childUnits"`  // consist_of_rooms
	ParentUnits []UnitResponse `json:"parentUnits"` // part_of_rooms

	SubRoomIDs   []int64 `json:"subRoomIds"`
	SuperRoomIDs []int64 `json:"superRoomIds"`
}

// RoomListResponse ответ со списком номеров дома
type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
}

// FromDomainRoomDetails конвертирует domain модель в DTO
func FromDomainRoomDetails(d *domain.RoomDetails) *RoomResponse {
	if d == nil {
		return nil
	}

	return &RoomResponse{
		ID:           d.Room.ID,
		HouseID:      d.Room.HouseID,
		RoomTypeID:   d.Room.RoomTypeID,
		Name:         d.Room.Name,
		TotalRooms:   len(d.Units),
		Units:        fromDomainUnits(d.Units),
		ChildUnits:   fromDomainUnits(d.ChildUnits),
		ParentUnits:  fromDomainUnits(d.ParentUnits),
		SubRoomIDs:   otherRoomIDs(d.Room.ID, d.ChildUnits),
		SuperRoomIDs: otherRoomIDs(d.Room.ID, d.ParentUnits),
	}
}

func fromDomainUnits(units []*domain.RoomUnit) []UnitResponse {
	out := make([]UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, UnitResponse{
			ID:           u.ID,
			RoomID:       u.RoomID,
			PartOfRoomID: u.PartOfRoomID,
			Virtual:      u.Virtual,
			RoomNo:       u.RoomNo,
		})
	}
	return out
}

func otherRoomIDs(roomID int64, units []*domain.RoomUnit) []int64 {
	seen := make(map[int64]bool)
	out := make([]int64, 0)
	for _, u := range units {
		if u.RoomID == roomID || seen[u.RoomID] {
			continue
		}
		seen[u.RoomID] = true
		out = append(out, u.RoomID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
