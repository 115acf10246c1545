package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
)

// TopologyRepository репозиторий топологии в памяти.
// Повторяет контракт и ошибки topology.Repository.
type TopologyRepository struct {
	s *Store
}

// GetHouse получает дом по ID
func (r *TopologyRepository) GetHouse(_ context.Context, houseID int64) (*domain.House, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	house, ok := r.s.houses[houseID]
	if !ok {
		return nil, topologyRepo.ErrHouseNotFound
	}
	c := *house
	return &c, nil
}

// GetRoom получает номер по ID
func (r *TopologyRepository) GetRoom(_ context.Context, roomID int64) (*domain.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	room, ok := r.s.rooms[roomID]
	if !ok {
		return nil, topologyRepo.ErrRoomNotFound
	}
	c := *room
	return &c, nil
}

// GetUnit получает юнит по ID
func (r *TopologyRepository) GetUnit(_ context.Context, unitID int64) (*domain.RoomUnit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	unit, ok := r.s.units[unitID]
	if !ok {
		return nil, topologyRepo.ErrUnitNotFound
	}
	c := *unit
	return &c, nil
}

// GetHouseTopology строит топологию дома
func (r *TopologyRepository) GetHouseTopology(_ context.Context, houseID int64) (*domain.Topology, error) {
	r.s.mu.RLock()
	rooms := make([]*domain.Room, 0)
	for _, room := range r.s.rooms {
		if room.HouseID == houseID {
			c := *room
			rooms = append(rooms, &c)
		}
	}
	units := make([]*domain.RoomUnit, 0)
	for _, unit := range r.s.units {
		if unit.HouseID == houseID {
			c := *unit
			units = append(units, &c)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })

	return domain.NewTopology(houseID, rooms, units)
}

// GetRoomDetails получает номер с юнитами, дочерними и родительскими юнитами
func (r *TopologyRepository) GetRoomDetails(ctx context.Context, roomID int64) (*domain.RoomDetails, error) {
	room, err := r.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	topology, err := r.GetHouseTopology(ctx, room.HouseID)
	if err != nil {
		return nil, err
	}

	details, ok := topology.Details(roomID)
	if !ok {
		return nil, topologyRepo.ErrRoomNotFound
	}
	return details, nil
}
