package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
)

// Store хранилище в памяти: топология домов и бронирования.
// Используется при [storage] driver = "memory" и в тестах сервисов.
type Store struct {
	mu sync.RWMutex

	houses   map[int64]*domain.House
	rooms    map[int64]*domain.Room
	units    map[int64]*domain.RoomUnit
	bookings map[int64]*domain.Booking

	nextHouseID   int64
	nextRoomID    int64
	nextUnitID    int64
	nextBookingID int64

	// txMu сериализует транзакции TxManager
	txMu sync.Mutex

	now func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		houses:   make(map[int64]*domain.House),
		rooms:    make(map[int64]*domain.Room),
		units:    make(map[int64]*domain.RoomUnit),
		bookings: make(map[int64]*domain.Booking),
		now:      time.Now,
	}
}

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// Topology возвращает репозиторий топологии
func (s *Store) Topology() *TopologyRepository {
	return &TopologyRepository{s: s}
}

// TxManager возвращает менеджер транзакций
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// AddHouse добавляет дом
func (s *Store) AddHouse(name string) *domain.House {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextHouseID++
	now := s.now()
	house := &domain.House{ID: s.nextHouseID, Name: name, CreatedAt: now, UpdatedAt: now}
	s.houses[house.ID] = house

	return house
}

// AddRoom добавляет номер в дом
func (s *Store) AddRoom(houseID int64, roomTypeID *int64, name string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.houses[houseID]; !ok {
		return nil, fmt.Errorf("%w: AddRoom - house id=%d", topologyRepo.ErrHouseNotFound, houseID)
	}

	s.nextRoomID++
	now := s.now()
	room := &domain.Room{
		ID:         s.nextRoomID,
		HouseID:    houseID,
		RoomTypeID: roomTypeID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.rooms[room.ID] = room

	return room, nil
}

// AddUnit добавляет юнит в номер. partOf - родительский юнит, если юнит вложен.
func (s *Store) AddUnit(roomID int64, partOf *int64, virtual bool, roomNo string) (*domain.RoomUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: AddUnit - room id=%d", topologyRepo.ErrRoomNotFound, roomID)
	}
	if partOf != nil {
		parent, ok := s.units[*partOf]
		if !ok {
			return nil, fmt.Errorf("%w: AddUnit - parent unit id=%d", topologyRepo.ErrUnitNotFound, *partOf)
		}
		if parent.HouseID != room.HouseID {
			return nil, fmt.Errorf("%w: AddUnit - parent unit id=%d belongs to another house", domain.ErrInvalidTopology, *partOf)
		}
	}

	s.nextUnitID++
	unit := &domain.RoomUnit{
		ID:           s.nextUnitID,
		HouseID:      room.HouseID,
		RoomID:       roomID,
		PartOfRoomID: partOf,
		Virtual:      virtual,
		RoomNo:       roomNo,
	}
	s.units[unit.ID] = unit

	return unit, nil
}

// snapshot копия бронирований для отката транзакции
type snapshot struct {
	bookings      map[int64]*domain.Booking
	nextBookingID int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make(map[int64]*domain.Booking, len(s.bookings))
	for id, b := range s.bookings {
		bookings[id] = cloneBooking(b)
	}
	return snapshot{bookings: bookings, nextBookingID: s.nextBookingID}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = snap.bookings
	s.nextBookingID = snap.nextBookingID
}

// BookingCount количество бронирований в хранилище
func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bookings)
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.RoomTypeID = cloneID(b.RoomTypeID)
	c.RoomID = cloneID(b.RoomID)
	c.RoomUnitID = cloneID(b.RoomUnitID)
	c.ParentBookingID = cloneID(b.ParentBookingID)
	c.Children = nil
	return &c
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sortByID(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
}
