package rooms

import (
	"context"
	"errors"
	"fmt"

	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
	"github.com/m04kA/SMC-AllotmentService/internal/service/rooms/models"
)

// Service сервис для чтения номеров и их вложенности
type Service struct {
	topologyRepo TopologyRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса номеров
func NewService(topologyRepo TopologyRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		topologyRepo: topologyRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetRoom получает номер с юнитами, дочерними и родительскими юнитами
func (s *Service) GetRoom(ctx context.Context, roomID int64) (*models.RoomResponse, error) {
	s.logger.Info("GetRoom: fetching room id=%d", roomID)

	var resp *models.RoomResponse
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		details, err := s.topologyRepo.GetRoomDetails(txCtx, roomID)
		if err != nil {
			if errors.Is(err, topologyRepo.ErrRoomNotFound) {
				s.logger.Warn("GetRoom: room id=%d not found", roomID)
				return ErrRoomNotFound
			}
			s.logger.Error("GetRoom: repository error for room id=%d: %v", roomID, err)
			return fmt.Errorf("%w: GetRoom - repository error: %v", ErrInternal, err)
		}
		resp = models.FromDomainRoomDetails(details)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetRoom: successfully fetched room id=%d with %d units", roomID, resp.TotalRooms)
	return resp, nil
}

// ListHouseRooms получает все номера дома
func (s *Service) ListHouseRooms(ctx context.Context, houseID int64) (*models.RoomListResponse, error) {
	s.logger.Info("ListHouseRooms: fetching rooms for house=%d", houseID)

	resp := &models.RoomListResponse{Rooms: []models.RoomResponse{}}
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.topologyRepo.GetHouse(txCtx, houseID); err != nil {
			if errors.Is(err, topologyRepo.ErrHouseNotFound) {
				s.logger.Warn("ListHouseRooms: house id=%d not found", houseID)
				return ErrHouseNotFound
			}
			s.logger.Error("ListHouseRooms: repository error for house id=%d: %v", houseID, err)
			return fmt.Errorf("%w: ListHouseRooms - repository error: %v", ErrInternal, err)
		}

		topology, err := s.topologyRepo.GetHouseTopology(txCtx, houseID)
		if err != nil {
			s.logger.Error("ListHouseRooms: failed to get topology of house id=%d: %v", houseID, err)
			return fmt.Errorf("%w: ListHouseRooms - failed to get topology: %v", ErrInternal, err)
		}

		for _, room := range topology.Rooms() {
			details, _ := topology.Details(room.ID)
			resp.Rooms = append(resp.Rooms, *models.FromDomainRoomDetails(details))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListHouseRooms: successfully fetched %d rooms for house=%d", len(resp.Rooms), houseID)
	return resp, nil
}
