package topology

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllotmentService/pkg/psqlbuilder"
)

var (
	houseColumns = []string{"id", "name", "created_at", "updated_at"}
	roomColumns  = []string{"id", "house_id", "room_type_id", "name", "created_at", "updated_at"}
	unitColumns  = []string{"id", "house_id", "room_id", "part_of_room_id", "virtual", "room_no"}
)

// Repository репозиторий топологии дома: номера, юниты и их вложенность
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория топологии
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetHouse получает дом по ID
func (r *Repository) GetHouse(ctx context.Context, houseID int64) (*domain.House, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(houseColumns...).
		From("houses").
		Where(squirrel.Eq{"id": houseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHouse - build select query: %v", ErrBuildQuery, err)
	}

	var house domain.House
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&house.ID, &house.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHouseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetHouse - scan house: %v", ErrScanRow, err)
	}

	house.CreatedAt = createdAt.Time
	house.UpdatedAt = updatedAt.Time

	return &house, nil
}

// GetRoom получает номер по ID
func (r *Repository) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	rooms, err := r.queryRooms(ctx, "GetRoom", psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"id": roomID}))
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrRoomNotFound
	}
	return rooms[0], nil
}

// GetUnit получает юнит по ID
func (r *Repository) GetUnit(ctx context.Context, unitID int64) (*domain.RoomUnit, error) {
	units, err := r.queryUnits(ctx, "GetUnit", psqlbuilder.Select(unitColumns...).
		From("room_units").
		Where(squirrel.Eq{"id": unitID}))
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, ErrUnitNotFound
	}
	return units[0], nil
}

// GetHouseTopology читает номера и юниты дома и строит топологию.
// Для согласованного снимка вызывать внутри транзакции.
func (r *Repository) GetHouseTopology(ctx context.Context, houseID int64) (*domain.Topology, error) {
	// 1. Номера дома
	rooms, err := r.queryRooms(ctx, "GetHouseTopology", psqlbuilder.Select(roomColumns...).
		From("rooms").
		Where(squirrel.Eq{"house_id": houseID}).
		OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}

	// 2. Юниты дома
	units, err := r.queryUnits(ctx, "GetHouseTopology", psqlbuilder.Select(unitColumns...).
		From("room_units").
		Where(squirrel.Eq{"house_id": houseID}).
		OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}

	// 3. Проверка леса part_of_room
	return domain.NewTopology(houseID, rooms, units)
}

// GetRoomDetails получает номер с юнитами, дочерними и родительскими юнитами
func (r *Repository) GetRoomDetails(ctx context.Context, roomID int64) (*domain.RoomDetails, error) {
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
		return nil, ErrRoomNotFound
	}
	return details, nil
}

func (r *Repository) queryRooms(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Room, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build rooms query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute rooms query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		var room domain.Room
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&room.ID, &room.HouseID, &room.RoomTypeID, &room.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan room: %v", ErrScanRow, op, err)
		}
		room.CreatedAt = createdAt.Time
		room.UpdatedAt = updatedAt.Time
		rooms = append(rooms, &room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rooms rows error: %v", ErrScanRow, op, err)
	}

	return rooms, nil
}

func (r *Repository) queryUnits(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.RoomUnit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build units query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute units query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	units := make([]*domain.RoomUnit, 0)
	for rows.Next() {
		var unit domain.RoomUnit
		if err := rows.Scan(&unit.ID, &unit.HouseID, &unit.RoomID, &unit.PartOfRoomID, &unit.Virtual, &unit.RoomNo); err != nil {
			return nil, fmt.Errorf("%w: %s - scan unit: %v", ErrScanRow, op, err)
		}
		units = append(units, &unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - units rows error: %v", ErrScanRow, op, err)
	}

	return units, nil
}
