package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllotmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

const table = "bookings"

var columns = []string{
	"id",
	"house_id",
	"room_type_id",
	"room_id",
	"room_unit_id",
	"user_id",
	"parent_booking_id",
	"status",
	"dtstart",
	"dtend",
	"summary",
	"description",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"house_id",
			"room_type_id",
			"room_id",
			"room_unit_id",
			"user_id",
			"parent_booking_id",
			"status",
			"dtstart",
			"dtend",
			"summary",
			"description",
		).
		Values(
			booking.HouseID,
			booking.RoomTypeID,
			booking.RoomID,
			booking.RoomUnitID,
			booking.UserID,
			booking.ParentBookingID,
			booking.Status,
			booking.DtStart,
			booking.DtEnd,
			booking.Summary,
			booking.Description,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetChildren получает бронирования, распространённые от родительского
func (r *Repository) GetChildren(ctx context.Context, parentID int64) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"parent_booking_id": parentID}).
		OrderBy("id ASC")

	return r.query(ctx, "GetChildren", selectBuilder)
}

// GetByHouse получает бронирования дома с фильтрацией по периоду и статусу
func (r *Repository) GetByHouse(ctx context.Context, filter domain.HouseBookingsFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"house_id": filter.HouseID})

	// Пересечение с периодом [StartDate, EndDate]
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"dtend": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"dtstart": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RootsOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"parent_booking_id": nil})
	}

	return r.query(ctx, "GetByHouse", selectBuilder.OrderBy("dtstart ASC", "id ASC"))
}

// FindByStatus получает бронирования дома в указанных статусах
func (r *Repository) FindByStatus(ctx context.Context, houseID int64, statuses []domain.BookingStatus, assignment domain.BookingAssignment) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"house_id": houseID})

	if len(statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}
	selectBuilder = withAssignment(selectBuilder, assignment)

	return r.query(ctx, "FindByStatus", selectBuilder.OrderBy("id ASC"))
}

// FindInRange получает бронирования, занимающие хотя бы один день окна [Start, End]
func (r *Repository) FindInRange(ctx context.Context, filter domain.BookingRangeFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.LtOrEq{"dtstart": filter.End}).
		Where(squirrel.Gt{"dtend": filter.Start})

	if filter.HouseID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"house_id": *filter.HouseID})
	}
	if len(filter.RoomIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"room_id": filter.RoomIDs})
	}
	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	selectBuilder = withAssignment(selectBuilder, filter.Assignment)

	return r.query(ctx, "FindInRange", selectBuilder.OrderBy("id ASC"))
}

// FindConflicting получает бронирования на юнитах, пересекающиеся с диапазоном.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) FindConflicting(ctx context.Context, filter domain.BookingConflictFilter) ([]*domain.Booking, error) {
	if len(filter.UnitIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	// Полуоткрытые интервалы: new.dtstart < existing.dtend AND new.dtend > existing.dtstart
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"room_unit_id": filter.UnitIDs}).
		Where(squirrel.Lt{"dtstart": filter.Range.End}).
		Where(squirrel.Gt{"dtend": filter.Range.Start})

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if len(filter.ExcludeIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": filter.ExcludeIDs})
	}

	selectBuilder = selectBuilder.OrderBy("id ASC")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.query(ctx, "FindConflicting", selectBuilder)
}

// UpdateDates переносит бронирование на новые даты и выставляет статус
func (r *Repository) UpdateDates(ctx context.Context, id int64, dtStart, dtEnd types.Date, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateDates", psqlbuilder.Update(table).
		Set("dtstart", dtStart).
		Set("dtend", dtEnd).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// AssignRoom закрепляет за бронированием номер, выданный аллокатором
func (r *Repository) AssignRoom(ctx context.Context, id int64, roomID int64, status domain.BookingStatus) error {
	return r.update(ctx, "AssignRoom", psqlbuilder.Update(table).
		Set("room_id", roomID).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// Delete удаляет бронирование.
// Дочерние бронирования удаляет сервис, схема не использует каскад.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Delete")
}

func (r *Repository) update(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return checkAffected(result, op)
}

func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return bookings, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.HouseID,
		&booking.RoomTypeID,
		&booking.RoomID,
		&booking.RoomUnitID,
		&booking.UserID,
		&booking.ParentBookingID,
		&booking.Status,
		&booking.DtStart,
		&booking.DtEnd,
		&booking.Summary,
		&booking.Description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func withAssignment(builder squirrel.SelectBuilder, assignment domain.BookingAssignment) squirrel.SelectBuilder {
	switch assignment {
	case domain.AssignmentAssigned:
		return builder.Where(squirrel.NotEq{"room_unit_id": nil})
	case domain.AssignmentUnassigned:
		return builder.Where(squirrel.Eq{"room_unit_id": nil})
	default:
		return builder
	}
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
