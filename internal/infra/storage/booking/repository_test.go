package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllotmentService/pkg/ptr"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewRepository(dbmetrics.Wrap(db, nil))

	return db, mock, repo
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func date(s string) types.Date {
	return types.MustParseDate(s)
}

func TestCreate_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	b := &domain.Booking{
		HouseID:         1,
		RoomID:          ptr.Ptr(int64(2)),
		RoomUnitID:      ptr.Ptr(int64(3)),
		UserID:          42,
		ParentBookingID: ptr.Ptr(int64(9)),
		Status:          domain.StatusBlocked,
		DtStart:         date("2019-10-11"),
		DtEnd:           date("2019-10-12"),
	}

	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(int64(1), nil, int64(2), int64(3), int64(42), int64(9), "blocked",
			date("2019-10-11"), date("2019-10-12"), nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))

	created, err := repo.Create(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := bookingRows().AddRow(
		5, 1, nil, 2, 3, 42, nil, "confirmed",
		date("2019-10-11").Time(), date("2019-10-14").Time(), "Family stay", nil, time.Now(), time.Now(),
	)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	b, err := repo.GetByID(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)
	assert.Nil(t, b.RoomTypeID)
	require.NotNil(t, b.RoomUnitID)
	assert.Equal(t, int64(3), *b.RoomUnitID)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, "2019-10-11", b.DtStart.String())
	assert.Equal(t, 3, b.Nights())
	require.NotNil(t, b.Summary)
	assert.Equal(t, "Family stay", *b.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(bookingRows())

	_, err := repo.GetByID(context.Background(), 5)

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInRange_Filters(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := bookingRows().
		AddRow(1, 1, nil, 2, nil, 42, nil, "confirmed",
			date("2019-10-10").Time(), date("2019-10-12").Time(), nil, nil, time.Now(), time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE dtstart <= \$1 AND dtend > \$2 AND room_id IN \(\$3,\$4\) AND status IN \(\$5\) AND room_unit_id IS NULL ORDER BY id ASC`).
		WithArgs(date("2019-10-20"), date("2019-10-11"), int64(2), int64(3), "confirmed").
		WillReturnRows(rows)

	bookings, err := repo.FindInRange(context.Background(), domain.BookingRangeFilter{
		RoomIDs:    []int64{2, 3},
		Start:      date("2019-10-11"),
		End:        date("2019-10-20"),
		Statuses:   domain.AvailabilityStatuses,
		Assignment: domain.AssignmentUnassigned,
	})

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.False(t, bookings[0].IsAssigned())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByStatus(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := bookingRows().
		AddRow(1, 1, 7, nil, nil, 42, nil, "unallocated",
			date("2019-10-10").Time(), date("2019-10-12").Time(), nil, nil, time.Now(), time.Now()).
		AddRow(2, 1, 7, nil, nil, 43, nil, "unallocated",
			date("2019-10-11").Time(), date("2019-10-15").Time(), nil, nil, time.Now(), time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE house_id = \$1 AND status IN \(\$2\) ORDER BY id ASC`).
		WithArgs(int64(1), "unallocated").
		WillReturnRows(rows)

	bookings, err := repo.FindByStatus(context.Background(), 1,
		[]domain.BookingStatus{domain.StatusUnallocated}, domain.AssignmentAny)

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.NotNil(t, bookings[1].RoomTypeID)
	assert.Equal(t, int64(7), *bookings[1].RoomTypeID)
	assert.Equal(t, 4, bookings[1].Nights())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflicting_LocksRowsInTransaction(t *testing.T) {
	db, mock, _ := setupMockDB(t)
	defer db.Close()

	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE room_unit_id IN \(\$1,\$2\) AND dtstart < \$3 AND dtend > \$4 AND status IN \(\$5,\$6\) AND id NOT IN \(\$7\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(int64(3), int64(4), date("2019-10-12"), date("2019-10-11"), "confirmed", "blocked", int64(9)).
		WillReturnRows(bookingRows())
	mock.ExpectRollback()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	bookings, err := repo.FindConflicting(dbmetrics.WithTx(context.Background(), tx), domain.BookingConflictFilter{
		UnitIDs:    []int64{3, 4},
		Range:      domain.DateRange{Start: date("2019-10-11"), End: date("2019-10-12")},
		Statuses:   domain.OccupyingStatuses,
		ExcludeIDs: []int64{9},
	})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflicting_NoUnits(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	bookings, err := repo.FindConflicting(context.Background(), domain.BookingConflictFilter{})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("cancelled", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 5, domain.StatusCancelled)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDates_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET dtstart = \$1, dtend = \$2, status = \$3`).
		WithArgs(date("2019-10-15"), date("2019-10-16"), "blocked", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDates(context.Background(), 5, date("2019-10-15"), date("2019-10-16"), domain.StatusBlocked)

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRoom(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE bookings SET room_id = \$1, status = \$2`).
		WithArgs(int64(4), "confirmed", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AssignRoom(context.Background(), 5, 4, domain.StatusConfirmed)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ExecError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrConnDone)

	err := repo.Delete(context.Background(), 5)

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByHouse_RootsOnly(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	status := domain.StatusConfirmed
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE house_id = \$1 AND dtend > \$2 AND dtstart <= \$3 AND status = \$4 AND parent_booking_id IS NULL ORDER BY dtstart ASC, id ASC`).
		WithArgs(int64(1), date("2019-10-01"), date("2019-10-31"), "confirmed").
		WillReturnRows(bookingRows())

	start, end := date("2019-10-01"), date("2019-10-31")
	bookings, err := repo.GetByHouse(context.Background(), domain.HouseBookingsFilter{
		HouseID:   1,
		StartDate: &start,
		EndDate:   &end,
		Status:    &status,
		RootsOnly: true,
	})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
