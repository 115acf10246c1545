package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/booking"
	topologyRepo "github.com/m04kA/SMC-AllotmentService/internal/infra/storage/topology"
	"github.com/m04kA/SMC-AllotmentService/pkg/ptr"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

func newBooking(houseID, unitID int64, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		HouseID:    houseID,
		RoomUnitID: ptr.Ptr(unitID),
		UserID:     1,
		Status:     status,
		DtStart:    types.MustParseDate(start),
		DtEnd:      types.MustParseDate(end),
	}
}

func TestBookingRepository_FindConflicting(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := store.Bookings()

	first, err := repo.Create(ctx, newBooking(1, 10, "2019-10-11", "2019-10-13", domain.StatusConfirmed))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, 10, "2019-10-13", "2019-10-14", domain.StatusCancelled))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, 11, "2019-10-12", "2019-10-14", domain.StatusBlocked))
	require.NoError(t, err)

	found, err := repo.FindConflicting(ctx, domain.BookingConflictFilter{
		UnitIDs:  []int64{10, 11},
		Range:    domain.DateRange{Start: types.MustParseDate("2019-10-12"), End: types.MustParseDate("2019-10-13")},
		Statuses: domain.OccupyingStatuses,
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)

	// Checkout day does not conflict
	found, err = repo.FindConflicting(ctx, domain.BookingConflictFilter{
		UnitIDs:    []int64{10},
		Range:      domain.DateRange{Start: types.MustParseDate("2019-10-13"), End: types.MustParseDate("2019-10-15")},
		Statuses:   domain.OccupyingStatuses,
		ExcludeIDs: []int64{first.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestBookingRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := New().Bookings()

	created, err := repo.Create(ctx, newBooking(1, 10, "2019-10-11", "2019-10-12", domain.StatusConfirmed))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Status = domain.StatusCancelled

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, again.Status)
}

func TestBookingRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := New().Bookings()

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 42, domain.StatusCancelled), bookingRepo.ErrBookingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 42), bookingRepo.ErrBookingNotFound)
}

func TestBookingRepository_GetByHouse(t *testing.T) {
	ctx := context.Background()
	repo := New().Bookings()

	late, _ := repo.Create(ctx, newBooking(1, 10, "2019-10-15", "2019-10-16", domain.StatusConfirmed))
	early, _ := repo.Create(ctx, newBooking(1, 10, "2019-10-11", "2019-10-12", domain.StatusConfirmed))
	child := newBooking(1, 11, "2019-10-11", "2019-10-12", domain.StatusBlocked)
	child.ParentBookingID = ptr.Ptr(early.ID)
	_, _ = repo.Create(ctx, child)
	_, _ = repo.Create(ctx, newBooking(2, 20, "2019-10-11", "2019-10-12", domain.StatusConfirmed))

	all, err := repo.GetByHouse(ctx, domain.HouseBookingsFilter{HouseID: 1, RootsOnly: true})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)

	from := types.MustParseDate("2019-10-12")
	windowed, err := repo.GetByHouse(ctx, domain.HouseBookingsFilter{HouseID: 1, StartDate: &from})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, late.ID, windowed[0].ID)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := store.Bookings()
	tx := store.TxManager()

	errBoom := errors.New("boom")
	err := tx.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, newBooking(1, 10, "2019-10-11", "2019-10-12", domain.StatusConfirmed)); err != nil {
			return err
		}
		// Nested call joins the outer transaction
		return tx.Do(txCtx, func(context.Context) error { return errBoom })
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, store.BookingCount())

	created, err := repo.Create(ctx, newBooking(1, 10, "2019-10-11", "2019-10-12", domain.StatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestTxManager_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := New()
	repo := store.Bookings()

	assert.Panics(t, func() {
		_ = store.TxManager().Do(ctx, func(txCtx context.Context) error {
			_, _ = repo.Create(txCtx, newBooking(1, 10, "2019-10-11", "2019-10-12", domain.StatusConfirmed))
			panic("boom")
		})
	})
	assert.Equal(t, 0, store.BookingCount())
}

func TestTopologyRepository(t *testing.T) {
	ctx := context.Background()
	store := New()
	house := store.AddHouse("Lake")

	family, err := store.AddRoom(house.ID, ptr.Ptr(int64(1)), "Family")
	require.NoError(t, err)
	deluxe, err := store.AddRoom(house.ID, nil, "Deluxe")
	require.NoError(t, err)

	parent, err := store.AddUnit(family.ID, nil, true, "C")
	require.NoError(t, err)
	_, err = store.AddUnit(deluxe.ID, ptr.Ptr(parent.ID), false, "A")
	require.NoError(t, err)
	_, err = store.AddUnit(deluxe.ID, ptr.Ptr(parent.ID), false, "B")
	require.NoError(t, err)

	repo := store.Topology()

	topo, err := repo.GetHouseTopology(ctx, house.ID)
	require.NoError(t, err)
	assert.Len(t, topo.ChildrenOf(parent.ID), 2)
	assert.Equal(t, []int64{deluxe.ID}, topo.SubRoomIDs(family.ID))

	details, err := repo.GetRoomDetails(ctx, deluxe.ID)
	require.NoError(t, err)
	assert.Len(t, details.Units, 2)
	assert.Len(t, details.ParentUnits, 1)

	_, err = repo.GetRoom(ctx, 99)
	assert.ErrorIs(t, err, topologyRepo.ErrRoomNotFound)

	_, err = store.AddUnit(deluxe.ID, ptr.Ptr(int64(99)), false, "X")
	assert.ErrorIs(t, err, topologyRepo.ErrUnitNotFound)
}
