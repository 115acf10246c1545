package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AllotmentService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AllotmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AllotmentService/pkg/logger"
	"github.com/m04kA/SMC-AllotmentService/pkg/ptr"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

//	      C
//	    /   \
//	   A     B
type fixture struct {
	store   *memory.Store
	service *Service
	create  *createBooking.UseCase
	houseID int64
	roomID  int64
	unitC   int64
	unitA   int64
	unitB   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	house := store.AddHouse("Lake")
	room, err := store.AddRoom(house.ID, nil, "Family")
	require.NoError(t, err)

	c, err := store.AddUnit(room.ID, nil, true, "C")
	require.NoError(t, err)
	a, err := store.AddUnit(room.ID, ptr.Ptr(c.ID), false, "A")
	require.NoError(t, err)
	b, err := store.AddUnit(room.ID, ptr.Ptr(c.ID), false, "B")
	require.NoError(t, err)

	log := logger.NewNop()
	return &fixture{
		store:   store,
		service: NewService(store.Bookings(), store.Topology(), store.TxManager(), log),
		create:  createBooking.NewUseCase(store.Bookings(), store.Topology(), store.TxManager(), log),
		houseID: house.ID,
		roomID:  room.ID,
		unitC:   c.ID,
		unitA:   a.ID,
		unitB:   b.ID,
	}
}

func (f *fixture) book(t *testing.T, unitID int64, start, end string) *createBooking.Response {
	t.Helper()

	resp, err := f.create.Execute(context.Background(), &createBooking.Request{
		HouseID:    f.houseID,
		UserID:     7,
		RoomUnitID: ptr.Ptr(unitID),
		DtStart:    types.MustParseDate(start),
		DtEnd:      types.MustParseDate(end),
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) all(t *testing.T) []*domain.Booking {
	t.Helper()

	bookings, err := f.store.Bookings().FindByStatus(context.Background(), f.houseID, nil, domain.AssignmentAny)
	require.NoError(t, err)
	return bookings
}

func TestCancel_CascadesToChildren(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")

	resp, err := f.service.Cancel(context.Background(), root.ID)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.Len(t, resp.Children, 2)

	bookings := f.all(t)
	assert.Len(t, bookings, 3)
	for _, b := range bookings {
		assert.Equal(t, domain.StatusCancelled, b.Status)
	}
}

func TestCancel_FreesUnitForNewBookings(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")

	_, err := f.service.Cancel(context.Background(), root.ID)
	require.NoError(t, err)

	again := f.book(t, f.unitA, "2019-10-11", "2019-10-12")
	assert.Equal(t, string(domain.StatusConfirmed), again.Status)
}

func TestReschedule_MovesWholeTree(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")

	resp, err := f.service.Reschedule(context.Background(), root.ID, &models.RescheduleRequest{
		DtStart: types.MustParseDate("2019-10-12"),
		DtEnd:   types.MustParseDate("2019-10-13"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2019-10-12", resp.DtStart)
	assert.Equal(t, "2019-10-13", resp.DtEnd)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	bookings := f.all(t)
	require.Len(t, bookings, 3)
	for _, b := range bookings {
		assert.Equal(t, "2019-10-12", b.DtStart.String())
		assert.Equal(t, "2019-10-13", b.DtEnd.String())
		if b.ID == root.ID {
			assert.Equal(t, domain.StatusConfirmed, b.Status)
			continue
		}
		assert.Equal(t, domain.StatusBlocked, b.Status)
		assert.Equal(t, root.ID, *b.ParentBookingID)
	}
}

func TestReschedule_OverlappingOwnDatesIsAllowed(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-13")

	_, err := f.service.Reschedule(context.Background(), root.ID, &models.RescheduleRequest{
		DtStart: types.MustParseDate("2019-10-12"),
		DtEnd:   types.MustParseDate("2019-10-14"),
	})

	assert.NoError(t, err)
}

func TestReschedule_DatesUnavailable(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")
	f.book(t, f.unitC, "2019-10-12", "2019-10-13")

	_, err := f.service.Reschedule(context.Background(), root.ID, &models.RescheduleRequest{
		DtStart: types.MustParseDate("2019-10-12"),
		DtEnd:   types.MustParseDate("2019-10-13"),
	})

	assert.ErrorIs(t, err, domain.ErrDatesUnavailable)

	// Nothing written
	for _, b := range f.all(t) {
		if b.ID == root.ID || (b.ParentBookingID != nil && *b.ParentBookingID == root.ID) {
			assert.Equal(t, "2019-10-11", b.DtStart.String())
		}
	}
}

func TestReschedule_ConflictOnChildUnit(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")
	f.book(t, f.unitB, "2019-10-14", "2019-10-15")

	_, err := f.service.Reschedule(context.Background(), root.ID, &models.RescheduleRequest{
		DtStart: types.MustParseDate("2019-10-14"),
		DtEnd:   types.MustParseDate("2019-10-16"),
	})

	assert.ErrorIs(t, err, domain.ErrDatesUnavailable)
}

func TestReschedule_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")
	valid := &models.RescheduleRequest{
		DtStart: types.MustParseDate("2019-10-20"),
		DtEnd:   types.MustParseDate("2019-10-21"),
	}

	_, err := f.service.Reschedule(ctx, root.Children[0].ID, valid)
	assert.ErrorIs(t, err, ErrChildBooking)

	_, err = f.service.Reschedule(ctx, root.ID, &models.RescheduleRequest{DtStart: valid.DtEnd, DtEnd: valid.DtStart})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.Reschedule(ctx, 999, valid)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.service.Cancel(ctx, root.ID)
	require.NoError(t, err)
	_, err = f.service.Reschedule(ctx, root.ID, valid)
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")

	_, err := f.service.UpdateStatus(ctx, root.ID, &models.UpdateStatusRequest{Status: "unallocated"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.service.UpdateStatus(ctx, root.ID, &models.UpdateStatusRequest{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.service.UpdateStatus(ctx, root.Children[0].ID, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrChildBooking)

	resp, err := f.service.UpdateStatus(ctx, root.ID, &models.UpdateStatusRequest{Status: "overlap"})
	require.NoError(t, err)
	for _, child := range resp.Children {
		assert.Equal(t, string(domain.StatusOverlap), child.Status)
	}

	_, err = f.service.UpdateStatus(ctx, root.ID, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_ConfirmChecksConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.unitA, "2019-10-11", "2019-10-12")

	pending, err := f.store.Bookings().Create(ctx, &domain.Booking{
		HouseID:    f.houseID,
		RoomID:     ptr.Ptr(f.roomID),
		RoomUnitID: ptr.Ptr(f.unitC),
		UserID:     7,
		Status:     domain.StatusUnallocated,
		DtStart:    types.MustParseDate("2019-10-11"),
		DtEnd:      types.MustParseDate("2019-10-12"),
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, pending.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, domain.ErrDatesUnavailable)

	stored, err := f.store.Bookings().GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnallocated, stored.Status)
}

func TestUpdateStatus_ConfirmRequiresRoom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending, err := f.create.Execute(ctx, &createBooking.Request{
		HouseID:    f.houseID,
		UserID:     7,
		RoomTypeID: ptr.Ptr(int64(5)),
		DtStart:    types.MustParseDate("2019-10-11"),
		DtEnd:      types.MustParseDate("2019-10-12"),
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, pending.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrNotAllocated)
}

func TestDelete_RemovesTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")
	other := f.book(t, f.unitA, "2019-10-20", "2019-10-21")

	assert.ErrorIs(t, f.service.Delete(ctx, root.Children[0].ID), ErrChildBooking)
	require.NoError(t, f.service.Delete(ctx, root.ID))

	bookings := f.all(t)
	require.Len(t, bookings, 1)
	assert.Equal(t, other.ID, bookings[0].ID)

	assert.ErrorIs(t, f.service.Delete(ctx, root.ID), ErrBookingNotFound)
}

func TestGetByID_WithChildren(t *testing.T) {
	f := newFixture(t)
	root := f.book(t, f.unitC, "2019-10-11", "2019-10-12")

	resp, err := f.service.GetByID(context.Background(), root.ID)

	require.NoError(t, err)
	assert.Equal(t, root.ID, resp.ID)
	require.Len(t, resp.Children, 2)
	assert.Equal(t, f.unitA, *resp.Children[0].RoomUnitID)
	assert.Equal(t, f.unitB, *resp.Children[1].RoomUnitID)

	child, err := f.service.GetByID(context.Background(), root.Children[0].ID)
	require.NoError(t, err)
	assert.Equal(t, root.ID, *child.ParentBookingID)
}

func TestListHouseBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.unitC, "2019-10-11", "2019-10-12")
	late := f.book(t, f.unitA, "2019-10-20", "2019-10-21")

	all, err := f.service.ListHouseBookings(ctx, &models.ListHouseBookingsRequest{HouseID: f.houseID})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 4)

	from := types.MustParseDate("2019-10-15")
	roots, err := f.service.ListHouseBookings(ctx, &models.ListHouseBookingsRequest{
		HouseID:   f.houseID,
		StartDate: &from,
		RootsOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, roots.Bookings, 1)
	assert.Equal(t, late.ID, roots.Bookings[0].ID)

	_, err = f.service.ListHouseBookings(ctx, &models.ListHouseBookingsRequest{HouseID: f.houseID, Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
