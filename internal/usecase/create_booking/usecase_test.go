package create_booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllotmentService/internal/domain"
	"github.com/m04kA/SMC-AllotmentService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AllotmentService/pkg/logger"
	"github.com/m04kA/SMC-AllotmentService/pkg/ptr"
	"github.com/m04kA/SMC-AllotmentService/pkg/types"
)

//	      C
//	    /   \
//	   A     B
type fixture struct {
	store   *memory.Store
	uc      *UseCase
	houseID int64
	roomID  int64
	typeID  int64
	unitC   int64
	unitA   int64
	unitB   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	house := store.AddHouse("Lake")

	typeID := int64(1)
	room, err := store.AddRoom(house.ID, &typeID, "Family")
	require.NoError(t, err)

	c, err := store.AddUnit(room.ID, nil, true, "C")
	require.NoError(t, err)
	a, err := store.AddUnit(room.ID, ptr.Ptr(c.ID), false, "A")
	require.NoError(t, err)
	b, err := store.AddUnit(room.ID, ptr.Ptr(c.ID), false, "B")
	require.NoError(t, err)

	uc := NewUseCase(store.Bookings(), store.Topology(), store.TxManager(), logger.NewNop())

	return &fixture{
		store:   store,
		uc:      uc,
		houseID: house.ID,
		roomID:  room.ID,
		typeID:  typeID,
		unitC:   c.ID,
		unitA:   a.ID,
		unitB:   b.ID,
	}
}

func (f *fixture) book(t *testing.T, unitID int64) *Response {
	t.Helper()

	resp, err := f.uc.Execute(context.Background(), &Request{
		HouseID:    f.houseID,
		UserID:     7,
		RoomUnitID: ptr.Ptr(unitID),
		DtStart:    types.MustParseDate("2019-10-11"),
		DtEnd:      types.MustParseDate("2019-10-12"),
	})
	require.NoError(t, err)
	return resp
}

func statusesByUnit(t *testing.T, f *fixture) map[int64][]domain.BookingStatus {
	t.Helper()

	all, err := f.store.Bookings().FindByStatus(context.Background(), f.houseID, nil, domain.AssignmentAny)
	require.NoError(t, err)

	out := make(map[int64][]domain.BookingStatus)
	for _, b := range all {
		out[*b.RoomUnitID] = append(out[*b.RoomUnitID], b.Status)
	}
	return out
}

func TestExecute_VirtualUnitBlocksChildren(t *testing.T) {
	f := newFixture(t)

	resp := f.book(t, f.unitC)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 3, resp.Count())
	assert.Equal(t, 3, f.store.BookingCount())
	require.Len(t, resp.Children, 2)
	for _, child := range resp.Children {
		assert.Equal(t, string(domain.StatusBlocked), child.Status)
		assert.Equal(t, resp.ID, *child.ParentBookingID)
		assert.Equal(t, resp.DtStart, child.DtStart)
		assert.Equal(t, resp.DtEnd, child.DtEnd)
		assert.Equal(t, resp.UserID, child.UserID)
	}
	assert.Equal(t, f.unitA, *resp.Children[0].RoomUnitID)
	assert.Equal(t, f.unitB, *resp.Children[1].RoomUnitID)
}

func TestExecute_LeafUnitDoesNotBlockSiblings(t *testing.T) {
	f := newFixture(t)

	resp := f.book(t, f.unitA)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Empty(t, resp.Children)
	assert.Equal(t, 1, f.store.BookingCount())
}

func TestExecute_SecondVirtualBookingOverlaps(t *testing.T) {
	f := newFixture(t)

	f.book(t, f.unitC)
	second := f.book(t, f.unitC)

	assert.Equal(t, string(domain.StatusOverlap), second.Status)
	for _, child := range second.Children {
		assert.Equal(t, string(domain.StatusOverlap), child.Status)
	}
	assert.Equal(t, 6, f.store.BookingCount())

	byUnit := statusesByUnit(t, f)
	for _, unitID := range []int64{f.unitA, f.unitB, f.unitC} {
		assert.Contains(t, byUnit[unitID], domain.StatusOverlap)
	}
}

func TestExecute_ParentOverlapsWhenChildTaken(t *testing.T) {
	f := newFixture(t)

	f.book(t, f.unitA)
	resp := f.book(t, f.unitC)

	assert.Equal(t, string(domain.StatusOverlap), resp.Status)
	assert.Equal(t, 4, f.store.BookingCount())

	byUnit := statusesByUnit(t, f)
	assert.ElementsMatch(t, []domain.BookingStatus{domain.StatusConfirmed, domain.StatusOverlap}, byUnit[f.unitA])
	assert.Equal(t, []domain.BookingStatus{domain.StatusOverlap}, byUnit[f.unitB])
	assert.Equal(t, []domain.BookingStatus{domain.StatusOverlap}, byUnit[f.unitC])
}

func TestExecute_AdjacentDatesDoNotOverlap(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.unitC)

	resp, err := f.uc.Execute(context.Background(), &Request{
		HouseID:    f.houseID,
		UserID:     7,
		RoomUnitID: ptr.Ptr(f.unitC),
		DtStart:    types.MustParseDate("2019-10-12"),
		DtEnd:      types.MustParseDate("2019-10-13"),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_RoomTypeOnlyWaitsForAllocation(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		HouseID:    f.houseID,
		UserID:     7,
		RoomTypeID: ptr.Ptr(f.typeID),
		DtStart:    types.MustParseDate("2019-10-11"),
		DtEnd:      types.MustParseDate("2019-10-12"),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusUnallocated), resp.Status)
	assert.Nil(t, resp.RoomID)
	assert.Empty(t, resp.Children)
}

func TestExecute_ResolvesRoomFromUnit(t *testing.T) {
	f := newFixture(t)

	resp := f.book(t, f.unitB)

	require.NotNil(t, resp.RoomID)
	assert.Equal(t, f.roomID, *resp.RoomID)
	require.NotNil(t, resp.RoomTypeID)
	assert.Equal(t, f.typeID, *resp.RoomTypeID)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start, end := types.MustParseDate("2019-10-11"), types.MustParseDate("2019-10-12")

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{
			name: "no target",
			req:  &Request{HouseID: f.houseID, UserID: 1, DtStart: start, DtEnd: end},
			want: ErrInvalidInput,
		},
		{
			name: "empty range",
			req:  &Request{HouseID: f.houseID, UserID: 1, RoomUnitID: ptr.Ptr(f.unitA), DtStart: start, DtEnd: start},
			want: ErrInvalidInput,
		},
		{
			name: "unknown house",
			req:  &Request{HouseID: 99, UserID: 1, RoomUnitID: ptr.Ptr(f.unitA), DtStart: start, DtEnd: end},
			want: ErrHouseNotFound,
		},
		{
			name: "unknown unit",
			req:  &Request{HouseID: f.houseID, UserID: 1, RoomUnitID: ptr.Ptr(int64(99)), DtStart: start, DtEnd: end},
			want: ErrUnitNotFound,
		},
		{
			name: "unknown room",
			req:  &Request{HouseID: f.houseID, UserID: 1, RoomID: ptr.Ptr(int64(99)), DtStart: start, DtEnd: end},
			want: ErrRoomNotFound,
		},
		{
			name: "unit of another room",
			req:  &Request{HouseID: f.houseID, UserID: 1, RoomID: ptr.Ptr(int64(99)), RoomUnitID: ptr.Ptr(f.unitA), DtStart: start, DtEnd: end},
			want: domain.ErrInvalidTopology,
		},
		{
			name: "room type mismatch",
			req:  &Request{HouseID: f.houseID, UserID: 1, RoomTypeID: ptr.Ptr(int64(2)), RoomID: ptr.Ptr(f.roomID), DtStart: start, DtEnd: end},
			want: domain.ErrInvalidTopology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, f.store.BookingCount())
}
