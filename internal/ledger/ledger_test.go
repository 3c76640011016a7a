package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
	"hotel-frontdesk-backend/internal/store/storetest"
)

func d(m time.Month, day int) model.Day { return model.NewDay(2024, m, day) }

func TestDeriveStatus(t *testing.T) {
	today := d(6, 2)

	testCases := []struct {
		name     string
		checkin  model.Day
		checkout model.Day
		want     Status
	}{
		{"in progress", d(6, 1), d(6, 5), Active},
		{"starts later", d(6, 5), d(6, 10), Upcoming},
		{"ended", d(5, 1), d(5, 5), Completed},
		{"starts today", d(6, 2), d(6, 4), Active},
		{"checkout today", d(5, 30), d(6, 2), Active},
		{"checkout yesterday", d(5, 30), d(6, 1), Completed},
		{"starts tomorrow", d(6, 3), d(6, 4), Upcoming},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := model.Reservation{CheckinDate: tc.checkin, CheckoutDate: tc.checkout}
			assert.Equal(t, tc.want, DeriveStatus(r, today))
			assert.Equal(t, tc.want, DeriveStatus(r, today), "derivation is repeatable")
		})
	}
}

func newLedger(t *testing.T) (*Ledger, store.Store) {
	st := storetest.NewStore(t)
	now := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	return New(st, func() time.Time { return now }, time.UTC), st
}

func TestLedger_ListForRoom(t *testing.T) {
	ctx := context.Background()
	l, st := newLedger(t)
	room := storetest.Room(t, st, "101", 2, 1000)
	guest := storetest.Client(t, st, "Guest")
	storetest.Reservation(t, st, room, d(6, 5), d(6, 10), guest)
	storetest.Reservation(t, st, room, d(5, 1), d(5, 5), guest)
	storetest.Reservation(t, st, room, d(6, 1), d(6, 5), guest)

	entries, err := l.ListForRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, d(5, 1), entries[0].CheckinDate)
	assert.Equal(t, Completed, entries[0].Status)
	assert.Equal(t, d(6, 1), entries[1].CheckinDate)
	assert.Equal(t, Active, entries[1].Status)
	assert.Equal(t, d(6, 5), entries[2].CheckinDate)
	assert.Equal(t, Upcoming, entries[2].Status)

	_, err = l.ListForRoom(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLedger_ListForClient(t *testing.T) {
	ctx := context.Background()
	l, st := newLedger(t)
	room := storetest.Room(t, st, "201", 2, 1000)
	anna := storetest.Client(t, st, "Anna")
	boris := storetest.Client(t, st, "Boris")
	storetest.Reservation(t, st, room, d(5, 1), d(5, 5), anna)
	storetest.Reservation(t, st, room, d(6, 5), d(6, 10), anna, boris)

	entries, err := l.ListForClient(ctx, anna.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Upcoming, entries[0].Status)
	assert.Equal(t, Completed, entries[1].Status)
	require.NotNil(t, entries[0].Room)
	assert.Equal(t, "201", entries[0].Room.Number)

	entries, err = l.ListForClient(ctx, boris.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = l.ListForClient(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLedger_ListReservations_ByStatus(t *testing.T) {
	ctx := context.Background()
	l, st := newLedger(t)
	room := storetest.Room(t, st, "301", 2, 1000)
	guest := storetest.Client(t, st, "Guest")
	storetest.Reservation(t, st, room, d(5, 1), d(5, 5), guest)
	storetest.Reservation(t, st, room, d(6, 1), d(6, 5), guest)

	all, err := l.ListReservations(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := l.ListReservations(ctx, Filter{Status: Active})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, d(6, 1), active[0].CheckinDate)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("active")
	assert.True(t, ok)
	assert.Equal(t, Active, s)
	_, ok = ParseStatus("cancelled")
	assert.False(t, ok)
}
