// Package storetest provides throwaway databases and fixtures for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/db"
	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

// NewDB opens an isolated in-memory sqlite database with the full schema.
// The database lives until the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig("silent"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

// NewStore returns a Store over a fresh NewDB.
func NewStore(t testing.TB) store.Store {
	t.Helper()
	return store.NewGormStore(NewDB(t))
}

// Room creates a free room in the "Standard" class of the "Main" building.
func Room(t testing.TB, st store.Store, number string, capacity int, price float64) model.Room {
	t.Helper()
	ctx := context.Background()
	room := model.Room{
		Number:     number,
		Capacity:   capacity,
		Price:      price,
		Floor:      1,
		ClassID:    ensureClass(t, st, "Standard"),
		BuildingID: ensureBuilding(t, st, "Main"),
		Status:     model.RoomFree,
	}
	require.NoError(t, st.CreateRoom(ctx, &room, nil))
	return room
}

// Client registers a client with a passport derived from the name.
func Client(t testing.TB, st store.Store, name string) model.Client {
	t.Helper()
	c := model.Client{
		FullName:  name,
		Contact:   name + "@example.com",
		Passport:  "P-" + uuid.NewString()[:8],
		Birthdate: model.NewDay(1990, 1, 1),
	}
	require.NoError(t, st.CreateClient(context.Background(), &c))
	return c
}

// Reservation inserts a reservation directly, bypassing the engine.
func Reservation(t testing.TB, st store.Store, room model.Room, checkin, checkout model.Day, clients ...model.Client) model.Reservation {
	t.Helper()
	r := model.Reservation{
		Reference:    uuid.NewString(),
		RoomID:       room.ID,
		CheckinDate:  checkin,
		CheckoutDate: checkout,
		TotalPrice:   float64(checkin.DaysUntil(checkout)) * room.Price,
	}
	for _, c := range clients {
		r.Occupants = append(r.Occupants, model.ReservationOccupant{ClientID: c.ID})
	}
	require.NoError(t, st.CreateReservation(context.Background(), &r))
	return r
}

func ensureClass(t testing.TB, st store.Store, name string) int64 {
	classes, err := st.ListClasses(context.Background())
	require.NoError(t, err)
	for _, c := range classes {
		if c.Name == name {
			return c.ID
		}
	}
	c := model.RoomClass{Name: name}
	require.NoError(t, st.SaveClass(context.Background(), &c))
	return c.ID
}

func ensureBuilding(t testing.TB, st store.Store, name string) int64 {
	buildings, err := st.ListBuildings(context.Background())
	require.NoError(t, err)
	for _, b := range buildings {
		if b.Name == name {
			return b.ID
		}
	}
	b := model.Building{Name: name}
	require.NoError(t, st.SaveBuilding(context.Background(), &b))
	return b.ID
}
