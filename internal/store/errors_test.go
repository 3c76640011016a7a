package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestWrap(t *testing.T) {
	boom := errors.New("boom")

	testCases := []struct {
		name        string
		err         error
		notFound    bool
		conflict    bool
		persistence bool
	}{
		{name: "nil stays nil"},
		{name: "record not found", err: gorm.ErrRecordNotFound, notFound: true},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey, conflict: true},
		{name: "foreign key", err: gorm.ErrForeignKeyViolated, conflict: true},
		{name: "already classified", err: conflictf("taken"), conflict: true},
		{name: "driver failure", err: boom, persistence: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := wrap("op", tc.err)
			if tc.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tc.notFound, errors.Is(got, ErrNotFound))
			assert.Equal(t, tc.conflict, errors.Is(got, ErrConflict))
			assert.Equal(t, tc.persistence, IsPersistence(got))
		})
	}
}

func TestPersistenceError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := wrap("create payment", inner)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "create payment", pe.Op)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "create payment")
}

func TestGormStore_GetRoom_NotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "rooms" WHERE "rooms"."id" = $1`)).
		WithArgs(42, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.GetRoom(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_OverlappingReservations_DriverError(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reservations" WHERE room_id = $1 AND checkin_date < $2 AND checkout_date > $3`)).
		WithArgs(7, "2024-05-05", "2024-05-01").
		WillReturnError(errors.New("connection reset"))

	_, err := st.OverlappingReservations(context.Background(), 7,
		model.NewDay(2024, 5, 1), model.NewDay(2024, 5, 5))
	assert.True(t, IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_WithTx_RollsBackOnError(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "payments" WHERE "payments"."id" = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	failure := errors.New("finance write failed")
	err := st.WithTx(context.Background(), func(tx Store) error {
		require.NoError(t, tx.DeletePayment(context.Background(), 3))
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}
