package store

import (
	"context"

	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	CatalogStore
	RegistryStore
	ReservationStore
	BillingStore
	UserStore
	SubscriptionStore

	// DB exposes the underlying handle (bound to the transaction inside WithTx).
	DB() *gorm.DB

	// WithTx runs fn in a single database transaction. The Store passed to fn
	// is bound to that transaction; fn must not use the outer Store.
	// Returning an error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// CatalogStore covers rooms and their reference data.
type CatalogStore interface {
	ListClasses(ctx context.Context) ([]model.RoomClass, error)
	SaveClass(ctx context.Context, c *model.RoomClass) error
	DeleteClass(ctx context.Context, id int64) error

	ListBuildings(ctx context.Context) ([]model.Building, error)
	SaveBuilding(ctx context.Context, b *model.Building) error
	DeleteBuilding(ctx context.Context, id int64) error

	ListOptions(ctx context.Context) ([]model.RoomOption, error)
	CreateOption(ctx context.Context, o *model.RoomOption) error
	DeleteOption(ctx context.Context, id int64) error

	ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error)
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	LockRoom(ctx context.Context, id int64) (*model.Room, error)
	CreateRoom(ctx context.Context, r *model.Room, optionIDs []int64) error
	UpdateRoom(ctx context.Context, r *model.Room, optionIDs []int64) error
	SetRoomStatus(ctx context.Context, id int64, status model.RoomStatus) error
	DeleteRoom(ctx context.Context, id int64, today model.Day) error
}

// RegistryStore covers clients and the blacklist.
type RegistryStore interface {
	ListClients(ctx context.Context, f ClientFilter) ([]model.Client, error)
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	CreateClient(ctx context.Context, c *model.Client) error
	UpdateClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, id int64, today model.Day) error
	ExistingClients(ctx context.Context, ids []int64) (map[int64]bool, error)

	ListBlacklist(ctx context.Context, search string) ([]model.BlacklistEntry, error)
	AddToBlacklist(ctx context.Context, clientID int64, reason string) error
	RemoveFromBlacklist(ctx context.Context, clientID int64) error
	BlacklistedAmong(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// ReservationStore covers the reservation ledger.
type ReservationStore interface {
	ReservationsForRoom(ctx context.Context, roomID int64) ([]model.Reservation, error)
	OverlappingReservations(ctx context.Context, roomID int64, checkin, checkout model.Day) ([]model.Reservation, error)
	FindReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	DeleteReservation(ctx context.Context, id int64) error
}

// BillingStore covers payments and the finance ledger.
type BillingStore interface {
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id int64) (*model.Payment, error)
	ListPayments(ctx context.Context, reservationID int64) ([]model.Payment, error)
	DeletePayment(ctx context.Context, id int64) error

	CreateFinance(ctx context.Context, f *model.FinanceRecord) error
	GetFinance(ctx context.Context, id int64) (*model.FinanceRecord, error)
	UpdateFinance(ctx context.Context, f *model.FinanceRecord) error
	DeleteFinance(ctx context.Context, id int64) error
	DeleteFinanceForPayment(ctx context.Context, p model.Payment, legacyDescription string) (int64, error)
	ListFinances(ctx context.Context, f FinanceFilter) ([]model.FinanceRecord, error)
	SumFinances(ctx context.Context, r DateRange) (FinanceTotals, error)
	ClearFinances(ctx context.Context) error

	TopClients(ctx context.Context, limit int) ([]ClientSpend, error)
	TopRooms(ctx context.Context, limit int) ([]RoomIncome, error)
}

// UserStore covers operator accounts.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	DeleteUser(ctx context.Context, id int64) error
}

// SubscriptionStore covers staff web-push subscriptions.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// q returns a session of the store's handle bound to ctx.
func (s *gormStore) q(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
