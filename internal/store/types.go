package store

import "hotel-frontdesk-backend/internal/model"

// RoomFilter narrows ListRooms. Zero fields are ignored.
type RoomFilter struct {
	Number     string
	ClassID    int64
	ClassName  string
	BuildingID int64
	Building   string
	Status     model.RoomStatus
	Places     int
	Floor      int
}

// ClientFilter narrows ListClients. Search matches name, passport or contact.
type ClientFilter struct {
	Search string
}

// ReservationFilter narrows FindReservations. Zero fields are ignored.
// From/To select reservations whose stay intersects [From, To).
type ReservationFilter struct {
	RoomID   int64
	ClientID int64
	From     model.Day
	To       model.Day
	Search   string // room number or occupant name
	Newest   bool   // order by checkin descending
}

// FinanceFilter narrows ListFinances. Zero fields are ignored.
type FinanceFilter struct {
	Kind        model.FinanceKind
	Range       DateRange
	Description string
	Amount      *float64
}

// DateRange is an inclusive range of days. A zero bound is open.
type DateRange struct {
	From model.Day
	To   model.Day
}

// FinanceTotals are the aggregated ledger sums.
type FinanceTotals struct {
	Income  float64
	Expense float64
}

// ClientSpend is one row of the top-clients report.
type ClientSpend struct {
	ClientID   int64   `json:"clientId"`
	ClientName string  `json:"clientName"`
	Total      float64 `json:"total"`
}

// RoomIncome is one row of the top-rooms report.
type RoomIncome struct {
	RoomID     int64   `json:"roomId"`
	RoomNumber string  `json:"roomNumber"`
	Total      float64 `json:"total"`
}
