package model

import "time"

// FinanceKind classifies a ledger record.
type FinanceKind string

const (
	FinanceIncome  FinanceKind = "income"
	FinanceExpense FinanceKind = "expense"
)

// Valid reports whether k is income or expense.
func (k FinanceKind) Valid() bool {
	return k == FinanceIncome || k == FinanceExpense
}

// Payment is money received against a reservation. Several payments may
// reference one reservation and their sum is not reconciled with the
// reservation's total price.
type Payment struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	ReservationID int64     `gorm:"index;not null" json:"reservationId"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PaymentDate   Day       `gorm:"size:10;not null" json:"paymentDate"`
	CreatedAt     time.Time `json:"-"`
}

// FinanceRecord is an append-only ledger row feeding the finance reports.
// Payment-linked income carries PaymentID; manual client spend carries ClientID.
type FinanceRecord struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	Kind        FinanceKind `gorm:"column:type;size:16;not null;index" json:"kind"`
	Amount      float64     `gorm:"not null" json:"amount"`
	Date        Day         `gorm:"size:10;not null;index" json:"date"`
	Description string      `gorm:"size:1024" json:"description"`
	PaymentID   *int64      `gorm:"uniqueIndex" json:"paymentId,omitempty"`
	ClientID    *int64      `gorm:"index" json:"clientId,omitempty"`
	CreatedAt   time.Time   `json:"-"`
}

// TableName keeps the table name of the front-desk schema.
func (FinanceRecord) TableName() string { return "finances" }
