// Package billing records payments against reservations and keeps the
// finance ledger that the reports are built from.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

// ErrInvalidAmount is returned for zero, negative or missing amounts.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInvalidKind is returned for finance kinds other than income or expense.
var ErrInvalidKind = errors.New("kind must be income or expense")

// Summary is the aggregate of the finance ledger over a date range.
type Summary struct {
	From         model.Day `json:"from"`
	To           model.Day `json:"to"`
	TotalIncome  float64   `json:"totalIncome"`
	TotalExpense float64   `json:"totalExpense"`
	Net          float64   `json:"net"`
}

// Service is the billing bridge.
type Service struct {
	store store.Store
	now   func() time.Time
	loc   *time.Location
}

// New creates a billing Service. A nil clock means time.Now; a nil loc means time.Local.
func New(st store.Store, clock func() time.Time, loc *time.Location) *Service {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: st, now: clock, loc: loc}
}

func (s *Service) today() model.Day {
	return model.DayOf(s.now().In(s.loc))
}

// PaymentDescription is the linkage text written on payment income.
func PaymentDescription(reservationID int64) string {
	return fmt.Sprintf("Payment for reservation #%d", reservationID)
}

// ClientSpendDescription is the text written on manual client income.
func ClientSpendDescription(clientID int64) string {
	return fmt.Sprintf("Manual client spend, client #%d", clientID)
}

// RecordPayment stores a payment and its income record in one transaction.
// The amount is not reconciled with the reservation's total price.
// A zero date means today.
func (s *Service) RecordPayment(ctx context.Context, reservationID int64, amount float64, date model.Day) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if date.IsZero() {
		date = s.today()
	}

	var payment model.Payment
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetReservation(ctx, reservationID); err != nil {
			return err
		}
		payment = model.Payment{ReservationID: reservationID, Amount: amount, PaymentDate: date}
		if err := tx.CreatePayment(ctx, &payment); err != nil {
			return err
		}
		pid := payment.ID
		return tx.CreateFinance(ctx, &model.FinanceRecord{
			Kind:        model.FinanceIncome,
			Amount:      amount,
			Date:        date,
			Description: PaymentDescription(reservationID),
			PaymentID:   &pid,
		})
	})
	if err != nil {
		return 0, err
	}
	return payment.ID, nil
}

// ListPayments returns the payments recorded against a reservation.
func (s *Service) ListPayments(ctx context.Context, reservationID int64) ([]model.Payment, error) {
	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, reservationID)
}

// RemovePayment deletes the payment and the income record linked to it.
func (s *Service) RemovePayment(ctx context.Context, paymentID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		p, err := tx.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		n, err := tx.DeleteFinanceForPayment(ctx, *p, PaymentDescription(p.ReservationID))
		if err != nil {
			return err
		}
		if n == 0 {
			log.Printf("Payment %d had no matching finance record", paymentID)
		}
		return tx.DeletePayment(ctx, paymentID)
	})
}

// RecordManualAdjustment appends an income or expense record that is not
// tied to a reservation. A zero date means today.
func (s *Service) RecordManualAdjustment(ctx context.Context, kind model.FinanceKind, amount float64, date model.Day, description string) (int64, error) {
	rec, err := s.manualRecord(kind, amount, date, description)
	if err != nil {
		return 0, err
	}
	if err := s.store.CreateFinance(ctx, rec); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// RecordClientSpend appends income attributed to a client, counted in the
// top-clients report.
func (s *Service) RecordClientSpend(ctx context.Context, clientID int64, amount float64, date model.Day) (int64, error) {
	rec, err := s.manualRecord(model.FinanceIncome, amount, date, ClientSpendDescription(clientID))
	if err != nil {
		return 0, err
	}
	rec.ClientID = &clientID
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetClient(ctx, clientID); err != nil {
			return err
		}
		return tx.CreateFinance(ctx, rec)
	})
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (s *Service) manualRecord(kind model.FinanceKind, amount float64, date model.Day, description string) (*model.FinanceRecord, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if date.IsZero() {
		date = s.today()
	}
	return &model.FinanceRecord{
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(description),
	}, nil
}

// SummarizeFinances totals the ledger over r; an empty ledger sums to zero.
func (s *Service) SummarizeFinances(ctx context.Context, r store.DateRange) (Summary, error) {
	totals, err := s.store.SumFinances(ctx, r)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		From:         r.From,
		To:           r.To,
		TotalIncome:  totals.Income,
		TotalExpense: totals.Expense,
		Net:          totals.Income - totals.Expense,
	}, nil
}

// ListFinances returns ledger rows, newest first.
func (s *Service) ListFinances(ctx context.Context, f store.FinanceFilter) ([]model.FinanceRecord, error) {
	return s.store.ListFinances(ctx, f)
}

// UpdateFinance edits a manual record. Payment-linked income follows its
// payment and cannot be edited directly.
func (s *Service) UpdateFinance(ctx context.Context, id int64, kind model.FinanceKind, amount float64, date model.Day, description string) error {
	rec, err := s.manualRecord(kind, amount, date, description)
	if err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.GetFinance(ctx, id)
		if err != nil {
			return err
		}
		if current.PaymentID != nil {
			return fmt.Errorf("finance record %d belongs to payment %d: %w", id, *current.PaymentID, store.ErrConflict)
		}
		rec.ID = id
		return tx.UpdateFinance(ctx, rec)
	})
}

// DeleteFinance removes one ledger row.
func (s *Service) DeleteFinance(ctx context.Context, id int64) error {
	return s.store.DeleteFinance(ctx, id)
}

// ClearAll wipes every payment and finance record.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.ClearFinances(ctx); err != nil {
		return err
	}
	log.Println("Finance ledger cleared")
	return nil
}

// TopClients ranks clients by money received from them.
func (s *Service) TopClients(ctx context.Context, limit int) ([]store.ClientSpend, error) {
	return s.store.TopClients(ctx, limit)
}

// TopRooms ranks rooms by payment income.
func (s *Service) TopRooms(ctx context.Context, limit int) ([]store.RoomIncome, error) {
	return s.store.TopRooms(ctx, limit)
}
