// Package events publishes reservation lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"

	"hotel-frontdesk-backend/internal/model"
)

// Type names a reservation event; it doubles as the AMQP message type.
type Type string

const (
	ReservationCreated   Type = "reservation.created"
	ReservationCancelled Type = "reservation.cancelled"
)

// ReservationEvent describes a committed change to the reservation ledger.
type ReservationEvent struct {
	Type          Type      `json:"type"`
	ReservationID int64     `json:"reservationId"`
	Reference     string    `json:"reference,omitempty"`
	RoomID        int64     `json:"roomId"`
	OccupantIDs   []int64   `json:"occupantIds,omitempty"`
	Checkin       model.Day `json:"checkin"`
	Checkout      model.Day `json:"checkout"`
	TotalPrice    float64   `json:"totalPrice"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewReservationEvent builds an event from a persisted reservation.
func NewReservationEvent(t Type, r model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          t,
		ReservationID: r.ID,
		Reference:     r.Reference,
		RoomID:        r.RoomID,
		OccupantIDs:   r.OccupantIDs(),
		Checkin:       r.CheckinDate,
		Checkout:      r.CheckoutDate,
		TotalPrice:    r.TotalPrice,
		OccurredAt:    at.UTC(),
	}
}

// Publisher delivers reservation events. Implementations must be safe for
// concurrent use. Callers treat publish errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev ReservationEvent) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, ReservationEvent) error { return nil }
func (Noop) Close() error                                    { return nil }
