// Package engine decides whether rooms can be booked and commits bookings
// without ever letting two reservations of one room overlap.
package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"hotel-frontdesk-backend/internal/events"
	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

// State is the booking state of a room for a date range.
type State string

const (
	Free        State = "Free"
	Occupied    State = "Occupied"
	Unavailable State = "Unavailable"
)

// Availability is the result of checking one room for a date range.
// Reason carries the maintenance status when the room is Unavailable;
// Conflicts lists the overlapping reservations when it is Occupied.
type Availability struct {
	State     State   `json:"state"`
	Reason    string  `json:"reason,omitempty"`
	Conflicts []int64 `json:"conflicts,omitempty"`
}

// RoomAvailability pairs a room with its availability on the board.
type RoomAvailability struct {
	Room         model.Room   `json:"room"`
	Availability Availability `json:"availability"`
}

// ReservationRequest asks for one room for [Checkin, Checkout).
type ReservationRequest struct {
	RoomID      int64
	OccupantIDs []int64
	Checkin     model.Day
	Checkout    model.Day
}

// Booking is the outcome of a successful CreateReservation. Skipped holds
// the blacklisted occupants that were left out.
type Booking struct {
	ReservationID int64   `json:"reservationId"`
	Reference     string  `json:"reference"`
	BookedCount   int     `json:"bookedCount"`
	TotalPrice    float64 `json:"totalPrice"`
	Skipped       []int64 `json:"skipped"`
}

// Engine is the availability and booking service.
type Engine struct {
	store     store.Store
	now       func() time.Time
	loc       *time.Location
	publisher events.Publisher
	locks     *roomLocks
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the hotel time zone that defines "today".
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithPublisher sets where committed bookings and cancellations are announced.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// New creates an Engine over st.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		now:       time.Now,
		loc:       time.Local,
		publisher: events.Noop{},
		locks:     newRoomLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the current calendar day in the hotel's time zone.
func (e *Engine) Today() model.Day {
	return model.DayOf(e.now().In(e.loc))
}

// CheckAvailability reports whether roomID can be booked for [checkin, checkout).
func (e *Engine) CheckAvailability(ctx context.Context, roomID int64, checkin, checkout model.Day) (Availability, error) {
	if err := validateRange(checkin, checkout); err != nil {
		return Availability{}, err
	}
	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return Availability{}, err
	}
	return evaluate(ctx, e.store, room, checkin, checkout)
}

// Board checks every room matching filter for the same date range.
func (e *Engine) Board(ctx context.Context, checkin, checkout model.Day, filter store.RoomFilter) ([]RoomAvailability, error) {
	if err := validateRange(checkin, checkout); err != nil {
		return nil, err
	}
	rooms, err := e.store.ListRooms(ctx, filter)
	if err != nil {
		return nil, err
	}
	board := make([]RoomAvailability, 0, len(rooms))
	for i := range rooms {
		a, err := evaluate(ctx, e.store, &rooms[i], checkin, checkout)
		if err != nil {
			return nil, err
		}
		board = append(board, RoomAvailability{Room: rooms[i], Availability: a})
	}
	return board, nil
}

// evaluate is the single availability rule used by reads and by booking.
func evaluate(ctx context.Context, st store.Store, room *model.Room, checkin, checkout model.Day) (Availability, error) {
	if room.Status.Blocked() {
		return Availability{State: Unavailable, Reason: string(room.Status)}, nil
	}
	overlapping, err := st.OverlappingReservations(ctx, room.ID, checkin, checkout)
	if err != nil {
		return Availability{}, err
	}
	if len(overlapping) > 0 {
		ids := make([]int64, 0, len(overlapping))
		for _, r := range overlapping {
			ids = append(ids, r.ID)
		}
		return Availability{State: Occupied, Conflicts: ids}, nil
	}
	return Availability{State: Free}, nil
}

// CreateReservation books the room for the requested occupants. Date checks
// run first; everything from loading the room to marking it Occupied runs
// under the room's lock inside one transaction.
func (e *Engine) CreateReservation(ctx context.Context, req ReservationRequest) (*Booking, error) {
	if err := validateRange(req.Checkin, req.Checkout); err != nil {
		return nil, err
	}
	if today := e.Today(); req.Checkin.Before(today) {
		return nil, invalid("checkin", ErrInvalidDateRange, "check-in %s is before today %s", req.Checkin, today)
	}
	occupants := dedupe(req.OccupantIDs)
	if len(occupants) == 0 {
		return nil, invalid("occupants", ErrCapacityExceeded, "at least one occupant is required")
	}

	unlock := e.locks.lock(req.RoomID)
	defer unlock()

	var (
		booking     Booking
		reservation model.Reservation
	)
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		room, err := tx.LockRoom(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if len(occupants) > room.Capacity {
			return invalid("occupants", ErrCapacityExceeded,
				"room %s seats %d, got %d occupants", room.Number, room.Capacity, len(occupants))
		}

		a, err := evaluate(ctx, tx, room, req.Checkin, req.Checkout)
		if err != nil {
			return err
		}
		switch a.State {
		case Unavailable:
			return fmt.Errorf("room %s is %s: %w", room.Number, a.Reason, ErrRoomUnavailable)
		case Occupied:
			return fmt.Errorf("room %s overlaps reservation(s) %v: %w", room.Number, a.Conflicts, ErrRoomConflict)
		}

		known, err := tx.ExistingClients(ctx, occupants)
		if err != nil {
			return err
		}
		for _, id := range occupants {
			if !known[id] {
				return fmt.Errorf("client %d: %w", id, store.ErrNotFound)
			}
		}
		listed, err := tx.BlacklistedAmong(ctx, occupants)
		if err != nil {
			return err
		}
		booking.Skipped = []int64{}
		var admitted []int64
		for _, id := range occupants {
			if listed[id] {
				booking.Skipped = append(booking.Skipped, id)
				continue
			}
			admitted = append(admitted, id)
		}
		if len(admitted) == 0 {
			return ErrAllOccupantsBlacklisted
		}

		reservation = model.Reservation{
			Reference:    uuid.NewString(),
			RoomID:       room.ID,
			CheckinDate:  req.Checkin,
			CheckoutDate: req.Checkout,
			TotalPrice:   float64(req.Checkin.DaysUntil(req.Checkout)) * room.Price,
		}
		for _, id := range admitted {
			reservation.Occupants = append(reservation.Occupants, model.ReservationOccupant{ClientID: id})
		}
		if err := tx.CreateReservation(ctx, &reservation); err != nil {
			return err
		}
		// Booking flags the room as Occupied. Cancelling does not undo it.
		if err := tx.SetRoomStatus(ctx, room.ID, model.RoomOccupied); err != nil {
			return err
		}

		booking.ReservationID = reservation.ID
		booking.Reference = reservation.Reference
		booking.BookedCount = len(admitted)
		booking.TotalPrice = reservation.TotalPrice
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Reservation %d: room %d %s..%s, %d occupant(s), %d skipped, total %.2f",
		booking.ReservationID, req.RoomID, req.Checkin, req.Checkout,
		booking.BookedCount, len(booking.Skipped), booking.TotalPrice)
	e.publish(ctx, events.NewReservationEvent(events.ReservationCreated, reservation, e.now()))
	return &booking, nil
}

// CancelReservation deletes the reservation. The room's maintenance status
// is left as it is; staff reset it explicitly.
func (e *Engine) CancelReservation(ctx context.Context, reservationID int64) error {
	var cancelled model.Reservation
	err := e.store.WithTx(ctx, func(tx store.Store) error {
		r, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		cancelled = *r
		return tx.DeleteReservation(ctx, reservationID)
	})
	if err != nil {
		return err
	}
	log.Printf("Reservation %d cancelled (room %d)", reservationID, cancelled.RoomID)
	e.publish(ctx, events.NewReservationEvent(events.ReservationCancelled, cancelled, e.now()))
	return nil
}

func (e *Engine) publish(ctx context.Context, ev events.ReservationEvent) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		log.Printf("Failed to publish %s for reservation %d: %v", ev.Type, ev.ReservationID, err)
	}
}

func validateRange(checkin, checkout model.Day) error {
	if checkin.IsZero() || checkout.IsZero() {
		return invalid("dates", ErrInvalidDateRange, "check-in and check-out are required")
	}
	if !checkout.After(checkin) {
		return invalid("checkout", ErrInvalidDateRange, "check-out %s must be after check-in %s", checkout, checkin)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
