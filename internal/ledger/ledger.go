// Package ledger reads the reservation history and classifies each stay
// as upcoming, active or completed relative to the hotel's today.
package ledger

import (
	"context"
	"time"

	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/store"
)

// Status is the temporal status of a reservation. It is never stored.
type Status string

const (
	Upcoming  Status = "upcoming"
	Active    Status = "active"
	Completed Status = "completed"
)

// DeriveStatus classifies r against today: upcoming if it starts after
// today, completed if it ended before today, active otherwise.
func DeriveStatus(r model.Reservation, today model.Day) Status {
	switch {
	case r.CheckinDate.After(today):
		return Upcoming
	case r.CheckoutDate.Before(today):
		return Completed
	default:
		return Active
	}
}

// Entry is a reservation with its derived status.
type Entry struct {
	model.Reservation
	Status Status `json:"status"`
}

// Filter narrows ListReservations. Status is applied after derivation.
type Filter struct {
	store.ReservationFilter
	Status Status
}

// Ledger serves reservation reads.
type Ledger struct {
	store store.Store
	now   func() time.Time
	loc   *time.Location
}

// New creates a Ledger. A nil clock means time.Now; a nil loc means time.Local.
func New(st store.Store, clock func() time.Time, loc *time.Location) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{store: st, now: clock, loc: loc}
}

// Today is the current calendar day in the hotel's time zone.
func (l *Ledger) Today() model.Day {
	return model.DayOf(l.now().In(l.loc))
}

// ListForRoom returns the room's reservations ordered by (checkin, checkout).
func (l *Ledger) ListForRoom(ctx context.Context, roomID int64) ([]Entry, error) {
	if _, err := l.store.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	rs, err := l.store.ReservationsForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return l.entries(rs, ""), nil
}

// ListForClient returns the client's stays, newest first.
func (l *Ledger) ListForClient(ctx context.Context, clientID int64) ([]Entry, error) {
	if _, err := l.store.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	rs, err := l.store.FindReservations(ctx, store.ReservationFilter{ClientID: clientID, Newest: true})
	if err != nil {
		return nil, err
	}
	return l.entries(rs, ""), nil
}

// ListReservations returns reservations matching f.
func (l *Ledger) ListReservations(ctx context.Context, f Filter) ([]Entry, error) {
	rs, err := l.store.FindReservations(ctx, f.ReservationFilter)
	if err != nil {
		return nil, err
	}
	return l.entries(rs, f.Status), nil
}

func (l *Ledger) entries(rs []model.Reservation, only Status) []Entry {
	today := l.Today()
	out := make([]Entry, 0, len(rs))
	for _, r := range rs {
		st := DeriveStatus(r, today)
		if only != "" && st != only {
			continue
		}
		out = append(out, Entry{Reservation: r, Status: st})
	}
	return out
}

// ParseStatus accepts "", upcoming, active or completed.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case "", Upcoming, Active, Completed:
		return Status(s), true
	}
	return "", false
}
