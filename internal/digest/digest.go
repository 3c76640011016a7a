// Package digest sends the front desk a daily summary of arrivals and
// departures over web push.
package digest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-frontdesk-backend/config"
	"hotel-frontdesk-backend/internal/model"
	"hotel-frontdesk-backend/internal/notification"
	"hotel-frontdesk-backend/internal/store"
)

// Dispatcher queues a notification for delivery.
type Dispatcher interface {
	Dispatch(msg notification.Message)
}

// Service checks periodically whether today's digest went out and sends
// it once per hotel day.
type Service struct {
	cfg   *config.DigestConfig
	store store.ReservationStore
	pool  Dispatcher
	now   func() time.Time
	loc   *time.Location

	mu       sync.Mutex
	lastSent model.Day
}

// NewService creates the digest service.
func NewService(cfg *config.DigestConfig, st store.ReservationStore, pool Dispatcher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{cfg: cfg, store: st, pool: pool, now: time.Now, loc: loc}
}

// Run starts the digest loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Digest is disabled. Not starting.")
		return
	}
	log.Println("Starting digest service...")

	s.RunOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Digest service shutting down.")
			return
		case <-timer.C:
			s.RunOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// RunOnce sends today's digest unless it was already sent. It reports
// whether messages were dispatched.
func (s *Service) RunOnce(ctx context.Context) bool {
	today := model.DayOf(s.now().In(s.loc))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSent.Equal(today) {
		return false
	}

	arrivals, departures, err := s.collect(ctx, today)
	if err != nil {
		log.Printf("Error building digest for %s: %v", today, err)
		return false
	}
	s.lastSent = today

	sent := false
	if len(arrivals) > 0 {
		s.pool.Dispatch(notification.Message{
			Title: fmt.Sprintf("Arrivals today: %d", len(arrivals)),
			Body:  describe(arrivals),
		})
		sent = true
	}
	if len(departures) > 0 {
		s.pool.Dispatch(notification.Message{
			Title: fmt.Sprintf("Departures today: %d", len(departures)),
			Body:  describe(departures),
		})
		sent = true
	}
	log.Printf("Digest for %s: %d arrival(s), %d departure(s)", today, len(arrivals), len(departures))
	return sent
}

// collect returns reservations starting and ending on day.
func (s *Service) collect(ctx context.Context, day model.Day) (arrivals, departures []model.Reservation, err error) {
	rs, err := s.store.FindReservations(ctx, store.ReservationFilter{From: day.AddDays(-1), To: day.AddDays(1)})
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rs {
		if r.CheckinDate.Equal(day) {
			arrivals = append(arrivals, r)
		}
		if r.CheckoutDate.Equal(day) {
			departures = append(departures, r)
		}
	}
	return arrivals, departures, nil
}

// describe renders "101: Anna, Boris; 204: Ivan" ordered by room number.
func describe(rs []model.Reservation) string {
	lines := make([]string, 0, len(rs))
	for _, r := range rs {
		room := fmt.Sprintf("room #%d", r.RoomID)
		if r.Room != nil {
			room = r.Room.Number
		}
		names := make([]string, 0, len(r.Occupants))
		for _, o := range r.Occupants {
			if o.Client != nil {
				names = append(names, o.Client.FullName)
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", room, strings.Join(names, ", ")))
	}
	sort.Strings(lines)
	return strings.Join(lines, "; ")
}
