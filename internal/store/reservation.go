package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

func (s *gormStore) reservationQuery(ctx context.Context) *gorm.DB {
	return s.q(ctx).Preload("Room").Preload("Occupants.Client")
}

// ReservationsForRoom lists the room's reservations by (checkin, checkout).
func (s *gormStore) ReservationsForRoom(ctx context.Context, roomID int64) ([]model.Reservation, error) {
	var out []model.Reservation
	err := s.q(ctx).Preload("Occupants").
		Where("room_id = ?", roomID).
		Order("checkin_date").Order("checkout_date").Order("id").
		Find(&out).Error
	return out, wrap("list room reservations", err)
}

// OverlappingReservations returns the room's reservations intersecting
// the half-open interval [checkin, checkout).
func (s *gormStore) OverlappingReservations(ctx context.Context, roomID int64, checkin, checkout model.Day) ([]model.Reservation, error) {
	var out []model.Reservation
	err := s.q(ctx).
		Where("room_id = ? AND checkin_date < ? AND checkout_date > ?", roomID, checkout, checkin).
		Order("checkin_date").
		Find(&out).Error
	return out, wrap("find overlapping reservations", err)
}

func (s *gormStore) FindReservations(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	q := s.reservationQuery(ctx)
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.ClientID != 0 {
		q = q.Where("id IN (?)", s.q(ctx).Model(&model.ReservationOccupant{}).
			Select("reservation_id").Where("client_id = ?", f.ClientID))
	}
	if !f.To.IsZero() {
		q = q.Where("checkin_date < ?", f.To)
	}
	if !f.From.IsZero() {
		q = q.Where("checkout_date > ?", f.From)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		rooms := s.q(ctx).Model(&model.Room{}).Select("id").Where("room_number LIKE ?", like)
		occupants := s.q(ctx).Model(&model.ReservationOccupant{}).Select("reservation_id").
			Where("client_id IN (?)", s.q(ctx).Model(&model.Client{}).Select("id").Where("name LIKE ?", like))
		q = q.Where("room_id IN (?) OR id IN (?)", rooms, occupants)
	}
	if f.Newest {
		q = q.Order("checkin_date DESC").Order("id DESC")
	} else {
		q = q.Order("room_id").Order("checkin_date").Order("checkout_date")
	}

	var out []model.Reservation
	err := q.Find(&out).Error
	return out, wrap("find reservations", err)
}

func (s *gormStore) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	var r model.Reservation
	if err := s.reservationQuery(ctx).First(&r, id).Error; err != nil {
		return nil, wrap("get reservation", err)
	}
	return &r, nil
}

// CreateReservation inserts the reservation together with its occupant set.
func (s *gormStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	return wrap("create reservation", s.q(ctx).Create(r).Error)
}

func (s *gormStore) DeleteReservation(ctx context.Context, id int64) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var r model.Reservation
		if err := tx.Select("id").First(&r, id).Error; err != nil {
			return wrap("delete reservation", err)
		}
		return wrap("delete reservation", deleteReservationsWhere(tx, "id = ?", id))
	})
}

// deleteReservationsWhere removes matching reservations and their occupant rows.
func deleteReservationsWhere(tx *gorm.DB, query string, args ...any) error {
	ids := tx.Model(&model.Reservation{}).Select("id").Where(query, args...)
	if err := tx.Where("reservation_id IN (?)", ids).Delete(&model.ReservationOccupant{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&model.Reservation{}).Error
}
