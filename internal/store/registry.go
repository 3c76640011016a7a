package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

func (s *gormStore) ListClients(ctx context.Context, f ClientFilter) ([]model.Client, error) {
	q := s.q(ctx)
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("name LIKE ? OR passport LIKE ? OR contact LIKE ?", like, like, like)
	}
	var clients []model.Client
	err := q.Order("name").Order("id").Find(&clients).Error
	return clients, wrap("list clients", err)
}

func (s *gormStore) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	if err := s.q(ctx).First(&c, id).Error; err != nil {
		return nil, wrap("get client", err)
	}
	return &c, nil
}

func (s *gormStore) CreateClient(ctx context.Context, c *model.Client) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPassport(tx, c); err != nil {
			return err
		}
		return wrap("create client", tx.Create(c).Error)
	})
}

func (s *gormStore) UpdateClient(ctx context.Context, c *model.Client) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Client
		if err := tx.First(&current, c.ID).Error; err != nil {
			return wrap("update client", err)
		}
		if err := checkPassport(tx, c); err != nil {
			return err
		}
		err := tx.Model(&current).Updates(map[string]any{
			"name":      c.FullName,
			"contact":   c.Contact,
			"passport":  c.Passport,
			"birthdate": c.Birthdate,
		}).Error
		return wrap("update client", err)
	})
}

// DeleteClient removes the client with its blacklist entry and past stays.
// It refuses while the client occupies a current or upcoming reservation.
func (s *gormStore) DeleteClient(ctx context.Context, id int64, today model.Day) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Client
		if err := tx.First(&c, id).Error; err != nil {
			return wrap("delete client", err)
		}
		var pending int64
		err := tx.Model(&model.Reservation{}).
			Where("checkout_date >= ?", today).
			Where("id IN (?)", tx.Model(&model.ReservationOccupant{}).Select("reservation_id").Where("client_id = ?", id)).
			Count(&pending).Error
		if err != nil {
			return wrap("delete client", err)
		}
		if pending > 0 {
			return conflictf("client %s has %d current or upcoming reservation(s)", c.FullName, pending)
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.BlacklistEntry{}).Error; err != nil {
			return wrap("delete client blacklist", err)
		}
		if err := tx.Where("client_id = ?", id).Delete(&model.ReservationOccupant{}).Error; err != nil {
			return wrap("delete client stays", err)
		}
		// Past reservations left without occupants have nobody to show them to.
		orphans := tx.Model(&model.ReservationOccupant{}).Select("reservation_id")
		if err := deleteReservationsWhere(tx, "id NOT IN (?)", orphans); err != nil {
			return wrap("delete client stays", err)
		}
		return wrap("delete client", tx.Delete(&c).Error)
	})
}

// ExistingClients reports which of ids are known clients.
func (s *gormStore) ExistingClients(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []int64
	if err := s.q(ctx).Model(&model.Client{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, wrap("find clients", err)
	}
	for _, id := range rows {
		found[id] = true
	}
	return found, nil
}

func (s *gormStore) ListBlacklist(ctx context.Context, search string) ([]model.BlacklistEntry, error) {
	q := s.q(ctx).Preload("Client")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		q = q.Where("reason LIKE ? OR client_id IN (?)", like,
			s.q(ctx).Model(&model.Client{}).Select("id").Where("name LIKE ? OR passport LIKE ?", like, like))
	}
	var entries []model.BlacklistEntry
	err := q.Order("created_at DESC").Find(&entries).Error
	return entries, wrap("list blacklist", err)
}

func (s *gormStore) AddToBlacklist(ctx context.Context, clientID int64, reason string) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Client
		if err := tx.First(&c, clientID).Error; err != nil {
			return wrap("blacklist client", err)
		}
		var n int64
		if err := tx.Model(&model.BlacklistEntry{}).Where("client_id = ?", clientID).Count(&n).Error; err != nil {
			return wrap("blacklist client", err)
		}
		if n > 0 {
			return conflictf("client %s is already blacklisted", c.FullName)
		}
		entry := model.BlacklistEntry{ClientID: clientID, Reason: reason}
		return wrap("blacklist client", tx.Create(&entry).Error)
	})
}

func (s *gormStore) RemoveFromBlacklist(ctx context.Context, clientID int64) error {
	res := s.q(ctx).Where("client_id = ?", clientID).Delete(&model.BlacklistEntry{})
	if res.Error != nil {
		return wrap("unblacklist client", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("unblacklist client", gorm.ErrRecordNotFound)
	}
	return nil
}

// BlacklistedAmong returns the subset of ids that are on the blacklist.
func (s *gormStore) BlacklistedAmong(ctx context.Context, ids []int64) (map[int64]bool, error) {
	listed := make(map[int64]bool)
	if len(ids) == 0 {
		return listed, nil
	}
	var rows []int64
	err := s.q(ctx).Model(&model.BlacklistEntry{}).Where("client_id IN ?", ids).Pluck("client_id", &rows).Error
	if err != nil {
		return nil, wrap("check blacklist", err)
	}
	for _, id := range rows {
		listed[id] = true
	}
	return listed, nil
}

func checkPassport(tx *gorm.DB, c *model.Client) error {
	var n int64
	err := tx.Model(&model.Client{}).Where("passport = ? AND id <> ?", c.Passport, c.ID).Count(&n).Error
	if err != nil {
		return wrap("check passport", err)
	}
	if n > 0 {
		return conflictf("passport %s is already registered", c.Passport)
	}
	return nil
}
