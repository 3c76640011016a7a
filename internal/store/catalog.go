package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

func (s *gormStore) ListClasses(ctx context.Context) ([]model.RoomClass, error) {
	var classes []model.RoomClass
	err := s.q(ctx).Order("name").Find(&classes).Error
	return classes, wrap("list classes", err)
}

// SaveClass creates c when its ID is zero and renames it otherwise.
func (s *gormStore) SaveClass(ctx context.Context, c *model.RoomClass) error {
	if c.ID == 0 {
		return wrap("create class", s.q(ctx).Create(c).Error)
	}
	res := s.q(ctx).Model(&model.RoomClass{}).Where("id = ?", c.ID).Update("name", c.Name)
	if res.Error != nil {
		return wrap("update class", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update class", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *gormStore) DeleteClass(ctx context.Context, id int64) error {
	return s.deleteReferenced(ctx, "delete class", &model.RoomClass{}, id, "class_id", "room class")
}

func (s *gormStore) ListBuildings(ctx context.Context) ([]model.Building, error) {
	var buildings []model.Building
	err := s.q(ctx).Order("name").Find(&buildings).Error
	return buildings, wrap("list buildings", err)
}

// SaveBuilding creates b when its ID is zero and renames it otherwise.
func (s *gormStore) SaveBuilding(ctx context.Context, b *model.Building) error {
	if b.ID == 0 {
		return wrap("create building", s.q(ctx).Create(b).Error)
	}
	res := s.q(ctx).Model(&model.Building{}).Where("id = ?", b.ID).Update("name", b.Name)
	if res.Error != nil {
		return wrap("update building", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update building", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *gormStore) DeleteBuilding(ctx context.Context, id int64) error {
	return s.deleteReferenced(ctx, "delete building", &model.Building{}, id, "building_id", "building")
}

// deleteReferenced removes a class or building unless a room still points at it.
func (s *gormStore) deleteReferenced(ctx context.Context, op string, value any, id int64, column, label string) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms int64
		if err := tx.Model(&model.Room{}).Where(column+" = ?", id).Count(&rooms).Error; err != nil {
			return wrap(op, err)
		}
		if rooms > 0 {
			return conflictf("%s %d is used by %d room(s)", label, id, rooms)
		}
		res := tx.Delete(value, id)
		if res.Error != nil {
			return wrap(op, res.Error)
		}
		if res.RowsAffected == 0 {
			return wrap(op, gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (s *gormStore) ListOptions(ctx context.Context) ([]model.RoomOption, error) {
	var options []model.RoomOption
	err := s.q(ctx).Order("name").Find(&options).Error
	return options, wrap("list options", err)
}

func (s *gormStore) CreateOption(ctx context.Context, o *model.RoomOption) error {
	return wrap("create option", s.q(ctx).Create(o).Error)
}

// DeleteOption removes the option and detaches it from every room.
func (s *gormStore) DeleteOption(ctx context.Context, id int64) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM room_option_mapping WHERE room_option_id = ?", id).Error; err != nil {
			return wrap("delete option", err)
		}
		res := tx.Delete(&model.RoomOption{}, id)
		if res.Error != nil {
			return wrap("delete option", res.Error)
		}
		if res.RowsAffected == 0 {
			return wrap("delete option", gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (s *gormStore) roomQuery(ctx context.Context) *gorm.DB {
	return s.q(ctx).Preload("Class").Preload("Building").Preload("Options")
}

func (s *gormStore) ListRooms(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	q := s.roomQuery(ctx)
	if n := strings.TrimSpace(f.Number); n != "" {
		q = q.Where("room_number LIKE ?", "%"+n+"%")
	}
	if f.ClassID != 0 {
		q = q.Where("class_id = ?", f.ClassID)
	}
	if name := strings.TrimSpace(f.ClassName); name != "" {
		q = q.Where("class_id IN (?)", s.q(ctx).Model(&model.RoomClass{}).Select("id").Where("name = ?", name))
	}
	if f.BuildingID != 0 {
		q = q.Where("building_id = ?", f.BuildingID)
	}
	if name := strings.TrimSpace(f.Building); name != "" {
		q = q.Where("building_id IN (?)", s.q(ctx).Model(&model.Building{}).Select("id").Where("name = ?", name))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Places != 0 {
		q = q.Where("places = ?", f.Places)
	}
	if f.Floor != 0 {
		q = q.Where("floor = ?", f.Floor)
	}

	var rooms []model.Room
	err := q.Order("room_number").Find(&rooms).Error
	return rooms, wrap("list rooms", err)
}

func (s *gormStore) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	if err := s.roomQuery(ctx).First(&room, id).Error; err != nil {
		return nil, wrap("get room", err)
	}
	return &room, nil
}

// LockRoom takes a write lock on the room row for the rest of the current
// transaction and returns the room. A no-op update is used instead of
// SELECT ... FOR UPDATE so the same statement serialises writers on
// postgres and mysql (row lock) and on sqlite (reserved database lock).
func (s *gormStore) LockRoom(ctx context.Context, id int64) (*model.Room, error) {
	err := s.q(ctx).Model(&model.Room{}).
		Where("id = ?", id).
		UpdateColumn("status", gorm.Expr("status")).Error
	if err != nil {
		return nil, wrap("lock room", err)
	}
	var room model.Room
	if err := s.q(ctx).First(&room, id).Error; err != nil {
		return nil, wrap("lock room", err)
	}
	return &room, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, r *model.Room, optionIDs []int64) error {
	if r.Status == "" {
		r.Status = model.RoomFree
	}
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRoomRefs(tx, r); err != nil {
			return err
		}
		options, err := findOptions(tx, optionIDs)
		if err != nil {
			return err
		}
		r.Options = options
		return wrap("create room", tx.Omit("Class", "Building").Create(r).Error)
	})
}

// UpdateRoom overwrites the room's attributes and replaces its option set.
// Status is left untouched; it changes only through SetRoomStatus.
func (s *gormStore) UpdateRoom(ctx context.Context, r *model.Room, optionIDs []int64) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Room
		if err := tx.First(&current, r.ID).Error; err != nil {
			return wrap("update room", err)
		}
		if err := checkRoomRefs(tx, r); err != nil {
			return err
		}
		options, err := findOptions(tx, optionIDs)
		if err != nil {
			return err
		}
		err = tx.Model(&current).Updates(map[string]any{
			"room_number": r.Number,
			"places":      r.Capacity,
			"class_id":    r.ClassID,
			"price":       r.Price,
			"floor":       r.Floor,
			"building_id": r.BuildingID,
		}).Error
		if err != nil {
			return wrap("update room", err)
		}
		if err := tx.Model(&current).Association("Options").Replace(options); err != nil {
			return wrap("update room options", err)
		}
		r.Status = current.Status
		r.Options = options
		return nil
	})
}

func (s *gormStore) SetRoomStatus(ctx context.Context, id int64, status model.RoomStatus) error {
	res := s.q(ctx).Model(&model.Room{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return wrap("set room status", res.Error)
	}
	if res.RowsAffected == 0 {
		// mysql reports zero changed rows when the value is unchanged.
		var n int64
		if err := s.q(ctx).Model(&model.Room{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return wrap("set room status", err)
		}
		if n == 0 {
			return wrap("set room status", gorm.ErrRecordNotFound)
		}
	}
	return nil
}

// DeleteRoom removes the room and its past reservations. It refuses while
// the room has a reservation that has not ended before today.
func (s *gormStore) DeleteRoom(ctx context.Context, id int64, today model.Day) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.First(&room, id).Error; err != nil {
			return wrap("delete room", err)
		}
		var pending int64
		err := tx.Model(&model.Reservation{}).
			Where("room_id = ? AND checkout_date >= ?", id, today).
			Count(&pending).Error
		if err != nil {
			return wrap("delete room", err)
		}
		if pending > 0 {
			return conflictf("room %s has %d current or upcoming reservation(s)", room.Number, pending)
		}
		if err := tx.Model(&room).Association("Options").Clear(); err != nil {
			return wrap("delete room options", err)
		}
		if err := deleteReservationsWhere(tx, "room_id = ?", id); err != nil {
			return wrap("delete room reservations", err)
		}
		return wrap("delete room", tx.Delete(&room).Error)
	})
}

func checkRoomRefs(tx *gorm.DB, r *model.Room) error {
	var n int64
	if err := tx.Model(&model.RoomClass{}).Where("id = ?", r.ClassID).Count(&n).Error; err != nil {
		return wrap("check room class", err)
	}
	if n == 0 {
		return conflictf("room class %d does not exist", r.ClassID)
	}
	if err := tx.Model(&model.Building{}).Where("id = ?", r.BuildingID).Count(&n).Error; err != nil {
		return wrap("check building", err)
	}
	if n == 0 {
		return conflictf("building %d does not exist", r.BuildingID)
	}
	var dup int64
	err := tx.Model(&model.Room{}).Where("room_number = ? AND id <> ?", r.Number, r.ID).Count(&dup).Error
	if err != nil {
		return wrap("check room number", err)
	}
	if dup > 0 {
		return conflictf("room number %s is already taken", r.Number)
	}
	return nil
}

func findOptions(tx *gorm.DB, ids []int64) ([]*model.RoomOption, error) {
	options := []*model.RoomOption{}
	if len(ids) == 0 {
		return options, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&options).Error; err != nil {
		return nil, wrap("find options", err)
	}
	if len(options) != len(uniqueIDs(ids)) {
		return nil, conflictf("unknown room option in %v", ids)
	}
	return options, nil
}

func uniqueIDs(ids []int64) []int64 {
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
