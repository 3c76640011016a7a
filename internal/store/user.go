package store

import (
	"context"

	"gorm.io/gorm"

	"hotel-frontdesk-backend/internal/model"
)

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.q(ctx).Order("name").Find(&users).Error
	return users, wrap("list users", err)
}

func (s *gormStore) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	var u model.User
	if err := s.q(ctx).Where("name = ?", name).First(&u).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &u, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.q(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("name = ?", u.Name).Count(&n).Error; err != nil {
			return wrap("create user", err)
		}
		if n > 0 {
			return conflictf("user %s already exists", u.Name)
		}
		return wrap("create user", tx.Create(u).Error)
	})
}

func (s *gormStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := s.q(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return wrap("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update password", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	res := s.q(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return wrap("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete user", gorm.ErrRecordNotFound)
	}
	return nil
}
