package store

import (
	"context"

	"gorm.io/gorm/clause"

	"hotel-frontdesk-backend/internal/model"
)

// SaveSubscription creates the subscription or refreshes its keys.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.q(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error
	return wrap("save subscription", err)
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.q(ctx).Where("endpoint = ?", endpoint).First(&sub).Error; err != nil {
		return nil, wrap("get subscription", err)
	}
	return &sub, nil
}

// DeleteSubscription is idempotent.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return wrap("delete subscription", s.q(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error)
}

func (s *gormStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.q(ctx).Order("created_at").Find(&subs).Error
	return subs, wrap("list subscriptions", err)
}
