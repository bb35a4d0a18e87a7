package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/model"
)

// SubscriptionRepository defines persistence operations on the subscription graph.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, subscriberID, channelID uint) error
	Unsubscribe(ctx context.Context, subscriberID, channelID uint) error
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountChannelsSubscribedTo(ctx context.Context, subscriberID uint) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository builds a GORM-backed repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, subscriberID, channelID uint) error {
	sub := model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	// idempotent: re-subscribing is a no-op thanks to the unique pair index
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, subscriberID, channelID uint) error {
	return r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountChannelsSubscribedTo(ctx context.Context, subscriberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}
