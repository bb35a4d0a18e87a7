package model

import "time"

// Subscription records that SubscriberID follows ChannelID. The composite
// unique index makes subscribing idempotent at the database level.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uint      `json:"subscriberId" gorm:"uniqueIndex:idx_subscriber_channel;not null"`
	ChannelID    uint      `json:"channelId" gorm:"uniqueIndex:idx_subscriber_channel;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChannelProfile is the aggregated public view of a user's channel.
type ChannelProfile struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	AvatarURL         string `json:"avatarUrl,omitempty"`
	CoverImageURL     string `json:"coverImageUrl,omitempty"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	// IsSubscribed reports whether the requesting user follows this channel.
	// Always false for anonymous requests.
	IsSubscribed bool `json:"isSubscribed"`
}
