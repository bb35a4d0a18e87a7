package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"vidtube/internal/cache"
	apperrors "vidtube/internal/errors"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
)

const channelCacheTTL = 5 * time.Minute

// UserService exposes profile and channel operations for authenticated users.
type UserService interface {
	CurrentUser(ctx context.Context, userID uint) (*model.User, error)
	UpdateAccount(ctx context.Context, userID uint, fullName, email string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID uint, image []byte) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID uint, image []byte) (*model.User, error)
	// ChannelProfile aggregates a channel's public fields with subscriber
	// counts. viewerID is zero for anonymous requests.
	ChannelProfile(ctx context.Context, username string, viewerID uint) (*model.ChannelProfile, error)
	Subscribe(ctx context.Context, subscriberID uint, channelUsername string) error
	Unsubscribe(ctx context.Context, subscriberID uint, channelUsername string) error
}

type userService struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	uploader media.Uploader
	cache    *cache.Client
}

// NewUserService builds a UserService with repositories, media uploader and cache.
func NewUserService(users repository.UserRepository, subs repository.SubscriptionRepository, uploader media.Uploader, cache *cache.Client) UserService {
	return &userService{users: users, subs: subs, uploader: uploader, cache: cache}
}

func channelCacheKey(username string) string {
	return "channel:" + strings.ToLower(username)
}

func (s *userService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) UpdateAccount(ctx context.Context, userID uint, fullName, email string) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(email, user.Email) {
		taken, err := s.users.ExistsByUsernameOrEmail(ctx, "", email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, apperrors.ErrDuplicateUser
		}
	}

	if err := s.users.UpdateAccount(ctx, userID, fullName, email); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	_ = s.cache.Delete(ctx, channelCacheKey(user.Username))

	user.FullName = fullName
	user.Email = email
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint, image []byte) (*model.User, error) {
	return s.updateImage(ctx, userID, media.KindAvatar, image)
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID uint, image []byte) (*model.User, error) {
	return s.updateImage(ctx, userID, media.KindCover, image)
}

func (s *userService) updateImage(ctx context.Context, userID uint, kind string, image []byte) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.UploadImage(ctx, kind, image)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}

	switch kind {
	case media.KindAvatar:
		err = s.users.UpdateAvatarURL(ctx, userID, url)
		user.AvatarURL = url
	case media.KindCover:
		err = s.users.UpdateCoverImageURL(ctx, userID, url)
		user.CoverImageURL = url
	}
	if err != nil {
		return nil, fmt.Errorf("store %s url: %w", kind, err)
	}
	_ = s.cache.Delete(ctx, channelCacheKey(user.Username))

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) ChannelProfile(ctx context.Context, username string, viewerID uint) (*model.ChannelProfile, error) {
	key := channelCacheKey(username)

	var profile model.ChannelProfile
	hit, _ := s.cache.GetJSON(ctx, key, &profile)
	if !hit {
		channel, err := s.users.FindByUsernameOrEmail(ctx, username, "")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, fmt.Errorf("find channel: %w", err)
		}

		subscribers, err := s.subs.CountSubscribers(ctx, channel.ID)
		if err != nil {
			return nil, fmt.Errorf("count subscribers: %w", err)
		}
		subscribedTo, err := s.subs.CountChannelsSubscribedTo(ctx, channel.ID)
		if err != nil {
			return nil, fmt.Errorf("count subscriptions: %w", err)
		}

		profile = model.ChannelProfile{
			ID:                channel.ID,
			Username:          channel.Username,
			FullName:          channel.FullName,
			AvatarURL:         channel.AvatarURL,
			CoverImageURL:     channel.CoverImageURL,
			SubscriberCount:   subscribers,
			SubscribedToCount: subscribedTo,
		}
		_ = s.cache.SetJSON(ctx, key, profile, channelCacheTTL)
	}

	// IsSubscribed depends on the viewer, so it is computed outside the cache.
	if viewerID != 0 {
		subscribed, err := s.subs.IsSubscribed(ctx, viewerID, profile.ID)
		if err != nil {
			return nil, fmt.Errorf("check subscription: %w", err)
		}
		profile.IsSubscribed = subscribed
	}

	return &profile, nil
}

func (s *userService) Subscribe(ctx context.Context, subscriberID uint, channelUsername string) error {
	channel, err := s.findChannel(ctx, channelUsername)
	if err != nil {
		return err
	}
	if err := s.subs.Subscribe(ctx, subscriberID, channel.ID); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return s.cache.Delete(ctx, channelCacheKey(channelUsername))
}

func (s *userService) Unsubscribe(ctx context.Context, subscriberID uint, channelUsername string) error {
	channel, err := s.findChannel(ctx, channelUsername)
	if err != nil {
		return err
	}
	if err := s.subs.Unsubscribe(ctx, subscriberID, channel.ID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return s.cache.Delete(ctx, channelCacheKey(channelUsername))
}

func (s *userService) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) findChannel(ctx context.Context, username string) (*model.User, error) {
	channel, err := s.users.FindByUsernameOrEmail(ctx, username, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}
	return channel, nil
}
