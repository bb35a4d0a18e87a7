package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"vidtube/internal/model"
)

// UserRepository defines persistence operations on user records.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// FindByUsernameOrEmail matches either field, case-insensitively.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// UpdateRefreshToken sets or clears (nil) the stored refresh token.
	UpdateRefreshToken(ctx context.Context, id uint, token *string) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateAccount(ctx context.Context, id uint, fullName, email string) error
	UpdateAvatarURL(ctx context.Context, id uint, url string) error
	UpdateCoverImageURL(ctx context.Context, id uint, url string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Username = strings.ToLower(user.Username)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	var user model.User
	// usernames are stored lowercase; emails are matched with LOWER()
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = ?", strings.ToLower(username), strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR LOWER(email) = ?", strings.ToLower(username), strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, id uint, token *string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdateAccount(ctx context.Context, id uint, fullName, email string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"full_name": fullName,
			"email":     email,
		}).Error
}

func (r *userRepository) UpdateAvatarURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("avatar_url", url).Error
}

func (r *userRepository) UpdateCoverImageURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("cover_image_url", url).Error
}
