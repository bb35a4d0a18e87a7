package model

import "time"

// User is an account holder and, implicitly, a channel other users can
// subscribe to. Username is stored lowercase so lookups are case-insensitive.
type User struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Username      string `json:"username" gorm:"uniqueIndex;size:64;not null"`
	Email         string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName      string `json:"fullName" gorm:"size:255;not null"`
	PasswordHash  string `json:"-" gorm:"size:255;not null"`
	AvatarURL     string `json:"avatarUrl,omitempty" gorm:"size:512"`
	CoverImageURL string `json:"coverImageUrl,omitempty" gorm:"size:512"`
	// RefreshToken is the single currently-valid refresh token for the user.
	// A presented refresh token must match this value byte-for-byte; anything
	// else is treated as revoked. Nil means no active session.
	RefreshToken *string   `json:"-" gorm:"size:1024"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy safe to hand to clients. The secret fields are
// already excluded from JSON, but zeroing them keeps them out of logs and
// caches too.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	return u
}
