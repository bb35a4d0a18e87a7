package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "vidtube/internal/errors"
)

func newTestService() *TokenService {
	return NewTokenService("access-secret", 15*time.Minute, "refresh-secret", 7*24*time.Hour)
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(42, "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateRefreshToken(42)
	assert.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestTokenService_SecretsAreDistinct(t *testing.T) {
	svc := newTestService()

	accessToken, err := svc.GenerateAccessToken(1, "alice")
	assert.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(1)
	assert.NoError(t, err)

	// a token signed with one secret must not verify against the other
	_, err = svc.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = svc.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenService_WrongSecretRejected(t *testing.T) {
	svc := newTestService()
	other := NewTokenService("other-access", 15*time.Minute, "other-refresh", time.Hour)

	token, err := svc.GenerateAccessToken(1, "alice")
	assert.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenService_ExpiredRejected(t *testing.T) {
	expired := NewTokenService("access-secret", -time.Minute, "refresh-secret", -time.Minute)

	accessToken, err := expired.GenerateAccessToken(1, "alice")
	assert.NoError(t, err)
	refreshToken, err := expired.GenerateRefreshToken(1)
	assert.NoError(t, err)

	_, err = expired.VerifyAccessToken(accessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = expired.VerifyRefreshToken(refreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenService_GarbageRejected(t *testing.T) {
	svc := newTestService()

	_, err := svc.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = svc.VerifyRefreshToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordHashAndVerify(t *testing.T) {
	digest, err := HashPassword("P@ss1")
	assert.NoError(t, err)
	assert.NotEqual(t, "P@ss1", digest)

	assert.True(t, VerifyPassword("P@ss1", digest))
	assert.False(t, VerifyPassword("wrong", digest))
	assert.False(t, VerifyPassword("P@ss1", "not-a-hash"))
}
