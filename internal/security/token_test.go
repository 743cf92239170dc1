package security_test

import (
	"testing"
	"time"

	"rentshare-backend/internal/security"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-that-is-at-least-32-chars!"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := security.NewTokenManager(secret, time.Hour)

	token, err := tm.GenerateAccessToken(42, true)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(42), claims.UserID)
	assert.True(t, claims.Identity().MayTransact)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := security.NewTokenManager(secret, time.Hour)

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := security.NewTokenManager("another-secret-another-secret-12345", time.Hour).GenerateAccessToken(1, false)
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := security.UserClaims{
			UserID: 1,
			Type:   security.TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, security.ErrExpiredToken)
	})

	t.Run("Wrong type", func(t *testing.T) {
		claims := security.UserClaims{UserID: 1, Type: "refresh"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}
