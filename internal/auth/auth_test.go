package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/yatube/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	user := &models.User{ID: 7, Username: "leomessi"}

	raw, err := tokens.Generate(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "leomessi", claims.Username)
}

func TestTokenRejections(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	user := &models.User{ID: 1, Username: "CR7"}

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := NewTokens("other", time.Hour).Generate(user)
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewTokens("test-secret", time.Hour)
		old.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		raw, err := old.Generate(user)
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
