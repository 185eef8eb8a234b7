package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		token, err := GenerateToken("test-secret", 7, "admin@example.com", "admin", time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken("test-secret", token)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "admin@example.com", claims.Email)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := GenerateToken("test-secret", 7, "", "user", time.Hour)
		require.NoError(t, err)

		_, err = ParseToken("other-secret", token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := GenerateToken("test-secret", 7, "", "user", -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken("test-secret", token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		_, err := GenerateToken("", 1, "", "", time.Hour)
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, err = ParseToken("", "x")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("UnexpectedSigningMethod", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken("test-secret", signed)
		assert.Error(t, err)
	})
}
