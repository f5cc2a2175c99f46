package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *auth.JWTValidator {
	return auth.NewJWTValidator(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-signing",
		Issuer:    "facility-api",
		TokenTTL:  60,
	})
}

func TestJWTValidator_IssueAndValidate(t *testing.T) {
	validator := newTestValidator()

	uc := &auth.UserContext{
		UserID:      42,
		RoleID:      3,
		Email:       "worker@norvik.io",
		DisplayName: "Test Worker",
	}

	token, err := validator.IssueToken(uc)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), parsed.UserID)
	assert.Equal(t, uint(3), parsed.RoleID)
	assert.Equal(t, "worker@norvik.io", parsed.Email)
	assert.Equal(t, "Test Worker", parsed.DisplayName)
	assert.False(t, parsed.IsService)
}

func TestJWTValidator_RejectsBadTokens(t *testing.T) {
	validator := newTestValidator()

	t.Run("garbage input", func(t *testing.T) {
		_, err := validator.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := auth.NewJWTValidator(&config.AuthConfig{
			JWTSecret: "a-different-secret",
			Issuer:    "facility-api",
			TokenTTL:  60,
		})
		token, err := other.IssueToken(&auth.UserContext{UserID: 1})
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := auth.NewJWTValidator(&config.AuthConfig{
			JWTSecret: "test-secret-key-for-signing",
			Issuer:    "someone-else",
			TokenTTL:  60,
		})
		token, err := other.IssueToken(&auth.UserContext{UserID: 1})
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &auth.Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "facility-api",
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-for-signing"))
		require.NoError(t, err)

		_, err = validator.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("missing expiration", func(t *testing.T) {
		claims := &auth.Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:   "facility-api",
				IssuedAt: jwt.NewNumericDate(time.Now()),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-for-signing"))
		require.NoError(t, err)

		_, err = validator.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing user id claim", func(t *testing.T) {
		claims := &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "facility-api",
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret-key-for-signing"))
		require.NoError(t, err)

		_, err = validator.ValidateToken(signed)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestUserContextRoundTrip(t *testing.T) {
	t.Run("stored and retrieved", func(t *testing.T) {
		uc := &auth.UserContext{UserID: 7, RoleID: 2}
		ctx := auth.WithUserContext(context.Background(), uc)
		assert.Equal(t, uc, auth.GetUserContext(ctx))
		assert.Equal(t, uint(7), auth.UserID(ctx))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, auth.GetUserContext(context.Background()))
		assert.Equal(t, uint(0), auth.UserID(context.Background()))
	})
}
