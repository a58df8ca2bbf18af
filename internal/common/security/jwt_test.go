package security

import (
	"context"
	"testing"
	"time"
	"tle_tracker/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_VerifiesWithSameSecret(t *testing.T) {
	ta := NewTokenAuth(&config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour})

	token, err := ta.GenerateToken("user_123", "alice@example.com")
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(ta.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user_123", id)
	assert.Equal(t, "alice@example.com", GetEmailFromClaims(claims))
}

func TestGenerateToken_RejectedWithOtherSecret(t *testing.T) {
	issuer := NewTokenAuth(&config.Config{JWTKey: []byte("one"), JWTExp: time.Hour})
	verifier := NewTokenAuth(&config.Config{JWTKey: []byte("two"), JWTExp: time.Hour})

	token, err := issuer.GenerateToken("user_123", "")
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), token)
	assert.Error(t, err)
}

func TestGetUserIDFromClaims(t *testing.T) {
	id, err := GetUserIDFromClaims(jwt.MapClaims{"user_id": "legacy"})
	require.NoError(t, err)
	assert.Equal(t, "legacy", id)

	_, err = GetUserIDFromClaims(jwt.MapClaims{"sub": 42})
	assert.Error(t, err)
}
