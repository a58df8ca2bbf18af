package security

import (
	"errors"
	"time"
	"tle_tracker/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenAuth verifies bearer tokens whose subject is the external auth identity, and can mint
// tokens for local development.
type TokenAuth struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
	now  func() time.Time
}

func NewTokenAuth(cfg *config.Config) *TokenAuth {
	return &TokenAuth{
		auth: jwtauth.New("HS256", cfg.JWTKey, nil),
		exp:  cfg.JWTExp,
		now:  time.Now,
	}
}

// JWTAuth exposes the verifier for jwtauth.Verifier.
func (t *TokenAuth) JWTAuth() *jwtauth.JWTAuth {
	return t.auth
}

func (t *TokenAuth) GenerateToken(userID, email string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(t.exp).Unix(),
		"iat": now.Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	_, tokenString, err := t.auth.Encode(claims)
	return tokenString, err
}

// GetUserIDFromClaims prefers the standard "sub" claim and falls back to "user_id".
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	if id, ok := claims["sub"].(string); ok && id != "" {
		return id, nil
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id, nil
	}
	return "", errors.New("sub claim is missing or not a string")
}

func GetEmailFromClaims(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	return email
}
