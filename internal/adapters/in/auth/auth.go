// Package auth verifies the signed tokens presented by inbound HTTP and
// websocket clients and extracts the caller's identity and role.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates the presented token failed verification.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated caller: a user id plus one role claim.
type Principal struct {
	UserID string
	Role   string
}

// Claims is the token payload. The subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HMAC-signed tokens against a shared secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for the given signing secret.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &TokenVerifier{secret: []byte(secret)}, nil
}

// Verify parses and validates a token string. Expired, malformed, or
// foreign-signed tokens all map to ErrInvalidToken.
func (v *TokenVerifier) Verify(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Role == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: claims.Subject, Role: claims.Role}, nil
}
