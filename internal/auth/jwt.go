package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/juliebook/juliebook-be/internal/apierr"
)

// Claims defines the JWT claims structure. The user id is the only custom claim.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenIssuer creates and verifies signed, time-bounded bearer tokens.
// The signing secret and validity horizon are fixed at construction.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given secret and token lifetime.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue creates a new signed token for a user id. Stateless: nothing is stored.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apierr.Wrap(apierr.KindInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns the user id it was
// issued for. Any failure (malformed token, bad signature, tampered claims,
// elapsed expiry) comes back as Unauthenticated.
func (t *TokenIssuer) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", apierr.Wrap(apierr.KindUnauthenticated, "invalid auth token", err)
	}
	if !token.Valid || claims.UserID == "" {
		return "", apierr.Unauthenticated("invalid auth token")
	}
	return claims.UserID, nil
}
