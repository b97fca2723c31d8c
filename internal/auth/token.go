// Package auth handles credential hashing and access-token minting for the
// Wayfare API. Tokens are HS256 JWTs carrying the user id as the subject.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by ParseToken for any token that fails
// signature, expiry, or claim checks. The cause is deliberately not
// distinguished; callers respond 401 either way.
var ErrInvalidToken = errors.New("invalid token")

// NewToken signs an HS256 access token for userID valid for ttl.
// Claims are sub (user id), iat, and exp.
func NewToken(secret string, userID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.NewToken: %w", err)
	}
	return signed, exp, nil
}

// ParseToken verifies raw against secret and returns the user id it was
// minted for. Tokens signed with any method other than HMAC are rejected.
func ParseToken(secret, raw string) (uuid.UUID, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
