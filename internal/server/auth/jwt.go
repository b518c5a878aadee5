// Package auth issues and verifies the signed session tokens (HS256 JWT).
// Verification is purely cryptographic: signature and expiry. Whether the
// token is still live for its account is the identity resolver's concern.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/annagruz/taskvault/internal/common"
)

// Claims carries the registered claims plus the owning account identifier.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

// TokenService signs and verifies session tokens with a process-wide secret
// loaded once at startup.
type TokenService struct {
	secret   []byte
	validity time.Duration
}

func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, validity: validity}
}

// Issue produces a signed token embedding accountID with an expiry of
// now + validity. The jti claim makes every issued token distinct even
// within the same second, so single-session revocation can always tell
// sessions apart.
func (s *TokenService) Issue(accountID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		AccountID: accountID,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a presented token, returning the embedded
// account ID. Failures map to the shared sentinels:
// ErrTokenMalformed, ErrTokenExpired, ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", common.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		default:
			return "", common.ErrTokenInvalid
		}
	}

	if !token.Valid || claims.AccountID == "" {
		return "", common.ErrTokenInvalid
	}

	return claims.AccountID, nil
}
