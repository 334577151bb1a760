// Package auth implements stateless session tokens as HS256-signed JWTs.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/omsomani/account-system/internal/core/domain"
	"github.com/omsomani/account-system/internal/core/ports"
)

// DefaultTokenTTL is how long a session token stays valid after issuance.
const DefaultTokenTTL = 24 * time.Hour

// Claims carries the account identity alongside the registered time claims.
type Claims struct {
	AccountID uint64 `json:"account_id"`
	jwt.RegisteredClaims
}

// JWTIssuer signs and verifies session tokens with a process-wide secret.
// Rotating the secret invalidates all outstanding tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// NewJWTIssuer creates an issuer with the given secret and token lifetime.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token encoding the account ID, issuance time, and expiry.
func (j *JWTIssuer) Issue(accountID uint64) (string, error) {
	now := j.now()
	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Verify parses and validates a token, returning the account ID it encodes.
// Every failure mode (bad signature, wrong algorithm, malformed input,
// expiry) collapses to domain.ErrInvalidToken.
func (j *JWTIssuer) Verify(tokenString string) (uint64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return j.now() }))
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}
	if claims.AccountID == 0 {
		return 0, domain.ErrInvalidToken
	}
	return claims.AccountID, nil
}
