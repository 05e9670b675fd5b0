package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer creates and validates HS256-signed bearer tokens. The secret
// and signing algorithm are fixed for the process lifetime.
type TokenIssuer struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenIssuer returns a TokenIssuer for the given secret. defaultTTL is
// used when Issue is called with a zero ttl.
func NewTokenIssuer(secret string, defaultTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue signs a token carrying subject and an absolute expiry of now+ttl.
// A zero ttl uses the issuer's default.
func (i *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = i.defaultTTL
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded subject.
// Expired tokens yield ErrTokenExpired, anything else malformed or forged
// yields ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
