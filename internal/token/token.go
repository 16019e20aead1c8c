// Package token issues and validates the signed, time-bounded identity
// tokens that carry authentication across stateless requests. There is no
// server-side session store and no revocation list; a token is trusted iff
// its signature verifies against the process-wide key and it has not
// expired.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum accepted signing secret length in bytes.
const MinSecretLength = 32

var (
	ErrSecretTooShort   = errors.New("token: signing secret too short")
	ErrMalformed        = errors.New("token: malformed token")
	ErrSignatureInvalid = errors.New("token: invalid signature")
	ErrExpired          = errors.New("token: expired")
)

// Service signs and parses identity tokens with a fixed symmetric key.
// It is purely computational and safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

// NewService creates a token service. The secret is the process-wide
// signing key; secrets shorter than MinSecretLength are rejected.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue produces a signed token for the given subject email, valid from
// now until now + ttl.
func (s *Service) Issue(subjectEmail string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectEmail,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ExtractSubject parses a token and returns its subject email.
// It fails with ErrMalformed, ErrSignatureInvalid or ErrExpired depending
// on which check fails. Signature verification happens before expiry
// validation, so a tampered token never leaks its claimed subject.
func (s *Service) ExtractSubject(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		default:
			return "", ErrMalformed
		}
	}
	if !tok.Valid {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}

// IsValid reports whether the token parses cleanly, is fresh, and was
// issued for expectedEmail (case-sensitive). Extraction failures are
// treated as false; IsValid never returns an error.
func (s *Service) IsValid(tokenString, expectedEmail string) bool {
	subject, err := s.ExtractSubject(tokenString)
	return err == nil && subject == expectedEmail
}
