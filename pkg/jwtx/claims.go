package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewRegisteredClaims builds minimally-correct registered claims.
func NewRegisteredClaims(
	subject, issuer string,
	audience []string,
	ttl time.Duration,
	now time.Time,
) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings(audience),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func ValidateIssuer(c jwt.Claims, expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	iss, err := c.GetIssuer()
	if err != nil {
		return ErrInvalidClaim
	}
	if iss != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func ValidateAudience(c jwt.Claims, expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	aud, err := c.GetAudience()
	if err != nil {
		return ErrInvalidClaim
	}
	for _, want := range expected {
		if slices.Contains(aud, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func ValidateExpiry(c jwt.Claims) error {
	return ValidateExpiryWithLeeway(c, 0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func ValidateExpiryWithLeeway(c jwt.Claims, leeway time.Duration) error {
	now := time.Now().UTC()

	exp, err := c.GetExpirationTime()
	if err != nil {
		return ErrInvalidClaim
	}
	if exp != nil && now.After(exp.Add(leeway)) {
		return ErrExpired
	}

	nbf, err := c.GetNotBefore()
	if err != nil {
		return ErrInvalidClaim
	}
	if nbf != nil && now.Before(nbf.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
