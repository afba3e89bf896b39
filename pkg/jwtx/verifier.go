package jwtx

import (
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and decodes its claims into the value supplied by
// the caller.
type Verifier interface {
	VerifyInto(token string, claims jwt.Claims) error
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// RequireKID enforces presence of the "kid" header.
	RequireKID bool

	// RequireExpiry rejects tokens without an exp claim.
	RequireExpiry bool
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrMissingKID  = errors.New("jwtx: missing kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrKeyType     = errors.New("jwtx: key does not match algorithm")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrMissingExp   = errors.New("jwtx: missing exp claim")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// KeyVerifier checks tokens against a single static public key, pinned to
// one algorithm.
type KeyVerifier struct {
	alg  Algorithm
	key  crypto.PublicKey
	opts VerifyOptions
}

// NewKeyVerifier binds key to alg. It fails if the key type cannot produce
// alg signatures.
func NewKeyVerifier(alg Algorithm, key crypto.PublicKey, opts VerifyOptions) (*KeyVerifier, error) {
	if alg.method() == nil {
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}
	if err := alg.checkPublicKey(key); err != nil {
		return nil, err
	}
	return &KeyVerifier{alg: alg, key: key, opts: opts}, nil
}

// NewKeyVerifierPEM is NewKeyVerifier for a PEM public key or certificate.
func NewKeyVerifierPEM(alg Algorithm, pemData []byte, opts VerifyOptions) (*KeyVerifier, error) {
	key, err := cryptox.ParsePublicKeyPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load verification key: %w", err)
	}
	return NewKeyVerifier(alg, key, opts)
}

func (v *KeyVerifier) Alg() Algorithm { return v.alg }

// VerifyInto checks the signature and the registered claims, decoding the
// payload into claims. A token whose header names any other algorithm is
// rejected before the key is touched.
func (v *KeyVerifier) VerifyInto(tokenStr string, claims jwt.Claims) error {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		alg, _ := t.Header["alg"].(string)
		if alg != v.alg.String() {
			return nil, fmt.Errorf("%w: token is %q, expected %q", ErrAlgMismatch, alg, v.alg)
		}
		if v.opts.RequireKID {
			if kid, _ := t.Header["kid"].(string); kid == "" {
				return nil, ErrMissingKID
			}
		}
		return v.key, nil
	})
	if err != nil {
		return classifyParseError(err)
	}

	if err := ValidateIssuer(claims, v.opts.Issuer); err != nil {
		return err
	}
	if err := ValidateAudience(claims, v.opts.Audience); err != nil {
		return err
	}
	if v.opts.RequireExpiry {
		if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
			return ErrMissingExp
		}
	}
	return ValidateExpiryWithLeeway(claims, v.opts.Leeway)
}

// classifyParseError maps golang-jwt's errors onto this package's sentinels.
// Keyfunc errors are already ours and pass through.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, ErrMissingKID):
		return err
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// golang-jwt has no implementation for the header's alg.
		return fmt.Errorf("%w: %w", ErrAlgMismatch, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
