package jwtx

import (
	"crypto"
	"fmt"

	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Signer mints tokens with a private key. Casdoor does the signing in
// production; this exists so tests and tooling can produce tokens that look
// like Casdoor's.
type Signer struct {
	alg Algorithm
	kid string
	key crypto.Signer
}

// NewSigner loads a PEM private key (PKCS1, SEC1 or PKCS8) for alg.
func NewSigner(alg Algorithm, kid string, pemKey []byte) (*Signer, error) {
	if alg.method() == nil {
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}

	key, err := cryptox.ParsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: load signing key: %w", err)
	}
	if err := alg.checkPublicKey(key.Public()); err != nil {
		return nil, err
	}

	return &Signer{alg: alg, kid: kid, key: key}, nil
}

func (s *Signer) Alg() Algorithm           { return s.alg }
func (s *Signer) KID() string              { return s.kid }
func (s *Signer) Public() crypto.PublicKey { return s.key.Public() }

// Sign serializes claims and signs them. The kid header is set when the
// signer has one.
func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	t := jwt.NewWithClaims(s.alg.method(), claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	return t.SignedString(s.key)
}
