package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Algorithm is a JWS signing algorithm this package can verify.
type Algorithm string

const (
	RS256 Algorithm = "RS256"
	RS512 Algorithm = "RS512"
	ES256 Algorithm = "ES256"
	ES384 Algorithm = "ES384"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{RS256, RS512, ES256, ES384}

// ParseAlgorithm accepts an algorithm name in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	alg := Algorithm(strings.ToUpper(strings.TrimSpace(s)))
	if alg.method() == nil {
		return "", fmt.Errorf("jwtx: unsupported algorithm %q", s)
	}
	return alg, nil
}

func (a Algorithm) String() string { return string(a) }

func (a Algorithm) method() jwt.SigningMethod {
	switch a {
	case RS256:
		return jwt.SigningMethodRS256
	case RS512:
		return jwt.SigningMethodRS512
	case ES256:
		return jwt.SigningMethodES256
	case ES384:
		return jwt.SigningMethodES384
	default:
		return nil
	}
}

// curve is the ECDSA curve an ES algorithm is bound to, nil for RSA.
func (a Algorithm) curve() elliptic.Curve {
	switch a {
	case ES256:
		return elliptic.P256()
	case ES384:
		return elliptic.P384()
	default:
		return nil
	}
}

// checkPublicKey makes sure key can verify signatures made with a. A P-384
// key is not accepted for ES256 and vice versa.
func (a Algorithm) checkPublicKey(key crypto.PublicKey) error {
	switch k := key.(type) {
	case *rsa.PublicKey:
		if a == RS256 || a == RS512 {
			return nil
		}
	case *ecdsa.PublicKey:
		if c := a.curve(); c != nil && k.Curve == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %T cannot verify %s", ErrKeyType, key, a)
}
