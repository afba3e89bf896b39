package cryptox

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
)

// GenerateES256Key generates an ECDSA P-256 private key as PKCS8 PEM.
func GenerateES256Key() ([]byte, error) {
	return generateECDSAKey(elliptic.P256())
}

// GenerateES384Key generates an ECDSA P-384 private key as PKCS8 PEM.
func GenerateES384Key() ([]byte, error) {
	return generateECDSAKey(elliptic.P384())
}

func generateECDSAKey(curve elliptic.Curve) ([]byte, error) {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate ECDSA key: %w", err)
	}
	return marshalPKCS8(key)
}
