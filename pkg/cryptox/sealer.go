package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the sealing key. A Sealer is built once
// per process, so the cost is paid once.
const (
	sealIterations  = 2
	sealMemory      = 19 * 1024 // KiB
	sealParallelism = 1
	sealKeyLength   = 32

	// SaltSize is the length of the salt NewSealer expects.
	SaltSize = 16
)

var (
	ErrEmptySecret      = errors.New("cryptox: sealer secret is empty")
	ErrCiphertextLength = errors.New("cryptox: ciphertext too short")
	ErrDecrypt          = errors.New("cryptox: decryption failed")
)

// Sealer encrypts small secrets (OAuth tokens) at rest with AES-256-GCM. The
// key is derived from a master secret with Argon2id.
//
// Sealed format: [12-byte nonce][ciphertext][16-byte tag]
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the AES key from secret and salt. The same pair must be
// used to open what was sealed.
func NewSealer(secret, salt []byte) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("cryptox: salt must be at least %d bytes", SaltSize)
	}

	key := argon2.IDKey(secret, salt, sealIterations, sealMemory, sealParallelism, sealKeyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// LoadSecret reads the master secret from path, falling back to the env
// variable named envKey when path is empty. Surrounding whitespace is
// trimmed so a key file written by echo still works.
func LoadSecret(path, envKey string) ([]byte, error) {
	var raw string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cryptox: read master key file: %w", err)
		}
		raw = string(data)
	} else {
		raw = os.Getenv(envKey)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptySecret
	}
	return []byte(raw), nil
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("cryptox: generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts plaintext. associated is authenticated but not encrypted;
// pass the row key so a sealed value cannot be moved to another row.
func (s *Sealer) Seal(plaintext, associated []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, associated), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, associated []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrCiphertextLength
	}

	plaintext, err := s.aead.Open(nil, sealed[:n], sealed[n:], associated)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return plaintext, nil
}
