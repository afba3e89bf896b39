package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface for the CLI's local state.
// Concrete drivers (sqlite) implement it and expose sub-repositories.
type Store interface {
	Tokens() Tokens
	Settings() Settings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tokens interface {
	// SaveToken inserts the token or replaces the one stored for the same
	// profile. The original ID and created_at survive a replace.
	SaveToken(ctx context.Context, t domain.Token) error

	GetTokenByProfile(ctx context.Context, profile string) (domain.Token, error)

	// ListTokens returns every stored token ordered by profile.
	ListTokens(ctx context.Context) ([]domain.Token, error)

	// DeleteToken removes the profile's token. Deleting a missing profile
	// returns ErrNotFound.
	DeleteToken(ctx context.Context, profile string) error
}

// Settings is a small key/value table for local state such as the sealer salt.
type Settings interface {
	GetSetting(ctx context.Context, key string) ([]byte, error)

	// PutSettingIfAbsent stores value unless key already has one. It reports
	// whether the value was written.
	PutSettingIfAbsent(ctx context.Context, key string, value []byte) (bool, error)
}
