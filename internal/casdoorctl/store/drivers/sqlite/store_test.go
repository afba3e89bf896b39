package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/domain"
	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/store"
	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/store/drivers/sqlite"
	"github.com/aussiebroadwan/casdoor/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "casdoorctl.db") + "?_pragma=busy_timeout(5000)"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testToken(profile string) domain.Token {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Token{
		ID:                 idx.New().String(),
		Profile:            profile,
		Subject:            "0b3e1f7c-user-id",
		TokenType:          "Bearer",
		Scope:              "read profile",
		AccessTokenSealed:  []byte("sealed-access"),
		RefreshTokenSealed: []byte("sealed-refresh"),
		ExpiresAt:          now.Add(time.Hour),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := newTestStore(t)
		tok := testToken("default")

		require.NoError(t, s.Tokens().SaveToken(ctx, tok))

		got, err := s.Tokens().GetTokenByProfile(ctx, "default")
		require.NoError(t, err)
		require.Equal(t, tok, got)
		require.Nil(t, got.IDTokenSealed)
	})

	t.Run("missing profile", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Tokens().GetTokenByProfile(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("save replaces and keeps identity", func(t *testing.T) {
		s := newTestStore(t)
		first := testToken("default")
		require.NoError(t, s.Tokens().SaveToken(ctx, first))

		second := testToken("default")
		second.AccessTokenSealed = []byte("rotated")
		second.RefreshTokenSealed = nil
		second.UpdatedAt = first.UpdatedAt.Add(time.Minute)
		require.NoError(t, s.Tokens().SaveToken(ctx, second))

		got, err := s.Tokens().GetTokenByProfile(ctx, "default")
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID)
		require.Equal(t, first.CreatedAt, got.CreatedAt)
		require.Equal(t, second.UpdatedAt, got.UpdatedAt)
		require.Equal(t, []byte("rotated"), got.AccessTokenSealed)
		require.False(t, got.HasRefreshToken())
	})

	t.Run("zero expiry round trips", func(t *testing.T) {
		s := newTestStore(t)
		tok := testToken("default")
		tok.ExpiresAt = time.Time{}
		require.NoError(t, s.Tokens().SaveToken(ctx, tok))

		got, err := s.Tokens().GetTokenByProfile(ctx, "default")
		require.NoError(t, err)
		require.True(t, got.ExpiresAt.IsZero())
		require.False(t, got.Expired(time.Now()))
	})

	t.Run("list is ordered by profile", func(t *testing.T) {
		s := newTestStore(t)
		for _, p := range []string{"staging", "default", "prod"} {
			require.NoError(t, s.Tokens().SaveToken(ctx, testToken(p)))
		}

		list, err := s.Tokens().ListTokens(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, "default", list[0].Profile)
		require.Equal(t, "prod", list[1].Profile)
		require.Equal(t, "staging", list[2].Profile)
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Tokens().SaveToken(ctx, testToken("default")))

		require.NoError(t, s.Tokens().DeleteToken(ctx, "default"))
		require.ErrorIs(t, s.Tokens().DeleteToken(ctx, "default"), store.ErrNotFound)

		_, err := s.Tokens().GetTokenByProfile(ctx, "default")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Settings().GetSetting(ctx, "sealer_salt")
	require.ErrorIs(t, err, store.ErrNotFound)

	written, err := s.Settings().PutSettingIfAbsent(ctx, "sealer_salt", []byte("first"))
	require.NoError(t, err)
	require.True(t, written)

	written, err = s.Settings().PutSettingIfAbsent(ctx, "sealer_salt", []byte("second"))
	require.NoError(t, err)
	require.False(t, written)

	value, err := s.Settings().GetSetting(ctx, "sealer_salt")
	require.NoError(t, err)
	require.Equal(t, []byte("first"), value)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		s := newTestStore(t)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Tokens().SaveToken(ctx, testToken("default"))
		})
		require.NoError(t, err)

		_, err = s.Tokens().GetTokenByProfile(ctx, "default")
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		s := newTestStore(t)
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Tokens().SaveToken(ctx, testToken("default")))
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Tokens().GetTokenByProfile(ctx, "default")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nested tx is rejected", func(t *testing.T) {
		s := newTestStore(t)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.Error(t, err)
	})
}
