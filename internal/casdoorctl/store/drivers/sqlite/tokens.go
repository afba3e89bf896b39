package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/domain"
	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/store"
)

type tokensRepo struct {
	db dbtx
}

const tokenColumns = `id, profile, subject, token_type, scope,
	access_token_sealed, refresh_token_sealed, id_token_sealed,
	expires_at, created_at, updated_at`

func (r *tokensRepo) SaveToken(ctx context.Context, t domain.Token) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tokens (`+tokenColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile) DO UPDATE SET
	subject              = excluded.subject,
	token_type           = excluded.token_type,
	scope                = excluded.scope,
	access_token_sealed  = excluded.access_token_sealed,
	refresh_token_sealed = excluded.refresh_token_sealed,
	id_token_sealed      = excluded.id_token_sealed,
	expires_at           = excluded.expires_at,
	updated_at           = excluded.updated_at`,
		t.ID,
		t.Profile,
		t.Subject,
		t.TokenType,
		t.Scope,
		t.AccessTokenSealed,
		nullBlob(t.RefreshTokenSealed),
		nullBlob(t.IDTokenSealed),
		toMillis(t.ExpiresAt),
		toMillis(t.CreatedAt),
		toMillis(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *tokensRepo) GetTokenByProfile(ctx context.Context, profile string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE profile = ?`, profile)
	t, err := scanToken(row)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) ListTokens(ctx context.Context) ([]domain.Token, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tokenColumns+` FROM tokens ORDER BY profile`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tokensRepo) DeleteToken(ctx context.Context, profile string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE profile = ?`, profile)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(s scanner) (domain.Token, error) {
	var (
		t                               domain.Token
		expiresAt, createdAt, updatedAt int64
	)
	err := s.Scan(
		&t.ID,
		&t.Profile,
		&t.Subject,
		&t.TokenType,
		&t.Scope,
		&t.AccessTokenSealed,
		&t.RefreshTokenSealed,
		&t.IDTokenSealed,
		&expiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Token{}, err
	}

	t.ExpiresAt = fromMillis(expiresAt)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

// nullBlob stores an empty secret as NULL rather than a zero-length blob.
func nullBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
