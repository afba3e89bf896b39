package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/domain"
	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/store"
	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/aussiebroadwan/casdoor/pkg/idx"
	"github.com/aussiebroadwan/casdoor/pkg/slogx"
	"golang.org/x/oauth2"
)

// SettingSealerSalt is the settings key holding the salt for the token sealer.
const SettingSealerSalt = "sealer_salt"

var (
	ErrNoToken        = errors.New("no stored token for profile")
	ErrNoRefreshToken = errors.New("stored token has no refresh token")
	ErrEmptyToken     = errors.New("token has no access token")
)

// Refresher runs a refresh_token grant. *casdoor.Auth satisfies it.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// TokenService keeps OAuth tokens for CLI profiles. Secrets are sealed
// before they reach the store and opened on the way out.
type TokenService struct {
	Store  store.Store
	Sealer *cryptox.Sealer
	Now    func() time.Time // nil means time.Now
}

// NewSealer builds the token sealer from secret and the salt kept in the
// store's settings, creating the salt on first use.
func NewSealer(ctx context.Context, st store.Store, secret []byte) (*cryptox.Sealer, error) {
	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}

	// Another process may have won the insert; whatever is stored wins.
	if _, err := st.Settings().PutSettingIfAbsent(ctx, SettingSealerSalt, salt); err != nil {
		return nil, fmt.Errorf("store sealer salt: %w", err)
	}
	salt, err = st.Settings().GetSetting(ctx, SettingSealerSalt)
	if err != nil {
		return nil, fmt.Errorf("load sealer salt: %w", err)
	}

	return cryptox.NewSealer(secret, salt)
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// associated binds a sealed value to its profile and field.
func associated(profile, field string) []byte {
	return []byte(profile + ":" + field)
}

func (s *TokenService) seal(profile, field, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	return s.Sealer.Seal([]byte(value), associated(profile, field))
}

func (s *TokenService) open(profile, field string, sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	plain, err := s.Sealer.Open(sealed, associated(profile, field))
	if err != nil {
		return "", fmt.Errorf("open %s token: %w", field, err)
	}
	return string(plain), nil
}

// Save stores tok for profile, replacing any earlier token. subject is the
// verified sub claim, recorded so `token list` can show who is signed in.
func (s *TokenService) Save(
	ctx context.Context,
	profile string,
	tok *oauth2.Token,
	subject string,
) (domain.Token, error) {
	if tok == nil || tok.AccessToken == "" {
		return domain.Token{}, ErrEmptyToken
	}

	now := s.now()
	rec := domain.Token{
		ID:        idx.New().String(),
		Profile:   profile,
		Subject:   subject,
		TokenType: tok.Type(),
		ExpiresAt: tok.Expiry.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		rec.Scope = scope
	}

	var err error
	if rec.AccessTokenSealed, err = s.seal(profile, "access", tok.AccessToken); err != nil {
		return domain.Token{}, err
	}
	if rec.RefreshTokenSealed, err = s.seal(profile, "refresh", tok.RefreshToken); err != nil {
		return domain.Token{}, err
	}
	idToken, _ := tok.Extra("id_token").(string)
	if rec.IDTokenSealed, err = s.seal(profile, "id", idToken); err != nil {
		return domain.Token{}, err
	}

	if err := s.Store.Tokens().SaveToken(ctx, rec); err != nil {
		return domain.Token{}, err
	}

	slogx.FromContext(ctx).Debug("token stored",
		"profile", profile,
		"subject", subject,
		"fingerprint", cryptox.FingerprintToken(tok.AccessToken),
	)
	return rec, nil
}

// Load opens the token stored for profile.
func (s *TokenService) Load(ctx context.Context, profile string) (*oauth2.Token, domain.Token, error) {
	rec, err := s.Store.Tokens().GetTokenByProfile(ctx, profile)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.Token{}, fmt.Errorf("%w %q", ErrNoToken, profile)
	}
	if err != nil {
		return nil, domain.Token{}, err
	}

	access, err := s.open(profile, "access", rec.AccessTokenSealed)
	if err != nil {
		return nil, domain.Token{}, err
	}
	refresh, err := s.open(profile, "refresh", rec.RefreshTokenSealed)
	if err != nil {
		return nil, domain.Token{}, err
	}
	idToken, err := s.open(profile, "id", rec.IDTokenSealed)
	if err != nil {
		return nil, domain.Token{}, err
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		TokenType:    rec.TokenType,
		RefreshToken: refresh,
		Expiry:       rec.ExpiresAt,
	}
	extra := map[string]any{}
	if idToken != "" {
		extra["id_token"] = idToken
	}
	if rec.Scope != "" {
		extra["scope"] = rec.Scope
	}
	if len(extra) > 0 {
		tok = tok.WithExtra(extra)
	}
	return tok, rec, nil
}

func (s *TokenService) List(ctx context.Context) ([]domain.Token, error) {
	return s.Store.Tokens().ListTokens(ctx)
}

func (s *TokenService) Delete(ctx context.Context, profile string) error {
	err := s.Store.Tokens().DeleteToken(ctx, profile)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w %q", ErrNoToken, profile)
	}
	return err
}

// Refresh runs a refresh grant with the profile's stored refresh token and
// stores the result. Casdoor may not rotate the refresh token; the old one is
// kept in that case.
func (s *TokenService) Refresh(ctx context.Context, profile string, r Refresher) (*oauth2.Token, error) {
	current, rec, err := s.Load(ctx, profile)
	if err != nil {
		return nil, err
	}
	if current.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	fresh, err := r.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		return nil, err
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}

	if _, err := s.Save(ctx, profile, fresh, rec.Subject); err != nil {
		return nil, err
	}
	return fresh, nil
}
