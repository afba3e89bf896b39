package domain

import "time"

// Token is a stored OAuth token set for one CLI profile. The secret parts
// are kept sealed; only the service layer can open them.
type Token struct {
	ID        string // ULID
	Profile   string
	Subject   string // sub claim of the verified access token
	TokenType string // typically "Bearer"
	Scope     string // space-delimited

	AccessTokenSealed  []byte
	RefreshTokenSealed []byte // nil when Casdoor issued no refresh token
	IDTokenSealed      []byte

	ExpiresAt time.Time // zero when the token carries no expiry
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the access token is past its expiry at now.
// Tokens without an expiry never expire.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

func (t Token) HasRefreshToken() bool { return len(t.RefreshTokenSealed) > 0 }
