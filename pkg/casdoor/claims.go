package casdoor

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of a Casdoor-issued JWT: the user object flattened
// into the top level, a few token fields, and the registered claims.
//
// User.ID ("id") and RegisteredClaims.ID ("jti") share a Go name; select
// them through the embedded field, e.g. c.User.ID.
type Claims struct {
	User

	AccessToken string `json:"accessToken"`
	Tag         string `json:"tag"`
	TokenType   string `json:"tokenType,omitempty"`
	Nonce       string `json:"nonce,omitempty"`
	Scope       string `json:"scope,omitempty"`

	jwt.RegisteredClaims
}

var _ jwt.Claims = (*Claims)(nil)
