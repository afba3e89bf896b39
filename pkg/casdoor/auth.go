package casdoor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/jwtx"
	"golang.org/x/oauth2"
)

// Casdoor's OAuth2 and UI paths, relative to the endpoint.
const (
	authorizePath    = "/api/login/oauth/authorize"
	accessTokenPath  = "/api/login/oauth/access_token"
	refreshTokenPath = "/api/login/oauth/refresh_token"
	userinfoPath     = "/api/userinfo"

	signinPagePath = "/login/oauth/authorize"
	signupPagePath = "/signup/oauth/authorize"
)

// Auth groups the token operations: OAuth2 grants, local JWT verification,
// login URLs and sessions. It has no state of its own; tokens it returns are
// the caller's to store.
type Auth struct {
	c *Client
}

// Auth returns the token operations for this client.
func (c *Client) Auth() *Auth { return &Auth{c: c} }

// ============================================================================
// OAuth2 grants
// ============================================================================

func (a *Auth) oauth2Config(tokenPath string) *oauth2.Config {
	cfg := a.c.cfg
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.Endpoint + authorizePath,
			TokenURL:  cfg.Endpoint + tokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// oauth2Context makes x/oauth2 use the client's HTTP client.
func (a *Auth) oauth2Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.c.httpClient)
}

// ExchangeCode trades an authorization code for tokens. The ID token, when
// Casdoor returns one, is available as token.Extra("id_token").
func (a *Auth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if err := a.c.wait(ctx); err != nil {
		return nil, err
	}

	tok, err := a.oauth2Config(accessTokenPath).Exchange(a.oauth2Context(ctx), code)
	if err != nil {
		a.c.log(ctx).Debug("casdoor_token_exchange_failed", "grant", "authorization_code", "err", err)
		return nil, tokenExchangeError(err)
	}
	return tok, nil
}

// RefreshToken runs the refresh_token grant.
func (a *Auth) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if err := a.c.wait(ctx); err != nil {
		return nil, err
	}

	src := a.oauth2Config(refreshTokenPath).TokenSource(a.oauth2Context(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		a.c.log(ctx).Debug("casdoor_token_exchange_failed", "grant", "refresh_token", "err", err)
		return nil, tokenExchangeError(err)
	}
	return tok, nil
}

// ============================================================================
// JWT verification
// ============================================================================

// VerifyLeeway is the clock skew tolerated on exp and nbf.
const VerifyLeeway = time.Minute

// Verifier builds a verifier for alg from the configured certificate. The
// token audience must contain the client id and exp must be present. Build
// it once when verifying many tokens.
func (a *Auth) Verifier(alg jwtx.Algorithm) (*jwtx.KeyVerifier, error) {
	v, err := jwtx.NewKeyVerifierPEM(alg, []byte(a.c.cfg.Certificate), jwtx.VerifyOptions{
		Audience:      []string{a.c.cfg.ClientID},
		Leeway:        VerifyLeeway,
		RequireExpiry: true,
	})
	if err != nil {
		return nil, wrapError(http.StatusBadRequest, KindJWT, "invalid verification certificate", err)
	}
	return v, nil
}

// VerifyToken checks token locally and returns its claims. The token must be
// signed with exactly alg; anything else fails with jwtx.ErrAlgMismatch.
func (a *Auth) VerifyToken(token string, alg jwtx.Algorithm) (*Claims, error) {
	v, err := a.Verifier(alg)
	if err != nil {
		return nil, err
	}
	return VerifyClaims(v, token)
}

// VerifyClaims runs v on token and decodes Casdoor claims. Failures keep the
// jwtx sentinel reachable through errors.Is.
func VerifyClaims(v jwtx.Verifier, token string) (*Claims, error) {
	var claims Claims
	if err := v.VerifyInto(token, &claims); err != nil {
		return nil, wrapError(http.StatusBadRequest, KindJWT, "token verification failed", err)
	}
	return &claims, nil
}

// GetUserinfo fetches the OIDC userinfo document for the owner of
// accessToken. The call authenticates as that user, not the application.
func (a *Auth) GetUserinfo(ctx context.Context, accessToken string) (*Userinfo, error) {
	resp, err := a.c.doRequest(ctx, http.MethodGet, userinfoPath, nil, bearerAuth(accessToken))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(resp, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newError(resp.StatusCode, KindBusiness, strings.TrimSpace(string(raw)))
	}

	var info Userinfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, decodeError(resp, err)
	}
	return &info, nil
}

// ============================================================================
// URL builders
// ============================================================================

// SigninURL is the Casdoor login page for this application. state is the
// configured application name.
func (a *Auth) SigninURL(redirectURL string) string {
	cfg := a.c.cfg
	return cfg.Endpoint + signinPagePath +
		"?client_id=" + cfg.ClientID +
		"&response_type=code" +
		"&redirect_uri=" + escapeComponent(redirectURL) +
		"&scope=read" +
		"&state=" + cfg.AppName
}

// SignupURL is SigninURL pointed at the signup page.
func (a *Auth) SignupURL(redirectURL string) string {
	return strings.Replace(a.SigninURL(redirectURL), signinPagePath, signupPagePath, 1)
}

// SignupURLEnablePassword is the application's plain password signup page.
func (a *Auth) SignupURLEnablePassword() string {
	return a.c.cfg.Endpoint + "/signup/" + a.c.cfg.AppName
}

// UserProfileURL links to a user's profile page in the configured
// organization. accessToken may be empty.
func (a *Auth) UserProfileURL(userName, accessToken string) string {
	return a.c.cfg.Endpoint + "/users/" + a.c.cfg.OrgName + "/" + userName + tokenParam(accessToken)
}

// MyProfileURL links to the signed-in user's account page.
func (a *Auth) MyProfileURL(accessToken string) string {
	return a.c.cfg.Endpoint + "/account" + tokenParam(accessToken)
}

func tokenParam(accessToken string) string {
	if accessToken == "" {
		return ""
	}
	return "?access_token=" + accessToken
}

// escapeComponent percent-encodes everything but unreserved characters,
// spaces included as %20.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
