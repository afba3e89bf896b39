/*
Package casdoor provides a client SDK for the Casdoor identity and access management service.

# Overview

The casdoor package wraps Casdoor's REST API for one organization and one application. It
provides typed models for users, groups, applications, organizations, certificates,
providers, enforcers, permissions, roles and sessions, and thin methods that build the URL,
attach the application's credentials and decode Casdoor's response envelope.

Create a Client from a Config:

	cfg := casdoor.NewConfig(
		"http://localhost:8000",
		clientID,
		clientSecret,
		certificatePEM,
		"built-in",
		"app-built-in",
	)
	client := casdoor.New(cfg)

	users, err := client.GetUsers(ctx, casdoor.UserQueryArgs{
		QueryArgs: casdoor.QueryArgs{PageSize: casdoor.Ptr(10), Page: casdoor.Ptr(1)},
	})

Configs can also be loaded from TOML or YAML with LoadConfigFile.

# Response Envelope

Every Casdoor endpoint replies with the same envelope:

	{"data": ..., "data2": ..., "name": "", "status": "ok", "msg": "", "sub": ""}

Response decodes it generically. A status of "ok" yields the payloads, "error" yields a
business error whose message is the server's msg, and any other label yields an
unknown-status error. Endpoint methods pick the resolver that matches what the endpoint
returns:

  - Primary: data may be absent (lookups by name return nil, nil on a miss)
  - PrimaryRequired: data must be present, otherwise a not-found error
  - PrimaryOrDefault: absent data becomes the zero value
  - ResolveWithDefaults: both payloads, e.g. a page of items plus the total count

# Auth

Client.Auth groups the token operations:

	auth := client.Auth()

	// Authorization-code and refresh grants
	tok, err := auth.ExchangeCode(ctx, code)
	tok, err = auth.RefreshToken(ctx, tok.RefreshToken)

	// Local verification against the configured certificate
	claims, err := auth.VerifyToken(tok.AccessToken, jwtx.RS256)

	// Browser URLs
	signin := auth.SigninURL("http://localhost:9000/callback")

VerifyToken is pinned to the algorithm it is given. A token signed with any other algorithm
is rejected with jwtx.ErrAlgMismatch, never retried with a different one. The token's
audience must contain the client id.

The SDK keeps no tokens. Callers store and renew them.

# Error Handling

Every operation returns *SDKError on failure. Code is shaped like an HTTP status so it can be
passed through at a service boundary, and Kind says where the failure came from:

	u, err := client.GetUser(ctx, casdoor.GetUserArgs{Name: "alice"})
	switch {
	case errors.Is(err, casdoor.ErrBusiness):
		// Casdoor answered with status "error"
	case errors.Is(err, casdoor.ErrTransport):
		// network failure; casdoor.StatusCode(err) is 408 on timeout
	}

Token verification failures also match the jwtx sentinels:

	if errors.Is(err, jwtx.ErrExpired) { ... }

# Concurrency

A Client is immutable after New and safe for concurrent use. Each call makes exactly one
attempt; retries and timeouts belong to the caller, through the context or an http.Client
passed with WithHTTPClient.
*/
package casdoor
