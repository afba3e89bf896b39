package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/aussiebroadwan/casdoor/pkg/httpx"
	"github.com/aussiebroadwan/casdoor/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const clientID = "client-id"

func newVerifierAndSigner(t *testing.T) (*jwtx.KeyVerifier, *jwtx.Signer) {
	t.Helper()

	key, err := cryptox.GenerateES256Key()
	require.NoError(t, err)
	cert, err := cryptox.SelfSignedCertificatePEM(key, "casdoor", time.Hour)
	require.NoError(t, err)

	signer, err := jwtx.NewSigner(jwtx.ES256, "", key)
	require.NoError(t, err)

	cfg := casdoor.NewConfig("http://casdoor.local", clientID, "secret", string(cert), "built-in", "app")
	v, err := casdoor.New(cfg).Auth().Verifier(jwtx.ES256)
	require.NoError(t, err)
	return v, signer
}

func signToken(t *testing.T, s *jwtx.Signer, scope string, ttl time.Duration) string {
	t.Helper()

	token, err := s.Sign(casdoor.Claims{
		User:             casdoor.User{Owner: "built-in", Name: "alice"},
		Scope:            scope,
		RegisteredClaims: jwtx.NewRegisteredClaims("user-1", "http://casdoor.local", []string{clientID}, ttl, time.Now()),
	})
	require.NoError(t, err)
	return token
}

func do(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/data1", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mark("first"), mark("second"))
	do(h, "")
	require.Equal(t, []string{"first", "second"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	v, signer := newVerifierAndSigner(t)

	var seen *casdoor.Claims
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
		require.Equal(t, "user-1", r.Context().Value(httpx.CtxKeyUserID))
		w.WriteHeader(http.StatusOK)
	}), httpx.AuthnMiddleware(v))

	t.Run("valid token", func(t *testing.T) {
		rec := do(h, signToken(t, signer, "read", time.Hour))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		require.Equal(t, "alice", seen.Name)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := do(h, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "missing bearer token")
	})

	t.Run("expired token", func(t *testing.T) {
		rec := do(h, signToken(t, signer, "read", -5*time.Minute))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "token expired")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := do(h, "not.a.jwt")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "token verification failed")
	})
}

func TestRequireScopes(t *testing.T) {
	v, signer := newVerifierAndSigner(t)
	token := signToken(t, signer, "read profile", time.Hour)

	anyOf := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequireAnyScope("write", "profile"))
	require.Equal(t, http.StatusOK, do(anyOf, token).Code)

	allOf := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequireAllScopes("read", "write"))
	rec := do(allOf, token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `scope="read write"`)

	none := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequireAnyScope("admin"))
	require.Equal(t, http.StatusForbidden, do(none, signToken(t, signer, "", time.Hour)).Code)
}

type fakeEnforcer struct {
	allow bool
	err   error
	got   casdoor.EnforceArgs
}

func (f *fakeEnforcer) Enforce(_ context.Context, args casdoor.EnforceArgs) (casdoor.EnforceResult, error) {
	f.got = args
	return casdoor.EnforceResult{Allow: f.allow}, f.err
}

func TestRequirePermission(t *testing.T) {
	v, signer := newVerifierAndSigner(t)
	token := signToken(t, signer, "", time.Hour)
	query := casdoor.EnforceQueryArgs{PermissionID: "built-in/perm"}

	t.Run("allowed", func(t *testing.T) {
		e := &fakeEnforcer{allow: true}
		h := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequirePermission(e, query, nil))

		require.Equal(t, http.StatusOK, do(h, token).Code)
		require.Equal(t, query, e.got.Query)
		require.Equal(t, casdoor.CasbinRequest{"built-in/alice", "/data1", http.MethodGet}, e.got.Request)
	})

	t.Run("denied", func(t *testing.T) {
		h := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequirePermission(&fakeEnforcer{}, query, nil))

		rec := do(h, token)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "access_denied")
	})

	t.Run("custom request tuple", func(t *testing.T) {
		e := &fakeEnforcer{allow: true}
		build := func(r *http.Request, c *casdoor.Claims) casdoor.CasbinRequest {
			return casdoor.CasbinRequest{c.Name, "reports", "read"}
		}
		h := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequirePermission(e, query, build))

		require.Equal(t, http.StatusOK, do(h, token).Code)
		require.Equal(t, casdoor.CasbinRequest{"alice", "reports", "read"}, e.got.Request)
	})

	t.Run("without authn", func(t *testing.T) {
		h := httpx.RequirePermission(&fakeEnforcer{allow: true}, query, nil)(okHandler)
		require.Equal(t, http.StatusUnauthorized, do(h, "").Code)
	})

	t.Run("enforce error is rendered", func(t *testing.T) {
		fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","msg":"permission not found"}`))
		}))
		defer fake.Close()

		client := casdoor.New(casdoor.NewConfig(fake.URL, clientID, "secret", "", "built-in", "app"))
		h := httpx.Chain(okHandler, httpx.AuthnMiddleware(v), httpx.RequirePermission(client, query, nil))

		rec := do(h, token)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "business", body["error"])
		require.Equal(t, "permission not found", body["error_description"])
	})
}

func TestWriteSDKError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteSDKError(rec, &casdoor.SDKError{Code: http.StatusNotFound, Kind: casdoor.KindNotFound, Msg: "Unexpected empty data."})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"error":"not_found","error_description":"Unexpected empty data."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	httpx.WriteSDKError(rec, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal","error_description":"boom"}`, rec.Body.String())
}

func TestParseSpaceDelimitedFields(t *testing.T) {
	require.Nil(t, httpx.ParseSpaceDelimitedFields("   "))
	require.Equal(t, []string{"read", "profile"}, httpx.ParseSpaceDelimitedFields(" read  profile "))
}
