package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/aussiebroadwan/casdoor/pkg/slogx"
)

// RequireAnyScope the caller must have at least one of the provided scopes.
func RequireAnyScope(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range scopesFromCtx(r.Context()) {
				if _, ok := want[s]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeBearerScopeError(w, http.StatusForbidden, required...)
		})
	}
}

// RequireAllScopes the caller must have every scope listed.
func RequireAllScopes(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := make(map[string]struct{})
			for _, s := range scopesFromCtx(r.Context()) {
				have[s] = struct{}{}
			}

			for _, req := range required {
				if _, ok := have[req]; !ok {
					writeBearerScopeError(w, http.StatusForbidden, required...)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer insufficient_scope.
func writeBearerScopeError(w http.ResponseWriter, code int, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	w.WriteHeader(code)
	_, _ = w.Write([]byte("insufficient_scope"))
}

// ============================================================================
// Casbin enforcement
// ============================================================================

// Enforcer is the part of *casdoor.Client RequirePermission needs.
type Enforcer interface {
	Enforce(ctx context.Context, args casdoor.EnforceArgs) (casdoor.EnforceResult, error)
}

// RequestFunc builds the Casbin request tuple for an authenticated request.
type RequestFunc func(r *http.Request, c *casdoor.Claims) casdoor.CasbinRequest

// SubjectPathMethod is the common (sub, obj, act) tuple:
// ["{owner}/{name}", path, method].
func SubjectPathMethod(r *http.Request, c *casdoor.Claims) casdoor.CasbinRequest {
	return casdoor.CasbinRequest{c.User.GetID(), r.URL.Path, r.Method}
}

// RequirePermission asks Casdoor whether the caller may proceed. It must run
// after AuthnMiddleware. Enforce failures are passed through WriteSDKError.
func RequirePermission(e Enforcer, query casdoor.EnforceQueryArgs, build RequestFunc) Middleware {
	if build == nil {
		build = SubjectPathMethod
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			req := build(r, claims)
			res, err := e.Enforce(ctx, casdoor.EnforceArgs{Query: query, Request: req})
			if err != nil {
				log.Error("enforce failed", "err", err, "request", req)
				WriteSDKError(w, err)
				return
			}
			if !res.Allow {
				log.Info("permission denied", "request", req)
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "access_denied",
					"error_description": "permission denied",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
