package httpx

import (
	"context"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyScopes ctxKey = "scopes"
	CtxKeyClaims ctxKey = "claims" // *casdoor.Claims
)

func contextWithAuth(ctx context.Context, c *casdoor.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyScopes, ParseSpaceDelimitedFields(c.Scope))
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// ClaimsFromContext returns the claims AuthnMiddleware verified, if any.
func ClaimsFromContext(ctx context.Context) (*casdoor.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(*casdoor.Claims)
	return c, ok && c != nil
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
