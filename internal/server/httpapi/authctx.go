package httpapi

import (
	"context"

	"github.com/avolkov/tapedeck/internal/model"
)

type ctxKey string

const principalKey ctxKey = "tapedeck.principal"

// WithPrincipal stores the authenticated principal in the context.
// The principal is always request-scoped; nothing about the current
// user ever lives in process-global state.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the authenticated principal from the context.
func PrincipalFromCtx(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey).(model.Principal)
	return p, ok
}
