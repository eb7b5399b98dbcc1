package httpapi

import (
	"context"

	"github.com/riskibarqy/tournament-votes/internal/domain/user"
)

type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

// optionalPrincipal returns nil for anonymous requests.
func optionalPrincipal(ctx context.Context) *user.Principal {
	p, ok := principalFromContext(ctx)
	if !ok || p.VoterID == "" {
		return nil
	}
	return &p
}
