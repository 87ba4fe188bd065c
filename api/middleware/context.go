package middleware

import (
	"context"

	"github.com/rbeltranc/stitchmarket-backend/pkg/auth"
	"github.com/rbeltranc/stitchmarket-backend/pkg/types"
)

type contextKey string

const (
	ctxActor  contextKey = "actor"
	ctxClaims contextKey = "claims"
)

// ActorFromContext returns the cart actor resolved for the request, if any.
func ActorFromContext(ctx context.Context) (types.Actor, bool) {
	if ctx == nil {
		return types.Actor{}, false
	}
	if actor, ok := ctx.Value(ctxActor).(types.Actor); ok && !actor.IsZero() {
		return actor, true
	}
	return types.Actor{}, false
}

// ClaimsFromContext returns the verified token claims, if the request carried a token.
func ClaimsFromContext(ctx context.Context) *auth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if claims, ok := ctx.Value(ctxClaims).(*auth.AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// WithActor injects the cart actor into the context.
func WithActor(ctx context.Context, actor types.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// WithClaims injects verified claims into the context.
func WithClaims(ctx context.Context, claims *auth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
