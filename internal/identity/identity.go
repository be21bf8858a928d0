// Package identity carries the acting user on a request context.
package identity

import (
	"context"

	"github.com/carmarket/carmarket-go/internal/model"
)

type actorContextKey struct{}

// WithActor returns a context carrying actor.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx. The second result is false
// for an anonymous request.
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	if ctx == nil {
		return model.Actor{}, false
	}
	actor, _ := ctx.Value(actorContextKey{}).(model.Actor)
	return actor, !actor.Anonymous()
}
