// Package requestctx propagates request-scoped identity through context.
package requestctx

import "context"

// playerContextKey is the context key for the calling player identity.
type playerContextKey struct{}

// WithPlayer stores a player identifier in context.
func WithPlayer(ctx context.Context, player string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, playerContextKey{}, player)
}

// PlayerFromContext returns the player identifier stored in context.
func PlayerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(playerContextKey{}).(string)
	return value
}
