package domain

import "context"

type actorKey struct{}

// WithActor returns a context carrying the id of the user performing an operation.
func WithActor(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the acting user id, or nil for anonymous/system operations.
func ActorFrom(ctx context.Context) *int {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(actorKey{}).(int); ok {
		return &id
	}
	return nil
}
