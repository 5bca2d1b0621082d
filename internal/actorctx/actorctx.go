package actorctx

import "context"

type ctxKey struct{}

// WithUserID threads the resolved identity through a plain context so code
// below the HTTP layer never touches gin.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)

	return v, ok && v != ""
}
