package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when an operation requires a signed-in user
// and none is attached to the context.
var ErrUnauthenticated = errors.New("unauthenticated")

type ctxKey string

const userContextKey ctxKey = "monstergarden.auth.user"

// WithUserID attaches the authenticated user id to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(userContextKey)
	id, ok := v.(string)
	return id, ok && id != ""
}

// RequireUserID returns the authenticated user id or ErrUnauthenticated.
func RequireUserID(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}
