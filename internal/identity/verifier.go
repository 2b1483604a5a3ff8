package identity

import (
	"context"
)

// Verifier establishes the caller's stable user identifier from a bearer
// credential. The identifier is an opaque string owned by the identity
// provider; domain code must never assume anything about its shape.
type Verifier interface {
	Verify(ctx context.Context, credential string) (string, error)
}

type ctxKey string

var userIDKey ctxKey = "user_id"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok
}
