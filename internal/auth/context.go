package auth

import "context"

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey int

const identityKey ctxKey = iota

// WithIdentity returns a context carrying the authenticated user id.
func WithIdentity(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, identityKey, userID)
}

// IdentityFromContext retrieves the authenticated user id from context.
// Returns empty string for anonymous requests.
func IdentityFromContext(ctx context.Context) string {
	if v := ctx.Value(identityKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
