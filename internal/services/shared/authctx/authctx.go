// Package authctx carries the authenticated user through request contexts
// and verifies bearer tokens on incoming HTTP requests.
package authctx

import "context"

// User identifies the authenticated caller.
type User struct {
	ID    string
	Email string
}

type contextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(contextKey{}).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}
