// ABOUTME: Per-request authentication state carried on context.Context
// ABOUTME: Provides WithAuth/FromContext for propagating the principal and outbound token

package auth

import (
	"context"
)

// Principal is the resolved user identity for a request.
// Secret material (the password hash) is never part of this view.
type Principal struct {
	ID       string
	Name     string
	Username string
	Email    string
	Avatar   string
}

// AuthContext holds the authenticated state derived for one request.
// It is created by the authorization gate and discarded at request end.
type AuthContext struct {
	Principal *Principal
	// Token is the outbound credential for this request: the original one
	// while it is still fresh, or a freshly minted replacement. Handlers
	// echo it back to the client under the _token payload field.
	Token string
}

// authContextKey is the key type for storing AuthContext in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the AuthContext attached.
func WithAuth(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// FromContext retrieves the AuthContext from the context, returning nil if not present.
func FromContext(ctx context.Context) *AuthContext {
	val := ctx.Value(authContextKey{})
	if val == nil {
		return nil
	}
	ac, ok := val.(*AuthContext)
	if !ok {
		return nil
	}
	return ac
}

// MustFromContext retrieves the AuthContext from the context, panicking if not present.
// Only call from handlers that run behind the authorization gate.
func MustFromContext(ctx context.Context) *AuthContext {
	ac := FromContext(ctx)
	if ac == nil {
		panic("auth: AuthContext not found in context")
	}
	return ac
}
