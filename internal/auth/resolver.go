// ABOUTME: Resolves a raw credential to an authenticated principal
// ABOUTME: Verifies the token then loads the subject's user record from the store

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/inotebook/notesd/internal/store"
)

// ErrUserNotFound is returned when a verified credential references a user
// that no longer exists (for example, deleted after the token was issued).
// It is deliberately distinct from the token errors so callers can map it
// to a different status code.
var ErrUserNotFound = errors.New("user not found")

// UserLookup is the slice of the store the resolver needs.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*store.User, error)
}

// Resolver turns raw credentials into authenticated principals.
type Resolver struct {
	codec *TokenCodec
	users UserLookup
}

// NewResolver creates a resolver backed by the given codec and user lookup.
func NewResolver(codec *TokenCodec, users UserLookup) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve verifies raw and loads the subject's user record, returning the
// principal projection and the verified claims. Token failures pass through
// unchanged; a missing user maps to ErrUserNotFound; store faults are wrapped.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Principal, *Claims, error) {
	claims, err := r.codec.Verify(raw)
	if err != nil {
		return nil, nil, err
	}

	user, err := r.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("loading user %s: %w", claims.Subject, err)
	}

	return PrincipalFromUser(user), claims, nil
}

// PrincipalFromUser projects a stored user into a principal,
// dropping the password hash.
func PrincipalFromUser(u *store.User) *Principal {
	return &Principal{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}
