// ABOUTME: HTTP authorization gate for protected API endpoints
// ABOUTME: Extracts the bearer credential, resolves the principal, applies sliding renewal

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inotebook/notesd/internal/httputil"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Gate is the request-level authorization gate. It composes credential
// verification, principal resolution, and sliding renewal into a single
// pass/fail decision per request.
type Gate struct {
	resolver *Resolver
	renewal  *RenewalPolicy
	logger   *slog.Logger
}

// NewGate creates a gate from its three collaborators.
func NewGate(resolver *Resolver, renewal *RenewalPolicy, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		resolver: resolver,
		renewal:  renewal,
		logger:   logger.With("component", "auth"),
	}
}

// Protect wraps a handler so it only runs for authenticated requests.
// On success the request context carries an AuthContext with the resolved
// principal and the outbound credential. On any failure the wrapped handler
// never runs and the gate writes the error envelope itself. The gate only
// reads from the store; it never mutates persisted state.
func (g *Gate) Protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
		if errMsg != "" {
			httputil.WriteError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		principal, claims, err := g.resolver.Resolve(r.Context(), token)
		if err != nil {
			g.rejectResolveError(w, err)
			return
		}

		outbound, err := g.renewal.Decide(token, claims.ExpiresAt, claims.Subject)
		if err != nil {
			g.logger.Error("failed to mint replacement token", "error", err)
			httputil.WriteError(w, http.StatusInternalServerError, "Server error")
			return
		}

		authCtx := &AuthContext{Principal: principal, Token: outbound}
		next(w, r.WithContext(WithAuth(r.Context(), authCtx)))
	}
}

// rejectResolveError maps a resolution failure to its terminal response.
func (g *Gate) rejectResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTokenExpired):
		httputil.WriteError(w, http.StatusUnauthorized, "Token expired, login again")
	case errors.Is(err, ErrBadSignature), errors.Is(err, ErrTokenMalformed):
		httputil.WriteError(w, http.StatusUnauthorized, "Token failed")
	case errors.Is(err, ErrUserNotFound):
		httputil.WriteError(w, http.StatusNotFound, "User not found")
	default:
		g.logger.Error("principal resolution failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}
