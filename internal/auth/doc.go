// Package auth provides authentication and authorization for notesd.
//
// # Credentials
//
// Clients authenticate with HS256-signed JWT credentials carrying the user
// ID (sub), issue time (iat), and expiry (exp). Credentials are issued with
// a fixed 14-day lifetime and verified with the process-wide signing secret:
//
//	codec, err := NewTokenCodec(secret)
//	token, err := codec.Issue(userID, TokenTTL)
//	claims, err := codec.Verify(token)
//
// Verification failures are classified as ErrTokenMalformed, ErrBadSignature,
// or ErrTokenExpired. The signature check always precedes the expiry check,
// so a tampered token reports ErrBadSignature even when it is also expired.
//
// # Sliding renewal
//
// Every authenticated request passes through RenewalPolicy.Decide: once the
// credential's remaining lifetime is within RenewalThreshold (2 days), a
// fresh 14-day replacement is minted; otherwise the current credential is
// returned unchanged. Handlers echo the decided credential back to the
// client under the _token payload field, so a client that stays active
// never needs an explicit re-login.
//
// # Request pipeline
//
// The Gate middleware runs the full pipeline for protected routes:
//
//	extract bearer header -> verify -> load user -> renewal decision -> handler
//
// On success it attaches an AuthContext (principal + outbound credential) to
// the request context via WithAuth; handlers read it back with FromContext.
// On any failure the wrapped handler never runs. The gate is read-only with
// respect to persisted state.
//
// # Ownership
//
// CheckOwnership binds a resource to its creating principal. Resource
// handlers call it after lookup and before returning or mutating content.
package auth
