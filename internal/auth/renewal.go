// ABOUTME: Sliding-renewal policy for issued credentials
// ABOUTME: Mints a replacement token when the current one is inside the renewal window

package auth

import (
	"time"
)

// RenewalThreshold is how close to expiry a credential must be before a
// replacement is minted. A client that makes at least one authenticated
// request every TokenTTL never needs an explicit re-login.
const RenewalThreshold = 2 * 24 * time.Hour

// RenewalPolicy decides which credential each authenticated response carries.
type RenewalPolicy struct {
	codec *TokenCodec
	now   func() time.Time
}

// NewRenewalPolicy creates a policy that mints replacements via codec.
func NewRenewalPolicy(codec *TokenCodec) *RenewalPolicy {
	return &RenewalPolicy{codec: codec, now: time.Now}
}

// Decide returns the outbound credential for a request: the current one
// unchanged while it is still fresh, or a brand-new TokenTTL credential
// once expiresAt is within RenewalThreshold of now.
func (p *RenewalPolicy) Decide(current string, expiresAt time.Time, subject string) (string, error) {
	if expiresAt.Sub(p.now()) > RenewalThreshold {
		return current, nil
	}
	return p.codec.Issue(subject, TokenTTL)
}
