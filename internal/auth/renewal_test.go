// ABOUTME: Unit tests for the sliding-renewal policy
// ABOUTME: Pins the renewal window boundary and the shape of replacement credentials

package auth

import (
	"testing"
	"time"
)

func TestRenewalPolicy_OutsideWindow(t *testing.T) {
	codec := newTestCodec(t)
	policy := NewRenewalPolicy(codec)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy.now = func() time.Time { return base }

	// Expiry is one second past the threshold: keep the current token.
	expiresAt := base.Add(RenewalThreshold + time.Second)

	out, err := policy.Decide("current-token", expiresAt, "user-123")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if out != "current-token" {
		t.Errorf("Decide() = %q, want the current token unchanged", out)
	}
}

func TestRenewalPolicy_InsideWindow(t *testing.T) {
	codec := newTestCodec(t)
	policy := NewRenewalPolicy(codec)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy.now = func() time.Time { return base }

	tests := []struct {
		name      string
		expiresAt time.Time
	}{
		{
			name:      "exactly at the threshold",
			expiresAt: base.Add(RenewalThreshold),
		},
		{
			name:      "one second inside the window",
			expiresAt: base.Add(RenewalThreshold - time.Second),
		},
		{
			name:      "about to expire",
			expiresAt: base.Add(time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := policy.Decide("current-token", tt.expiresAt, "user-123")
			if err != nil {
				t.Fatalf("Decide() error = %v", err)
			}
			if out == "current-token" {
				t.Fatal("Decide() kept the current token inside the renewal window")
			}

			claims, err := codec.Verify(out)
			if err != nil {
				t.Fatalf("Verify(replacement) error = %v", err)
			}
			if claims.Subject != "user-123" {
				t.Errorf("replacement Subject = %q, want %q", claims.Subject, "user-123")
			}
			if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != TokenTTL {
				t.Errorf("replacement lifetime = %v, want %v", got, TokenTTL)
			}
		})
	}
}

func TestRenewalPolicy_FreshTokenUntouched(t *testing.T) {
	codec := newTestCodec(t)
	policy := NewRenewalPolicy(codec)

	token, err := codec.Issue("user-123", TokenTTL)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	// A just-issued full-lifetime token is well outside the window, so
	// repeated decisions all echo it back.
	for i := 0; i < 3; i++ {
		out, err := policy.Decide(token, claims.ExpiresAt, "user-123")
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		if out != token {
			t.Fatalf("Decide() replaced a fresh token on pass %d", i)
		}
	}
}
