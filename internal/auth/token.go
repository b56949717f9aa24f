// ABOUTME: JWT credential issuance and verification for notesd
// ABOUTME: HS256 signing with the process-wide secret, classified failures

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued credential.
const TokenTTL = 14 * 24 * time.Hour

// MinSecretLength is the minimum acceptable signing secret size in bytes.
const MinSecretLength = 32

// Token errors
var (
	ErrSecretTooShort = errors.New("signing secret too short")
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims holds the verified contents of a credential.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 credentials carrying a user ID and expiry.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec with the given signing secret.
// The secret must be at least MinSecretLength bytes.
func NewTokenCodec(secret []byte) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrSecretTooShort, MinSecretLength, len(secret))
	}
	return &TokenCodec{secret: secret}, nil
}

// Issue creates a signed credential for the given subject expiring after ttl.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses raw and returns its claims. Failures are classified as
// ErrTokenMalformed, ErrBadSignature, or ErrTokenExpired; a bad signature
// always wins over an expired payload.
func (c *TokenCodec) Verify(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrTokenMalformed)
	}

	iat, err := mapClaims.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, fmt.Errorf("%w: missing iat claim", ErrTokenMalformed)
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrTokenMalformed)
	}

	return &Claims{
		Subject:   sub,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}, nil
}
