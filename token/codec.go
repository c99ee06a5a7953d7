package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pitchside/backend/domain"
	aerrors "github.com/pitchside/backend/errors"
)

// Kind distinguishes the two token flavors a pair is made of.
type Kind string

const (
	// KindAccess is the short-lived token presented on every request.
	KindAccess Kind = "access"
	// KindRefresh is the long-lived token used only to mint a new pair.
	KindRefresh Kind = "refresh"
)

// Default lifetimes, applied when the configuration does not override them.
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the self-contained assertion carried by every issued token.
type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	Kind Kind        `json:"kind"`
	jwt.RegisteredClaims
}

// Pair is the access+refresh tuple returned on register, login and refresh.
// The two tokens are independent; refreshing does not invalidate the prior
// access token.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Codec signs and verifies tokens. It is the sole authority on token shape
// and cryptographic validity. The signing secret is injected once at
// construction and immutable for the process lifetime.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec creates a Codec signing with the given HS256 secret. Fails with a
// config error when no secret is configured; TTLs fall back to the defaults
// when zero.
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, aerrors.NewConfigError("jwt signing secret is not configured")
	}
	if accessTTL <= 0 {
		accessTTL = AccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = RefreshTokenTTL
	}
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// Issue mints a signed token of the given kind for the subject. The expiry is
// issued-at plus the kind's lifetime.
func (c *Codec) Issue(subjectID string, role domain.Role, kind Kind) (string, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// An expired token fails with KindTokenExpired; anything structurally or
// cryptographically wrong fails with KindTokenMalformed. The two are kept
// distinct because only expiry is worth retrying via refresh.
func (c *Codec) Verify(tokenValue string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(tokenValue, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, aerrors.NewTokenExpired()
		}
		return nil, aerrors.NewTokenMalformed(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, aerrors.NewTokenMalformed(jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}

// RemainingLifetime decodes the expiry of a token without verifying its
// signature and returns how long the token is still live. Used to size
// revocation TTLs exactly; ok is false when the token cannot be decoded or is
// already past its expiry, in which case the caller should fall back to the
// default window. Because the expiry is not signature-checked, the result is
// capped at the refresh lifetime, the longest this codec ever issues, so a
// forged far-future expiry cannot claim more.
func (c *Codec) RemainingLifetime(tokenValue string) (time.Duration, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenValue, &claims); err != nil {
		return 0, false
	}
	if claims.ExpiresAt == nil {
		return 0, false
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return 0, false
	}
	if remaining > c.refreshTTL {
		remaining = c.refreshTTL
	}
	return remaining, true
}
