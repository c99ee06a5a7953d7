package revocation

import (
	"context"
	"io"
	"time"
)

// DefaultTTL is the revocation window used when the caller does not know a
// token's exact remaining lifetime. It equals the access-token lifetime, so
// an undecodable token can never outlive its entry.
const DefaultTTL = 15 * time.Minute

// Store records tokens that must be rejected even though they have not
// naturally expired, and forgets them once they no longer could matter. An
// entry never needs to live longer than the longest token lifetime it could
// be assessing, which bounds store size.
//
// Implementations must be safe for concurrent use; revocations of the same
// token are commutative and idempotent.
type Store interface {
	io.Closer

	// Revoke inserts the token with an expiry of now+ttl. A non-positive
	// ttl falls back to DefaultTTL. Revoking an already-revoked token
	// extends its window; it never errors for that reason.
	Revoke(ctx context.Context, tokenValue string, ttl time.Duration) error

	// IsRevoked reports whether a live entry exists for the token. When
	// the store is unreachable it returns a non-nil error and the caller
	// must fail closed: treat the token as unverifiable and reject it.
	IsRevoked(ctx context.Context, tokenValue string) (bool, error)
}
