package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	aerrors "github.com/pitchside/backend/errors"
)

// RedisStore implements Store on a shared Redis instance. Entries rely on
// Redis key TTLs for eviction, so correctness never depends on a cleanup job.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. The client's lifecycle stays with the
// caller; Close does not close it.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(tokenValue string) string {
	return fmt.Sprintf("%s:revoked:%s", s.prefix, HashToken(tokenValue))
}

// Revoke implements Store.Revoke. SET with EX is idempotent: re-revoking
// simply rewrites the entry with the new window.
func (s *RedisStore) Revoke(ctx context.Context, tokenValue string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := s.client.Set(ctx, s.key(tokenValue), 1, ttl).Err(); err != nil {
		return aerrors.NewStoreUnavailable(err)
	}
	return nil
}

// IsRevoked implements Store.IsRevoked. A transport error is returned as-is
// so the gatekeeper can fail closed instead of assuming "not revoked".
func (s *RedisStore) IsRevoked(ctx context.Context, tokenValue string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenValue)).Result()
	if err != nil {
		return false, aerrors.NewStoreUnavailable(err)
	}
	return n > 0, nil
}

// Close implements io.Closer. The Redis client is owned by the caller.
func (s *RedisStore) Close() error {
	return nil
}

var _ Store = (*RedisStore)(nil)
