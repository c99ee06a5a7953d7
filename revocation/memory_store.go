package revocation

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore implements Store using ttlcache. Suitable for single-process
// deployments and tests; expired entries are dropped lazily on lookup and by
// the cache's cleanup goroutine.
type MemoryStore struct {
	cache *ttlcache.Cache[string, time.Time]
}

// NewMemoryStore creates an in-memory revocation store with automatic
// cleanup.
func NewMemoryStore() *MemoryStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, time.Time](),
	)

	go cache.Start()

	return &MemoryStore{cache: cache}
}

// Revoke implements Store.Revoke.
func (s *MemoryStore) Revoke(_ context.Context, tokenValue string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.cache.Set(HashToken(tokenValue), time.Now(), ttl)
	return nil
}

// IsRevoked implements Store.IsRevoked. Get already treats expired entries as
// absent.
func (s *MemoryStore) IsRevoked(_ context.Context, tokenValue string) (bool, error) {
	return s.cache.Get(HashToken(tokenValue)) != nil, nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cache.Stop()
	return nil
}

var _ Store = (*MemoryStore)(nil)
