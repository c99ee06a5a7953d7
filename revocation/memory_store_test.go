package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/backend/revocation"
)

func TestMemoryStore_RevokeAndCheck(t *testing.T) {
	store := revocation.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "some-token", time.Minute))

	revoked, err = store.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// A different token is unaffected.
	revoked, err = store.IsRevoked(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStore_RevokeIdempotent(t *testing.T) {
	store := revocation.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok", time.Minute))
	require.NoError(t, store.Revoke(ctx, "tok", time.Minute))

	revoked, err := store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryStore_EntryExpires(t *testing.T) {
	store := revocation.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok", 20*time.Millisecond))

	revoked, err := store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(50 * time.Millisecond)

	revoked, err = store.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked, "entry must lapse once its ttl elapses")
}

func TestMemoryStore_ConcurrentChecks(t *testing.T) {
	store := revocation.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok", time.Minute))

	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				revoked, err := store.IsRevoked(ctx, "tok")
				if err != nil || !revoked {
					t.Errorf("IsRevoked = %v, %v; want true, nil", revoked, err)
					return
				}
			}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
}
