package paperkit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoleCacheVersionMatch validates a lookup only hits at the exact
// version the entry was computed at.
func TestRoleCacheVersionMatch(t *testing.T) {
	cache := NewRoleCache()
	set := NewRoleSet("alice", []ComputedRole{{IdentityID: "alice", Role: RoleWorker, BusinessID: "biz-1"}})

	_, ok := cache.Get("alice", 1)
	assert.False(t, ok, "empty cache misses")

	cache.Put("alice", 1, set)

	got, ok := cache.Get("alice", 1)
	require.True(t, ok)
	assert.Same(t, set, got)

	// Any other version is a miss; a stale hit here would grant revoked access.
	_, ok = cache.Get("alice", 2)
	assert.False(t, ok)
	_, ok = cache.Get("alice", 0)
	assert.False(t, ok)
}

// TestRoleCachePutReplaces validates one entry per identity.
func TestRoleCachePutReplaces(t *testing.T) {
	cache := NewRoleCache()
	old := NewRoleSet("alice", []ComputedRole{{IdentityID: "alice", Role: RoleWorker}})
	fresh := NewRoleSet("alice", []ComputedRole{{IdentityID: "alice", Role: RoleSeeker}})

	cache.Put("alice", 1, old)
	cache.Put("alice", 2, fresh)

	_, ok := cache.Get("alice", 1)
	assert.False(t, ok, "old version is gone after replacement")

	got, ok := cache.Get("alice", 2)
	require.True(t, ok)
	assert.Same(t, fresh, got)

	assert.Equal(t, 1, cache.Size())
}

// TestRoleCacheInvalidate validates explicit invalidation on paper writes.
func TestRoleCacheInvalidate(t *testing.T) {
	cache := NewRoleCache()
	cache.Put("alice", 1, NewRoleSet("alice", nil))
	cache.Put("bob", 1, NewRoleSet("bob", nil))

	cache.Invalidate("alice")

	_, ok := cache.Get("alice", 1)
	assert.False(t, ok)
	_, ok = cache.Get("bob", 1)
	assert.True(t, ok, "other identities are untouched")
	assert.Equal(t, 1, cache.Size())

	// Invalidating a missing entry is a no-op.
	cache.Invalidate("carol")
	assert.Equal(t, 1, cache.Size())
}

// TestRoleCacheConcurrentAccess validates the cache under concurrent reads,
// writes and invalidations.
func TestRoleCacheConcurrentAccess(t *testing.T) {
	cache := NewRoleCache()
	identities := []string{"alice", "bob", "carol", "dave"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				id := identities[(n+j)%len(identities)]
				switch j % 3 {
				case 0:
					cache.Put(id, int64(j), NewRoleSet(id, nil))
				case 1:
					cache.Get(id, int64(j))
				default:
					cache.Invalidate(id)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Size(), len(identities))
}
