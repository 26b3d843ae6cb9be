package paperkit

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// RoleCache is an explicitly invalidated cache of computed role sets.
//
// A stale entry is the single most dangerous failure mode of the whole
// engine: it can keep granting access after a paper expired or was revoked.
// Entries are therefore bound to the papers version observed at compute
// time, and a lookup with any other version is a miss. The cache lives
// outside the pure calculator; ComputeRoles itself never memoizes.
type RoleCache struct {
	entries *xsync.MapOf[string, cacheEntry]
}

type cacheEntry struct {
	version int64
	roles   *RoleSet
}

// NewRoleCache creates an empty role cache.
func NewRoleCache() *RoleCache {
	return &RoleCache{entries: xsync.NewMapOf[string, cacheEntry]()}
}

// Get returns the cached role set for an identity if it was computed at
// exactly the given papers version.
func (c *RoleCache) Get(identityID string, version int64) (*RoleSet, bool) {
	entry, ok := c.entries.Load(identityID)
	if !ok || entry.version != version {
		return nil, false
	}
	return entry.roles, true
}

// Put stores a role set computed at the given papers version. A newer
// version simply replaces the old entry; there is one entry per identity.
func (c *RoleCache) Put(identityID string, version int64, roles *RoleSet) {
	c.entries.Store(identityID, cacheEntry{version: version, roles: roles})
}

// Invalidate drops the cached role set for an identity. Called on every
// paper write for that identity.
func (c *RoleCache) Invalidate(identityID string) {
	c.entries.Delete(identityID)
}

// Size returns the number of cached identities, for monitoring.
func (c *RoleCache) Size() int {
	return c.entries.Size()
}
