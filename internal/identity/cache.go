// Package identity resolves numeric owner and group IDs to display names.
package identity

import (
	"os/user"
	"strconv"
	"sync"

	"github.com/hsaliak/lsgo/internal/parallel"
	"github.com/hsaliak/lsgo/pkg/models"
	"go.uber.org/zap"
)

// LookupFunc maps a numeric ID to a name using the system database
type LookupFunc func(id uint32) (string, error)

// Cache memoizes ID to name lookups. It is safe for concurrent use; two
// goroutines racing on the same cold key may both run the lookup, which is
// harmless because lookups are idempotent.
type Cache struct {
	lookup LookupFunc
	logger *zap.Logger
	names  sync.Map // uint32 -> string
}

// NewCache creates an empty cache backed by lookup
func NewCache(lookup LookupFunc, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		lookup: lookup,
		logger: logger,
	}
}

// Resolve returns the name for id. A failed lookup caches and returns the
// decimal ID so later calls skip the system lookup.
func (c *Cache) Resolve(id uint32) string {
	if name, ok := c.names.Load(id); ok {
		return name.(string)
	}

	name, err := c.lookup(id)
	if err != nil || name == "" {
		c.logger.Debug("Name lookup failed, using numeric ID",
			zap.Uint32("id", id),
			zap.Error(err))
		name = strconv.FormatUint(uint64(id), 10)
	}

	actual, _ := c.names.LoadOrStore(id, name)
	return actual.(string)
}

// Seed stores a known name without performing a lookup
func (c *Cache) Seed(id uint32, name string) {
	c.names.Store(id, name)
}

// Warm resolves every distinct ID concurrently so later calls hit the cache
func (c *Cache) Warm(s parallel.Strategy, ids []uint32) {
	seen := make(map[uint32]bool, len(ids))
	var distinct []uint32
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	parallel.ForEach(s, distinct, func(id uint32) {
		c.Resolve(id)
	})
}

// Resolver holds the owner and group caches for one process run
type Resolver struct {
	Users  *Cache
	Groups *Cache
}

// NewResolver creates a resolver backed by the passwd and group databases
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		Users:  NewCache(LookupUser, logger),
		Groups: NewCache(LookupGroup, logger),
	}
}

// User returns the owner name for uid
func (r *Resolver) User(uid uint32) string {
	return r.Users.Resolve(uid)
}

// Group returns the group name for gid
func (r *Resolver) Group(gid uint32) string {
	return r.Groups.Resolve(gid)
}

// Warm pre-resolves the owners and groups of entries
func (r *Resolver) Warm(s parallel.Strategy, entries []models.Entry) {
	uids := make([]uint32, len(entries))
	gids := make([]uint32, len(entries))
	for i := range entries {
		uids[i] = entries[i].Metadata.UID
		gids[i] = entries[i].Metadata.GID
	}

	r.Users.Warm(s, uids)
	r.Groups.Warm(s, gids)
}

// LookupUser resolves a uid through os/user
func LookupUser(uid uint32) (string, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// LookupGroup resolves a gid through os/user
func LookupGroup(gid uint32) (string, error) {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}
