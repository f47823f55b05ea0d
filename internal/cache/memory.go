package cache

import (
	"context"
	"time"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// MemoryPageCache is the in-process ports.PageCache used when no Redis is
// deployed. Expiry and reclamation are the TTL container's.
type MemoryPageCache struct {
	ttl *TTL[string, types.Page]
}

func NewMemoryPageCache() *MemoryPageCache {
	return &MemoryPageCache{ttl: NewTTL[string, types.Page]()}
}

func (c *MemoryPageCache) Get(_ context.Context, key string) (types.Page, bool, error) {
	page, ok := c.ttl.Get(key)
	return page, ok, nil
}

func (c *MemoryPageCache) Set(_ context.Context, key string, page types.Page, ttl time.Duration) error {
	c.ttl.Set(key, page, ttl)
	return nil
}
