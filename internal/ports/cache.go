package ports

import (
	"context"
	"time"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// PageCache is a short-TTL cache for fetched pages, keyed by an opaque string
// the source derives from (seed, cursor). Sources use it so curated first
// pages are shared across sessions instead of re-fetched per deck.
// A miss is (zero Page, false, nil); errors are reserved for backend trouble.
type PageCache interface {
	Get(ctx context.Context, key string) (types.Page, bool, error)
	Set(ctx context.Context, key string, page types.Page, ttl time.Duration) error
}
