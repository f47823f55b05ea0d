package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

const pageKeyNameTemplate = "_vivi_page_%s"

var enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
var dec, _ = zstd.NewReader(nil)

// PageCache implements ports.PageCache on Redis so several daemon instances
// share one fetch of a popular curated seed. Values are zstd-compressed JSON;
// expiry is left entirely to Redis via SET EX.
type PageCache struct {
	cli *redis.Client
}

func NewPageCache(cli *redis.Client) *PageCache {
	return &PageCache{cli: cli}
}

func (c *PageCache) Get(ctx context.Context, key string) (types.Page, bool, error) {
	out := c.cli.Get(ctx, getPageKeyName(key))
	if err := out.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return types.Page{}, false, nil
		}
		return types.Page{}, false, err
	}
	raw, err := out.Bytes()
	if err != nil {
		return types.Page{}, false, err
	}
	b, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return types.Page{}, false, fmt.Errorf("corrupt cached page: %w", err)
	}
	var page types.Page
	if err := json.Unmarshal(b, &page); err != nil {
		return types.Page{}, false, fmt.Errorf("corrupt cached page: %w", err)
	}
	return page, true, nil
}

func (c *PageCache) Set(ctx context.Context, key string, page types.Page, ttl time.Duration) error {
	b, err := json.Marshal(page)
	if err != nil {
		return err
	}
	z := enc.EncodeAll(b, make([]byte, 0, len(b)))
	return c.cli.Set(ctx, getPageKeyName(key), z, ttl).Err()
}

func getPageKeyName(key string) string {
	return fmt.Sprintf(pageKeyNameTemplate, key)
}
