package tracking

import (
	"context"
	"strconv"

	"autoshop/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisTracker keeps per-product and per-category counters in redis hashes.
type RedisTracker struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisTracker(rdb *redis.Client, prefix string) *RedisTracker {
	if prefix == "" {
		prefix = "autoshop"
	}
	return &RedisTracker{rdb: rdb, prefix: prefix}
}

func (t *RedisTracker) ViewsKey() string                  { return t.prefix + ":tracking:product-views" }
func (t *RedisTracker) ImpressionsKey(list string) string { return t.prefix + ":tracking:impressions:" + list }
func (t *RedisTracker) CategoryViewsKey() string          { return t.prefix + ":tracking:category-views" }

func (t *RedisTracker) TrackProductView(ctx context.Context, p domain.Product) error {
	return t.rdb.HIncrBy(ctx, t.ViewsKey(), strconv.FormatInt(p.ProductID(), 10), 1).Err()
}

func (t *RedisTracker) TrackProductImpression(ctx context.Context, p domain.Product, list string) error {
	return t.rdb.HIncrBy(ctx, t.ImpressionsKey(list), strconv.FormatInt(p.ProductID(), 10), 1).Err()
}

func (t *RedisTracker) TrackCategoryPageView(ctx context.Context, category string, _ string) error {
	return t.rdb.HIncrBy(ctx, t.CategoryViewsKey(), category, 1).Err()
}
