package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/enkhjin/monshop/internal/redisx"
)

// Cache keeps product listings in Redis so the hot read paths skip Postgres.
// Admin writes call Invalidate; entries also age out via TTL.
type Cache struct{ RDB *redis.Client }

func listKey(categorySlug string) string {
	if categorySlug == "" {
		categorySlug = "all"
	}
	return fmt.Sprintf(redisx.KeyProductList, categorySlug)
}

func (c *Cache) GetProducts(ctx context.Context, categorySlug string) ([]Product, bool) {
	s, err := c.RDB.Get(ctx, listKey(categorySlug)).Result()
	if err != nil || s == "" {
		return nil, false
	}
	var out []Product
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *Cache) SetProducts(ctx context.Context, categorySlug string, ps []Product) {
	b, err := json.Marshal(ps)
	if err != nil {
		return
	}
	_ = c.RDB.Set(ctx, listKey(categorySlug), b, redisx.TTLProductCache).Err()
}

// Invalidate drops every cached product listing.
func (c *Cache) Invalidate(ctx context.Context) {
	iter := c.RDB.Scan(ctx, 0, fmt.Sprintf(redisx.KeyProductList, "*"), 100).Iterator()
	for iter.Next(ctx) {
		_ = c.RDB.Del(ctx, iter.Val()).Err()
	}
}
