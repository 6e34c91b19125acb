package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Deduper marks event ids as seen so a consumer can skip redeliveries.
type Deduper struct {
	RDB     *redis.Client
	Service string
}

// Seen reports whether id was already processed and marks it either way.
func (d *Deduper) Seen(ctx context.Context, id string) (bool, error) {
	key := fmt.Sprintf(KeyDedup, d.Service, id)
	ok, err := d.RDB.SetNX(ctx, key, "1", TTLDedup).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
