package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AdminSessions stores admin login tokens with a TTL.
type AdminSessions struct{ RDB *redis.Client }

func (s *AdminSessions) Put(ctx context.Context, token string) error {
	return s.RDB.Set(ctx, fmt.Sprintf(KeyAdminSession, token), "1", TTLAdminSession).Err()
}

func (s *AdminSessions) Check(ctx context.Context, token string) bool {
	ok, err := Exists(ctx, s.RDB, fmt.Sprintf(KeyAdminSession, token))
	return err == nil && ok
}
