package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	infraredis "github.com/iho/bookkeeper/internal/infrastructure/redis"
)

// newTestRedisClient connects through the production client setup so the
// cache and idempotency stores see the same options the server uses.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := infraredis.NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}

	return client, mr
}
