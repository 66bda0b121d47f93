//go:build integration

package containers

import (
	"context"
	"testing"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"trustestate/internal/platform/config"
	redisclient "trustestate/internal/platform/redis"
)

// RedisContainer is a disposable Redis reached through the same client the
// server uses.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	URL       string
	*redisclient.Client
}

func newRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err == nil {
		var client *redisclient.Client
		client, err = redisclient.New(ctx, config.RedisConfig{URL: url, PoolSize: 4})
		if err == nil {
			return &RedisContainer{Container: container, URL: url, Client: client}
		}
	}
	_ = container.Terminate(ctx)
	t.Fatalf("connect redis: %v", err)
	return nil
}

// FlushAll clears every key between tests.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
