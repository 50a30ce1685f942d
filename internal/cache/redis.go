package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/config"
	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	spacesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, spacesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		spacesTTL: spacesTTL,
	}
}

func (c *RedisCache) GetSpaces(ctx context.Context) ([]domain.Space, error) {
	data, err := c.client.Get(ctx, spacesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var spaces []domain.Space
	if err := json.Unmarshal(data, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

func (c *RedisCache) SetSpaces(ctx context.Context, spaces []domain.Space) error {
	payload, err := json.Marshal(spaces)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, spacesKey(), payload, c.spacesTTL).Err()
}

func (c *RedisCache) InvalidateSpaces(ctx context.Context) error {
	return c.client.Del(ctx, spacesKey()).Err()
}

// AcquireSpaceLock serializes booking and deletion against a single space.
// The TTL bounds the lock in case a holder dies before releasing it.
func (c *RedisCache) AcquireSpaceLock(ctx context.Context, spaceID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, spaceLockKey(spaceID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSpaceLock(ctx context.Context, spaceID int64) error {
	return c.client.Del(ctx, spaceLockKey(spaceID)).Err()
}

func spacesKey() string {
	return "cache:spaces"
}

func spaceLockKey(spaceID int64) string {
	return fmt.Sprintf("lock:space:%d", spaceID)
}
