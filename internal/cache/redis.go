package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/technewwings/payload-ecommerce-cod/domain"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, codOrderID string) (*domain.CODStatus, error) {
	key := statusKey(codOrderID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var status domain.CODStatus
	if err2 := json.Unmarshal(data, &status); err2 != nil {
		return nil, fmt.Errorf("unmarshal status failed: %w", err2)
	}

	return &status, nil
}

func (r RedisCache) Set(ctx context.Context, codOrderID string, status *domain.CODStatus) error {
	key := statusKey(codOrderID)
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal status failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, key, string(data), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, codOrderID string) error {
	if ret := r.client.Del(ctx, statusKey(codOrderID)); ret.Err() != nil {
		return fmt.Errorf("redis del failed: %w", ret.Err())
	}
	return nil
}

func statusKey(codOrderID string) string {
	return "cod:status:" + codOrderID
}

// RedisGuard implements ConfirmGuard with a SET NX lock per COD order ID.
type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g RedisGuard) Acquire(ctx context.Context, codOrderID string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardKey(codOrderID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

func (g RedisGuard) Release(ctx context.Context, codOrderID string) error {
	if ret := g.client.Del(ctx, guardKey(codOrderID)); ret.Err() != nil {
		return fmt.Errorf("redis del failed: %w", ret.Err())
	}
	return nil
}

func guardKey(codOrderID string) string {
	return "cod:confirm:" + codOrderID
}
