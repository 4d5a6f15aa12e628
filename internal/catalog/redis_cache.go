package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-kasir/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = redisx.TTLCatalog
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, token string) (*Snapshot, error) {
	data, err := r.client.Get(ctx, cacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var sj snapshotJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return NewSnapshot(sj.Products, sj.Categories, sj.FetchedAt), nil
}

func (r *RedisCache) Set(ctx context.Context, token string, s *Snapshot) error {
	b, err := json.Marshal(snapshotJSON{Products: s.products, Categories: s.categories, FetchedAt: s.fetchedAt})
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(token), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, cacheKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// token tidak disimpan mentah di key
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf(redisx.KeyCatalog, hex.EncodeToString(sum[:8]))
}
