package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin optional wrapper around redis for hot read paths.
// A nil *Cache is valid and disables caching everywhere.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redis; returns nil (caching off) when addr is empty
// or the server is unreachable.
func New(addr, password string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] redis unavailable at %s, caching disabled: %v", addr, err)
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key builds a stable cache key from any JSON-encodable query signature.
func Key(prefix string, sig interface{}) string {
	b, _ := json.Marshal(sig)
	sum := sha1.Sum(b)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Get unmarshals a cached value into dest. Returns false on miss or any
// redis error; failures never propagate to the caller.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false
	}
	return true
}

// Set stores a value with the configured TTL, best-effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", key, err)
	}
}
