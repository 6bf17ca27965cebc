package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern. On a hit the cached JSON is
// unmarshalled into dest. On a miss the loader runs, and its result
// (already written into dest by the loader) is cached with the given TTL.
// When Redis is unavailable the loader runs directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func() error) error {
	if client == nil {
		return loader()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry, drop it and fall through to the loader.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis error other than a miss. Serve from the source.
		return loader()
	}

	if err := loader(); err != nil {
		return err
	}

	if raw, err := json.Marshal(dest); err == nil {
		client.Set(ctx, key, raw, ttl)
	}

	return nil
}
