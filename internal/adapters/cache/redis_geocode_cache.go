package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/platform/obs"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "geocode:"

type redisCoords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RedisGeocodeCache is a Redis-backed cache mapping addresses to coordinates.
// Entries expire after TTL; a zero TTL keeps them forever.
type RedisGeocodeCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisGeocodeCache(rdb redis.UniversalClient, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb, ttl: ttl, prefix: defaultKeyPrefix}
}

// NewRedisGeocodeCacheFromURL parses a redis:// URL and verifies the server is reachable.
func NewRedisGeocodeCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisGeocodeCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis geocode cache: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis geocode cache: ping: %w", err)
	}

	return NewRedisGeocodeCache(rdb, ttl), nil
}

func (r *RedisGeocodeCache) key(normalized string) string { return r.prefix + normalized }

// Fetch cached coordinates for the given addresses.
func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.GetMany")(&err)

	if r.rdb == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	keys, originals := normalizeKeys(addresses)
	if len(keys) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	redisKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		redisKeys = append(redisKeys, r.key(k))
	}

	vals, err := r.rdb.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var rc redisCoords
		if err := json.Unmarshal([]byte(s), &rc); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", keys[i], err)
		}

		for _, a := range originals[keys[i]] {
			out[a] = domain.Coordinates{Lat: rc.Lat, Lon: rc.Lon}
		}
	}

	return out, nil
}

// Store address -> coordinate mappings in the cache.
func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.rdb == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.rdb.TxPipeline()
	for addr, c := range results {
		key := NormalizeAddress(addr)
		if key == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}
		if !c.Valid() {
			return fmt.Errorf("insert geocode cache address=%q: invalid coordinates %v", addr, c)
		}

		payload, err := json.Marshal(redisCoords{Lat: c.Lat, Lon: c.Lon})
		if err != nil {
			return fmt.Errorf("insert geocode cache address=%q: encode: %w", addr, err)
		}
		pipe.Set(ctx, r.key(key), payload, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: exec pipeline: %w", err)
	}

	return nil
}

func (r *RedisGeocodeCache) Close() error {
	return r.rdb.Close()
}
