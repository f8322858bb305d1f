package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallbatch/roastery/internal/port"
)

// listingKeys is the full set of cacheable listing payloads; invalidation
// always drops all of them.
var listingKeys = []string{
	port.ListingKeyCatalogFresh,
	port.ListingKeyCatalogStale,
	port.ListingKeyInventory,
}

// RedisAdapter caches rendered listing payloads. Stock numbers are never
// authoritative here; the cache only saves the database a read between
// mutations.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetListing(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *RedisAdapter) SetListing(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, payload, ttl).Err()
}

func (r *RedisAdapter) InvalidateListings(ctx context.Context) error {
	return r.client.Del(ctx, listingKeys...).Err()
}
