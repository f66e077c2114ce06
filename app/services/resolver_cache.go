package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/Ankushsph/fuel/models"
	"github.com/redis/go-redis/v9"
)

// CachedDriverResolver is a read-through Redis cache over a DriverResolver.
// Only the plate-to-wallet mapping is cached, never a balance, so a stale
// entry can at worst point at a wallet whose balance is re-read under lock
// anyway. Unresolved plates are not cached: a driver registering a vehicle
// must become resolvable immediately.
type CachedDriverResolver struct {
	next businessflow.DriverResolver
	rc   *redis.Client
	ttl  time.Duration
}

// NewCachedDriverResolver wraps a resolver with a Redis cache. A nil
// client disables caching and delegates directly.
func NewCachedDriverResolver(next businessflow.DriverResolver, rc *redis.Client, ttl time.Duration) businessflow.DriverResolver {
	if rc == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedDriverResolver{next: next, rc: rc, ttl: ttl}
}

// Resolve tries the cache first and falls back to the wrapped resolver.
// Cache errors degrade to a direct lookup.
func (r *CachedDriverResolver) Resolve(ctx context.Context, vehicleNumber string) (*businessflow.ResolvedDriver, error) {
	key := resolverCacheKey(vehicleNumber)

	if bs, err := r.rc.Get(ctx, key).Bytes(); err == nil && len(bs) > 0 {
		var cached businessflow.ResolvedDriver
		if err := json.Unmarshal(bs, &cached); err == nil {
			return &cached, nil
		}
	}

	resolved, err := r.next.Resolve(ctx, vehicleNumber)
	if err != nil || resolved == nil {
		return resolved, err
	}

	if bs, err := json.Marshal(resolved); err == nil {
		_ = r.rc.Set(ctx, key, bs, r.ttl).Err()
	}
	return resolved, nil
}

// Invalidate drops a plate's cached mapping. Call it when a vehicle is
// re-registered to a different driver.
func (r *CachedDriverResolver) Invalidate(ctx context.Context, vehicleNumber string) error {
	return r.rc.Del(ctx, resolverCacheKey(vehicleNumber)).Err()
}

func resolverCacheKey(vehicleNumber string) string {
	return fmt.Sprintf("escrow:resolver:%s", models.NormalizePlate(vehicleNumber))
}
