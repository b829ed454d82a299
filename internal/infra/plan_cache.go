package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// planCachePrefix namespaces every cached planning result so invalidation
// can sweep them with one SCAN.
const planCachePrefix = "plan:"

// PlanCache stores serialized planning results in Redis with a TTL. Any
// write that can move demand or production (catalog, eventos, órdenes)
// invalidates the whole namespace: windows overlap, so per-key eviction
// would miss stale entries.
type PlanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPlanCache(rdb *redis.Client, ttl time.Duration) *PlanCache {
	return &PlanCache{rdb: rdb, ttl: ttl}
}

func (c *PlanCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *PlanCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("plan_cache: no se pudo guardar el resultado")
	}
}

func (c *PlanCache) Invalidate(ctx context.Context) {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, planCachePrefix+"*", 100).Result()
		if err != nil {
			log.Warn().Err(err).Msg("plan_cache: fallo el barrido de invalidación")
			return
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				log.Warn().Err(err).Msg("plan_cache: no se pudieron borrar claves")
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
