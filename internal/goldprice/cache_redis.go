package goldprice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"GoldStore/pkg/kit"
)

const defaultRedisKey = "goldstore:goldprice:quote"

// RedisCache shares the quote slot between storefront replicas. Redis errors
// degrade to a miss on read and a dropped write, never to a request failure.
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
	now Clock
	log *zap.Logger
}

type redisQuote struct {
	PricePerGram float64 `json:"price_per_gram"`
	ObtainedAtMs int64   `json:"obtained_at_ms"`
	Source       Source  `json:"source"`
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, now Clock, log *zap.Logger) *RedisCache {
	if now == nil {
		now = time.Now
	}
	return &RedisCache{rdb: rdb, key: defaultRedisKey, ttl: ttl, now: now, log: kit.OrNop(log)}
}

func (c *RedisCache) Get(ctx context.Context) (Quote, bool) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quote{}, false
	}
	if err != nil {
		c.log.Warn("redis quote read failed", zap.Error(err))
		return Quote{}, false
	}

	var rq redisQuote
	if err := json.Unmarshal(raw, &rq); err != nil {
		c.log.Warn("redis quote decode failed", zap.Error(err))
		return Quote{}, false
	}

	q := Quote{
		PricePerGram: rq.PricePerGram,
		ObtainedAt:   time.UnixMilli(rq.ObtainedAtMs),
		Source:       rq.Source,
	}
	if q.Expired(c.now(), c.ttl) || !(q.PricePerGram > 0) {
		return Quote{}, false
	}
	return q, true
}

func (c *RedisCache) Set(ctx context.Context, q Quote) {
	raw, err := json.Marshal(redisQuote{
		PricePerGram: q.PricePerGram,
		ObtainedAtMs: q.ObtainedAtMillis(),
		Source:       q.Source,
	})
	if err != nil {
		c.log.Warn("redis quote encode failed", zap.Error(err))
		return
	}

	remaining := c.ttl - c.now().Sub(q.ObtainedAt)
	if remaining <= 0 {
		return
	}
	if err := c.rdb.Set(ctx, c.key, raw, remaining).Err(); err != nil {
		c.log.Warn("redis quote write failed", zap.Error(err))
	}
}

func (c *RedisCache) IsExpired(ctx context.Context) bool {
	_, ok := c.Get(ctx)
	return !ok
}
