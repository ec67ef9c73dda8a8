// internal/places/cache.go
package places

import (
	"context"
	"encoding/json"
	"time"

	"leadscout/internal/common/database"
	"leadscout/internal/common/logger"
	"leadscout/internal/common/metrics"
	"leadscout/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "leadscout:detail:"

// DetailCache caches place-detail lookups in redis. Websites change rarely
// relative to how often popular categories are searched, so a TTL cache
// saves one provider call per repeated place. Every cache failure falls
// through to the live lookup.
type DetailCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewDetailCache(rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *DetailCache {
	return &DetailCache{
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "detail-cache"}),
	}
}

// Get returns the cached detail for a place id, or ok=false on miss or any
// redis/decode error.
func (c *DetailCache) Get(ctx context.Context, placeID string) (*models.PlaceDetail, bool) {
	raw, err := c.redis.Get(ctx, cacheKeyPrefix+placeID)
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache lookup failed", map[string]interface{}{
				"placeId": placeID,
				"error":   err.Error(),
			})
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var detail models.PlaceDetail
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &detail, true
}

// Put stores a detail lookup result. Failures are logged and ignored.
func (c *DetailCache) Put(ctx context.Context, placeID string, detail *models.PlaceDetail) {
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKeyPrefix+placeID, string(raw), c.ttl); err != nil {
		c.logger.Warn("cache store failed", map[string]interface{}{
			"placeId": placeID,
			"error":   err.Error(),
		})
	}
}
