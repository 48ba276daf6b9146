package connector

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/job-radar/internal/logging"
)

const siteCachePrefix = "workday:site:"

// SiteCache memoizes the career site that actually served postings for a
// Workday tenant, so later runs skip the discovery round trips. Misses and
// Redis failures both fall back to rediscovery; the cache is an
// optimization, never a source of truth.
type SiteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSiteCache(client *redis.Client, ttl time.Duration) *SiteCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SiteCache{client: client, ttl: ttl}
}

// Get returns the memoized site for a tenant, if any.
func (c *SiteCache) Get(ctx context.Context, tenant string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	site, err := c.client.Get(ctx, siteCachePrefix+tenant).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logging.WithError(err).WithField("tenant", tenant).Debug("workday site cache read failed")
		return "", false
	}
	return site, site != ""
}

// Put records the site that produced postings for a tenant.
func (c *SiteCache) Put(ctx context.Context, tenant, site string) {
	if c == nil || c.client == nil || site == "" {
		return
	}
	if err := c.client.Set(ctx, siteCachePrefix+tenant, site, c.ttl).Err(); err != nil {
		logging.WithError(err).WithField("tenant", tenant).Debug("workday site cache write failed")
	}
}
