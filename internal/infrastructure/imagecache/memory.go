package imagecache

import (
	"fmt"
	"time"

	"storefront-client/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache service
// defaultExpiration: default TTL for items
// cleanupInterval: how often to scan for expired items
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}

// Resolver maps product ids to image-proxy URLs. Resolved URLs are
// cached with a TTL so repeated snapshot fills stay off the hot path.
type Resolver struct {
	cache   cache.CacheService
	baseURL string
	ttl     time.Duration
}

func NewResolver(c cache.CacheService, baseURL string, ttl time.Duration) *Resolver {
	return &Resolver{cache: c, baseURL: baseURL, ttl: ttl}
}

// Resolve returns the proxy URL for the product's image.
func (r *Resolver) Resolve(productID int) string {
	key := fmt.Sprintf("img:%d", productID)
	if v, ok := r.cache.Get(key); ok {
		if url, ok := v.(string); ok {
			return url
		}
	}
	url := fmt.Sprintf("%s/api/v1/images/products/%d", r.baseURL, productID)
	r.cache.Set(key, url, r.ttl)
	return url
}
