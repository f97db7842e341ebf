package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"worksync/internal/model"
)

const productsKey = keyPrefix + "products:all"

// ProductCache holds the full catalog listing.
type ProductCache interface {
	Get(ctx context.Context) ([]model.Product, error)
	Set(ctx context.Context, products []model.Product) error
	Invalidate(ctx context.Context) error
}

type redisProductCache struct {
	rc  *RedisClient
	ttl time.Duration
}

func NewRedisProductCache(rc *RedisClient, ttl time.Duration) ProductCache {
	return &redisProductCache{rc: rc, ttl: ttl}
}

func (c *redisProductCache) Get(ctx context.Context) ([]model.Product, error) {
	data, err := c.rc.Get(ctx, productsKey)
	if err != nil {
		return nil, err
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *redisProductCache) Set(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.rc.Set(ctx, productsKey, data, c.ttl)
}

func (c *redisProductCache) Invalidate(ctx context.Context) error {
	return c.rc.Invalidate(ctx, productsKey)
}

// NopProductCache always misses.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context) ([]model.Product, error) { return nil, ErrCacheMiss }
func (NopProductCache) Set(context.Context, []model.Product) error { return nil }
func (NopProductCache) Invalidate(context.Context) error { return nil }

// GuardedProductCache counts invalidations so a listing read before a concurrent
// Invalidate is never written back. Services that invalidate the catalog must share
// one instance. Other processes are not covered and rely on the entry TTL.
type GuardedProductCache struct {
	ProductCache
	gen atomic.Uint64
}

func NewGuardedProductCache(inner ProductCache) *GuardedProductCache {
	if g, ok := inner.(*GuardedProductCache); ok {
		return g
	}
	return &GuardedProductCache{ProductCache: inner}
}

// Generation changes on every Invalidate.
func (c *GuardedProductCache) Generation() uint64 {
	return c.gen.Load()
}

func (c *GuardedProductCache) Invalidate(ctx context.Context) error {
	c.gen.Add(1)
	return c.ProductCache.Invalidate(ctx)
}

// SetIfCurrent stores products only if no Invalidate happened since gen was read.
// It reports whether the listing was kept.
func (c *GuardedProductCache) SetIfCurrent(ctx context.Context, gen uint64, products []model.Product) (bool, error) {
	if c.gen.Load() != gen {
		return false, nil
	}
	if err := c.ProductCache.Set(ctx, products); err != nil {
		return false, err
	}
	if c.gen.Load() != gen {
		// an Invalidate may have landed before the write
		return false, c.ProductCache.Invalidate(ctx)
	}
	return true, nil
}
