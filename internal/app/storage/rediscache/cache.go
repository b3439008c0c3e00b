// Package rediscache layers a Redis read-through cache over a CatalogStore.
// The component catalog is small and changes rarely, so list reads are the
// hot path worth caching.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

const defaultTTL = 5 * time.Minute

// Cache wraps a CatalogStore with Redis-backed list caching. Cache failures
// degrade to direct store reads; they never fail the request.
type Cache struct {
	next   storage.CatalogStore
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

var _ storage.CatalogStore = (*Cache)(nil)

// New wraps next with a Redis cache.
func New(next storage.CatalogStore, client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = logger.NewDefault("catalog-cache")
	}
	return &Cache{next: next, client: client, ttl: ttl, log: log}
}

func listKey(kind catalog.Kind) string {
	if kind == "" {
		return "catalog:list:all"
	}
	return "catalog:list:" + string(kind)
}

func (c *Cache) ListComponents(ctx context.Context, kind catalog.Kind) ([]catalog.Component, error) {
	key := listKey(kind)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var items []catalog.Component
		if err := json.Unmarshal(cached, &items); err == nil {
			return items, nil
		}
		// Corrupt entry; fall through to the store and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Warn("catalog cache read failed")
	}

	items, err := c.next.ListComponents(ctx, kind)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("catalog cache write failed")
		}
	}
	return items, nil
}

func (c *Cache) GetComponent(ctx context.Context, id string) (catalog.Component, error) {
	return c.next.GetComponent(ctx, id)
}

func (c *Cache) CreateComponent(ctx context.Context, component catalog.Component) (catalog.Component, error) {
	created, err := c.next.CreateComponent(ctx, component)
	if err == nil {
		c.invalidate(ctx, created.Kind)
	}
	return created, err
}

func (c *Cache) UpdateComponent(ctx context.Context, component catalog.Component) (catalog.Component, error) {
	updated, err := c.next.UpdateComponent(ctx, component)
	if err == nil {
		c.invalidate(ctx, updated.Kind)
	}
	return updated, err
}

func (c *Cache) DeleteComponent(ctx context.Context, id string) error {
	component, err := c.next.GetComponent(ctx, id)
	if err != nil {
		return err
	}
	if err := c.next.DeleteComponent(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, component.Kind)
	return nil
}

func (c *Cache) invalidate(ctx context.Context, kind catalog.Kind) {
	if err := c.client.Del(ctx, listKey(kind), listKey("")).Err(); err != nil {
		c.log.WithError(err).Warn("catalog cache invalidation failed")
	}
}
