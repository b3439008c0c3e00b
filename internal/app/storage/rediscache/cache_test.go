package rediscache

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/storage/memory"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

func newIntegrationCache(t *testing.T) (*Cache, *redis.Client) {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	log := logger.NewDefault("rediscache-test")
	log.SetOutput(io.Discard)
	return New(memory.New(), client, time.Minute, log), client
}

func TestCacheIntegration_ReadThrough(t *testing.T) {
	cache, client := newIntegrationCache(t)
	ctx := context.Background()

	if _, err := cache.CreateComponent(ctx, catalog.Component{Kind: catalog.KindOil, Name: "Jojoba", PriceModifier: 2.00}); err != nil {
		t.Fatalf("create: %v", err)
	}

	oils, err := cache.ListComponents(ctx, catalog.KindOil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(oils) != 1 {
		t.Fatalf("expected 1 oil, got %d", len(oils))
	}

	// The list is now cached.
	if err := client.Get(ctx, "catalog:list:oil").Err(); err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}

	again, err := cache.ListComponents(ctx, catalog.KindOil)
	if err != nil {
		t.Fatalf("cached list: %v", err)
	}
	if len(again) != 1 || again[0].Name != "Jojoba" {
		t.Fatalf("unexpected cached result: %+v", again)
	}
}

func TestCacheIntegration_WritesInvalidate(t *testing.T) {
	cache, client := newIntegrationCache(t)
	ctx := context.Background()

	created, err := cache.CreateComponent(ctx, catalog.Component{Kind: catalog.KindExtract, Name: "Aloe Vera", PriceModifier: 1.50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cache.ListComponents(ctx, catalog.KindExtract); err != nil {
		t.Fatalf("list: %v", err)
	}

	created.PriceModifier = 1.75
	if _, err := cache.UpdateComponent(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := client.Get(ctx, "catalog:list:extract").Err(); err != redis.Nil {
		t.Fatalf("update did not invalidate list cache: %v", err)
	}

	extracts, err := cache.ListComponents(ctx, catalog.KindExtract)
	if err != nil {
		t.Fatalf("list after update: %v", err)
	}
	if extracts[0].PriceModifier != 1.75 {
		t.Fatalf("stale price modifier: %v", extracts[0].PriceModifier)
	}
}
