package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	app "github.com/aurelia-skincare/storefront/internal/app"
	"github.com/aurelia-skincare/storefront/internal/app/httpapi"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
	"github.com/aurelia-skincare/storefront/internal/app/storage/postgres"
	"github.com/aurelia-skincare/storefront/internal/app/storage/rediscache"
	"github.com/aurelia-skincare/storefront/internal/config"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config/storefront.yaml", "Path to YAML configuration")
		envFile    = flag.String("env", ".env", "Path to optional .env file")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Fatalf("load env (%s): %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.New("storefront", cfg.Logging.Level)

	stores := app.Stores{}
	if cfg.Database.DSN != "" {
		pgStore, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			lg.Fatalf("open postgres: %v", err)
		}
		if err := postgres.Migrate(pgStore.DB()); err != nil {
			lg.Fatalf("migrate postgres: %v", err)
		}

		var catalogStore storage.CatalogStore = pgStore
		if cfg.Redis.Addr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
			ttl := time.Duration(cfg.Redis.CacheTTLms) * time.Millisecond
			catalogStore = rediscache.New(pgStore, client, ttl, lg)
		}

		stores.Catalog = catalogStore
		stores.Cart = pgStore
		stores.Subscriptions = pgStore
	}

	registry := prometheus.NewRegistry()
	application, err := app.New(stores, app.Options{
		BasePrice:       cfg.Configurator.BasePrice,
		Category:        cfg.Configurator.Category,
		SizeLabel:       cfg.Configurator.SizeLabel,
		ComposerURL:     cfg.Composer.URL,
		RefreshSchedule: cfg.Catalog.RefreshSchedule,
		SeedCatalog:     cfg.Catalog.Seed,
		Registry:        registry,
	}, lg)
	if err != nil {
		lg.Fatalf("build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		lg.Fatalf("start application: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", httpapi.NewHandler(application))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.WithField("addr", cfg.Server.Addr).Info("storefront listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Errorf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.WithError(err).Warn("server shutdown incomplete")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		lg.WithError(err).Warn("application shutdown incomplete")
	}
}
