// Package app wires the storefront services together and manages their
// lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aurelia-skincare/storefront/internal/app/metrics"
	cartsvc "github.com/aurelia-skincare/storefront/internal/app/services/cart"
	catalogsvc "github.com/aurelia-skincare/storefront/internal/app/services/catalog"
	configuratorsvc "github.com/aurelia-skincare/storefront/internal/app/services/configurator"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
	"github.com/aurelia-skincare/storefront/internal/app/storage/memory"
	"github.com/aurelia-skincare/storefront/internal/app/system"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Catalog       storage.CatalogStore
	Cart          storage.CartStore
	Subscriptions storage.SubscriptionStore
}

// Options tunes application behavior beyond persistence.
type Options struct {
	// BasePrice is the fixed starting price every formulation builds on.
	BasePrice float64
	// Category names the product family in finalized display names.
	Category string
	// SizeLabel is the fill size shown on finalized line items.
	SizeLabel string
	// ComposerURL, when set, routes price composition to a remote service
	// instead of the local formula evaluator.
	ComposerURL string
	// RefreshSchedule is the cron spec for catalog snapshot reloads.
	RefreshSchedule string
	// SeedCatalog inserts the default component set into an empty store.
	SeedCatalog bool
	// Registry receives the application's Prometheus collectors.
	Registry prometheus.Registerer
}

// defaultBasePrice matches the storefront's stock cream price.
const defaultBasePrice = 25.00

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Catalog      *catalogsvc.Service
	Configurator *configuratorsvc.Service
	Cart         *cartsvc.Service
	Metrics      *metrics.Metrics
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Catalog == nil {
		stores.Catalog = mem
	}
	if stores.Cart == nil {
		stores.Cart = mem
	}
	if stores.Subscriptions == nil {
		stores.Subscriptions = mem
	}
	if opts.BasePrice == 0 {
		opts.BasePrice = defaultBasePrice
	}

	m := metrics.New(opts.Registry)

	catalogService := catalogsvc.New(stores.Catalog, log)
	if opts.SeedCatalog {
		if err := catalogService.Seed(context.Background()); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	cartService := cartsvc.New(stores.Cart, stores.Subscriptions, log)

	var composer configuratorsvc.Composer
	if opts.ComposerURL != "" {
		remote, err := configuratorsvc.NewHTTPComposer(opts.ComposerURL, log)
		if err != nil {
			return nil, fmt.Errorf("configure remote composer: %w", err)
		}
		composer = remote
	} else {
		composer = configuratorsvc.NewLocalComposer(catalogService)
	}

	finalizer := configuratorsvc.NewFinalizer(
		catalogService, cartService, cartService,
		opts.Category, opts.SizeLabel, m, log)
	configuratorService := configuratorsvc.New(composer, finalizer, opts.BasePrice, m, log)

	manager := system.NewManager()
	refresher := catalogsvc.NewRefresher(catalogService, opts.RefreshSchedule, log)
	if err := manager.Register(refresher); err != nil {
		return nil, err
	}

	return &Application{
		manager:      manager,
		log:          log,
		Catalog:      catalogService,
		Configurator: configuratorService,
		Cart:         cartService,
		Metrics:      m,
	}, nil
}

// Start launches the background services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop halts the background services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
