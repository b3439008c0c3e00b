package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aurelia-skincare/storefront/internal/app/system"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

var _ system.Service = (*Refresher)(nil)

// Refresher reloads the cached catalog snapshot on a cron schedule so the
// configurator prices against reasonably fresh component data without
// querying the store on every request.
type Refresher struct {
	service  *Service
	log      *logger.Logger
	schedule string

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewRefresher creates a lifecycle-managed catalog refresher. An empty
// schedule defaults to an hourly reload.
func NewRefresher(service *Service, schedule string, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.NewDefault("catalog-refresher")
	}
	if schedule == "" {
		schedule = "@every 1h"
	}
	return &Refresher{
		service:  service,
		log:      log,
		schedule: schedule,
	}
}

func (r *Refresher) Name() string { return "catalog-refresher" }

func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(r.schedule, func() { r.reload() }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", r.schedule, err)
	}
	c.Start()
	r.cron = c
	r.running = true

	// Warm the cache immediately rather than waiting for the first tick.
	r.reload()

	r.log.WithField("schedule", r.schedule).Info("catalog refresher started")
	return nil
}

func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	c := r.cron
	running := r.running
	r.cron = nil
	r.running = false
	r.mu.Unlock()

	if !running || c == nil {
		return nil
	}

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	r.log.Info("catalog refresher stopped")
	return nil
}

func (r *Refresher) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.service.Reload(ctx); err != nil {
		r.log.WithError(err).Warn("catalog reload failed")
	}
}
