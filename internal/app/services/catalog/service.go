package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// ListStatus reports the load state of one component list. Callers poll it
// instead of receiving errors; retry is a caller concern.
type ListStatus struct {
	Loaded bool
	Err    string
}

// Status aggregates the load state of the three component lists.
type Status struct {
	Oils      ListStatus
	Extracts  ListStatus
	Functions ListStatus
}

// Service exposes the read-only component catalog the configurator consumes.
type Service struct {
	store storage.CatalogStore
	log   *logger.Logger

	mu     sync.RWMutex
	status Status
	cached catalog.Snapshot
}

// New constructs a catalog service.
func New(store storage.CatalogStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{store: store, log: log}
}

// CreateComponent registers a new catalog component.
func (s *Service) CreateComponent(ctx context.Context, c catalog.Component) (catalog.Component, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return catalog.Component{}, fmt.Errorf("name is required")
	}
	switch c.Kind {
	case catalog.KindOil, catalog.KindExtract, catalog.KindFunction:
	default:
		return catalog.Component{}, fmt.Errorf("unknown component kind %q", c.Kind)
	}
	if c.PriceModifier < 0 {
		return catalog.Component{}, fmt.Errorf("price_modifier must not be negative")
	}
	if c.Kind != catalog.KindFunction && len(c.Ingredients) > 0 {
		return catalog.Component{}, fmt.Errorf("ingredients are only valid for active functions")
	}

	c, err := s.store.CreateComponent(ctx, c)
	if err != nil {
		return catalog.Component{}, err
	}
	s.log.WithField("component_id", c.ID).
		WithField("kind", c.Kind).
		Info("catalog component created")
	return c, nil
}

// Oils returns the base oil list.
func (s *Service) Oils(ctx context.Context) ([]catalog.Component, error) {
	return s.list(ctx, catalog.KindOil)
}

// Extracts returns the botanical extract list.
func (s *Service) Extracts(ctx context.Context) ([]catalog.Component, error) {
	return s.list(ctx, catalog.KindExtract)
}

// Functions returns the active function list.
func (s *Service) Functions(ctx context.Context) ([]catalog.Component, error) {
	return s.list(ctx, catalog.KindFunction)
}

// Component retrieves a single component by id.
func (s *Service) Component(ctx context.Context, id string) (catalog.Component, error) {
	return s.store.GetComponent(ctx, id)
}

// Snapshot loads all three lists into one read-only view and records the
// per-list load status.
func (s *Service) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	oils, oilsErr := s.list(ctx, catalog.KindOil)
	extracts, extractsErr := s.list(ctx, catalog.KindExtract)
	functions, functionsErr := s.list(ctx, catalog.KindFunction)

	for _, err := range []error{oilsErr, extractsErr, functionsErr} {
		if err != nil {
			return catalog.Snapshot{}, err
		}
	}
	return catalog.NewSnapshot(oils, extracts, functions), nil
}

// Reload replaces the cached snapshot with a fresh load from the store.
func (s *Service) Reload(ctx context.Context) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cached = snap
	s.mu.Unlock()
	return nil
}

// Cached returns the last reloaded snapshot. It may be empty before the
// first Reload.
func (s *Service) Cached() catalog.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}

// Status returns the last observed load state of each component list.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Service) list(ctx context.Context, kind catalog.Kind) ([]catalog.Component, error) {
	items, err := s.store.ListComponents(ctx, kind)
	s.setStatus(kind, err)
	return items, err
}

func (s *Service) setStatus(kind catalog.Kind, err error) {
	st := ListStatus{Loaded: err == nil}
	if err != nil {
		st.Err = err.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case catalog.KindOil:
		s.status.Oils = st
	case catalog.KindExtract:
		s.status.Extracts = st
	case catalog.KindFunction:
		s.status.Functions = st
	}
}
