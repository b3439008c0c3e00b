package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu            sync.RWMutex
	nextID        int64
	components    map[string]catalog.Component
	componentSeq  []string
	cartItems     []formulation.Formulation
	subscriptions []storage.SubscriptionRecord
}

var _ storage.CatalogStore = (*Store)(nil)
var _ storage.CartStore = (*Store)(nil)
var _ storage.SubscriptionStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:     1,
		components: make(map[string]catalog.Component),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// CatalogStore implementation ------------------------------------------------

func (s *Store) CreateComponent(_ context.Context, c catalog.Component) (catalog.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.nextIDLocked()
	} else if _, exists := s.components[c.ID]; exists {
		return catalog.Component{}, fmt.Errorf("component %s already exists", c.ID)
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.components[c.ID] = c
	s.componentSeq = append(s.componentSeq, c.ID)
	return c, nil
}

func (s *Store) UpdateComponent(_ context.Context, c catalog.Component) (catalog.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.components[c.ID]
	if !ok {
		return catalog.Component{}, sql.ErrNoRows
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	s.components[c.ID] = c
	return c, nil
}

func (s *Store) GetComponent(_ context.Context, id string) (catalog.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.components[id]
	if !ok {
		return catalog.Component{}, sql.ErrNoRows
	}
	return c, nil
}

func (s *Store) ListComponents(_ context.Context, kind catalog.Kind) ([]catalog.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []catalog.Component
	for _, id := range s.componentSeq {
		c, ok := s.components[id]
		if !ok {
			continue
		}
		if kind == "" || c.Kind == kind {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) DeleteComponent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.components[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.components, id)
	for i, existing := range s.componentSeq {
		if existing == id {
			s.componentSeq = append(s.componentSeq[:i], s.componentSeq[i+1:]...)
			break
		}
	}
	return nil
}

// CartStore implementation ---------------------------------------------------

func (s *Store) AddCartItem(_ context.Context, item formulation.Formulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartItems = append(s.cartItems, item)
	return nil
}

func (s *Store) ListCartItems(_ context.Context) ([]formulation.Formulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]formulation.Formulation, len(s.cartItems))
	copy(out, s.cartItems)
	return out, nil
}

// SubscriptionStore implementation -------------------------------------------

func (s *Store) AddSubscription(_ context.Context, item formulation.Formulation, cadence string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, storage.SubscriptionRecord{Item: item, Cadence: cadence})
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]storage.SubscriptionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.SubscriptionRecord, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out, nil
}
