// Package cart receives finalized formulations as one-time purchases or
// recurring subscription intents. Quantity and total arithmetic live with
// the checkout surface, not here.
package cart

import (
	"context"

	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/app/storage"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// monthlyCadence is the only subscription cadence the storefront sells.
const monthlyCadence = "monthly"

// Service persists finalized formulations handed off by the configurator.
type Service struct {
	carts storage.CartStore
	subs  storage.SubscriptionStore
	log   *logger.Logger
}

// New constructs a cart service.
func New(carts storage.CartStore, subs storage.SubscriptionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("cart")
	}
	return &Service{carts: carts, subs: subs, log: log}
}

// AddToCart accepts a one-time purchase line item.
func (s *Service) AddToCart(ctx context.Context, item formulation.Formulation) error {
	if err := s.carts.AddCartItem(ctx, item); err != nil {
		return err
	}
	s.log.WithField("sku", item.SKU).Info("item added to cart")
	return nil
}

// Subscribe accepts a recurring purchase intent at the monthly cadence.
func (s *Service) Subscribe(ctx context.Context, item formulation.Formulation) error {
	if err := s.subs.AddSubscription(ctx, item, monthlyCadence); err != nil {
		return err
	}
	s.log.WithField("sku", item.SKU).Info("subscription created")
	return nil
}

// Items lists the current cart contents.
func (s *Service) Items(ctx context.Context) ([]formulation.Formulation, error) {
	return s.carts.ListCartItems(ctx)
}

// Plans lists the recorded subscription intents.
func (s *Service) Plans(ctx context.Context) ([]storage.SubscriptionRecord, error) {
	return s.subs.ListSubscriptions(ctx)
}
