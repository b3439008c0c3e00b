package storage

import (
	"context"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
)

// CatalogStore persists configurator components.
type CatalogStore interface {
	CreateComponent(ctx context.Context, c catalog.Component) (catalog.Component, error)
	UpdateComponent(ctx context.Context, c catalog.Component) (catalog.Component, error)
	GetComponent(ctx context.Context, id string) (catalog.Component, error)
	ListComponents(ctx context.Context, kind catalog.Kind) ([]catalog.Component, error)
	DeleteComponent(ctx context.Context, id string) error
}

// CartStore persists one-time purchase line items handed off by the finalizer.
type CartStore interface {
	AddCartItem(ctx context.Context, item formulation.Formulation) error
	ListCartItems(ctx context.Context) ([]formulation.Formulation, error)
}

// SubscriptionStore persists recurring purchase intents.
type SubscriptionStore interface {
	AddSubscription(ctx context.Context, item formulation.Formulation, cadence string) error
	ListSubscriptions(ctx context.Context) ([]SubscriptionRecord, error)
}

// SubscriptionRecord pairs a finalized formulation with its billing cadence.
type SubscriptionRecord struct {
	Item    formulation.Formulation
	Cadence string
}
