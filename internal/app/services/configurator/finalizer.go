package configurator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/app/metrics"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// ErrQuoteUnresolved rejects finalization before a price has resolved. The
// wizard must keep the purchase affordance blocked until then.
var ErrQuoteUnresolved = errors.New("price quote is not resolved")

// ErrUnknownPurchaseMode rejects finalization with an unrecognized mode.
var ErrUnknownPurchaseMode = errors.New("unknown purchase mode")

// CartSink accepts a finalized formulation as a one-time purchase line item.
type CartSink interface {
	AddToCart(ctx context.Context, item formulation.Formulation) error
}

// SubscriptionSink accepts a finalized formulation as a monthly recurring
// purchase intent.
type SubscriptionSink interface {
	Subscribe(ctx context.Context, item formulation.Formulation) error
}

// Finalizer converts a complete selection and a resolved quote into a
// purchasable artifact and hands it to exactly one sink. It retains nothing
// after the handoff.
type Finalizer struct {
	catalog      SnapshotProvider
	cart         CartSink
	subscription SubscriptionSink
	category     string
	sizeLabel    string
	metrics      *metrics.Metrics
	log          *logger.Logger
	rand         *rand.Rand
}

// NewFinalizer constructs a finalizer. Category names the product family
// in the display name ("Face Cream" by default); sizeLabel is the fill
// size shown on the line item.
func NewFinalizer(catalog SnapshotProvider, cart CartSink, subscription SubscriptionSink, category, sizeLabel string, m *metrics.Metrics, log *logger.Logger) *Finalizer {
	if log == nil {
		log = logger.NewDefault("finalizer")
	}
	if category == "" {
		category = "Face Cream"
	}
	if sizeLabel == "" {
		sizeLabel = "50ml"
	}
	return &Finalizer{
		catalog:      catalog,
		cart:         cart,
		subscription: subscription,
		category:     category,
		sizeLabel:    sizeLabel,
		metrics:      m,
		log:          log,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Finalize builds the purchasable artifact and hands it to the sink chosen
// by mode. The caller is responsible for passing a complete selection; the
// quote must be resolved or the call fails with ErrQuoteUnresolved.
func (f *Finalizer) Finalize(ctx context.Context, sel formulation.Selection, quote formulation.Quote, mode formulation.PurchaseMode) (formulation.Formulation, error) {
	if quote.Status != formulation.QuoteResolved {
		return formulation.Formulation{}, ErrQuoteUnresolved
	}

	item, err := f.build(ctx, sel, quote.Value)
	if err != nil {
		return formulation.Formulation{}, err
	}

	switch mode {
	case formulation.PurchaseOneTime:
		if err := f.cart.AddToCart(ctx, item); err != nil {
			return formulation.Formulation{}, fmt.Errorf("cart handoff: %w", err)
		}
	case formulation.PurchaseRecurring:
		if err := f.subscription.Subscribe(ctx, item); err != nil {
			return formulation.Formulation{}, fmt.Errorf("subscription handoff: %w", err)
		}
	default:
		return formulation.Formulation{}, fmt.Errorf("%w: %q", ErrUnknownPurchaseMode, mode)
	}

	f.metrics.Finalized(string(mode))
	f.log.WithField("sku", item.SKU).
		WithField("mode", mode).
		Info("formulation finalized")
	return item, nil
}

func (f *Finalizer) build(ctx context.Context, sel formulation.Selection, price float64) (formulation.Formulation, error) {
	snap, err := f.catalog.Snapshot(ctx)
	if err != nil {
		return formulation.Formulation{}, fmt.Errorf("load catalog: %w", err)
	}

	name := func(id string) (string, error) {
		c, ok := snap.Lookup(id)
		if !ok {
			return "", fmt.Errorf("unknown component %q", id)
		}
		return c.Name, nil
	}

	oilName, err := name(sel.OilID)
	if err != nil {
		return formulation.Formulation{}, err
	}
	fnName, err := name(sel.FunctionID)
	if err != nil {
		return formulation.Formulation{}, err
	}

	display := fmt.Sprintf("Custom %s - %s", f.category, oilName)
	for _, id := range sel.ExtractIDs {
		extractName, err := name(id)
		if err != nil {
			return formulation.Formulation{}, err
		}
		display += " + " + extractName
	}
	display += fmt.Sprintf(" (%s)", fnName)

	now := time.Now()
	return formulation.Formulation{
		SyntheticID: now.UnixMilli()*1000 + f.rand.Int63n(1000),
		DisplayName: display,
		Price:       price,
		Image:       "/images/custom-formulation.png",
		SizeLabel:   f.sizeLabel,
		SKU: fmt.Sprintf("FORM-%s-%s-%d",
			strings.ToUpper(sel.OilID), strings.ToUpper(sel.FunctionID), now.Unix()),
		CreatedAt: now.UTC(),
	}, nil
}
