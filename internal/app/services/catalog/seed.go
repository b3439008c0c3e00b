package catalog

import (
	"context"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
)

// defaultComponents is the starter component set used when the backing store
// is empty, mirroring the brand's stock formulation options.
var defaultComponents = []catalog.Component{
	{ID: "jojoba", Kind: catalog.KindOil, Name: "Jojoba", PriceModifier: 2.00, Icon: "🌰"},
	{ID: "argan", Kind: catalog.KindOil, Name: "Argan", PriceModifier: 3.50, Icon: "🌿"},
	{ID: "almond", Kind: catalog.KindOil, Name: "Sweet Almond", PriceModifier: 1.50, Icon: "🌸"},
	{ID: "avocado", Kind: catalog.KindOil, Name: "Avocado", PriceModifier: 2.50, Icon: "🥑"},

	{ID: "aloe", Kind: catalog.KindExtract, Name: "Aloe Vera", PriceModifier: 1.50, Icon: "🪴"},
	{ID: "rosehip", Kind: catalog.KindExtract, Name: "Rosehip", PriceModifier: 2.50, Icon: "🌹"},
	{ID: "chamomile", Kind: catalog.KindExtract, Name: "Chamomile", PriceModifier: 1.00, Icon: "🌼"},
	{ID: "greentea", Kind: catalog.KindExtract, Name: "Green Tea", PriceModifier: 2.00, Icon: "🍵"},

	{ID: "hydrating", Kind: catalog.KindFunction, Name: "Hydrating", PriceModifier: 3.00, Icon: "💧",
		Ingredients: []string{"Hyaluronic Acid", "Glycerin", "Squalane"}},
	{ID: "antiaging", Kind: catalog.KindFunction, Name: "Anti-Aging", PriceModifier: 4.00, Icon: "✨",
		Ingredients: []string{"Retinol", "Peptides", "Vitamin E"}},
	{ID: "brightening", Kind: catalog.KindFunction, Name: "Brightening", PriceModifier: 3.50, Icon: "🌟",
		Ingredients: []string{"Vitamin C", "Niacinamide", "Licorice Root"}},
}

// Seed inserts the default component set when the store holds no components.
// It is idempotent across restarts.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.store.ListComponents(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, c := range defaultComponents {
		if _, err := s.store.CreateComponent(ctx, c); err != nil {
			return err
		}
	}
	s.log.WithField("components", len(defaultComponents)).Info("catalog seeded")
	return nil
}
