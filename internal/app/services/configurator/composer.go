package configurator

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/httputil"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// Composer computes the total price for a selection. Implementations may be
// slow; callers invoke them off the request path.
type Composer interface {
	Compose(ctx context.Context, sel formulation.Selection, basePrice float64) (float64, error)
}

// ComposerFunc adapts a function to the Composer interface.
type ComposerFunc func(ctx context.Context, sel formulation.Selection, basePrice float64) (float64, error)

func (f ComposerFunc) Compose(ctx context.Context, sel formulation.Selection, basePrice float64) (float64, error) {
	if f == nil {
		return 0, fmt.Errorf("no composer configured")
	}
	return f(ctx, sel, basePrice)
}

// SnapshotProvider supplies the catalog view the local composer prices
// against.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (catalog.Snapshot, error)
}

// LocalComposer evaluates the price formula against the catalog:
// total = basePrice + oil + sum(extracts) + function, summed without
// intermediate rounding.
type LocalComposer struct {
	catalog SnapshotProvider
}

// NewLocalComposer creates a composer backed by the given catalog.
func NewLocalComposer(provider SnapshotProvider) *LocalComposer {
	return &LocalComposer{catalog: provider}
}

func (c *LocalComposer) Compose(ctx context.Context, sel formulation.Selection, basePrice float64) (float64, error) {
	snap, err := c.catalog.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	total := basePrice
	ids := make([]string, 0, len(sel.ExtractIDs)+2)
	ids = append(ids, sel.OilID)
	ids = append(ids, sel.ExtractIDs...)
	ids = append(ids, sel.FunctionID)
	for _, id := range ids {
		component, ok := snap.Lookup(id)
		if !ok {
			return 0, fmt.Errorf("unknown component %q", id)
		}
		total += component.PriceModifier
	}
	return total, nil
}

// HTTPComposer delegates price composition to a remote pricing endpoint.
// Requests are rate limited client-side so a click-happy wizard cannot
// flood the service.
type HTTPComposer struct {
	client  *httputil.ServiceClient
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewHTTPComposer creates a composer calling POST {baseURL}/compose.
func NewHTTPComposer(baseURL string, log *logger.Logger) (*HTTPComposer, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("composer base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid composer base URL: %w", err)
	}
	if log == nil {
		log = logger.NewDefault("price-composer")
	}
	return &HTTPComposer{
		client:  httputil.NewServiceClient(httputil.ServiceClientConfig{BaseURL: baseURL}),
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		log:     log,
	}, nil
}

type composeRequest struct {
	OilID      string   `json:"oil_id"`
	ExtractIDs []string `json:"extract_ids"`
	FunctionID string   `json:"function_id"`
	BasePrice  float64  `json:"base_price"`
}

type composeResponse struct {
	Price float64 `json:"price"`
}

func (c *HTTPComposer) Compose(ctx context.Context, sel formulation.Selection, basePrice float64) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req := composeRequest{
		OilID:      sel.OilID,
		ExtractIDs: sel.ExtractIDs,
		FunctionID: sel.FunctionID,
		BasePrice:  basePrice,
	}
	resp, err := c.client.Post(ctx, "/compose", req)
	if err != nil {
		return 0, fmt.Errorf("compose request: %w", err)
	}

	var out composeResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return 0, err
	}
	return out.Price, nil
}
