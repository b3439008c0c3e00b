package configurator

import (
	"context"
	"sync"
	"time"

	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/app/metrics"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// defaultComposeTimeout bounds a single price composition call. A request
// that outlives it is reported as failed rather than left pending forever.
const defaultComposeTimeout = 5 * time.Second

// Resolver keeps a price quote synchronized with the selection it was
// issued for. Every Refresh supersedes all earlier in-flight requests via a
// monotonically increasing token; a response is applied only if its token
// is still the latest, so a slow early response can never overwrite the
// price of a newer selection.
type Resolver struct {
	composer  Composer
	basePrice float64
	timeout   time.Duration
	log       *logger.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	token    uint64
	quote    formulation.Quote
	inflight sync.WaitGroup
}

// NewResolver creates a resolver. The quote starts idle.
func NewResolver(composer Composer, basePrice float64, m *metrics.Metrics, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewDefault("price-resolver")
	}
	return &Resolver{
		composer:  composer,
		basePrice: basePrice,
		timeout:   defaultComposeTimeout,
		log:       log,
		metrics:   m,
		quote:     formulation.Quote{Status: formulation.QuoteIdle},
	}
}

// Quote returns the current quote snapshot.
func (r *Resolver) Quote() formulation.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quote
}

// Refresh recomputes the quote for the given selection. When oil or
// function is missing, the quote resets to idle and any in-flight request
// is invalidated. Otherwise the quote turns pending and the composer is
// invoked asynchronously. The composition runs detached from the caller's
// context: the request that triggered it may complete long before the
// composer returns.
func (r *Resolver) Refresh(sel formulation.Selection) {
	r.mu.Lock()
	r.token++

	if sel.OilID == "" || sel.FunctionID == "" {
		r.quote = formulation.Quote{Status: formulation.QuoteIdle}
		r.mu.Unlock()
		return
	}

	mine := r.token
	r.quote = formulation.Quote{Status: formulation.QuotePending}
	r.mu.Unlock()

	r.inflight.Add(1)
	go r.resolve(sel, mine)
}

func (r *Resolver) resolve(sel formulation.Selection, mine uint64) {
	defer r.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	price, err := r.composer.Compose(ctx, sel, r.basePrice)

	r.mu.Lock()
	defer r.mu.Unlock()

	if mine != r.token {
		// A newer selection superseded this request; its result no longer
		// corresponds to what the shopper sees.
		r.metrics.StaleQuoteDiscarded()
		return
	}

	if err != nil {
		r.quote = formulation.Quote{Status: formulation.QuoteFailed, Err: err.Error()}
		r.metrics.QuoteResolved("failed")
		r.log.WithError(err).Warn("price composition failed")
		return
	}
	r.quote = formulation.Quote{Value: price, Status: formulation.QuoteResolved}
	r.metrics.QuoteResolved("resolved")
}

// Wait blocks until all in-flight compositions have completed or been
// discarded. Intended for tests and shutdown.
func (r *Resolver) Wait() {
	r.inflight.Wait()
}
