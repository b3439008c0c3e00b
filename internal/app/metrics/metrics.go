// Package metrics exposes Prometheus collectors for the storefront services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates the application's Prometheus collectors. A nil *Metrics
// is valid and records nothing, so services can run unmetered in tests.
type Metrics struct {
	sessionsCreated prometheus.Counter
	quoteOutcomes   *prometheus.CounterVec
	staleDiscarded  prometheus.Counter
	finalizations   *prometheus.CounterVec
}

// New registers the application collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "configurator_sessions_created_total",
			Help: "Number of configurator wizard sessions created.",
		}),
		quoteOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "configurator_quote_resolutions_total",
			Help: "Price quote resolutions by outcome.",
		}, []string{"outcome"}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "configurator_stale_quotes_discarded_total",
			Help: "Quote responses discarded because a newer request superseded them.",
		}),
		finalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "configurator_finalizations_total",
			Help: "Finalized formulations by purchase mode.",
		}, []string{"mode"}),
	}
	if reg != nil {
		reg.MustRegister(m.sessionsCreated, m.quoteOutcomes, m.staleDiscarded, m.finalizations)
	}
	return m
}

// SessionCreated counts one new wizard session.
func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

// QuoteResolved counts one quote resolution outcome ("resolved" or "failed").
func (m *Metrics) QuoteResolved(outcome string) {
	if m == nil {
		return
	}
	m.quoteOutcomes.WithLabelValues(outcome).Inc()
}

// StaleQuoteDiscarded counts one superseded quote response.
func (m *Metrics) StaleQuoteDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscarded.Inc()
}

// Finalized counts one finalization by purchase mode.
func (m *Metrics) Finalized(mode string) {
	if m == nil {
		return
	}
	m.finalizations.WithLabelValues(mode).Inc()
}
