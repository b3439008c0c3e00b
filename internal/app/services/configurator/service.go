package configurator

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	"github.com/aurelia-skincare/storefront/internal/app/metrics"
	"github.com/aurelia-skincare/storefront/pkg/logger"
)

// ErrSessionNotFound is returned for unknown or already-finalized sessions.
var ErrSessionNotFound = errors.New("configurator session not found")

// State is the wizard view handed to the presentation layer.
type State struct {
	ID         string
	Selection  formulation.Selection
	Quote      formulation.Quote
	CanAdvance bool
	Progress   float64
}

// Service owns the live configurator sessions. Each session pairs a
// selection state machine with its own price resolver; selection changes
// trigger an asynchronous quote refresh.
type Service struct {
	composer  Composer
	finalizer *Finalizer
	basePrice float64
	metrics   *metrics.Metrics
	log       *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*sessionState
}

type sessionState struct {
	mu       sync.Mutex
	session  *Session
	resolver *Resolver
}

// New constructs the configurator service.
func New(composer Composer, finalizer *Finalizer, basePrice float64, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("configurator")
	}
	return &Service{
		composer:  composer,
		finalizer: finalizer,
		basePrice: basePrice,
		metrics:   m,
		log:       log,
		sessions:  make(map[string]*sessionState),
	}
}

// CreateSession starts a new wizard session and returns its state.
func (s *Service) CreateSession(ctx context.Context) State {
	id := uuid.NewString()
	st := &sessionState{
		session:  NewSession(),
		resolver: NewResolver(s.composer, s.basePrice, s.metrics, s.log),
	}

	s.mu.Lock()
	s.sessions[id] = st
	s.mu.Unlock()

	s.metrics.SessionCreated()
	s.log.WithField("session_id", id).Info("configurator session created")
	return s.snapshot(id, st)
}

// GetSession returns the current state of a session.
func (s *Service) GetSession(id string) (State, error) {
	st, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.snapshotLocked(id, st), nil
}

// SelectOil records the base oil choice and refreshes the quote.
func (s *Service) SelectOil(ctx context.Context, id, componentID string) (State, bool, error) {
	return s.mutate(ctx, id, true, func(sess *Session) bool {
		return sess.SelectOil(componentID)
	})
}

// ToggleExtract adds or removes an extract and refreshes the quote.
func (s *Service) ToggleExtract(ctx context.Context, id, componentID string) (State, bool, error) {
	return s.mutate(ctx, id, true, func(sess *Session) bool {
		return sess.ToggleExtract(componentID)
	})
}

// SelectFunction records the active function choice and refreshes the quote.
func (s *Service) SelectFunction(ctx context.Context, id, componentID string) (State, bool, error) {
	return s.mutate(ctx, id, true, func(sess *Session) bool {
		return sess.SelectFunction(componentID)
	})
}

// Advance moves the wizard one step forward when its gate allows.
func (s *Service) Advance(ctx context.Context, id string) (State, bool, error) {
	return s.mutate(ctx, id, false, func(sess *Session) bool {
		return sess.Advance()
	})
}

// Retreat moves the wizard one step backward.
func (s *Service) Retreat(ctx context.Context, id string) (State, bool, error) {
	return s.mutate(ctx, id, false, func(sess *Session) bool {
		return sess.Retreat()
	})
}

// Quote returns the session's current price quote.
func (s *Service) Quote(id string) (formulation.Quote, error) {
	st, err := s.lookup(id)
	if err != nil {
		return formulation.Quote{}, err
	}
	return st.resolver.Quote(), nil
}

// Finalize converts the session into a purchasable artifact, hands it to
// the sink selected by mode, and discards the session on success.
func (s *Service) Finalize(ctx context.Context, id string, mode formulation.PurchaseMode) (formulation.Formulation, error) {
	st, err := s.lookup(id)
	if err != nil {
		return formulation.Formulation{}, err
	}

	st.mu.Lock()
	sel := st.session.Selection()
	quote := st.resolver.Quote()
	st.mu.Unlock()

	item, err := s.finalizer.Finalize(ctx, sel, quote, mode)
	if err != nil {
		return formulation.Formulation{}, err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.log.WithField("session_id", id).
		WithField("sku", item.SKU).
		Info("configurator session finalized")
	return item, nil
}

// Discard drops a session without finalizing, mirroring a wizard unmount.
func (s *Service) Discard(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// WaitForQuote blocks until the session has no in-flight composition.
// Intended for tests.
func (s *Service) WaitForQuote(id string) error {
	st, err := s.lookup(id)
	if err != nil {
		return err
	}
	st.resolver.Wait()
	return nil
}

func (s *Service) lookup(id string) (*sessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return st, nil
}

func (s *Service) mutate(ctx context.Context, id string, pricing bool, op func(*Session) bool) (State, bool, error) {
	st, err := s.lookup(id)
	if err != nil {
		return State{}, false, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	applied := op(st.session)
	if applied && pricing {
		st.resolver.Refresh(st.session.Selection())
	}
	return s.snapshotLocked(id, st), applied, nil
}

func (s *Service) snapshot(id string, st *sessionState) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.snapshotLocked(id, st)
}

func (s *Service) snapshotLocked(id string, st *sessionState) State {
	return State{
		ID:         id,
		Selection:  st.session.Selection(),
		Quote:      st.resolver.Quote(),
		CanAdvance: st.session.CanAdvance(),
		Progress:   st.session.ProgressFraction(),
	}
}
