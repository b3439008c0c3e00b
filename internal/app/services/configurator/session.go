package configurator

import (
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
)

// Session is the selection state machine for one configurator wizard.
// Steps run 1..5: base oil, extracts, active function, review, purchase.
// Forward navigation is gated on the current step's selection; every
// rejected operation is a no-op reported through the returned bool so
// callers and tests can observe it. Session is not safe for concurrent
// use; the owning service serializes access.
type Session struct {
	step       int
	oilID      string
	extractIDs []string
	functionID string
}

// NewSession creates an empty session at step 1.
func NewSession() *Session {
	return &Session{step: 1}
}

// Step returns the current wizard step.
func (s *Session) Step() int { return s.step }

// Selection returns a copy of the current partial selection.
func (s *Session) Selection() formulation.Selection {
	extracts := make([]string, len(s.extractIDs))
	copy(extracts, s.extractIDs)
	return formulation.Selection{
		Step:       s.step,
		OilID:      s.oilID,
		ExtractIDs: extracts,
		FunctionID: s.functionID,
	}
}

// SelectOil sets the base oil. Catalog membership is the caller's
// responsibility; the session only records the choice.
func (s *Session) SelectOil(id string) bool {
	if id == "" {
		return false
	}
	s.oilID = id
	return true
}

// ToggleExtract adds or removes an extract. Adding beyond the cap is
// rejected; the UI renders a saturated selection as disabled, not as an
// error.
func (s *Session) ToggleExtract(id string) bool {
	if id == "" {
		return false
	}
	for i, existing := range s.extractIDs {
		if existing == id {
			s.extractIDs = append(s.extractIDs[:i], s.extractIDs[i+1:]...)
			return true
		}
	}
	if len(s.extractIDs) >= formulation.MaxExtracts {
		return false
	}
	s.extractIDs = append(s.extractIDs, id)
	return true
}

// SelectFunction sets the active function.
func (s *Session) SelectFunction(id string) bool {
	if id == "" {
		return false
	}
	s.functionID = id
	return true
}

// CanAdvance reports whether the current step's selection predicate holds.
// Steps 4 and 5 have no selection precondition.
func (s *Session) CanAdvance() bool {
	switch s.step {
	case 1:
		return s.oilID != ""
	case 2:
		return len(s.extractIDs) > 0
	case 3:
		return s.functionID != ""
	default:
		return true
	}
}

// Advance moves one step forward when the gate allows it.
func (s *Session) Advance() bool {
	if s.step >= formulation.Steps || !s.CanAdvance() {
		return false
	}
	s.step++
	return true
}

// Retreat moves one step backward. The terminal purchase step is not
// navigable backward.
func (s *Session) Retreat() bool {
	if s.step <= 1 || s.step == formulation.Steps {
		return false
	}
	s.step--
	return true
}

// ProgressFraction returns step/5 for display.
func (s *Session) ProgressFraction() float64 {
	return float64(s.step) / float64(formulation.Steps)
}
