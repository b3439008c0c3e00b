package catalog

import "time"

// Kind distinguishes the three component lists the configurator consumes.
type Kind string

const (
	KindOil      Kind = "oil"
	KindExtract  Kind = "extract"
	KindFunction Kind = "function"
)

// Component is one selectable catalog entry: a base oil, a botanical
// extract, or an active function. PriceModifier is a fixed additive
// surcharge applied on top of the base price.
type Component struct {
	ID            string
	Kind          Kind
	Name          string
	PriceModifier float64
	Icon          string
	// Ingredients is populated for active functions only and preserves
	// the catalog's ordering.
	Ingredients []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot is a read-only view of the full component catalog, keyed for
// the lookups the pricing path needs.
type Snapshot struct {
	Oils      []Component
	Extracts  []Component
	Functions []Component

	byID map[string]Component
}

// NewSnapshot builds a snapshot with its lookup index.
func NewSnapshot(oils, extracts, functions []Component) Snapshot {
	snap := Snapshot{
		Oils:      oils,
		Extracts:  extracts,
		Functions: functions,
		byID:      make(map[string]Component, len(oils)+len(extracts)+len(functions)),
	}
	for _, list := range [][]Component{oils, extracts, functions} {
		for _, c := range list {
			snap.byID[c.ID] = c
		}
	}
	return snap
}

// Lookup returns the component with the given id, if present.
func (s Snapshot) Lookup(id string) (Component, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Empty reports whether the snapshot carries no components.
func (s Snapshot) Empty() bool {
	return len(s.Oils) == 0 && len(s.Extracts) == 0 && len(s.Functions) == 0
}
