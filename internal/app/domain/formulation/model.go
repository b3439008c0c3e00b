package formulation

import "time"

// MaxExtracts caps how many botanical extracts one formulation may carry.
const MaxExtracts = 2

// Steps is the number of wizard steps. Step 1 picks the base oil, 2 the
// extracts, 3 the active function, 4 reviews, 5 is the purchase step.
const Steps = 5

// Selection is the partial state of one configurator session. ExtractIDs
// preserves selection order; uniqueness is enforced by the session.
type Selection struct {
	Step       int
	OilID      string
	ExtractIDs []string
	FunctionID string
}

// Complete reports whether all three component choices have been made.
func (s Selection) Complete() bool {
	return s.OilID != "" && len(s.ExtractIDs) > 0 && s.FunctionID != ""
}

// QuoteStatus tracks the lifecycle of an asynchronous price computation.
type QuoteStatus string

const (
	QuoteIdle     QuoteStatus = "idle"
	QuotePending  QuoteStatus = "pending"
	QuoteResolved QuoteStatus = "resolved"
	QuoteFailed   QuoteStatus = "failed"
)

// Quote is the derived price for the current selection. Value is only
// meaningful when Status is resolved; a failed quote retains no stale value.
type Quote struct {
	Value  float64
	Status QuoteStatus
	Err    string
}

// PurchaseMode selects which sink receives a finalized formulation.
type PurchaseMode string

const (
	PurchaseOneTime   PurchaseMode = "one_time"
	PurchaseRecurring PurchaseMode = "recurring"
)

// Formulation is the purchasable artifact produced at finalization.
// Immutable after creation; ownership transfers to the receiving sink.
type Formulation struct {
	SyntheticID int64
	DisplayName string
	Price       float64
	Image       string
	SizeLabel   string
	SKU         string
	CreatedAt   time.Time
}
