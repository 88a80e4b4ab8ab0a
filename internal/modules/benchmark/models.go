package benchmark

import (
	"errors"

	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// ErrNoData marks a customer with no segment assignment, no sales, or zero
// spend in the window. A normal empty-result outcome, not a failure: callers
// render "no opportunities".
var ErrNoData = errors.New("no benchmark data for customer")

// ErrInsufficientPeers marks a micro-segment that stays empty even after the
// relaxed peer search. Also a normal empty-result outcome.
var ErrInsufficientPeers = errors.New("no peers found for micro-segment")

// Opportunity is a subcategory where the customer spends less than the
// leaders of its micro-segment suggest. Computed on demand, never persisted.
type Opportunity struct {
	Subcategory   string
	IdealAmount   float64
	ActualAmount  float64
	GapAmount     float64
	GapPct        float64
	IdealSharePct float64
	LeaderCount   int
}

// MonthlyPotential spreads the annual gap over twelve months.
func (o Opportunity) MonthlyPotential() float64 {
	return formulas.Round2(o.GapAmount / 12)
}

// Priority buckets the gap percentage for the presentation layer.
func (o Opportunity) Priority() string {
	switch {
	case o.GapPct >= 60:
		return "high"
	case o.GapPct >= 40:
		return "medium"
	default:
		return "low"
	}
}
