package benchmark

import (
	"sort"

	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// AnalyzeGaps projects the ideal basket onto the target's total spend and
// keeps the subcategories where the shortfall is both positive and at least
// minGapPct of the ideal amount. Results are sorted by gap amount descending
// (stable for equal gaps) and truncated to maxGaps.
//
// actual maps subcategory to the target's own window spend; totalSpend is its
// sum. A zero totalSpend yields no opportunities.
func AnalyzeGaps(basket, actual map[string]float64, totalSpend float64, minGapPct float64, maxGaps, leaderCount int) []Opportunity {
	if totalSpend <= 0 || len(basket) == 0 {
		return nil
	}

	opportunities := make([]Opportunity, 0, len(basket))
	for subcategory, sharePct := range basket {
		ideal := totalSpend * (sharePct / 100)
		real := actual[subcategory]
		gap := ideal - real

		gapPct := 0.0
		if ideal > 0 {
			gapPct = gap / ideal * 100
		}

		if gap > 0 && gapPct >= minGapPct {
			opportunities = append(opportunities, Opportunity{
				Subcategory:   subcategory,
				IdealAmount:   formulas.Round2(ideal),
				ActualAmount:  formulas.Round2(real),
				GapAmount:     formulas.Round2(gap),
				GapPct:        formulas.Round2(gapPct),
				IdealSharePct: sharePct,
				LeaderCount:   leaderCount,
			})
		}
	}

	// Map iteration order is random; sort by subcategory first so equal gap
	// amounts keep a stable relative order across runs.
	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].Subcategory < opportunities[j].Subcategory
	})
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].GapAmount > opportunities[j].GapAmount
	})

	if maxGaps > 0 && len(opportunities) > maxGaps {
		opportunities = opportunities[:maxGaps]
	}

	return opportunities
}
